// Package memory provides a thread-safe in-memory implementation of the
// store interfaces, used by tests and the default server configuration.
package memory

import (
	"context"
	"sync"

	"tradedesk/internal/store"
)

// Store aggregates the in-memory per-entity stores.
type Store struct {
	// txMu serializes Atomic sections. The memory store cannot undo
	// writes, so units of work are single-writer instead: no other
	// Atomic section observes or interleaves with a running one.
	txMu sync.Mutex

	accounts *AccountStore
	stocks   *StockStore
	orders   *OrderStore
	trades   *TradeStore
	holdings *HoldingStore
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		accounts: NewAccountStore(),
		stocks:   NewStockStore(),
		orders:   NewOrderStore(),
		trades:   NewTradeStore(),
		holdings: NewHoldingStore(),
	}
}

// Accounts returns the account store.
func (s *Store) Accounts() store.AccountStore { return s.accounts }

// Stocks returns the stock store.
func (s *Store) Stocks() store.StockStore { return s.stocks }

// Orders returns the order store.
func (s *Store) Orders() store.OrderStore { return s.orders }

// Trades returns the trade store.
func (s *Store) Trades() store.TradeStore { return s.trades }

// Holdings returns the holding store.
func (s *Store) Holdings() store.HoldingStore { return s.holdings }

// Atomic runs fn while holding the unit-of-work mutex. Atomic sections
// must not nest: fn must not call Atomic on the store it receives.
func (s *Store) Atomic(_ context.Context, fn func(store.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}
