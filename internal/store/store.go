// Package store defines the abstract repositories the engine persists
// through. Two implementations exist: store/memory (mutex-guarded maps)
// and store/postgres (pgx connection pool).
package store

import (
	"context"

	"tradedesk/internal/domain"
)

// AccountStore persists accounts.
type AccountStore interface {
	Get(ctx context.Context, id string) (*domain.Account, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	// Save upserts the account.
	Save(ctx context.Context, a *domain.Account) error
}

// StockStore persists stocks. The engine only reads; Save exists for
// seeding reference data.
type StockStore interface {
	Get(ctx context.Context, id string) (*domain.Stock, error)
	GetBySymbol(ctx context.Context, symbol string) (*domain.Stock, error)
	GetBySector(ctx context.Context, sector string) ([]*domain.Stock, error)
	Save(ctx context.Context, s *domain.Stock) error
}

// OrderStore persists orders.
type OrderStore interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	GetByAccount(ctx context.Context, accountID string) ([]*domain.Order, error)
	GetByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)
	// GetByStockAndStatus returns matching orders ordered by creation
	// time descending (most recently created first).
	GetByStockAndStatus(ctx context.Context, stockID string, status domain.OrderStatus) ([]*domain.Order, error)
	// Save upserts the order.
	Save(ctx context.Context, o *domain.Order) error
	// Transition atomically moves the order from one status to another
	// and stamps UpdatedAt. It returns domain.ErrOrderNotFound if the
	// order does not exist and domain.ErrOrderNotPending if its current
	// status is not from. The returned order reflects the new status.
	Transition(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error)
}

// TradeStore persists trades. Trades are insert-only.
type TradeStore interface {
	Get(ctx context.Context, id string) (*domain.Trade, error)
	GetByStock(ctx context.Context, stockID string) ([]*domain.Trade, error)
	// MostRecent returns up to n trades ordered by execution time
	// descending.
	MostRecent(ctx context.Context, n int) ([]*domain.Trade, error)
	Insert(ctx context.Context, t *domain.Trade) error
}

// HoldingStore persists portfolio holdings.
type HoldingStore interface {
	GetByAccount(ctx context.Context, accountID string) ([]*domain.PortfolioHolding, error)
	// GetByAccountAndStock returns domain.ErrHoldingNotFound when the
	// account has no position in the stock.
	GetByAccountAndStock(ctx context.Context, accountID, stockID string) (*domain.PortfolioHolding, error)
	// Save upserts the holding.
	Save(ctx context.Context, h *domain.PortfolioHolding) error
	Delete(ctx context.Context, id string) error
}

// Store aggregates the per-entity repositories and provides the unit-of-
// work boundary every mutation path runs inside.
type Store interface {
	Accounts() AccountStore
	Stocks() StockStore
	Orders() OrderStore
	Trades() TradeStore
	Holdings() HoldingStore

	// Atomic executes fn as a single unit of work. The Store passed to
	// fn must be used for every read and write inside the section. An
	// error from fn aborts the unit of work and is returned unchanged.
	//
	// The memory implementation serializes Atomic sections behind one
	// mutex and cannot undo writes, so callers must perform every
	// precondition check before the first write. The postgres
	// implementation maps Atomic to a transaction and rolls back on
	// error.
	Atomic(ctx context.Context, fn func(Store) error) error
}
