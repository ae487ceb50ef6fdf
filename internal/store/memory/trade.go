package memory

import (
	"context"
	"sync"

	"tradedesk/internal/domain"
)

// TradeStore is a thread-safe in-memory store for trades. Trades are
// insert-only and kept in execution order.
type TradeStore struct {
	mu      sync.RWMutex
	trades  map[string]*domain.Trade
	byStock map[string][]string // stock_id → trade ids (chronological)
	order   []string            // all trade ids, chronological
}

// NewTradeStore creates an empty TradeStore.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		trades:  make(map[string]*domain.Trade),
		byStock: make(map[string][]string),
	}
}

// Get retrieves a trade by ID. It returns domain.ErrTradeNotFound if the
// trade does not exist.
func (s *TradeStore) Get(_ context.Context, id string) (*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.trades[id]
	if !ok {
		return nil, domain.ErrTradeNotFound
	}
	cp := *t
	return &cp, nil
}

// GetByStock returns the stock's trades in chronological order.
func (s *TradeStore) GetByStock(_ context.Context, stockID string) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byStock[stockID]
	result := make([]*domain.Trade, 0, len(ids))
	for _, id := range ids {
		cp := *s.trades[id]
		result = append(result, &cp)
	}
	return result, nil
}

// MostRecent returns up to n trades, most recent first.
func (s *TradeStore) MostRecent(_ context.Context, n int) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Trade, 0, n)
	for i := len(s.order) - 1; i >= 0 && len(result) < n; i-- {
		cp := *s.trades[s.order[i]]
		result = append(result, &cp)
	}
	return result, nil
}

// Insert appends the trade.
func (s *TradeStore) Insert(_ context.Context, t *domain.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *t
	s.trades[t.ID] = &cp
	s.byStock[t.StockID] = append(s.byStock[t.StockID], t.ID)
	s.order = append(s.order, t.ID)
	return nil
}
