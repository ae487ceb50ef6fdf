package memory

import (
	"context"
	"sync"

	"tradedesk/internal/domain"
)

// StockStore is a thread-safe in-memory store for stocks, with a primary
// index by id and a secondary index by symbol.
type StockStore struct {
	mu       sync.RWMutex
	stocks   map[string]*domain.Stock
	bySymbol map[string]string // symbol → id
	order    []string          // insertion order, for stable sector listings
}

// NewStockStore creates an empty StockStore.
func NewStockStore() *StockStore {
	return &StockStore{
		stocks:   make(map[string]*domain.Stock),
		bySymbol: make(map[string]string),
	}
}

// Get retrieves a stock by ID. It returns domain.ErrStockNotFound if the
// stock does not exist.
func (s *StockStore) Get(_ context.Context, id string) (*domain.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stocks[id]
	if !ok {
		return nil, domain.ErrStockNotFound
	}
	cp := *st
	return &cp, nil
}

// GetBySymbol retrieves a stock by its symbol. It returns
// domain.ErrStockNotFound if no stock carries the symbol.
func (s *StockStore) GetBySymbol(_ context.Context, symbol string) (*domain.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySymbol[symbol]
	if !ok {
		return nil, domain.ErrStockNotFound
	}
	cp := *s.stocks[id]
	return &cp, nil
}

// GetBySector returns all stocks in the sector, in insertion order.
func (s *StockStore) GetBySector(_ context.Context, sector string) ([]*domain.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Stock, 0)
	for _, id := range s.order {
		if st := s.stocks[id]; st.Sector == sector {
			cp := *st
			result = append(result, &cp)
		}
	}
	return result, nil
}

// Save upserts the stock and maintains the symbol index.
func (s *StockStore) Save(_ context.Context, st *domain.Stock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *st
	if _, exists := s.stocks[st.ID]; !exists {
		s.order = append(s.order, st.ID)
		s.bySymbol[st.Symbol] = st.ID
	}
	s.stocks[st.ID] = &cp
	return nil
}
