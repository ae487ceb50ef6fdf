package memory

import (
	"context"
	"sync"

	"tradedesk/internal/domain"
)

type holdingKey struct {
	accountID string
	stockID   string
}

// HoldingStore is a thread-safe in-memory store for portfolio holdings,
// with a primary index by id and a unique index by (account, stock).
type HoldingStore struct {
	mu        sync.RWMutex
	holdings  map[string]*domain.PortfolioHolding
	byPair    map[holdingKey]string // (account, stock) → id
	byAccount map[string][]string   // account_id → holding ids (insertion order)
}

// NewHoldingStore creates an empty HoldingStore.
func NewHoldingStore() *HoldingStore {
	return &HoldingStore{
		holdings:  make(map[string]*domain.PortfolioHolding),
		byPair:    make(map[holdingKey]string),
		byAccount: make(map[string][]string),
	}
}

// GetByAccount returns the account's holdings in creation order.
func (s *HoldingStore) GetByAccount(_ context.Context, accountID string) ([]*domain.PortfolioHolding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.PortfolioHolding, 0)
	for _, id := range s.byAccount[accountID] {
		if h, ok := s.holdings[id]; ok {
			cp := *h
			result = append(result, &cp)
		}
	}
	return result, nil
}

// GetByAccountAndStock returns the account's holding in the stock, or
// domain.ErrHoldingNotFound when the account has no position in it.
func (s *HoldingStore) GetByAccountAndStock(_ context.Context, accountID, stockID string) (*domain.PortfolioHolding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPair[holdingKey{accountID, stockID}]
	if !ok {
		return nil, domain.ErrHoldingNotFound
	}
	cp := *s.holdings[id]
	return &cp, nil
}

// Save upserts the holding and maintains the indexes.
func (s *HoldingStore) Save(_ context.Context, h *domain.PortfolioHolding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *h
	if _, exists := s.holdings[h.ID]; !exists {
		s.byPair[holdingKey{h.AccountID, h.StockID}] = h.ID
		s.byAccount[h.AccountID] = append(s.byAccount[h.AccountID], h.ID)
	}
	s.holdings[h.ID] = &cp
	return nil
}

// Delete removes the holding. Deleting an absent holding is a no-op.
func (s *HoldingStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.holdings[id]
	if !ok {
		return nil
	}
	delete(s.holdings, id)
	delete(s.byPair, holdingKey{h.AccountID, h.StockID})

	ids := s.byAccount[h.AccountID]
	for i, hid := range ids {
		if hid == id {
			s.byAccount[h.AccountID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}
