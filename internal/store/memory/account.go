package memory

import (
	"context"
	"sync"

	"tradedesk/internal/domain"
)

// AccountStore is a thread-safe in-memory store for accounts, with a
// primary index by id and secondary indexes by owner and account number.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	byOwner  map[string][]string // owner_id → account ids (insertion order)
	byNumber map[string]string   // account_number → id
}

// NewAccountStore creates an empty AccountStore.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[string]*domain.Account),
		byOwner:  make(map[string][]string),
		byNumber: make(map[string]string),
	}
}

// Get retrieves an account by ID. It returns domain.ErrAccountNotFound
// if the account does not exist.
func (s *AccountStore) Get(_ context.Context, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

// GetByOwner returns the owner's accounts in creation order.
func (s *AccountStore) GetByOwner(_ context.Context, ownerID string) ([]*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byOwner[ownerID]
	result := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		cp := *s.accounts[id]
		result = append(result, &cp)
	}
	return result, nil
}

// GetByNumber retrieves an account by its account number. It returns
// domain.ErrAccountNotFound if no account carries the number.
func (s *AccountStore) GetByNumber(_ context.Context, accountNumber string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byNumber[accountNumber]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *s.accounts[id]
	return &cp, nil
}

// Save upserts the account and maintains the secondary indexes.
func (s *AccountStore) Save(_ context.Context, a *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *a
	if _, exists := s.accounts[a.ID]; !exists {
		s.byOwner[a.OwnerID] = append(s.byOwner[a.OwnerID], a.ID)
		s.byNumber[a.AccountNumber] = a.ID
	}
	s.accounts[a.ID] = &cp
	return nil
}
