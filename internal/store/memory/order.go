package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/btree"

	"tradedesk/internal/domain"
)

// orderEntry is the key type for the per-stock order index: stock id
// ascending, then creation time descending, then order id. Within one
// stock, iteration therefore yields the most recently created order
// first. pivot entries sort before every real entry of the same stock
// and are only used to seed range scans.
type orderEntry struct {
	StockID   string
	CreatedAt time.Time
	OrderID   string
	pivot     bool
}

func orderEntryLess(a, b orderEntry) bool {
	if a.StockID != b.StockID {
		return a.StockID < b.StockID
	}
	if a.pivot != b.pivot {
		return a.pivot
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.OrderID < b.OrderID
}

// OrderStore is a thread-safe in-memory store for orders, with a primary
// index by id, a secondary index by account, and a B-tree index by
// (stock, created_at desc) backing the matching engine's ordered
// retrieval of pending orders.
type OrderStore struct {
	mu        sync.RWMutex
	orders    map[string]*domain.Order
	byAccount map[string][]string // account_id → order ids (insertion order)
	byStock   *btree.BTreeG[orderEntry]
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	const degree = 32
	return &OrderStore{
		orders:    make(map[string]*domain.Order),
		byAccount: make(map[string][]string),
		byStock:   btree.NewG[orderEntry](degree, orderEntryLess),
	}
}

// Get retrieves an order by ID. It returns domain.ErrOrderNotFound if
// the order does not exist.
func (s *OrderStore) Get(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

// GetByAccount returns the account's orders in creation order.
func (s *OrderStore) GetByAccount(_ context.Context, accountID string) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byAccount[accountID]
	result := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		cp := *s.orders[id]
		result = append(result, &cp)
	}
	return result, nil
}

// GetByStatus returns all orders with the given status.
func (s *OrderStore) GetByStatus(_ context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Order, 0)
	for _, o := range s.orders {
		if o.Status == status {
			cp := *o
			result = append(result, &cp)
		}
	}
	return result, nil
}

// GetByStockAndStatus returns the stock's orders with the given status,
// most recently created first.
func (s *OrderStore) GetByStockAndStatus(_ context.Context, stockID string, status domain.OrderStatus) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Order, 0)
	s.byStock.AscendGreaterOrEqual(orderEntry{StockID: stockID, pivot: true}, func(e orderEntry) bool {
		if e.StockID != stockID {
			return false
		}
		if o := s.orders[e.OrderID]; o.Status == status {
			cp := *o
			result = append(result, &cp)
		}
		return true
	})
	return result, nil
}

// Save upserts the order and maintains the secondary indexes.
func (s *OrderStore) Save(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *o
	if _, exists := s.orders[o.ID]; !exists {
		s.byAccount[o.AccountID] = append(s.byAccount[o.AccountID], o.ID)
		s.byStock.ReplaceOrInsert(orderEntry{
			StockID:   o.StockID,
			CreatedAt: o.CreatedAt,
			OrderID:   o.ID,
		})
	}
	s.orders[o.ID] = &cp
	return nil
}

// Transition atomically moves the order from one status to another. It
// returns domain.ErrOrderNotFound if the order does not exist and
// domain.ErrOrderNotPending if its current status is not from.
func (s *OrderStore) Transition(_ context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if o.Status != from {
		return nil, domain.ErrOrderNotPending
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	cp := *o
	return &cp, nil
}
