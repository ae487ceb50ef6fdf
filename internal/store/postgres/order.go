package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tradedesk/internal/domain"
)

// OrderStore implements store.OrderStore on PostgreSQL.
type OrderStore struct {
	q querier
}

const orderColumns = "id, account_id, stock_id, kind, side, quantity, price, status, created_at, updated_at"

func scanOrder(row pgx.Row) (*domain.Order, error) {
	o := &domain.Order{}
	err := row.Scan(&o.ID, &o.AccountID, &o.StockID, &o.Kind, &o.Side,
		&o.Quantity, &o.Price, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderStore) queryOrders(ctx context.Context, sql string, args ...any) ([]*domain.Order, error) {
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

// Get retrieves an order by ID.
func (s *OrderStore) Get(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(s.q.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetByAccount returns the account's orders in creation order.
func (s *OrderStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.Order, error) {
	return s.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE account_id = $1 ORDER BY created_at", accountID)
}

// GetByStatus returns all orders with the given status.
func (s *OrderStore) GetByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	return s.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE status = $1 ORDER BY created_at", status)
}

// GetByStockAndStatus returns the stock's orders with the given status,
// most recently created first.
func (s *OrderStore) GetByStockAndStatus(ctx context.Context, stockID string, status domain.OrderStatus) ([]*domain.Order, error) {
	return s.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE stock_id = $1 AND status = $2 ORDER BY created_at DESC",
		stockID, status)
}

// Save upserts the order.
func (s *OrderStore) Save(ctx context.Context, o *domain.Order) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO orders (id, account_id, stock_id, kind, side, quantity, price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`,
		o.ID, o.AccountID, o.StockID, o.Kind, o.Side, o.Quantity, o.Price, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

// Transition atomically moves the order from one status to another with
// a conditional UPDATE. Zero rows affected means the order either does
// not exist or is no longer in the from status; the follow-up read
// distinguishes the two.
func (s *OrderStore) Transition(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	o, err := scanOrder(s.q.QueryRow(ctx, `
		UPDATE orders SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING `+orderColumns, id, from, to))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrOrderNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("transition order: %w", err)
	}
	return o, nil
}
