package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tradedesk/internal/domain"
)

// TradeStore implements store.TradeStore on PostgreSQL.
type TradeStore struct {
	q querier
}

const tradeColumns = "id, buy_order_id, sell_order_id, stock_id, quantity, price, executed_at"

func scanTrade(row pgx.Row) (*domain.Trade, error) {
	t := &domain.Trade{}
	err := row.Scan(&t.ID, &t.BuyOrderID, &t.SellOrderID, &t.StockID, &t.Quantity, &t.Price, &t.ExecutedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TradeStore) queryTrades(ctx context.Context, sql string, args ...any) ([]*domain.Trade, error) {
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Trade, 0)
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Get retrieves a trade by ID.
func (s *TradeStore) Get(ctx context.Context, id string) (*domain.Trade, error) {
	t, err := scanTrade(s.q.QueryRow(ctx,
		"SELECT "+tradeColumns+" FROM trades WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTradeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trade: %w", err)
	}
	return t, nil
}

// GetByStock returns the stock's trades in execution order.
func (s *TradeStore) GetByStock(ctx context.Context, stockID string) ([]*domain.Trade, error) {
	return s.queryTrades(ctx,
		"SELECT "+tradeColumns+" FROM trades WHERE stock_id = $1 ORDER BY executed_at", stockID)
}

// MostRecent returns up to n trades, most recent first.
func (s *TradeStore) MostRecent(ctx context.Context, n int) ([]*domain.Trade, error) {
	return s.queryTrades(ctx,
		"SELECT "+tradeColumns+" FROM trades ORDER BY executed_at DESC LIMIT $1", n)
}

// Insert adds the trade. Trades are insert-only.
func (s *TradeStore) Insert(ctx context.Context, t *domain.Trade) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO trades (id, buy_order_id, sell_order_id, stock_id, quantity, price, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.BuyOrderID, t.SellOrderID, t.StockID, t.Quantity, t.Price, t.ExecutedAt)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}
