package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tradedesk/internal/domain"
)

// StockStore implements store.StockStore on PostgreSQL.
type StockStore struct {
	q querier
}

const stockColumns = "id, symbol, name, sector, current_price, last_updated"

func scanStock(row pgx.Row) (*domain.Stock, error) {
	st := &domain.Stock{}
	err := row.Scan(&st.ID, &st.Symbol, &st.Name, &st.Sector, &st.CurrentPrice, &st.LastUpdated)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Get retrieves a stock by ID.
func (s *StockStore) Get(ctx context.Context, id string) (*domain.Stock, error) {
	st, err := scanStock(s.q.QueryRow(ctx,
		"SELECT "+stockColumns+" FROM stocks WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return st, nil
}

// GetBySymbol retrieves a stock by its symbol.
func (s *StockStore) GetBySymbol(ctx context.Context, symbol string) (*domain.Stock, error) {
	st, err := scanStock(s.q.QueryRow(ctx,
		"SELECT "+stockColumns+" FROM stocks WHERE symbol = $1", symbol))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stock by symbol: %w", err)
	}
	return st, nil
}

// GetBySector returns all stocks in the sector.
func (s *StockStore) GetBySector(ctx context.Context, sector string) ([]*domain.Stock, error) {
	rows, err := s.q.Query(ctx,
		"SELECT "+stockColumns+" FROM stocks WHERE sector = $1 ORDER BY symbol", sector)
	if err != nil {
		return nil, fmt.Errorf("get stocks by sector: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Stock, 0)
	for rows.Next() {
		st, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		result = append(result, st)
	}
	return result, rows.Err()
}

// Save upserts the stock.
func (s *StockStore) Save(ctx context.Context, st *domain.Stock) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO stocks (id, symbol, name, sector, current_price, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET current_price = EXCLUDED.current_price, last_updated = EXCLUDED.last_updated`,
		st.ID, st.Symbol, st.Name, st.Sector, st.CurrentPrice, st.LastUpdated)
	if err != nil {
		return fmt.Errorf("save stock: %w", err)
	}
	return nil
}
