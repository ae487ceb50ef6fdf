package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tradedesk/internal/domain"
)

// HoldingStore implements store.HoldingStore on PostgreSQL.
type HoldingStore struct {
	q    querier
	inTx bool
}

const holdingColumns = "id, account_id, stock_id, quantity, average_price, last_updated"

func scanHolding(row pgx.Row) (*domain.PortfolioHolding, error) {
	h := &domain.PortfolioHolding{}
	err := row.Scan(&h.ID, &h.AccountID, &h.StockID, &h.Quantity, &h.AveragePrice, &h.LastUpdated)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// GetByAccount returns the account's holdings.
func (s *HoldingStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.PortfolioHolding, error) {
	rows, err := s.q.Query(ctx,
		"SELECT "+holdingColumns+" FROM portfolio_holdings WHERE account_id = $1 ORDER BY last_updated", accountID)
	if err != nil {
		return nil, fmt.Errorf("get holdings by account: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.PortfolioHolding, 0)
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

// GetByAccountAndStock returns the account's holding in the stock, or
// domain.ErrHoldingNotFound when the account has no position in it.
// Inside a transaction the row is locked for the transaction's duration.
func (s *HoldingStore) GetByAccountAndStock(ctx context.Context, accountID, stockID string) (*domain.PortfolioHolding, error) {
	h, err := scanHolding(s.q.QueryRow(ctx,
		forUpdate("SELECT "+holdingColumns+" FROM portfolio_holdings WHERE account_id = $1 AND stock_id = $2", s.inTx),
		accountID, stockID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrHoldingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get holding: %w", err)
	}
	return h, nil
}

// Save upserts the holding.
func (s *HoldingStore) Save(ctx context.Context, h *domain.PortfolioHolding) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO portfolio_holdings (id, account_id, stock_id, quantity, average_price, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			average_price = EXCLUDED.average_price,
			last_updated = EXCLUDED.last_updated`,
		h.ID, h.AccountID, h.StockID, h.Quantity, h.AveragePrice, h.LastUpdated)
	if err != nil {
		return fmt.Errorf("save holding: %w", err)
	}
	return nil
}

// Delete removes the holding. Deleting an absent holding is a no-op.
func (s *HoldingStore) Delete(ctx context.Context, id string) error {
	if _, err := s.q.Exec(ctx, "DELETE FROM portfolio_holdings WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete holding: %w", err)
	}
	return nil
}
