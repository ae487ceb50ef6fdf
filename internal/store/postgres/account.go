package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tradedesk/internal/domain"
)

// AccountStore implements store.AccountStore on PostgreSQL.
type AccountStore struct {
	q    querier
	inTx bool
}

const accountColumns = "id, owner_id, account_number, balance, kind, status, created_at"

func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(&a.ID, &a.OwnerID, &a.AccountNumber, &a.Balance, &a.Kind, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Get retrieves an account by ID. Inside a transaction the row is
// locked for the transaction's duration.
func (s *AccountStore) Get(ctx context.Context, id string) (*domain.Account, error) {
	a, err := scanAccount(s.q.QueryRow(ctx,
		forUpdate("SELECT "+accountColumns+" FROM accounts WHERE id = $1", s.inTx), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// GetByOwner returns the owner's accounts in creation order.
func (s *AccountStore) GetByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	rows, err := s.q.Query(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE owner_id = $1 ORDER BY created_at", ownerID)
	if err != nil {
		return nil, fmt.Errorf("get accounts by owner: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// GetByNumber retrieves an account by its account number.
func (s *AccountStore) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	a, err := scanAccount(s.q.QueryRow(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE account_number = $1", accountNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account by number: %w", err)
	}
	return a, nil
}

// Save upserts the account.
func (s *AccountStore) Save(ctx context.Context, a *domain.Account) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO accounts (id, owner_id, account_number, balance, kind, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET balance = EXCLUDED.balance, status = EXCLUDED.status`,
		a.ID, a.OwnerID, a.AccountNumber, a.Balance, a.Kind, a.Status, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}
