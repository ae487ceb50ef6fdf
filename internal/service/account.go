// Package service implements the operations the engine exposes to its
// callers: account registration and ledger mutations, order placement
// and cancellation, trade execution and matching, and portfolio views.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradedesk/internal/domain"
	"tradedesk/internal/store"
)

// AccountService owns account registration and balance mutation.
// Deposits, withdrawals, and transfers require an ACTIVE account and
// run inside a unit of work, so the balance check and the mutation are
// one atomic step.
type AccountService struct {
	store store.Store
	log   *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(st store.Store, log *slog.Logger) *AccountService {
	return &AccountService{store: st, log: log}
}

// Create registers a new ACTIVE account for the owner with a generated
// account number. The initial balance must not be negative.
func (s *AccountService) Create(ctx context.Context, ownerID string, kind domain.AccountKind, initialBalance decimal.Decimal) (*domain.Account, error) {
	if ownerID == "" {
		return nil, &domain.ValidationError{Message: "owner_id is required"}
	}
	if kind != domain.AccountKindCash && kind != domain.AccountKindMargin {
		return nil, &domain.ValidationError{Message: "kind must be CASH or MARGIN"}
	}
	if initialBalance.IsNegative() {
		return nil, &domain.ValidationError{Message: "initial balance must not be negative"}
	}

	account := &domain.Account{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		AccountNumber: domain.NewAccountNumber(),
		Balance:       initialBalance,
		Kind:          kind,
		Status:        domain.AccountStatusActive,
		CreatedAt:     time.Now(),
	}
	if err := s.store.Accounts().Save(ctx, account); err != nil {
		return nil, err
	}

	s.log.Debug("account created",
		slog.String("account_id", account.ID),
		slog.String("account_number", account.AccountNumber),
	)
	return account, nil
}

// Get retrieves an account by ID.
func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.store.Accounts().Get(ctx, id)
}

// GetByOwner returns the owner's accounts.
func (s *AccountService) GetByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	return s.store.Accounts().GetByOwner(ctx, ownerID)
}

// GetByNumber retrieves an account by its account number.
func (s *AccountService) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return s.store.Accounts().GetByNumber(ctx, accountNumber)
}

// Deposit adds amount to the account's balance. The amount must be
// positive and the account must be ACTIVE.
func (s *AccountService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, &domain.ValidationError{Message: "amount must be positive"}
	}

	var account *domain.Account
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		a, err := tx.Accounts().Get(ctx, accountID)
		if err != nil {
			return err
		}
		if !a.IsActive() {
			return domain.ErrAccountNotActive
		}
		a.Balance = a.Balance.Add(amount)
		if err := tx.Accounts().Save(ctx, a); err != nil {
			return err
		}
		account = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("deposit",
		slog.String("account_id", accountID),
		slog.String("amount", amount.String()),
	)
	return account, nil
}

// Withdraw subtracts amount from the account's balance. The amount must
// be positive, the account must be ACTIVE, and the balance must cover
// the amount.
func (s *AccountService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, &domain.ValidationError{Message: "amount must be positive"}
	}

	var account *domain.Account
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		a, err := tx.Accounts().Get(ctx, accountID)
		if err != nil {
			return err
		}
		if !a.IsActive() {
			return domain.ErrAccountNotActive
		}
		if a.Balance.LessThan(amount) {
			return domain.ErrInsufficientBalance
		}
		a.Balance = a.Balance.Sub(amount)
		if err := tx.Accounts().Save(ctx, a); err != nil {
			return err
		}
		account = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("withdrawal",
		slog.String("account_id", accountID),
		slog.String("amount", amount.String()),
	)
	return account, nil
}

// Transfer moves amount from one account to another as a single unit of
// work. Both accounts must be ACTIVE and the source balance must cover
// the amount.
func (s *AccountService) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &domain.ValidationError{Message: "amount must be positive"}
	}
	if fromID == toID {
		return &domain.ValidationError{Message: "cannot transfer to the same account"}
	}

	err := s.store.Atomic(ctx, func(tx store.Store) error {
		from, err := tx.Accounts().Get(ctx, fromID)
		if err != nil {
			return err
		}
		to, err := tx.Accounts().Get(ctx, toID)
		if err != nil {
			return err
		}
		if !from.IsActive() || !to.IsActive() {
			return domain.ErrAccountNotActive
		}
		if from.Balance.LessThan(amount) {
			return domain.ErrInsufficientBalance
		}
		from.Balance = from.Balance.Sub(amount)
		if err := tx.Accounts().Save(ctx, from); err != nil {
			return err
		}
		to.Balance = to.Balance.Add(amount)
		return tx.Accounts().Save(ctx, to)
	})
	if err != nil {
		return err
	}

	s.log.Debug("transfer",
		slog.String("from_account_id", fromID),
		slog.String("to_account_id", toID),
		slog.String("amount", amount.String()),
	)
	return nil
}
