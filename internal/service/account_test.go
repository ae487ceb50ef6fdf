package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"

	"tradedesk/internal/domain"
	"tradedesk/internal/store"
	"tradedesk/internal/store/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(t testing.TB, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func seedStock(t testing.TB, st store.Store, id, symbol, price string) *domain.Stock {
	t.Helper()
	stock := &domain.Stock{
		ID:           id,
		Symbol:       symbol,
		Name:         symbol + " Inc.",
		Sector:       "Technology",
		CurrentPrice: dec(t, price),
		LastUpdated:  time.Now(),
	}
	if err := st.Stocks().Save(context.Background(), stock); err != nil {
		t.Fatalf("seed stock %s: %v", symbol, err)
	}
	return stock
}

func TestAccountCreate(t *testing.T) {
	st := memory.New()
	svc := NewAccountService(st, discardLogger())
	ctx := context.Background()

	account, err := svc.Create(ctx, "owner-1", domain.AccountKindCash, dec(t, "1000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID == "" {
		t.Error("expected account ID to be assigned")
	}
	if !strings.HasPrefix(account.AccountNumber, "ACC") {
		t.Errorf("expected account number with ACC prefix, got %q", account.AccountNumber)
	}
	if account.Status != domain.AccountStatusActive {
		t.Errorf("expected status ACTIVE, got %s", account.Status)
	}
	if !account.Balance.Equal(dec(t, "1000")) {
		t.Errorf("expected balance 1000, got %s", account.Balance)
	}

	got, err := svc.GetByNumber(ctx, account.AccountNumber)
	if err != nil {
		t.Fatalf("lookup by number: %v", err)
	}
	if got.ID != account.ID {
		t.Errorf("expected same account, got %s", got.ID)
	}
}

func TestAccountCreate_Validation(t *testing.T) {
	svc := NewAccountService(memory.New(), discardLogger())
	ctx := context.Background()

	var vErr *domain.ValidationError

	if _, err := svc.Create(ctx, "", domain.AccountKindCash, decimal.Zero); !errors.As(err, &vErr) {
		t.Errorf("empty owner: expected ValidationError, got %v", err)
	}
	if _, err := svc.Create(ctx, "owner-1", domain.AccountKind("SAVINGS"), decimal.Zero); !errors.As(err, &vErr) {
		t.Errorf("bad kind: expected ValidationError, got %v", err)
	}
	if _, err := svc.Create(ctx, "owner-1", domain.AccountKindCash, dec(t, "-1")); !errors.As(err, &vErr) {
		t.Errorf("negative balance: expected ValidationError, got %v", err)
	}
}

func TestDepositWithdraw(t *testing.T) {
	svc := NewAccountService(memory.New(), discardLogger())
	ctx := context.Background()

	account, err := svc.Create(ctx, "owner-1", domain.AccountKindCash, dec(t, "100"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Deposit(ctx, account.ID, dec(t, "50.25"))
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !updated.Balance.Equal(dec(t, "150.25")) {
		t.Errorf("expected balance 150.25, got %s", updated.Balance)
	}

	updated, err = svc.Withdraw(ctx, account.ID, dec(t, "150.25"))
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if !updated.Balance.IsZero() {
		t.Errorf("expected balance 0, got %s", updated.Balance)
	}
}

func TestWithdraw_InsufficientBalance(t *testing.T) {
	svc := NewAccountService(memory.New(), discardLogger())
	ctx := context.Background()

	account, _ := svc.Create(ctx, "owner-1", domain.AccountKindCash, dec(t, "100"))

	_, err := svc.Withdraw(ctx, account.ID, dec(t, "100.01"))
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}

	// Balance untouched after the failed withdrawal.
	got, _ := svc.Get(ctx, account.ID)
	if !got.Balance.Equal(dec(t, "100")) {
		t.Errorf("expected balance still 100, got %s", got.Balance)
	}
}

func TestDepositWithdraw_NonPositiveAmount(t *testing.T) {
	svc := NewAccountService(memory.New(), discardLogger())
	ctx := context.Background()

	account, _ := svc.Create(ctx, "owner-1", domain.AccountKindCash, dec(t, "100"))

	var vErr *domain.ValidationError
	for _, amount := range []string{"0", "-5"} {
		if _, err := svc.Deposit(ctx, account.ID, dec(t, amount)); !errors.As(err, &vErr) {
			t.Errorf("deposit %s: expected ValidationError, got %v", amount, err)
		}
		if _, err := svc.Withdraw(ctx, account.ID, dec(t, amount)); !errors.As(err, &vErr) {
			t.Errorf("withdraw %s: expected ValidationError, got %v", amount, err)
		}
	}
}

func TestMutations_RequireActiveAccount(t *testing.T) {
	st := memory.New()
	svc := NewAccountService(st, discardLogger())
	ctx := context.Background()

	account, _ := svc.Create(ctx, "owner-1", domain.AccountKindCash, dec(t, "100"))
	account.Status = domain.AccountStatusSuspended
	if err := st.Accounts().Save(ctx, account); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	if _, err := svc.Deposit(ctx, account.ID, dec(t, "10")); !errors.Is(err, domain.ErrAccountNotActive) {
		t.Errorf("deposit: expected ErrAccountNotActive, got %v", err)
	}
	if _, err := svc.Withdraw(ctx, account.ID, dec(t, "10")); !errors.Is(err, domain.ErrAccountNotActive) {
		t.Errorf("withdraw: expected ErrAccountNotActive, got %v", err)
	}
}

func TestTransfer(t *testing.T) {
	svc := NewAccountService(memory.New(), discardLogger())
	ctx := context.Background()

	from, _ := svc.Create(ctx, "owner-1", domain.AccountKindCash, dec(t, "100"))
	to, _ := svc.Create(ctx, "owner-2", domain.AccountKindCash, dec(t, "0"))

	if err := svc.Transfer(ctx, from.ID, to.ID, dec(t, "60")); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	gotFrom, _ := svc.Get(ctx, from.ID)
	gotTo, _ := svc.Get(ctx, to.ID)
	if !gotFrom.Balance.Equal(dec(t, "40")) {
		t.Errorf("expected source balance 40, got %s", gotFrom.Balance)
	}
	if !gotTo.Balance.Equal(dec(t, "60")) {
		t.Errorf("expected destination balance 60, got %s", gotTo.Balance)
	}
}

func TestTransfer_Validation(t *testing.T) {
	svc := NewAccountService(memory.New(), discardLogger())
	ctx := context.Background()

	from, _ := svc.Create(ctx, "owner-1", domain.AccountKindCash, dec(t, "100"))
	to, _ := svc.Create(ctx, "owner-2", domain.AccountKindCash, dec(t, "0"))

	var vErr *domain.ValidationError
	if err := svc.Transfer(ctx, from.ID, from.ID, dec(t, "10")); !errors.As(err, &vErr) {
		t.Errorf("self transfer: expected ValidationError, got %v", err)
	}
	if err := svc.Transfer(ctx, from.ID, to.ID, dec(t, "0")); !errors.As(err, &vErr) {
		t.Errorf("zero amount: expected ValidationError, got %v", err)
	}
	if err := svc.Transfer(ctx, from.ID, to.ID, dec(t, "100.01")); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Errorf("overdraw: expected ErrInsufficientBalance, got %v", err)
	}
	if err := svc.Transfer(ctx, from.ID, "missing", dec(t, "10")); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("missing destination: expected ErrAccountNotFound, got %v", err)
	}
}

func TestProperty_DepositWithdrawRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.Int64Range(0, 1_000_000).Draw(t, "initial")
		amount := rapid.Int64Range(1, 1_000_000).Draw(t, "amount")

		svc := NewAccountService(memory.New(), discardLogger())
		ctx := context.Background()

		account, err := svc.Create(ctx, "owner-1", domain.AccountKindCash, decimal.NewFromInt(initial))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		if _, err := svc.Deposit(ctx, account.ID, decimal.NewFromInt(amount)); err != nil {
			t.Fatalf("deposit: %v", err)
		}
		got, err := svc.Withdraw(ctx, account.ID, decimal.NewFromInt(amount))
		if err != nil {
			t.Fatalf("withdraw: %v", err)
		}

		if !got.Balance.Equal(decimal.NewFromInt(initial)) {
			t.Fatalf("expected balance back at %d, got %s", initial, got.Balance)
		}
	})
}

func TestProperty_TransferConservesTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fromBalance := rapid.Int64Range(0, 1_000_000).Draw(t, "fromBalance")
		toBalance := rapid.Int64Range(0, 1_000_000).Draw(t, "toBalance")
		amount := rapid.Int64Range(1, 2_000_000).Draw(t, "amount")

		svc := NewAccountService(memory.New(), discardLogger())
		ctx := context.Background()

		from, _ := svc.Create(ctx, "owner-1", domain.AccountKindCash, decimal.NewFromInt(fromBalance))
		to, _ := svc.Create(ctx, "owner-2", domain.AccountKindCash, decimal.NewFromInt(toBalance))

		err := svc.Transfer(ctx, from.ID, to.ID, decimal.NewFromInt(amount))
		if amount > fromBalance {
			if !errors.Is(err, domain.ErrInsufficientBalance) {
				t.Fatalf("expected ErrInsufficientBalance, got %v", err)
			}
		} else if err != nil {
			t.Fatalf("transfer: %v", err)
		}

		gotFrom, _ := svc.Get(ctx, from.ID)
		gotTo, _ := svc.Get(ctx, to.ID)
		total := gotFrom.Balance.Add(gotTo.Balance)
		if !total.Equal(decimal.NewFromInt(fromBalance + toBalance)) {
			t.Fatalf("total not conserved: %s", total)
		}
	})
}
