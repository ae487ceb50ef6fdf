package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tradedesk/internal/domain"
	"tradedesk/internal/store/memory"
)

func dec(t testing.TB, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestApplyBuy_NewHolding(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	h, err := applyBuy(ctx, st.Holdings(), "acc-1", "stock-1", 10, dec(t, "100"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Quantity != 10 {
		t.Errorf("expected quantity 10, got %d", h.Quantity)
	}
	if !h.AveragePrice.Equal(dec(t, "100")) {
		t.Errorf("expected average price 100, got %s", h.AveragePrice)
	}

	stored, err := st.Holdings().GetByAccountAndStock(ctx, "acc-1", "stock-1")
	if err != nil {
		t.Fatalf("holding not persisted: %v", err)
	}
	if stored.Quantity != 10 {
		t.Errorf("expected persisted quantity 10, got %d", stored.Quantity)
	}
}

func TestApplyBuy_RecostsToWeightedAverage(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	if _, err := applyBuy(ctx, st.Holdings(), "acc-1", "stock-1", 10, dec(t, "100")); err != nil {
		t.Fatalf("first buy: %v", err)
	}
	h, err := applyBuy(ctx, st.Holdings(), "acc-1", "stock-1", 10, dec(t, "200"))
	if err != nil {
		t.Fatalf("second buy: %v", err)
	}

	// (10×100 + 10×200) / 20 = 150.00
	if h.Quantity != 20 {
		t.Errorf("expected quantity 20, got %d", h.Quantity)
	}
	if !h.AveragePrice.Equal(dec(t, "150")) {
		t.Errorf("expected average price 150, got %s", h.AveragePrice)
	}
}

func TestApplyBuy_WeightedAverageRoundsHalfUp(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	if _, err := applyBuy(ctx, st.Holdings(), "acc-1", "stock-1", 3, dec(t, "10")); err != nil {
		t.Fatalf("first buy: %v", err)
	}
	h, err := applyBuy(ctx, st.Holdings(), "acc-1", "stock-1", 3, dec(t, "10.01"))
	if err != nil {
		t.Fatalf("second buy: %v", err)
	}

	// (30 + 30.03) / 6 = 10.005 → 10.01 half up.
	if !h.AveragePrice.Equal(dec(t, "10.01")) {
		t.Errorf("expected average price 10.01, got %s", h.AveragePrice)
	}
}

func TestApplySell_DecrementsQuantityKeepsAverage(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	if _, err := applyBuy(ctx, st.Holdings(), "acc-1", "stock-1", 10, dec(t, "150")); err != nil {
		t.Fatalf("buy: %v", err)
	}
	h, err := applySell(ctx, st.Holdings(), "acc-1", "stock-1", 4)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if h.Quantity != 6 {
		t.Errorf("expected quantity 6, got %d", h.Quantity)
	}
	if !h.AveragePrice.Equal(dec(t, "150")) {
		t.Errorf("expected average price unchanged at 150, got %s", h.AveragePrice)
	}
}

func TestApplySell_ToZeroDeletesHolding(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	if _, err := applyBuy(ctx, st.Holdings(), "acc-1", "stock-1", 10, dec(t, "150")); err != nil {
		t.Fatalf("buy: %v", err)
	}
	h, err := applySell(ctx, st.Holdings(), "acc-1", "stock-1", 10)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	// The returned snapshot carries the pre-delete position.
	if h.Quantity != 10 {
		t.Errorf("expected snapshot quantity 10, got %d", h.Quantity)
	}

	if _, err := st.Holdings().GetByAccountAndStock(ctx, "acc-1", "stock-1"); !errors.Is(err, domain.ErrHoldingNotFound) {
		t.Errorf("expected ErrHoldingNotFound after sell to zero, got %v", err)
	}
}

func TestApplySell_NoPosition(t *testing.T) {
	st := memory.New()

	_, err := applySell(context.Background(), st.Holdings(), "acc-1", "stock-1", 1)
	if !errors.Is(err, domain.ErrNoHoldings) {
		t.Errorf("expected ErrNoHoldings, got %v", err)
	}
}

func TestApplySell_InsufficientHoldings(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	if _, err := applyBuy(ctx, st.Holdings(), "acc-1", "stock-1", 5, dec(t, "150")); err != nil {
		t.Fatalf("buy: %v", err)
	}
	_, err := applySell(ctx, st.Holdings(), "acc-1", "stock-1", 6)
	if !errors.Is(err, domain.ErrInsufficientHoldings) {
		t.Errorf("expected ErrInsufficientHoldings, got %v", err)
	}

	// The position is untouched.
	h, err := st.Holdings().GetByAccountAndStock(ctx, "acc-1", "stock-1")
	if err != nil {
		t.Fatalf("holding gone: %v", err)
	}
	if h.Quantity != 5 {
		t.Errorf("expected quantity still 5, got %d", h.Quantity)
	}
}
