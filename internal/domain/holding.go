package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioHolding is the position an account holds in a single stock.
// A holding whose quantity reaches zero is deleted, not retained.
type PortfolioHolding struct {
	ID           string
	AccountID    string
	StockID      string
	Quantity     int64
	AveragePrice decimal.Decimal
	LastUpdated  time.Time
}

// CostBasis returns AveragePrice × Quantity.
func (h *PortfolioHolding) CostBasis() decimal.Decimal {
	return h.AveragePrice.Mul(decimal.NewFromInt(h.Quantity))
}

// WeightedAveragePrice recomputes the cost basis when qty shares are
// added at price: (old.AveragePrice×old.Quantity + price×qty) /
// (old.Quantity+qty), rounded to 2 decimal places, half up.
func (h *PortfolioHolding) WeightedAveragePrice(qty int64, price decimal.Decimal) decimal.Decimal {
	totalCost := h.CostBasis().Add(price.Mul(decimal.NewFromInt(qty)))
	return totalCost.DivRound(decimal.NewFromInt(h.Quantity+qty), 2)
}
