package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradedesk/internal/domain"
	"tradedesk/internal/store"
)

// applyBuy credits a holding with qty shares bought at price. An
// existing holding is recosted to the weighted average price (2 decimal
// places, half up); otherwise a new holding is created at the trade
// price. Returns the holding as persisted.
func applyBuy(ctx context.Context, holdings store.HoldingStore, accountID, stockID string, qty int64, price decimal.Decimal) (*domain.PortfolioHolding, error) {
	h, err := holdings.GetByAccountAndStock(ctx, accountID, stockID)
	switch {
	case errors.Is(err, domain.ErrHoldingNotFound):
		h = &domain.PortfolioHolding{
			ID:           uuid.New().String(),
			AccountID:    accountID,
			StockID:      stockID,
			Quantity:     qty,
			AveragePrice: price,
			LastUpdated:  time.Now(),
		}
	case err != nil:
		return nil, err
	default:
		h.AveragePrice = h.WeightedAveragePrice(qty, price)
		h.Quantity += qty
		h.LastUpdated = time.Now()
	}

	if err := holdings.Save(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// applySell debits a holding by qty shares. The average price is
// unchanged on sells. A sell that brings the quantity to exactly zero
// deletes the holding and returns its pre-delete snapshot. Returns
// domain.ErrNoHoldings when the account has no position in the stock
// and domain.ErrInsufficientHoldings when qty exceeds the position.
func applySell(ctx context.Context, holdings store.HoldingStore, accountID, stockID string, qty int64) (*domain.PortfolioHolding, error) {
	h, err := holdings.GetByAccountAndStock(ctx, accountID, stockID)
	if errors.Is(err, domain.ErrHoldingNotFound) {
		return nil, domain.ErrNoHoldings
	}
	if err != nil {
		return nil, err
	}

	newQty := h.Quantity - qty
	if newQty < 0 {
		return nil, domain.ErrInsufficientHoldings
	}
	if newQty == 0 {
		if err := holdings.Delete(ctx, h.ID); err != nil {
			return nil, err
		}
		return h, nil
	}

	h.Quantity = newQty
	h.LastUpdated = time.Now()
	if err := holdings.Save(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}
