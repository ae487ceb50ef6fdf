package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"tradedesk/internal/domain"
	"tradedesk/internal/store"
)

// HoldingDetail is a holding enriched with the stock's live price and
// derived valuation figures.
type HoldingDetail struct {
	StockID              string
	Symbol               string
	Name                 string
	Quantity             int64
	AveragePrice         decimal.Decimal
	CurrentPrice         decimal.Decimal
	CurrentValue         decimal.Decimal
	ProfitLoss           decimal.Decimal
	ProfitLossPercentage decimal.Decimal
}

// PortfolioSummary aggregates an account's holdings into totals.
type PortfolioSummary struct {
	AccountID            string
	AccountNumber        string
	TotalValue           decimal.Decimal
	TotalCost            decimal.Decimal
	TotalProfitLoss      decimal.Decimal
	ProfitLossPercentage decimal.Decimal
	HoldingsCount        int
}

// PortfolioService derives portfolio views from holdings and live stock
// prices. Views are pure reads; position mutation happens only inside
// settlement.
type PortfolioService struct {
	store store.Store
	log   *slog.Logger
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(st store.Store, log *slog.Logger) *PortfolioService {
	return &PortfolioService{store: st, log: log}
}

// Holdings returns the account's raw holdings.
func (s *PortfolioService) Holdings(ctx context.Context, accountID string) ([]*domain.PortfolioHolding, error) {
	return s.store.Holdings().GetByAccount(ctx, accountID)
}

// HoldingDetails returns the account's holdings valued at each stock's
// current price. The profit/loss percentage is computed against cost
// basis, rounded to 4 decimal places half up before scaling to percent.
func (s *PortfolioService) HoldingDetails(ctx context.Context, accountID string) ([]*HoldingDetail, error) {
	holdings, err := s.store.Holdings().GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	details := make([]*HoldingDetail, 0, len(holdings))
	for _, h := range holdings {
		stock, err := s.store.Stocks().Get(ctx, h.StockID)
		if err != nil {
			return nil, err
		}

		qty := decimal.NewFromInt(h.Quantity)
		currentValue := stock.CurrentPrice.Mul(qty)
		cost := h.AveragePrice.Mul(qty)
		profitLoss := currentValue.Sub(cost)

		details = append(details, &HoldingDetail{
			StockID:              stock.ID,
			Symbol:               stock.Symbol,
			Name:                 stock.Name,
			Quantity:             h.Quantity,
			AveragePrice:         h.AveragePrice,
			CurrentPrice:         stock.CurrentPrice,
			CurrentValue:         currentValue,
			ProfitLoss:           profitLoss,
			ProfitLossPercentage: percentOf(profitLoss, cost),
		})
	}
	return details, nil
}

// Summary aggregates the account's holding details into portfolio
// totals.
func (s *PortfolioService) Summary(ctx context.Context, accountID string) (*PortfolioSummary, error) {
	account, err := s.store.Accounts().Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	details, err := s.HoldingDetails(ctx, accountID)
	if err != nil {
		return nil, err
	}

	totalValue := decimal.Zero
	totalCost := decimal.Zero
	for _, d := range details {
		totalValue = totalValue.Add(d.CurrentValue)
		totalCost = totalCost.Add(d.AveragePrice.Mul(decimal.NewFromInt(d.Quantity)))
	}
	totalProfitLoss := totalValue.Sub(totalCost)

	return &PortfolioSummary{
		AccountID:            account.ID,
		AccountNumber:        account.AccountNumber,
		TotalValue:           totalValue,
		TotalCost:            totalCost,
		TotalProfitLoss:      totalProfitLoss,
		ProfitLossPercentage: percentOf(totalProfitLoss, totalCost),
		HoldingsCount:        len(details),
	}, nil
}

// percentOf returns profitLoss/cost as a percentage, with the ratio
// rounded to 4 decimal places half up. Zero cost yields zero.
func percentOf(profitLoss, cost decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return profitLoss.DivRound(cost, 4).Mul(decimal.NewFromInt(100))
}
