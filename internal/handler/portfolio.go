package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"tradedesk/internal/service"
)

// PortfolioHandler handles HTTP requests for portfolio endpoints.
type PortfolioHandler struct {
	portfolioSvc *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioSvc *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioSvc: portfolioSvc}
}

type holdingResponse struct {
	StockID              string          `json:"stock_id"`
	Symbol               string          `json:"symbol"`
	Name                 string          `json:"name"`
	Quantity             int64           `json:"quantity"`
	AveragePrice         decimal.Decimal `json:"average_price"`
	CurrentPrice         decimal.Decimal `json:"current_price"`
	CurrentValue         decimal.Decimal `json:"current_value"`
	ProfitLoss           decimal.Decimal `json:"profit_loss"`
	ProfitLossPercentage decimal.Decimal `json:"profit_loss_percentage"`
}

type portfolioSummaryResponse struct {
	AccountID            string          `json:"account_id"`
	AccountNumber        string          `json:"account_number"`
	TotalValue           decimal.Decimal `json:"total_value"`
	TotalCost            decimal.Decimal `json:"total_cost"`
	TotalProfitLoss      decimal.Decimal `json:"total_profit_loss"`
	ProfitLossPercentage decimal.Decimal `json:"profit_loss_percentage"`
	HoldingsCount        int             `json:"holdings_count"`
}

// Holdings handles GET /accounts/{account_id}/portfolio/holdings.
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	details, err := h.portfolioSvc.HoldingDetails(r.Context(), chi.URLParam(r, "account_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result := make([]holdingResponse, 0, len(details))
	for _, d := range details {
		result = append(result, holdingResponse{
			StockID:              d.StockID,
			Symbol:               d.Symbol,
			Name:                 d.Name,
			Quantity:             d.Quantity,
			AveragePrice:         d.AveragePrice,
			CurrentPrice:         d.CurrentPrice,
			CurrentValue:         d.CurrentValue,
			ProfitLoss:           d.ProfitLoss,
			ProfitLossPercentage: d.ProfitLossPercentage,
		})
	}
	WriteJSON(w, http.StatusOK, result)
}

// Summary handles GET /accounts/{account_id}/portfolio.
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioSvc.Summary(r.Context(), chi.URLParam(r, "account_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, portfolioSummaryResponse{
		AccountID:            summary.AccountID,
		AccountNumber:        summary.AccountNumber,
		TotalValue:           summary.TotalValue,
		TotalCost:            summary.TotalCost,
		TotalProfitLoss:      summary.TotalProfitLoss,
		ProfitLossPercentage: summary.ProfitLossPercentage,
		HoldingsCount:        summary.HoldingsCount,
	})
}
