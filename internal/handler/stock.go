package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"tradedesk/internal/domain"
	"tradedesk/internal/service"
)

// StockHandler handles HTTP requests for stock endpoints.
type StockHandler struct {
	stockSvc *service.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockSvc *service.StockService) *StockHandler {
	return &StockHandler{stockSvc: stockSvc}
}

type stockResponse struct {
	StockID      string          `json:"stock_id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Sector       string          `json:"sector"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	LastUpdated  string          `json:"last_updated"`
}

func newStockResponse(s *domain.Stock) stockResponse {
	return stockResponse{
		StockID:      s.ID,
		Symbol:       s.Symbol,
		Name:         s.Name,
		Sector:       s.Sector,
		CurrentPrice: s.CurrentPrice,
		LastUpdated:  s.LastUpdated.Format(time.RFC3339),
	}
}

// Get handles GET /stocks/{stock_id}.
func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	stock, err := h.stockSvc.Get(r.Context(), chi.URLParam(r, "stock_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, newStockResponse(stock))
}

// List handles GET /stocks?symbol=… and GET /stocks?sector=….
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		stock, err := h.stockSvc.GetBySymbol(r.Context(), symbol)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, newStockResponse(stock))
		return
	}

	sector := r.URL.Query().Get("sector")
	if sector == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "symbol or sector query parameter is required")
		return
	}

	stocks, err := h.stockSvc.GetBySector(r.Context(), sector)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result := make([]stockResponse, 0, len(stocks))
	for _, s := range stocks {
		result = append(result, newStockResponse(s))
	}
	WriteJSON(w, http.StatusOK, result)
}
