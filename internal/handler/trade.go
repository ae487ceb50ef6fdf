package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"tradedesk/internal/domain"
	"tradedesk/internal/service"
)

// TradeHandler handles HTTP requests for trade endpoints.
type TradeHandler struct {
	tradeSvc *service.TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeSvc *service.TradeService) *TradeHandler {
	return &TradeHandler{tradeSvc: tradeSvc}
}

// executeTradeRequest is the JSON request body for POST /trades.
type executeTradeRequest struct {
	BuyOrderID  string `json:"buy_order_id"`
	SellOrderID string `json:"sell_order_id"`
}

// tradeResponse is the JSON representation of a trade.
type tradeResponse struct {
	TradeID     string          `json:"trade_id"`
	BuyOrderID  string          `json:"buy_order_id"`
	SellOrderID string          `json:"sell_order_id"`
	StockID     string          `json:"stock_id"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ExecutedAt  string          `json:"executed_at"`
}

func newTradeResponse(t *domain.Trade) tradeResponse {
	return tradeResponse{
		TradeID:     t.ID,
		BuyOrderID:  t.BuyOrderID,
		SellOrderID: t.SellOrderID,
		StockID:     t.StockID,
		Quantity:    t.Quantity,
		Price:       t.Price,
		ExecutedAt:  t.ExecutedAt.Format(time.RFC3339),
	}
}

func newTradeResponses(trades []*domain.Trade) []tradeResponse {
	result := make([]tradeResponse, 0, len(trades))
	for _, t := range trades {
		result = append(result, newTradeResponse(t))
	}
	return result
}

// Execute handles POST /trades.
func (h *TradeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req executeTradeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	trade, err := h.tradeSvc.Execute(r.Context(), req.BuyOrderID, req.SellOrderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, newTradeResponse(trade))
}

// Match handles POST /stocks/{stock_id}/match.
func (h *TradeHandler) Match(w http.ResponseWriter, r *http.Request) {
	trades, err := h.tradeSvc.MatchStock(r.Context(), chi.URLParam(r, "stock_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, newTradeResponses(trades))
}

// Get handles GET /trades/{trade_id}.
func (h *TradeHandler) Get(w http.ResponseWriter, r *http.Request) {
	trade, err := h.tradeSvc.Get(r.Context(), chi.URLParam(r, "trade_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, newTradeResponse(trade))
}

// Recent handles GET /trades?limit=….
func (h *TradeHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_request", "limit must be an integer")
			return
		}
		limit = parsed
	}

	trades, err := h.tradeSvc.Recent(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, newTradeResponses(trades))
}

// ListByStock handles GET /stocks/{stock_id}/trades.
func (h *TradeHandler) ListByStock(w http.ResponseWriter, r *http.Request) {
	trades, err := h.tradeSvc.GetByStock(r.Context(), chi.URLParam(r, "stock_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, newTradeResponses(trades))
}
