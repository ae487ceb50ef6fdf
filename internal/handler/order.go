package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"tradedesk/internal/domain"
	"tradedesk/internal/service"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// placeOrderRequest is the JSON request body for POST /orders.
type placeOrderRequest struct {
	AccountID string           `json:"account_id"`
	StockID   string           `json:"stock_id"`
	Kind      string           `json:"kind"`
	Side      string           `json:"side"`
	Quantity  int64            `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
}

// orderResponse is the JSON representation of an order.
type orderResponse struct {
	OrderID   string          `json:"order_id"`
	AccountID string          `json:"account_id"`
	StockID   string          `json:"stock_id"`
	Kind      string          `json:"kind"`
	Side      string          `json:"side"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

func newOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		OrderID:   o.ID,
		AccountID: o.AccountID,
		StockID:   o.StockID,
		Kind:      string(o.Kind),
		Side:      string(o.Side),
		Quantity:  o.Quantity,
		Price:     o.Price,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
		UpdatedAt: o.UpdatedAt.Format(time.RFC3339),
	}
}

func newOrderResponses(orders []*domain.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, newOrderResponse(o))
	}
	return result
}

// Place handles POST /orders.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.orderSvc.Place(r.Context(), service.PlaceOrderRequest{
		AccountID: req.AccountID,
		StockID:   req.StockID,
		Kind:      domain.OrderKind(req.Kind),
		Side:      domain.OrderSide(req.Side),
		Quantity:  req.Quantity,
		Price:     req.Price,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, newOrderResponse(order))
}

// Get handles GET /orders/{order_id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderSvc.Get(r.Context(), chi.URLParam(r, "order_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, newOrderResponse(order))
}

// Cancel handles DELETE /orders/{order_id}.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderSvc.Cancel(r.Context(), chi.URLParam(r, "order_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, newOrderResponse(order))
}

// List handles GET /orders?status=….
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "status query parameter is required")
		return
	}

	orders, err := h.orderSvc.GetByStatus(r.Context(), domain.OrderStatus(status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, newOrderResponses(orders))
}

// ListByAccount handles GET /accounts/{account_id}/orders.
func (h *OrderHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderSvc.GetByAccount(r.Context(), chi.URLParam(r, "account_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, newOrderResponses(orders))
}
