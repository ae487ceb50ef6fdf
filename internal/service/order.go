package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradedesk/internal/domain"
	"tradedesk/internal/store"
)

var validOrderKinds = map[domain.OrderKind]bool{
	domain.OrderKindMarket:   true,
	domain.OrderKindLimit:    true,
	domain.OrderKindStopLoss: true,
}

var validOrderStatuses = map[domain.OrderStatus]bool{
	domain.OrderStatusPending:   true,
	domain.OrderStatusExecuted:  true,
	domain.OrderStatusCancelled: true,
}

// PlaceOrderRequest represents the input for order placement.
type PlaceOrderRequest struct {
	AccountID string
	StockID   string
	Kind      domain.OrderKind
	Side      domain.OrderSide
	Quantity  int64
	Price     *decimal.Decimal // required for LIMIT and STOP_LOSS, ignored for MARKET
}

// OrderService validates and persists new orders and manages order
// status transitions.
type OrderService struct {
	store store.Store
	log   *slog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(st store.Store, log *slog.Logger) *OrderService {
	return &OrderService{store: st, log: log}
}

// Place validates the request and persists a new PENDING order.
//
// Checks run in order: the account must exist and be ACTIVE, the stock
// must exist, LIMIT and STOP_LOSS orders must carry a price, and a BUY
// order requires balance ≥ price×quantity (equality passes). MARKET
// orders snapshot the stock's current price. The balance check is
// point-in-time, not a reservation; settlement re-validates funds.
func (s *OrderService) Place(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	if !validOrderKinds[req.Kind] {
		return nil, &domain.ValidationError{Message: "kind must be MARKET, LIMIT, or STOP_LOSS"}
	}
	if req.Side != domain.OrderSideBuy && req.Side != domain.OrderSideSell {
		return nil, &domain.ValidationError{Message: "side must be BUY or SELL"}
	}
	if req.Quantity <= 0 {
		return nil, &domain.ValidationError{Message: "quantity must be a positive integer"}
	}

	var order *domain.Order
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		account, err := tx.Accounts().Get(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if !account.IsActive() {
			return domain.ErrAccountNotActive
		}

		stock, err := tx.Stocks().Get(ctx, req.StockID)
		if err != nil {
			return err
		}

		var price decimal.Decimal
		if req.Kind == domain.OrderKindMarket {
			price = stock.CurrentPrice
		} else {
			if req.Price == nil {
				return &domain.ValidationError{Message: "price is required for LIMIT and STOP_LOSS orders"}
			}
			if !req.Price.IsPositive() {
				return &domain.ValidationError{Message: "price must be greater than 0"}
			}
			price = *req.Price
		}

		if req.Side == domain.OrderSideBuy {
			required := price.Mul(decimal.NewFromInt(req.Quantity))
			if account.Balance.LessThan(required) {
				return domain.ErrInsufficientBalance
			}
		}

		now := time.Now()
		order = &domain.Order{
			ID:        uuid.New().String(),
			AccountID: req.AccountID,
			StockID:   req.StockID,
			Kind:      req.Kind,
			Side:      req.Side,
			Quantity:  req.Quantity,
			Price:     price,
			Status:    domain.OrderStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("order placed",
		slog.String("order_id", order.ID),
		slog.String("account_id", order.AccountID),
		slog.String("stock_id", order.StockID),
		slog.String("side", string(order.Side)),
		slog.Int64("quantity", order.Quantity),
		slog.String("price", order.Price.String()),
	)
	return order, nil
}

// Cancel transitions a PENDING order to CANCELLED. Orders already
// EXECUTED or CANCELLED cannot be cancelled.
func (s *OrderService) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	var order *domain.Order
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		o, err := tx.Orders().Transition(ctx, orderID, domain.OrderStatusPending, domain.OrderStatusCancelled)
		if errors.Is(err, domain.ErrOrderNotPending) {
			return domain.ErrOrderNotCancellable
		}
		if err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("order cancelled", slog.String("order_id", orderID))
	return order, nil
}

// Get retrieves an order by ID.
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.store.Orders().Get(ctx, id)
}

// GetByAccount returns the account's orders.
func (s *OrderService) GetByAccount(ctx context.Context, accountID string) ([]*domain.Order, error) {
	return s.store.Orders().GetByAccount(ctx, accountID)
}

// GetByStatus returns all orders with the given status.
func (s *OrderService) GetByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	if !validOrderStatuses[status] {
		return nil, &domain.ValidationError{Message: "status must be PENDING, EXECUTED, or CANCELLED"}
	}
	return s.store.Orders().GetByStatus(ctx, status)
}
