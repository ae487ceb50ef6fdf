package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderKind distinguishes market orders from limit and stop-loss orders.
type OrderKind string

const (
	OrderKindMarket   OrderKind = "MARKET"
	OrderKindLimit    OrderKind = "LIMIT"
	OrderKindStopLoss OrderKind = "STOP_LOSS"
)

// OrderSide indicates whether an order buys or sells.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// OrderStatus represents the lifecycle state of an order. EXECUTED and
// CANCELLED are terminal; the only transitions are PENDING → EXECUTED
// and PENDING → CANCELLED.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusExecuted  OrderStatus = "EXECUTED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is a buy or sell instruction against a stock. Price is always
// populated once the order is persisted: MARKET orders carry the stock
// price snapshotted at placement.
type Order struct {
	ID        string
	AccountID string
	StockID   string
	Kind      OrderKind
	Side      OrderSide
	Quantity  int64
	Price     decimal.Decimal
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal reports whether the order can no longer change state.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusExecuted || o.Status == OrderStatusCancelled
}
