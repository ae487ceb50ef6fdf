package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade records a matched execution between a buy and a sell order.
// Trades are immutable once created; Quantity is the smaller of the two
// order quantities and Price is the sell order's price.
type Trade struct {
	ID          string
	BuyOrderID  string
	SellOrderID string
	StockID     string
	Quantity    int64
	Price       decimal.Decimal
	ExecutedAt  time.Time
}
