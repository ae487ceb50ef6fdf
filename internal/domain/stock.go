package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock is a tradable instrument. The engine treats stocks as read-only
// reference data, except that MARKET orders snapshot CurrentPrice at
// placement time.
type Stock struct {
	ID           string
	Symbol       string
	Name         string
	Sector       string
	CurrentPrice decimal.Decimal
	LastUpdated  time.Time
}
