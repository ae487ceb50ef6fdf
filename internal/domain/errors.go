package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes: not-found errors
// to 404, argument errors to 400, state and conflict errors to 409.
var (
	// Not found.
	ErrAccountNotFound = errors.New("account_not_found")
	ErrStockNotFound   = errors.New("stock_not_found")
	ErrOrderNotFound   = errors.New("order_not_found")
	ErrTradeNotFound   = errors.New("trade_not_found")
	ErrHoldingNotFound = errors.New("holding_not_found")

	// Invalid argument.
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrMismatchedStocks    = errors.New("orders_for_different_stocks")
	ErrInvalidOrderSides   = errors.New("invalid_order_sides")

	// Invalid state.
	ErrAccountNotActive     = errors.New("account_not_active")
	ErrOrderNotPending      = errors.New("order_not_pending")
	ErrOrderNotCancellable  = errors.New("order_not_cancellable")
	ErrNoHoldings           = errors.New("no_holdings_found_to_sell")
	ErrInsufficientHoldings = errors.New("insufficient_holdings")

	// Conflict: a settlement lost the conditional order transition to a
	// concurrent settlement or cancellation.
	ErrSettlementConflict = errors.New("settlement_conflict")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
