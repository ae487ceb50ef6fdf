package handler

import (
	"errors"
	"net/http"

	"tradedesk/internal/domain"
)

// writeDomainError maps a domain error to an HTTP response: missing
// entities to 404, argument errors to 400, state and conflict errors to
// 409, anything unanticipated to 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		WriteError(w, http.StatusBadRequest, "validation_error", ve.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrStockNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrTradeNotFound),
		errors.Is(err, domain.ErrHoldingNotFound):
		WriteError(w, http.StatusNotFound, "not_found", err.Error())

	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrMismatchedStocks),
		errors.Is(err, domain.ErrInvalidOrderSides):
		WriteError(w, http.StatusBadRequest, "invalid_argument", err.Error())

	case errors.Is(err, domain.ErrAccountNotActive),
		errors.Is(err, domain.ErrOrderNotPending),
		errors.Is(err, domain.ErrOrderNotCancellable),
		errors.Is(err, domain.ErrNoHoldings),
		errors.Is(err, domain.ErrInsufficientHoldings):
		WriteError(w, http.StatusConflict, "invalid_state", err.Error())

	case errors.Is(err, domain.ErrSettlementConflict):
		WriteError(w, http.StatusConflict, "conflict", err.Error())

	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
