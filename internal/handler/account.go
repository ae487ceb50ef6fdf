package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"tradedesk/internal/domain"
	"tradedesk/internal/service"
)

// AccountHandler handles HTTP requests for account endpoints.
type AccountHandler struct {
	accountSvc *service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc *service.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// createAccountRequest is the JSON request body for POST /accounts.
type createAccountRequest struct {
	OwnerID        string          `json:"owner_id"`
	Kind           string          `json:"kind"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// amountRequest is the JSON request body for deposits and withdrawals.
type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// transferRequest is the JSON request body for POST /transfers.
type transferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// accountResponse is the JSON representation of an account.
type accountResponse struct {
	AccountID     string          `json:"account_id"`
	OwnerID       string          `json:"owner_id"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	Kind          string          `json:"kind"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"created_at"`
}

func newAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		AccountID:     a.ID,
		OwnerID:       a.OwnerID,
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance,
		Kind:          string(a.Kind),
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

// Create handles POST /accounts.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	account, err := h.accountSvc.Create(r.Context(), req.OwnerID, domain.AccountKind(req.Kind), req.InitialBalance)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, newAccountResponse(account))
}

// Get handles GET /accounts/{account_id}.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountSvc.Get(r.Context(), chi.URLParam(r, "account_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, newAccountResponse(account))
}

// List handles GET /accounts?owner_id=… and GET /accounts?number=….
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	if number := r.URL.Query().Get("number"); number != "" {
		account, err := h.accountSvc.GetByNumber(r.Context(), number)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, []accountResponse{newAccountResponse(account)})
		return
	}

	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "owner_id or number query parameter is required")
		return
	}
	accounts, err := h.accountSvc.GetByOwner(r.Context(), ownerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, newAccountResponse(a))
	}
	WriteJSON(w, http.StatusOK, result)
}

// Deposit handles POST /accounts/{account_id}/deposit.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	account, err := h.accountSvc.Deposit(r.Context(), chi.URLParam(r, "account_id"), req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, newAccountResponse(account))
}

// Withdraw handles POST /accounts/{account_id}/withdraw.
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	account, err := h.accountSvc.Withdraw(r.Context(), chi.URLParam(r, "account_id"), req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, newAccountResponse(account))
}

// Transfer handles POST /transfers.
func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.accountSvc.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, req.Amount); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
