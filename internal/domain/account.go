package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountKind distinguishes cash accounts from margin accounts.
type AccountKind string

const (
	AccountKindCash   AccountKind = "CASH"
	AccountKindMargin AccountKind = "MARGIN"
)

// AccountStatus represents the lifecycle state of an account.
// Balance mutations are only permitted while the account is ACTIVE.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusClosed    AccountStatus = "CLOSED"
)

// Account holds a user's cash balance. Accounts are never hard-deleted;
// closing an account only changes its status.
type Account struct {
	ID            string
	OwnerID       string
	AccountNumber string
	Balance       decimal.Decimal
	Kind          AccountKind
	Status        AccountStatus
	CreatedAt     time.Time
}

// NewAccountNumber generates an account number of the form
// "ACC" + 8 uppercase alphanumeric characters.
func NewAccountNumber() string {
	return "ACC" + strings.ToUpper(uuid.New().String()[:8])
}

// IsActive reports whether balance mutations are permitted.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}
