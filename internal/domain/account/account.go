package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInsufficientBalance  = errors.New("amount exceeds account balance")
	ErrInvalidAmount        = errors.New("amount must not be negative")
	ErrUserAccountMismatch  = errors.New("account is not owned by the user")
	ErrAccountAlreadyClosed = errors.New("account is already closed")
	ErrBalanceNotEmpty      = errors.New("account with remaining balance cannot be closed")
	ErrMaxAccountsPerUser   = errors.New("user already holds the maximum number of accounts")
)

// Status represents the lifecycle state of an account
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusClosed Status = "CLOSED"
)

// AccountNumberLength is the fixed length of external account numbers
const AccountNumberLength = 10

// MaxAccountsPerUser bounds how many accounts a single user may hold
const MaxAccountsPerUser = 10

// Account represents a monetary account owned by a user. The balance is
// stored in the smallest currency unit and must never go negative.
type Account struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	AccountNumber  string     `json:"account_number"`
	Status         Status     `json:"status"`
	Balance        int64      `json:"balance"`
	RegisteredAt   time.Time  `json:"registered_at"`
	UnregisteredAt *time.Time `json:"unregistered_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewAccount creates an active account for the given user
func NewAccount(userID uuid.UUID, accountNumber string, initialBalance int64) (*Account, error) {
	if initialBalance < 0 {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	return &Account{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: accountNumber,
		Status:        StatusActive,
		Balance:       initialBalance,
		RegisteredAt:  now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Debit subtracts amount from the balance. The balance never goes negative;
// a debit larger than the current balance fails with ErrInsufficientBalance.
func (a *Account) Debit(amount int64) error {
	if amount > a.Balance {
		return ErrInsufficientBalance
	}

	a.Balance -= amount
	a.UpdatedAt = time.Now()
	return nil
}

// Credit adds amount to the balance. Negative amounts are rejected so the
// balance invariant cannot be violated through a reversal.
func (a *Account) Credit(amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	a.Balance += amount
	a.UpdatedAt = time.Now()
	return nil
}

// Close transitions the account to CLOSED. The transition happens exactly
// once and never reverses.
func (a *Account) Close() error {
	if a.Status != StatusActive {
		return ErrAccountAlreadyClosed
	}
	if a.Balance > 0 {
		return ErrBalanceNotEmpty
	}

	now := time.Now()
	a.Status = StatusClosed
	a.UnregisteredAt = &now
	a.UpdatedAt = now
	return nil
}

// IsOwnedBy reports whether the account belongs to the given user
func (a *Account) IsOwnedBy(userID uuid.UUID) bool {
	return a.UserID == userID
}
