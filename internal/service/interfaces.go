package service

import (
	"context"

	"github.com/account-ledger-core/internal/domain/account"
	"github.com/account-ledger-core/internal/domain/transaction"
	"github.com/google/uuid"
)

// TransactionService orchestrates balance operations. UseBalance and
// CancelBalance run under the per-account lock; the RecordFailed variants are
// the failure-logging entry points called by the API layer after an error
// propagated, outside the lock.
type TransactionService interface {
	// UseBalance debits amount from the user's account and records the
	// successful transaction. Fails without mutation when the user or
	// account is missing, ownership does not match, the account is closed,
	// or the balance is insufficient.
	UseBalance(ctx context.Context, userID uuid.UUID, accountNumber string, amount int64) (*transaction.Transaction, error)

	// CancelBalance reverses a prior USE transaction. The cancel amount
	// must equal the original amount exactly and the transaction must
	// belong to the given account.
	CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*transaction.Transaction, error)

	// QueryTransaction returns the stored record for the given ID.
	// Read-only; no lock is taken.
	QueryTransaction(ctx context.Context, transactionID string) (*transaction.Transaction, error)

	// RecordFailedUse appends a USE/FAIL record for the account with its
	// current balance as snapshot
	RecordFailedUse(ctx context.Context, accountNumber string, amount int64) error

	// RecordFailedCancel appends a CANCEL/FAIL record for the account with
	// its current balance as snapshot
	RecordFailedCancel(ctx context.Context, accountNumber string, amount int64) error
}

// AccountService manages the account lifecycle
type AccountService interface {
	// CreateAccount opens a new active account for the user.
	// Returns ErrMaxAccountsPerUser when the user already holds the limit.
	CreateAccount(ctx context.Context, userID uuid.UUID, initialBalance int64) (*account.Account, error)

	// CloseAccount transitions the user's account to CLOSED. The account
	// must be active, owned by the user, and have a zero balance.
	CloseAccount(ctx context.Context, userID uuid.UUID, accountNumber string) (*account.Account, error)

	// GetAccountsByUserID lists the user's accounts
	GetAccountsByUserID(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
}
