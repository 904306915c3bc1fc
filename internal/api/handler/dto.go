package handler

import (
	"time"

	"github.com/account-ledger-core/internal/domain/account"
	"github.com/account-ledger-core/internal/domain/transaction"
)

// UseBalanceRequest represents a request to debit an account
type UseBalanceRequest struct {
	UserID        string `json:"user_id" binding:"required,uuid"`
	AccountNumber string `json:"account_number" binding:"required,len=10"`
	Amount        int64  `json:"amount" binding:"required,min=10,max=1000000000"`
}

// CancelBalanceRequest represents a request to reverse a prior debit
type CancelBalanceRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required,len=10"`
	Amount        int64  `json:"amount" binding:"required,min=10,max=1000000000"`
}

// CreateAccountRequest represents a request to open a new account
type CreateAccountRequest struct {
	UserID         string `json:"user_id" binding:"required,uuid"`
	InitialBalance int64  `json:"initial_balance" binding:"min=0"`
}

// CloseAccountRequest represents a request to close an account
type CloseAccountRequest struct {
	UserID        string `json:"user_id" binding:"required,uuid"`
	AccountNumber string `json:"account_number" binding:"required,len=10"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	TransactionID   string `json:"transaction_id"`
	Type            string `json:"type"`
	Result          string `json:"result"`
	AccountNumber   string `json:"account_number"`
	Amount          int64  `json:"amount"`
	BalanceSnapshot int64  `json:"balance_snapshot"`
	TransactedAt    string `json:"transacted_at"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	AccountNumber  string `json:"account_number"`
	UserID         string `json:"user_id"`
	Status         string `json:"status"`
	Balance        int64  `json:"balance"`
	RegisteredAt   string `json:"registered_at"`
	UnregisteredAt string `json:"unregistered_at,omitempty"`
}

// mapTransactionToResponse maps a transaction record to its response DTO
func mapTransactionToResponse(tx *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   tx.TransactionID,
		Type:            string(tx.Type),
		Result:          string(tx.Result),
		AccountNumber:   tx.AccountNumber,
		Amount:          tx.Amount,
		BalanceSnapshot: tx.BalanceSnapshot,
		TransactedAt:    tx.TransactedAt.Format(time.RFC3339),
	}
}

// mapAccountToResponse maps an account to its response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	response := AccountResponse{
		AccountNumber: acc.AccountNumber,
		UserID:        acc.UserID.String(),
		Status:        string(acc.Status),
		Balance:       acc.Balance,
		RegisteredAt:  acc.RegisteredAt.Format(time.RFC3339),
	}

	if acc.UnregisteredAt != nil {
		response.UnregisteredAt = acc.UnregisteredAt.Format(time.RFC3339)
	}

	return response
}
