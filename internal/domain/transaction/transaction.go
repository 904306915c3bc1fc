package transaction

import (
	"errors"
	"strings"
	"time"

	"github.com/account-ledger-core/internal/domain/account"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrTransactionAccountMismatch = errors.New("transaction does not belong to the account")
	ErrCancelAmountMismatch       = errors.New("cancel amount must equal the original transaction amount")
)

// Type defines possible transaction operations
type Type string

const (
	TypeUse    Type = "USE"
	TypeCancel Type = "CANCEL"
)

// Result defines transaction outcomes
type Result string

const (
	ResultSuccess Result = "SUCCESS"
	ResultFail    Result = "FAIL"
)

// Transaction is an append-only ledger record of one balance operation
// attempt, successful or not. Records are never mutated or deleted.
type Transaction struct {
	TransactionID   string    `json:"transaction_id" bson:"transaction_id"`
	Type            Type      `json:"type" bson:"type"`
	Result          Result    `json:"result" bson:"result"`
	AccountID       uuid.UUID `json:"account_id" bson:"account_id"`
	AccountNumber   string    `json:"account_number" bson:"account_number"`
	Amount          int64     `json:"amount" bson:"amount"`
	BalanceSnapshot int64     `json:"balance_snapshot" bson:"balance_snapshot"`
	TransactedAt    time.Time `json:"transacted_at" bson:"transacted_at"`
}

// New builds a transaction record for the given account. The balance
// snapshot is captured from the account's balance at record time.
func New(txType Type, result Result, acc *account.Account, amount int64) *Transaction {
	return &Transaction{
		TransactionID:   NewTransactionID(),
		Type:            txType,
		Result:          result,
		AccountID:       acc.ID,
		AccountNumber:   acc.AccountNumber,
		Amount:          amount,
		BalanceSnapshot: acc.Balance,
		TransactedAt:    time.Now(),
	}
}

// NewTransactionID generates an opaque globally unique transaction token
func NewTransactionID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
