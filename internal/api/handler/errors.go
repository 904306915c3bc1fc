package handler

import (
	"errors"
	"net/http"

	"github.com/account-ledger-core/internal/domain/account"
	"github.com/account-ledger-core/internal/domain/transaction"
	"github.com/account-ledger-core/internal/domain/user"
	"github.com/account-ledger-core/internal/locking"
)

// mapDomainError translates a service error into an HTTP status and a stable
// machine-readable error code. Unrecognized errors map to a 500.
func mapDomainError(err error) (int, string, string) {
	switch {
	case errors.Is(err, user.ErrUserNotFound{}):
		return http.StatusNotFound, "USER_NOT_FOUND", "User not found"
	case errors.Is(err, account.ErrAccountNotFound{}):
		return http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"
	case errors.Is(err, transaction.ErrTransactionNotFound{}):
		return http.StatusNotFound, "TRANSACTION_NOT_FOUND", "Transaction not found"
	case errors.Is(err, account.ErrUserAccountMismatch):
		return http.StatusForbidden, "USER_ACCOUNT_MISMATCH", "Account is not owned by the user"
	case errors.Is(err, account.ErrAccountAlreadyClosed):
		return http.StatusConflict, "ACCOUNT_ALREADY_CLOSED", "Account is closed"
	case errors.Is(err, account.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", "Amount exceeds account balance"
	case errors.Is(err, account.ErrBalanceNotEmpty):
		return http.StatusConflict, "BALANCE_NOT_EMPTY", "Account with remaining balance cannot be closed"
	case errors.Is(err, account.ErrMaxAccountsPerUser):
		return http.StatusConflict, "MAX_ACCOUNTS_PER_USER", "User already holds the maximum number of accounts"
	case errors.Is(err, account.ErrInvalidAmount):
		return http.StatusBadRequest, "INVALID_REQUEST", "Amount is invalid"
	case errors.Is(err, transaction.ErrTransactionAccountMismatch):
		return http.StatusUnprocessableEntity, "TRANSACTION_ACCOUNT_MISMATCH", "Transaction does not belong to the account"
	case errors.Is(err, transaction.ErrCancelAmountMismatch):
		return http.StatusUnprocessableEntity, "CANCEL_AMOUNT_MISMATCH", "Cancel amount must equal the original transaction amount"
	case errors.Is(err, locking.ErrAccountInUse):
		return http.StatusConflict, "ACCOUNT_IN_USE", "Account is busy with another transaction, try again later"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred"
	}
}
