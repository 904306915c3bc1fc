package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/account-ledger-core/internal/domain/account"
	"github.com/account-ledger-core/internal/domain/transaction"
	"github.com/account-ledger-core/internal/domain/user"
	"github.com/account-ledger-core/internal/locking"
	"github.com/account-ledger-core/internal/platform/messaging/producers"
	"github.com/google/uuid"
)

// TransactionServiceImpl implements the TransactionService interface.
// Balance-mutating operations serialize on the account's distributed lock:
// the lock is acquired before any read, held through validation, mutation,
// persistence, and the ledger append, and released on every exit path.
type TransactionServiceImpl struct {
	userRepo        user.Repository
	accountRepo     account.Repository
	transactionRepo transaction.Repository
	locker          locking.AccountLocker
	events          producers.MessagePublisher // Optional, nil disables events
	logger          *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	logger *slog.Logger,
	userRepo user.Repository,
	accountRepo account.Repository,
	transactionRepo transaction.Repository,
	locker locking.AccountLocker,
	events producers.MessagePublisher,
) TransactionService {
	return &TransactionServiceImpl{
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		locker:          locker,
		events:          events,
		logger:          logger,
	}
}

// UseBalance debits amount from the account identified by accountNumber on
// behalf of userID, and records the successful transaction. Validation or
// balance failures leave the account untouched; the API layer logs those
// through RecordFailedUse after this returns.
func (s *TransactionServiceImpl) UseBalance(ctx context.Context, userID uuid.UUID, accountNumber string, amount int64) (*transaction.Transaction, error) {
	handle, err := s.locker.Acquire(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = handle.Release(ctx)
	}()

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	acc, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if err := validateUseBalance(u, acc); err != nil {
		return nil, err
	}

	if err := acc.Debit(amount); err != nil {
		s.logger.Warn("Debit rejected",
			"account_number", accountNumber,
			"amount", amount,
			"balance", acc.Balance,
			"error", err,
		)
		return nil, err
	}

	if err := s.accountRepo.Update(ctx, acc); err != nil {
		return nil, fmt.Errorf("failed to persist account %s: %w", accountNumber, err)
	}

	tx := transaction.New(transaction.TypeUse, transaction.ResultSuccess, acc, amount)
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction for account %s: %w", accountNumber, err)
	}

	s.logger.Info("Balance used",
		"transaction_id", tx.TransactionID,
		"account_number", accountNumber,
		"amount", amount,
		"balance_snapshot", tx.BalanceSnapshot,
	)

	s.publishEvent(ctx, tx)

	return tx, nil
}

// validateUseBalance enforces ownership and lifecycle preconditions
func validateUseBalance(u *user.User, acc *account.Account) error {
	if !acc.IsOwnedBy(u.ID) {
		return account.ErrUserAccountMismatch
	}
	if acc.Status != account.StatusActive {
		return account.ErrAccountAlreadyClosed
	}
	return nil
}

// CancelBalance credits amount back to the account, reversing the prior USE
// transaction identified by transactionID. Partial cancels are rejected: the
// amount must equal the original transaction's amount exactly.
func (s *TransactionServiceImpl) CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*transaction.Transaction, error) {
	handle, err := s.locker.Acquire(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = handle.Release(ctx)
	}()

	acc, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	original, err := s.transactionRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if err := validateCancelBalance(acc, original, amount); err != nil {
		return nil, err
	}

	if err := acc.Credit(amount); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Update(ctx, acc); err != nil {
		return nil, fmt.Errorf("failed to persist account %s: %w", accountNumber, err)
	}

	tx := transaction.New(transaction.TypeCancel, transaction.ResultSuccess, acc, amount)
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction for account %s: %w", accountNumber, err)
	}

	s.logger.Info("Balance use cancelled",
		"transaction_id", tx.TransactionID,
		"cancelled_transaction_id", transactionID,
		"account_number", accountNumber,
		"amount", amount,
		"balance_snapshot", tx.BalanceSnapshot,
	)

	s.publishEvent(ctx, tx)

	return tx, nil
}

// validateCancelBalance enforces referential and amount integrity between the
// cancel request and the transaction it reverses
func validateCancelBalance(acc *account.Account, original *transaction.Transaction, amount int64) error {
	if original.AccountID != acc.ID {
		return transaction.ErrTransactionAccountMismatch
	}
	if original.Amount != amount {
		return transaction.ErrCancelAmountMismatch
	}
	return nil
}

// QueryTransaction returns the stored transaction record verbatim. No lock
// is taken: the ledger is append-only and reads never race a mutation.
func (s *TransactionServiceImpl) QueryTransaction(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	return s.transactionRepo.GetByTransactionID(ctx, transactionID)
}

// RecordFailedUse appends a USE/FAIL record for the account. Runs outside
// the lock with a fresh account read, so the snapshot reflects the balance
// at record time, not necessarily at the moment of failure.
func (s *TransactionServiceImpl) RecordFailedUse(ctx context.Context, accountNumber string, amount int64) error {
	return s.recordFailure(ctx, transaction.TypeUse, accountNumber, amount)
}

// RecordFailedCancel appends a CANCEL/FAIL record for the account
func (s *TransactionServiceImpl) RecordFailedCancel(ctx context.Context, accountNumber string, amount int64) error {
	return s.recordFailure(ctx, transaction.TypeCancel, accountNumber, amount)
}

func (s *TransactionServiceImpl) recordFailure(ctx context.Context, txType transaction.Type, accountNumber string, amount int64) error {
	acc, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return err
	}

	tx := transaction.New(txType, transaction.ResultFail, acc, amount)
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return fmt.Errorf("failed to record failed transaction for account %s: %w", accountNumber, err)
	}

	s.logger.Info("Failed transaction recorded",
		"transaction_id", tx.TransactionID,
		"type", string(txType),
		"account_number", accountNumber,
		"amount", amount,
		"balance_snapshot", tx.BalanceSnapshot,
	)

	s.publishEvent(ctx, tx)

	return nil
}

// publishEvent emits the recorded transaction to the event stream.
// Best-effort: a publish failure never fails the operation that produced it.
func (s *TransactionServiceImpl) publishEvent(ctx context.Context, tx *transaction.Transaction) {
	if s.events == nil {
		return
	}

	if err := s.events.Publish(ctx, tx.AccountNumber, tx); err != nil {
		s.logger.Error("Failed to publish transaction event",
			"transaction_id", tx.TransactionID,
			"error", err,
		)
	}
}
