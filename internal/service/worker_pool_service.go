package service

import (
	"context"
	"log/slog"

	"github.com/account-ledger-core/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolTransactionService bounds how many balance operations run
// concurrently by pushing them through a shared worker pool. Read-only and
// failure-logging calls bypass the pool; they take no account lock and need
// no admission control.
type WorkerPoolTransactionService struct {
	baseService TransactionService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolTransactionService(
	baseService TransactionService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolTransactionService, error) {
	// Create a new worker pool with the specified size
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolTransactionService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

type transactionResult struct {
	tx  *transaction.Transaction
	err error
}

// UseBalance submits the debit to the worker pool and waits for its result
func (s *WorkerPoolTransactionService) UseBalance(ctx context.Context, userID uuid.UUID, accountNumber string, amount int64) (*transaction.Transaction, error) {
	return s.submit(accountNumber, func() (*transaction.Transaction, error) {
		return s.baseService.UseBalance(ctx, userID, accountNumber, amount)
	})
}

// CancelBalance submits the reversal to the worker pool and waits for its result
func (s *WorkerPoolTransactionService) CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*transaction.Transaction, error) {
	return s.submit(accountNumber, func() (*transaction.Transaction, error) {
		return s.baseService.CancelBalance(ctx, transactionID, accountNumber, amount)
	})
}

// QueryTransaction passes through to the base service
func (s *WorkerPoolTransactionService) QueryTransaction(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	return s.baseService.QueryTransaction(ctx, transactionID)
}

// RecordFailedUse passes through to the base service
func (s *WorkerPoolTransactionService) RecordFailedUse(ctx context.Context, accountNumber string, amount int64) error {
	return s.baseService.RecordFailedUse(ctx, accountNumber, amount)
}

// RecordFailedCancel passes through to the base service
func (s *WorkerPoolTransactionService) RecordFailedCancel(ctx context.Context, accountNumber string, amount int64) error {
	return s.baseService.RecordFailedCancel(ctx, accountNumber, amount)
}

func (s *WorkerPoolTransactionService) submit(accountNumber string, fn func() (*transaction.Transaction, error)) (*transaction.Transaction, error) {
	resultChan := make(chan transactionResult, 1)

	err := s.pool.Submit(func() {
		tx, err := fn()
		resultChan <- transactionResult{tx: tx, err: err}
	})
	if err != nil {
		s.logger.Error("Failed to submit operation to worker pool",
			"account_number", accountNumber,
			"error", err,
		)
		return nil, err
	}

	// Wait for the result from the worker
	result := <-resultChan
	return result.tx, result.err
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolTransactionService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolTransactionService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolTransactionService) Capacity() int {
	return s.pool.Cap()
}
