package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/account-ledger-core/internal/domain/account"
	"github.com/account-ledger-core/internal/domain/user"
	"github.com/google/uuid"
)

// initialAccountNumber seeds the allocation sequence for the very first account
const initialAccountNumber = "1234567890"

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	userRepo    user.Repository
	accountRepo account.Repository
	logger      *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(logger *slog.Logger, userRepo user.Repository, accountRepo account.Repository) AccountService {
	return &AccountServiceImpl{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// CreateAccount opens a new active account for the user. The account number
// is the numeric successor of the most recently issued one.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, userID uuid.UUID, initialBalance int64) (*account.Account, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.accountRepo.CountByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if count >= account.MaxAccountsPerUser {
		return nil, account.ErrMaxAccountsPerUser
	}

	accountNumber, err := s.nextAccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	acc, err := account.NewAccount(u.ID, accountNumber, initialBalance)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("Account created",
		"account_number", acc.AccountNumber,
		"user_id", u.ID.String(),
		"balance", acc.Balance,
	)

	return acc, nil
}

// nextAccountNumber allocates the next account number in sequence
func (s *AccountServiceImpl) nextAccountNumber(ctx context.Context) (string, error) {
	latest, err := s.accountRepo.GetLatestAccountNumber(ctx)
	if err != nil {
		return "", err
	}
	if latest == "" {
		return initialAccountNumber, nil
	}

	n, err := strconv.ParseInt(latest, 10, 64)
	if err != nil {
		return "", fmt.Errorf("latest account number %q is not numeric: %w", latest, err)
	}

	return fmt.Sprintf("%0*d", account.AccountNumberLength, n+1), nil
}

// CloseAccount transitions the user's account to CLOSED. The transition is
// rejected when the account is already closed or still carries a balance.
func (s *AccountServiceImpl) CloseAccount(ctx context.Context, userID uuid.UUID, accountNumber string) (*account.Account, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	acc, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if !acc.IsOwnedBy(u.ID) {
		return nil, account.ErrUserAccountMismatch
	}

	if err := acc.Close(); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Update(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("Account closed",
		"account_number", acc.AccountNumber,
		"user_id", u.ID.String(),
	)

	return acc, nil
}

// GetAccountsByUserID lists the user's accounts
func (s *AccountServiceImpl) GetAccountsByUserID(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.accountRepo.GetByUserID(ctx, u.ID)
}
