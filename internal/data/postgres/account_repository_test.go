package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/account-ledger-core/internal/domain/account"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestAccount() *account.Account {
	now := time.Now()
	return &account.Account{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		AccountNumber: "1234567890",
		Status:        account.StatusActive,
		Balance:       10000,
		RegisteredAt:  now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func accountRows(acc *account.Account) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_id", "account_number", "status", "balance",
		"registered_at", "unregistered_at", "created_at", "updated_at",
	}).AddRow(
		acc.ID, acc.UserID, acc.AccountNumber, acc.Status, acc.Balance,
		acc.RegisteredAt, acc.UnregisteredAt, acc.CreatedAt, acc.UpdatedAt,
	)
}

func TestAccountRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	acc := newTestAccount()

	query := `
		INSERT INTO accounts \(id, user_id, account_number, status, balance, registered_at, unregistered_at, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.UserID, acc.AccountNumber, acc.Status, acc.Balance, acc.RegisteredAt, acc.UnregisteredAt, acc.CreatedAt, acc.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, acc)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.UserID, acc.AccountNumber, acc.Status, acc.Balance, acc.RegisteredAt, acc.UnregisteredAt, acc.CreatedAt, acc.UpdatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, acc)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create account")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetByAccountNumber(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	acc := newTestAccount()

	query := `SELECT (.+) FROM accounts WHERE account_number = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(acc.AccountNumber).
			WillReturnRows(accountRows(acc))

		got, err := repo.GetByAccountNumber(ctx, acc.AccountNumber)
		require.NoError(t, err)
		assert.Equal(t, acc.ID, got.ID)
		assert.Equal(t, acc.AccountNumber, got.AccountNumber)
		assert.Equal(t, acc.Balance, got.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("9999999999").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByAccountNumber(ctx, "9999999999")
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetByUserID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	acc := newTestAccount()

	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE user_id = \$1 ORDER BY registered_at ASC`).
		WithArgs(acc.UserID).
		WillReturnRows(accountRows(acc))

	accounts, err := repo.GetByUserID(ctx, acc.UserID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, acc.AccountNumber, accounts[0].AccountNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Update(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	acc := newTestAccount()

	query := `
		UPDATE accounts
		SET status = \$1, balance = \$2, unregistered_at = \$3, updated_at = \$4
		WHERE id = \$5
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.Status, acc.Balance, acc.UnregisteredAt, acc.UpdatedAt, acc.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.Update(ctx, acc)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.Status, acc.Balance, acc.UnregisteredAt, acc.UpdatedAt, acc.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Update(ctx, acc)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_CountByUserID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	userID := uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM accounts WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetLatestAccountNumber(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}

	query := `SELECT account_number FROM accounts ORDER BY created_at DESC, account_number DESC LIMIT 1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WillReturnRows(pgxmock.NewRows([]string{"account_number"}).AddRow("1234567893"))

		latest, err := repo.GetLatestAccountNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "1234567893", latest)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no accounts yet", func(t *testing.T) {
		mock.ExpectQuery(query).
			WillReturnError(pgx.ErrNoRows)

		latest, err := repo.GetLatestAccountNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "", latest)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
