package locking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	redislib "github.com/redis/go-redis/v9"
)

// RedisAccountLocker implements AccountLocker on top of a Redis-backed
// distributed mutex. Mutual exclusion holds across all service instances
// sharing the same Redis, not just across goroutines of one process.
type RedisAccountLocker struct {
	redsync *redsync.Redsync
	opts    Options
	logger  *slog.Logger
}

// NewRedisAccountLocker creates a locker backed by the given Redis client
func NewRedisAccountLocker(logger *slog.Logger, client redislib.UniversalClient, opts Options) *RedisAccountLocker {
	pool := goredis.NewPool(client)

	return &RedisAccountLocker{
		redsync: redsync.New(pool),
		opts:    opts,
		logger:  logger,
	}
}

// Acquire obtains the exclusive lock for accountNumber, waiting up to the
// configured wait bound. A busy lock yields ErrAccountInUse.
func (l *RedisAccountLocker) Acquire(ctx context.Context, accountNumber string) (LockHandle, error) {
	mutex := l.redsync.NewMutex(
		LockKey(accountNumber),
		redsync.WithExpiry(l.opts.LeaseDuration),
		redsync.WithTries(l.opts.tries()),
		redsync.WithRetryDelay(l.opts.RetryDelay),
	)

	l.logger.Debug("Acquiring account lock", "account_number", accountNumber)

	if err := mutex.LockContext(ctx); err != nil {
		if isContention(err) {
			l.logger.Warn("Account lock acquisition failed", "account_number", accountNumber)
			return nil, fmt.Errorf("%w: %s", ErrAccountInUse, accountNumber)
		}
		l.logger.Error("Failed to acquire account lock", "account_number", accountNumber, "error", err)
		return nil, fmt.Errorf("failed to acquire lock for account %s: %w", accountNumber, err)
	}

	l.logger.Debug("Account lock acquired", "account_number", accountNumber)

	return &redisLockHandle{
		mutex:         mutex,
		accountNumber: accountNumber,
		logger:        l.logger,
	}, nil
}

// isContention distinguishes "lock held by someone else" from transport or
// context failures. redsync reports contention either via ErrFailed or a
// taken-node error message.
func isContention(err error) bool {
	if errors.Is(err, redsync.ErrFailed) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "lock already taken") || strings.Contains(msg, "failed to acquire lock")
}

type redisLockHandle struct {
	mutex         *redsync.Mutex
	accountNumber string
	logger        *slog.Logger
}

// Release unlocks the account. A lease that already expired is logged and
// treated as released; the error must never mask the guarded operation's
// outcome.
func (h *redisLockHandle) Release(ctx context.Context) error {
	ok, err := h.mutex.UnlockContext(ctx)
	if err != nil {
		h.logger.Warn("Failed to release account lock", "account_number", h.accountNumber, "error", err)
		return nil
	}
	if !ok {
		h.logger.Warn("Account lock was not held or already expired", "account_number", h.accountNumber)
		return nil
	}

	h.logger.Debug("Account lock released", "account_number", h.accountNumber)
	return nil
}
