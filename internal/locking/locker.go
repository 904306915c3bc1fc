// Package locking provides per-account mutual exclusion for balance
// operations. The lock key is the external account number; at most one
// operation may hold a given account's lock at a time.
package locking

import (
	"context"
	"errors"
	"time"
)

// lockKeyPrefix keeps the lock namespace disjoint from any other use of the
// backing store.
const lockKeyPrefix = "aclk:"

// ErrAccountInUse is returned when the lock for an account could not be
// acquired within the configured wait bound. Callers surface this as an
// "account busy" condition; the locker never retries beyond the wait bound.
var ErrAccountInUse = errors.New("account is in use by another transaction")

// LockHandle represents a held account lock. Release is safe to call even if
// the underlying lease already expired.
type LockHandle interface {
	Release(ctx context.Context) error
}

// AccountLocker serializes access to a single account across workers and
// processes. Acquire blocks for at most the configured wait timeout and
// fails fast with ErrAccountInUse when the lock stays busy.
type AccountLocker interface {
	Acquire(ctx context.Context, accountNumber string) (LockHandle, error)
}

// Options tunes lock acquisition and lease behavior
type Options struct {
	// WaitTimeout bounds how long Acquire waits for a busy lock
	WaitTimeout time.Duration

	// LeaseDuration is how long an acquired lock is held before automatic
	// expiry, independent of explicit release. A crashed holder therefore
	// never strands the lock.
	LeaseDuration time.Duration

	// RetryDelay is the pause between acquisition attempts within the wait
	// window
	RetryDelay time.Duration
}

// DefaultOptions returns the standard lock tuning: wait up to 1s for a busy
// account, hold the lease for at most 5s.
func DefaultOptions() Options {
	return Options{
		WaitTimeout:   time.Second,
		LeaseDuration: 5 * time.Second,
		RetryDelay:    250 * time.Millisecond,
	}
}

// LockKey builds the namespaced lock key for an account number
func LockKey(accountNumber string) string {
	return lockKeyPrefix + accountNumber
}

// tries converts the wait window into a bounded number of acquisition
// attempts separated by RetryDelay.
func (o Options) tries() int {
	if o.RetryDelay <= 0 {
		return 1
	}
	n := int(o.WaitTimeout/o.RetryDelay) + 1
	if n < 1 {
		n = 1
	}
	return n
}
