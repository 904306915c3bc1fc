package locking

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryAccountLocker implements AccountLocker with in-process mutual
// exclusion. It mirrors the Redis locker's semantics (bounded wait, lease
// expiry, release-after-expiry is a no-op) without a backing service, which
// makes it suitable for tests and single-instance deployments.
type MemoryAccountLocker struct {
	mu    sync.Mutex
	locks map[string]*memoryLock
	opts  Options
}

type memoryLock struct {
	sem   chan struct{}
	owner *memoryLockHandle
}

// NewMemoryAccountLocker creates an in-process locker
func NewMemoryAccountLocker(opts Options) *MemoryAccountLocker {
	return &MemoryAccountLocker{
		locks: make(map[string]*memoryLock),
		opts:  opts,
	}
}

// Acquire obtains the lock for accountNumber, waiting up to the configured
// wait bound. A busy lock yields ErrAccountInUse.
func (l *MemoryAccountLocker) Acquire(ctx context.Context, accountNumber string) (LockHandle, error) {
	lk := l.lockFor(accountNumber)

	timeout := time.NewTimer(l.opts.WaitTimeout)
	defer timeout.Stop()

	select {
	case lk.sem <- struct{}{}:
	case <-timeout.C:
		return nil, fmt.Errorf("%w: %s", ErrAccountInUse, accountNumber)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	handle := &memoryLockHandle{locker: l, lock: lk}

	l.mu.Lock()
	lk.owner = handle
	l.mu.Unlock()

	if l.opts.LeaseDuration > 0 {
		handle.lease = time.AfterFunc(l.opts.LeaseDuration, func() {
			l.free(lk, handle)
		})
	}

	return handle, nil
}

func (l *MemoryAccountLocker) lockFor(accountNumber string) *memoryLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	lk, ok := l.locks[LockKey(accountNumber)]
	if !ok {
		lk = &memoryLock{sem: make(chan struct{}, 1)}
		l.locks[LockKey(accountNumber)] = lk
	}
	return lk
}

// free releases the slot only when handle is still the current owner, so a
// release after lease expiry (or a double release) is a no-op.
func (l *MemoryAccountLocker) free(lk *memoryLock, handle *memoryLockHandle) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lk.owner != handle {
		return
	}
	lk.owner = nil
	<-lk.sem
}

type memoryLockHandle struct {
	locker *MemoryAccountLocker
	lock   *memoryLock
	lease  *time.Timer
}

// Release frees the lock. Safe to call after the lease expired.
func (h *memoryLockHandle) Release(ctx context.Context) error {
	if h.lease != nil {
		h.lease.Stop()
	}
	h.locker.free(h.lock, h)
	return nil
}
