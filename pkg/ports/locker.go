package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes canvas edits across replicas.
type DistributedLocker interface {
	// Lock acquires the lock for key (typically a canvas ID), retrying until it
	// succeeds or ctx is done. The lock expires on its own after ttl.
	// The returned UnlockFunc must be called to release it early.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
