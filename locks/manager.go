// Package locks provides lock management for multi-step storage operations.
// A rename performed as copy+delete is guarded by a lock on both paths so
// concurrent callers cannot interleave inside the non-atomic window.
package locks

import (
	"context"
)

// Manager defines the interface for lock operations.
type Manager interface {
	// Acquire attempts to acquire the lock for key.
	// Returns true if acquired, false if currently held elsewhere.
	Acquire(ctx context.Context, key string) (bool, error)

	// Release releases a previously acquired lock for key.
	Release(ctx context.Context, key string) error

	// Close closes the lock manager and releases any resources.
	Close() error
}
