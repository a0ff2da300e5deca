// Package core implements the sharefs file storage facade: the single public
// entry point composing path normalization, a backend adapter, and directory
// listing composition behind one stable operation set.
package core

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nvollmar/sharefs/backends"
	"github.com/nvollmar/sharefs/locks"
	"github.com/nvollmar/sharefs/storage"
)

// Options tune facade behavior independent of the backend in use.
type Options struct {
	// OverwriteTargets controls copy and rename onto an existing target:
	// true overwrites silently, false fails with storage.ErrAlreadyExists.
	OverwriteTargets bool

	// EphemeralRoot marks the backend root as provisioned for this session
	// only; Close purges it best-effort.
	EphemeralRoot bool

	// CacheTTL and CacheSize configure the stat cache. A zero TTL disables
	// caching.
	CacheTTL  time.Duration
	CacheSize int
}

// DefaultOptions returns the options used when none are specified:
// silent overwrite, durable root, five-minute stat cache.
func DefaultOptions() Options {
	return Options{
		OverwriteTargets: true,
		CacheTTL:         5 * time.Minute,
		CacheSize:        1000,
	}
}

// Store is the public facade over one backend root. A single Store supports
// concurrent independent calls: every operation is self-contained given the
// canonical path and the shared backend handle, and no lock is held across
// a backend call except the rename guard.
type Store struct {
	backend     backends.Storage
	lockManager locks.Manager
	infoCache   *infoCache
	opts        Options
	logger      *zap.Logger

	closeOnce sync.Once
}

// NewStore creates a facade over backend. The lock manager guards the
// copy+delete rename window; pass a locks.LocalManager for single-node use.
func NewStore(backend backends.Storage, lockManager locks.Manager, opts Options, logger *zap.Logger) *Store {
	var cache *infoCache
	if opts.CacheTTL > 0 {
		size := opts.CacheSize
		if size <= 0 {
			size = 1000
		}
		cache = newInfoCache(opts.CacheTTL, size)
	}

	return &Store{
		backend:     backend,
		lockManager: lockManager,
		infoCache:   cache,
		opts:        opts,
		logger:      logger,
	}
}

// Close releases the Store. It is idempotent; repeated calls are no-ops.
// When the root is ephemeral its contents are purged best-effort first.
// Cleanup failures are logged and discarded, never returned: teardown must
// not mask the outcome of the operations that preceded it.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.opts.EphemeralRoot {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.backend.Purge(ctx, "/"); err != nil {
				s.logger.Warn("Failed to purge ephemeral root", zap.Error(err))
			}
		}

		if s.infoCache != nil {
			s.infoCache.Stop()
		}

		if err := s.backend.Close(); err != nil {
			s.logger.Warn("Failed to close backend", zap.Error(err))
		}
	})
	return nil
}

// cachedStat consults the stat cache before hitting the backend.
func (s *Store) cachedStat(ctx context.Context, path string) (storage.FileInfo, error) {
	if s.infoCache != nil {
		if fi, ok := s.infoCache.Get(path); ok {
			return fi, nil
		}
	}

	fi, err := s.backend.Stat(ctx, path)
	if err != nil {
		return storage.FileInfo{}, err
	}

	if s.infoCache != nil {
		s.infoCache.Set(path, fi)
	}
	return fi, nil
}

// invalidate drops cached state for path, anything cached beneath it, and
// every ancestor up to the root: a mutation implicitly creates or removes
// intermediate directories, so no ancestor's cached stat can be trusted.
func (s *Store) invalidate(path string) {
	if s.infoCache == nil {
		return
	}
	s.infoCache.Invalidate(path)
	s.infoCache.InvalidatePrefix(path + "/")
	for dir := parentDir(path); ; dir = parentDir(dir) {
		s.infoCache.Invalidate(dir)
		if dir == "/" {
			break
		}
	}
}

func parentDir(path string) string {
	if path == "/" {
		return "/"
	}
	for i := len(path) - 1; i > 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "/"
}
