package core

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/nvollmar/sharefs/backends"
	"github.com/nvollmar/sharefs/internal/pathutil"
	"github.com/nvollmar/sharefs/metrics"
	"github.com/nvollmar/sharefs/storage"
)

var errLockHeld = errors.New("path locked by a concurrent operation")

// SaveFile writes the full content of reader to path, creating missing
// intermediate directories and overwriting existing content.
func (s *Store) SaveFile(ctx context.Context, path string, reader io.Reader) error {
	defer s.observe("save", time.Now())

	p, err := pathutil.Clean(path)
	if err != nil {
		return err
	}
	if p == "/" {
		return storage.InvalidPath(path)
	}

	if err := s.backend.Save(ctx, p, reader); err != nil {
		return err
	}

	s.invalidate(p)
	s.logger.Debug("File saved", zap.String("path", p))
	return nil
}

// GetFileStream opens the file at path for reading. Ownership of the stream
// transfers to the caller, who must close it on every exit path. Fails with
// storage.ErrNotFound for a missing file.
func (s *Store) GetFileStream(ctx context.Context, path string) (io.ReadCloser, error) {
	defer s.observe("open", time.Now())

	p, err := pathutil.Clean(path)
	if err != nil {
		return nil, err
	}
	if p == "/" {
		return nil, storage.InvalidPath(path)
	}

	return s.backend.Open(ctx, p)
}

// DeleteFile removes the file at path. Deletion is idempotent: a missing
// target is an already-satisfied postcondition, not an error.
func (s *Store) DeleteFile(ctx context.Context, path string) error {
	defer s.observe("delete", time.Now())

	p, err := pathutil.Clean(path)
	if err != nil {
		return err
	}
	if p == "/" {
		return storage.InvalidPath(path)
	}

	if err := s.backend.Delete(ctx, p); err != nil {
		return err
	}

	s.invalidate(p)
	s.logger.Debug("File deleted", zap.String("path", p))
	return nil
}

// CopyFile creates target as a full independent copy of source. Fails with
// storage.ErrNotFound when source is absent; an existing target is
// overwritten unless OverwriteTargets is off.
func (s *Store) CopyFile(ctx context.Context, source, target string) error {
	defer s.observe("copy", time.Now())

	src, dst, err := s.cleanPair(source, target)
	if err != nil {
		return err
	}

	if err := s.checkTarget(ctx, "copy", dst); err != nil {
		return err
	}

	if err := s.backend.Copy(ctx, src, dst); err != nil {
		return err
	}

	s.invalidate(dst)
	s.logger.Debug("File copied", zap.String("source", src), zap.String("target", dst))
	return nil
}

// RenameFile moves source to target. When the backend has a native rename
// primitive it is used; otherwise rename is copy followed by delete, guarded
// by the lock manager. The copy+delete form is not atomic: a failure (or
// cancellation) between the steps can leave both paths present, or only
// target. That window is inherent to such backends and is surfaced, not
// hidden.
func (s *Store) RenameFile(ctx context.Context, source, target string) error {
	defer s.observe("rename", time.Now())

	src, dst, err := s.cleanPair(source, target)
	if err != nil {
		return err
	}

	if err := s.checkTarget(ctx, "rename", dst); err != nil {
		return err
	}

	if renamer, ok := s.backend.(backends.Renamer); ok {
		if err := renamer.Rename(ctx, src, dst); err != nil {
			return err
		}
		s.invalidate(src)
		s.invalidate(dst)
		s.logger.Debug("File renamed", zap.String("source", src), zap.String("target", dst))
		return nil
	}

	release, err := s.lockPaths(ctx, src, dst)
	if err != nil {
		return err
	}
	defer release()

	if err := s.backend.Copy(ctx, src, dst); err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, src); err != nil {
		// Copy landed but the source remains; report rather than mask
		return err
	}

	s.invalidate(src)
	s.invalidate(dst)
	s.logger.Debug("File renamed via copy+delete",
		zap.String("source", src), zap.String("target", dst))
	return nil
}

// GetFileInfo reports existence and metadata for path. A missing path is a
// query result, not an error: the returned FileInfo has Exists set to false.
func (s *Store) GetFileInfo(ctx context.Context, path string) (storage.FileInfo, error) {
	defer s.observe("stat", time.Now())

	p, err := pathutil.Clean(path)
	if err != nil {
		return storage.FileInfo{}, err
	}

	return s.cachedStat(ctx, p)
}

// cleanPair normalizes a source/target pair, rejecting the root on either
// side.
func (s *Store) cleanPair(source, target string) (string, string, error) {
	src, err := pathutil.Clean(source)
	if err != nil {
		return "", "", err
	}
	dst, err := pathutil.Clean(target)
	if err != nil {
		return "", "", err
	}
	if src == "/" {
		return "", "", storage.InvalidPath(source)
	}
	if dst == "/" {
		return "", "", storage.InvalidPath(target)
	}
	return src, dst, nil
}

// checkTarget enforces the configured overwrite policy.
func (s *Store) checkTarget(ctx context.Context, op, target string) error {
	if s.opts.OverwriteTargets {
		return nil
	}

	fi, err := s.backend.Stat(ctx, target)
	if err != nil {
		return err
	}
	if fi.Exists {
		return storage.AlreadyExists(op, target)
	}
	return nil
}

// lockPaths acquires the rename guard on both paths. The returned release
// function is safe to call regardless of how the operation exits.
func (s *Store) lockPaths(ctx context.Context, source, target string) (func(), error) {
	keys := []string{"file:" + source, "file:" + target}
	acquired := make([]string, 0, len(keys))

	release := func() {
		for _, key := range acquired {
			if err := s.lockManager.Release(context.Background(), key); err != nil {
				s.logger.Error("Failed to release lock", zap.String("lock_key", key), zap.Error(err))
			}
		}
	}

	for _, key := range keys {
		ok, err := s.lockManager.Acquire(ctx, key)
		if err != nil {
			release()
			return nil, storage.Unavailable("rename", source, err)
		}
		if !ok {
			release()
			return nil, storage.Unavailable("rename", source, errLockHeld)
		}
		acquired = append(acquired, key)
	}

	return release, nil
}

// observe records operation metrics.
func (s *Store) observe(op string, start time.Time) {
	metrics.BackendOpsTotal.WithLabelValues(op).Inc()
	metrics.BackendOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
