package noop

import (
	"context"
	"errors"
	"io"

	"github.com/nvollmar/sharefs/backends"
	"github.com/nvollmar/sharefs/storage"
)

var errNotEnabled = errors.New("backend not enabled")

// NoopAdapter is the placeholder backend used when no real backend is
// configured. Every operation fails with storage.ErrUnavailable.
type NoopAdapter struct{}

// NewNoopAdapter creates a new noop storage adapter.
func NewNoopAdapter() backends.Storage {
	return &NoopAdapter{}
}

func (n *NoopAdapter) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return nil, storage.Unavailable("open", path, errNotEnabled)
}

func (n *NoopAdapter) Save(ctx context.Context, path string, reader io.Reader) error {
	return storage.Unavailable("save", path, errNotEnabled)
}

func (n *NoopAdapter) Copy(ctx context.Context, source, target string) error {
	return storage.Unavailable("copy", source, errNotEnabled)
}

func (n *NoopAdapter) Delete(ctx context.Context, path string) error {
	return storage.Unavailable("delete", path, errNotEnabled)
}

func (n *NoopAdapter) Stat(ctx context.Context, path string) (storage.FileInfo, error) {
	return storage.FileInfo{}, storage.Unavailable("stat", path, errNotEnabled)
}

func (n *NoopAdapter) List(ctx context.Context, dir string) ([]storage.FileInfo, error) {
	return nil, storage.Unavailable("list", dir, errNotEnabled)
}

func (n *NoopAdapter) Purge(ctx context.Context, path string) error {
	return storage.Unavailable("purge", path, errNotEnabled)
}

func (n *NoopAdapter) Close() error {
	return nil
}
