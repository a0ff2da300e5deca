// Package backends provides storage backend adapters and interfaces for
// sharefs. Adapters translate backend-native calls and failure signals into
// the storage package's types; no backend error type escapes this seam.
package backends

import (
	"context"
	"io"

	"github.com/nvollmar/sharefs/storage"
)

// Storage defines the contract every backend adapter satisfies.
// All paths are canonical (pathutil.Clean output). All operations may block
// on network I/O and honor context cancellation; a transport timeout is
// reported as storage.ErrUnavailable, never by hanging.
type Storage interface {
	// Open opens a file for reading. The stream reflects content as of open
	// time; ownership transfers to the caller, who must Close it on every
	// exit path. Fails with storage.ErrNotFound for a missing file.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Save writes the full content of reader to path, creating any missing
	// intermediate directories and overwriting existing content. The reader
	// is consumed exactly once and need not be seekable.
	Save(ctx context.Context, path string, reader io.Reader) error

	// Copy creates target as a full independent copy of source, overwriting
	// an existing target. Fails with storage.ErrNotFound if source is absent.
	Copy(ctx context.Context, source, target string) error

	// Delete removes the file at path. Absence is an already-satisfied
	// postcondition: deleting a missing file succeeds.
	Delete(ctx context.Context, path string) error

	// Stat reports existence and metadata for path. A missing path is not
	// an error; it yields FileInfo{Exists: false}. Stat is also the
	// authoritative existence probe for directories.
	Stat(ctx context.Context, path string) (storage.FileInfo, error)

	// List enumerates the immediate children of dir in backend order.
	// An absent directory yields an empty enumeration, not an error;
	// distinguishing absent from empty is Stat's job.
	List(ctx context.Context, dir string) ([]storage.FileInfo, error)

	// Purge removes the subtree rooted at path. Used only for
	// ephemeral-root teardown.
	Purge(ctx context.Context, path string) error

	// Close releases any resources held by the adapter.
	Close() error
}

// Renamer is implemented by backends with a native atomic rename primitive.
// Where absent, rename is performed as copy+delete with a documented
// non-atomic window.
type Renamer interface {
	// Rename moves source to target. Fails with storage.ErrNotFound if
	// source is absent.
	Rename(ctx context.Context, source, target string) error
}
