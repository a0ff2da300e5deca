package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nvollmar/sharefs/internal/pathutil"
	"github.com/nvollmar/sharefs/storage"
)

// LocalFSAdapter implements the backends.Storage interface on a local
// directory tree. It exists mainly to exercise the abstraction contract
// without a remote backend.
type LocalFSAdapter struct {
	rootPath string
}

// NewLocalFSAdapter creates a local filesystem adapter rooted at rootPath,
// creating the root if it does not exist.
func NewLocalFSAdapter(rootPath string) (*LocalFSAdapter, error) {
	if err := os.MkdirAll(rootPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root path %s: %w", rootPath, err)
	}

	if _, err := os.Stat(rootPath); err != nil {
		return nil, fmt.Errorf("root path %s is not accessible: %w", rootPath, err)
	}

	return &LocalFSAdapter{rootPath: rootPath}, nil
}

// resolve maps a canonical "/"-prefixed path to a host path inside the root.
// The leading slash marks the storage root, not the host filesystem root.
func (a *LocalFSAdapter) resolve(path string) (string, error) {
	return pathutil.SafeJoin(a.rootPath, strings.TrimPrefix(path, "/"))
}

// Open opens a file for reading.
func (a *LocalFSAdapter) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	fullPath, err := a.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.NotFound("open", path)
		}
		return nil, storage.Unknown("open", path, err)
	}

	return file, nil
}

// Save writes reader to path, creating parents and overwriting.
func (a *LocalFSAdapter) Save(ctx context.Context, path string, reader io.Reader) error {
	fullPath, err := a.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return storage.Unknown("save", path, err)
	}

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return storage.Unknown("save", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		os.Remove(fullPath)
		return storage.Unknown("save", path, err)
	}

	return nil
}

// Copy duplicates source to target, overwriting any existing target.
func (a *LocalFSAdapter) Copy(ctx context.Context, source, target string) error {
	src, err := a.Open(ctx, source)
	if err != nil {
		return err
	}
	defer src.Close()

	return a.Save(ctx, target, src)
}

// Rename moves source to target using the filesystem's atomic rename.
func (a *LocalFSAdapter) Rename(ctx context.Context, source, target string) error {
	srcPath, err := a.resolve(source)
	if err != nil {
		return err
	}
	dstPath, err := a.resolve(target)
	if err != nil {
		return err
	}

	// Probe the source before touching the target side, so a failed rename
	// leaves no freshly created parent directories behind
	if _, err := os.Stat(srcPath); err != nil {
		if os.IsNotExist(err) {
			return storage.NotFound("rename", source)
		}
		return storage.Unknown("rename", source, err)
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return storage.Unknown("rename", target, err)
	}

	if err := os.Rename(srcPath, dstPath); err != nil {
		if os.IsNotExist(err) {
			return storage.NotFound("rename", source)
		}
		return storage.Unknown("rename", source, err)
	}

	return nil
}

// Delete removes the file at path; a missing file is a satisfied
// postcondition, not an error.
func (a *LocalFSAdapter) Delete(ctx context.Context, path string) error {
	fullPath, err := a.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return storage.Unknown("delete", path, err)
	}

	return nil
}

// Stat reports existence and metadata; a missing path yields
// FileInfo{Exists: false} without error.
func (a *LocalFSAdapter) Stat(ctx context.Context, path string) (storage.FileInfo, error) {
	fullPath, err := a.resolve(path)
	if err != nil {
		return storage.FileInfo{}, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return storage.Absent(path), nil
		}
		return storage.FileInfo{}, storage.Unknown("stat", path, err)
	}

	fi := storage.FileInfo{
		Name:    info.Name(),
		Path:    path,
		Exists:  true,
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
	}
	if !info.IsDir() {
		fi.Size = info.Size()
	}
	if path == "/" {
		fi.Name = "/"
	}

	return fi, nil
}

// List enumerates the immediate children of dir. An absent directory yields
// an empty enumeration.
func (a *LocalFSAdapter) List(ctx context.Context, dir string) ([]storage.FileInfo, error) {
	fullPath, err := a.resolve(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, storage.Unknown("list", dir, err)
	}

	children := make([]storage.FileInfo, 0, len(entries))
	for _, entry := range entries {
		childPath := dir
		if childPath == "/" {
			childPath = "/" + entry.Name()
		} else {
			childPath = childPath + "/" + entry.Name()
		}

		child, err := a.Stat(ctx, childPath)
		if err != nil || !child.Exists {
			// Entry vanished between read and stat
			continue
		}
		children = append(children, child)
	}

	return children, nil
}

// Purge removes the subtree rooted at path.
func (a *LocalFSAdapter) Purge(ctx context.Context, path string) error {
	fullPath, err := a.resolve(path)
	if err != nil {
		return err
	}

	if fullPath == filepath.Clean(a.rootPath) {
		// Purging the root clears its contents but keeps the root itself
		entries, err := os.ReadDir(fullPath)
		if err != nil {
			return storage.Unknown("purge", path, err)
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(fullPath, entry.Name())); err != nil {
				return storage.Unknown("purge", path, err)
			}
		}
		return nil
	}

	if err := os.RemoveAll(fullPath); err != nil {
		return storage.Unknown("purge", path, err)
	}

	return nil
}

// Close releases no resources for the local filesystem adapter.
func (a *LocalFSAdapter) Close() error {
	return nil
}
