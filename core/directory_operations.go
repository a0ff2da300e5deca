package core

import (
	"context"
	"time"

	"github.com/nvollmar/sharefs/internal/pathutil"
	"github.com/nvollmar/sharefs/storage"
)

// GetDirectoryContents lists the directory at path. A missing directory is a
// query result, not an error: {Exists: false, Entries: []}. An existing but
// empty directory is {Exists: true, Entries: []} — the two remain
// distinguishable.
func (s *Store) GetDirectoryContents(ctx context.Context, path string) (storage.DirectoryContents, error) {
	defer s.observe("list", time.Now())

	p, err := pathutil.Clean(path)
	if err != nil {
		return storage.DirectoryContents{}, err
	}

	// The existence probe is authoritative: enumeration alone cannot tell
	// an absent directory from an empty one
	probe, err := s.cachedStat(ctx, p)
	if err != nil {
		return storage.DirectoryContents{}, err
	}
	if !probe.Exists || !probe.IsDir {
		return composeDirectoryContents(p, probe, nil), nil
	}

	entries, err := s.backend.List(ctx, p)
	if err != nil {
		return storage.DirectoryContents{}, err
	}

	return composeDirectoryContents(p, probe, entries), nil
}

// composeDirectoryContents merges the existence probe with the raw backend
// enumeration. When the probe reports the directory absent (or not a
// directory at all), the enumeration is discarded.
func composeDirectoryContents(path string, probe storage.FileInfo, entries []storage.FileInfo) storage.DirectoryContents {
	if !probe.Exists || !probe.IsDir {
		return storage.DirectoryContents{
			Path:    path,
			Exists:  false,
			Entries: []storage.FileInfo{},
		}
	}

	if entries == nil {
		entries = []storage.FileInfo{}
	}

	return storage.DirectoryContents{
		Path:    path,
		Exists:  true,
		Entries: entries,
	}
}
