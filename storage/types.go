// Package storage defines the backend-neutral data model and error taxonomy
// for sharefs. Every value crossing the backend adapter boundary is expressed
// in the types of this package, never in backend-native ones.
package storage

import (
	"path"
	"time"
)

// FileInfo describes the result of querying a single path.
// It is an immutable value constructed fresh per query.
// When Exists is false, IsDir and Size carry their zero values.
type FileInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Exists  bool      `json:"exists"`
	IsDir   bool      `json:"is_dir"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time,omitzero"`
}

// Absent returns the FileInfo for a path that does not exist.
func Absent(path string) FileInfo {
	return FileInfo{Name: baseName(path), Path: path}
}

// DirectoryContents is an immutable snapshot of a directory listing.
// Exists reports whether the directory itself exists on the backend,
// independent of whether it has entries: an empty existing directory is
// {Exists: true, Entries: []}, an absent one {Exists: false, Entries: []}.
type DirectoryContents struct {
	Path    string     `json:"path"`
	Exists  bool       `json:"exists"`
	Entries []FileInfo `json:"entries"`
}

func baseName(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	return path.Base(p)
}
