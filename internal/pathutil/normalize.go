// Package pathutil provides canonical path handling for sharefs.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/nvollmar/sharefs/storage"
)

// Clean canonicalizes a root-relative path:
// 1. Empty input denotes the storage root and normalizes to "/"
// 2. Redundant separators and "." segments collapse
// 3. Any traversal above the root is rejected
// 4. A leading slash denotes the storage root, never the host filesystem
// Deterministic and pure; performs no I/O.
func Clean(path string) (string, error) {
	if path == "" {
		return "/", nil
	}

	if strings.Contains(path, "\x00") {
		return "", storage.InvalidPath(path)
	}
	for _, r := range path {
		if r < 32 && r != '\t' {
			return "", storage.InvalidPath(path)
		}
	}

	// A leading slash is only the root marker, never a host path
	cleaned := filepath.Clean("/" + strings.TrimPrefix(path, "/"))
	if !strings.HasPrefix(cleaned, "/") {
		return "", storage.InvalidPath(path)
	}
	// Walk the raw segments: more ".." than preceding segments means the
	// path escaped the root before Clean folded it back
	depth := 0
	for _, part := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		switch part {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return "", storage.InvalidPath(path)
			}
		default:
			depth++
		}
	}

	return cleaned, nil
}

// SafeJoin joins a backend root with a relative path, guaranteeing the
// result stays inside root. Used by filesystem-rooted backends.
func SafeJoin(root, rel string) (string, error) {
	cleanRoot := filepath.Clean(root)

	cleanRel, err := Clean(rel)
	if err != nil {
		return "", err
	}

	joined := filepath.Join(cleanRoot, strings.TrimPrefix(cleanRel, "/"))

	// Resolve symlinks where possible so a link inside root cannot point
	// the joined path outside it
	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		// Target may not exist yet; verify the textual result instead
		relPath, relErr := filepath.Rel(cleanRoot, joined)
		if relErr != nil || strings.HasPrefix(relPath, "..") {
			return "", storage.InvalidPath(rel)
		}
		return joined, nil
	}

	relPath, relErr := filepath.Rel(cleanRoot, resolved)
	if relErr != nil || strings.HasPrefix(relPath, "..") {
		return "", storage.InvalidPath(rel)
	}

	return joined, nil
}
