package pathutil

import (
	"errors"
	"strings"
	"testing"

	"github.com/nvollmar/sharefs/storage"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		shouldError bool
	}{
		{
			name:     "empty path is root",
			input:    "",
			expected: "/",
		},
		{
			name:     "simple path",
			input:    "file.txt",
			expected: "/file.txt",
		},
		{
			name:     "nested path",
			input:    "dir/subdir/file.txt",
			expected: "/dir/subdir/file.txt",
		},
		{
			name:     "root path",
			input:    "/",
			expected: "/",
		},
		{
			name:     "leading slash is root marker",
			input:    "/etc/passwd",
			expected: "/etc/passwd",
		},
		{
			name:        "leading slash traversal",
			input:       "/../etc/passwd",
			shouldError: true,
		},
		{
			name:        "directory traversal",
			input:       "../../../etc/passwd",
			shouldError: true,
		},
		{
			name:        "mixed traversal",
			input:       "dir/../../../etc/passwd",
			shouldError: true,
		},
		{
			name:        "bare parent segment",
			input:       "..",
			shouldError: true,
		},
		{
			name:     "safe relative navigation",
			input:    "dir/../file.txt",
			expected: "/file.txt",
		},
		{
			name:     "navigation back to root",
			input:    "dir/..",
			expected: "/",
		},
		{
			name:     "current directory",
			input:    "./file.txt",
			expected: "/file.txt",
		},
		{
			name:     "multiple slashes",
			input:    "dir//file.txt",
			expected: "/dir/file.txt",
		},
		{
			name:     "trailing slash",
			input:    "dir/",
			expected: "/dir",
		},
		{
			name:        "null byte",
			input:       "file\x00.txt",
			shouldError: true,
		},
		{
			name:        "control character",
			input:       "file\x01.txt",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Clean(tt.input)

			if tt.shouldError {
				if err == nil {
					t.Fatalf("expected error for input %q, got none", tt.input)
				}
				if !errors.Is(err, storage.ErrInvalidPath) {
					t.Errorf("expected ErrInvalidPath, got %v", err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error for input %q: %v", tt.input, err)
				}
				if result != tt.expected {
					t.Errorf("for input %q, expected %q, got %q", tt.input, tt.expected, result)
				}
			}
		})
	}
}

func TestCleanDeterministic(t *testing.T) {
	inputs := []string{"", "a/b/c", "dir//x/../y", "file.txt"}
	for _, in := range inputs {
		first, err := Clean(in)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", in, err)
		}
		second, err := Clean(in)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", in, err)
		}
		if first != second {
			t.Errorf("Clean(%q) not deterministic: %q vs %q", in, first, second)
		}

		// Canonical output must survive re-normalization unchanged
		again, err := Clean(first)
		if err != nil {
			t.Fatalf("canonical %q rejected on re-clean: %v", first, err)
		}
		if again != first {
			t.Errorf("Clean not idempotent for %q: %q vs %q", in, first, again)
		}
	}
}

func TestSafeJoin(t *testing.T) {
	tests := []struct {
		name        string
		root        string
		rel         string
		shouldError bool
	}{
		{
			name: "safe join",
			root: "/safe/root",
			rel:  "file.txt",
		},
		{
			name: "safe nested join",
			root: "/safe/root",
			rel:  "dir/subdir/file.txt",
		},
		{
			name:        "escape attempt",
			root:        "/safe/root",
			rel:         "../../../etc/passwd",
			shouldError: true,
		},
		{
			name: "rooted path stays inside root",
			root: "/safe/root",
			rel:  "/etc/passwd",
		},
		{
			name:        "rooted traversal escape",
			root:        "/safe/root",
			rel:         "/../etc/passwd",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := SafeJoin(tt.root, tt.rel)

			if tt.shouldError {
				if err == nil {
					t.Fatalf("expected error for root %q, rel %q, got none", tt.root, tt.rel)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for root %q, rel %q: %v", tt.root, tt.rel, err)
			}
			if !strings.HasPrefix(result, tt.root) {
				t.Errorf("result %q does not start with root %q", result, tt.root)
			}
		})
	}
}
