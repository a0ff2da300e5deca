package storage

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel *Error
		kind     ErrorKind
	}{
		{
			name:     "not found",
			err:      NotFound("open", "/a.txt"),
			sentinel: ErrNotFound,
			kind:     KindNotFound,
		},
		{
			name:     "already exists",
			err:      AlreadyExists("copy", "/b.txt"),
			sentinel: ErrAlreadyExists,
			kind:     KindAlreadyExists,
		},
		{
			name:     "invalid path",
			err:      InvalidPath("../x"),
			sentinel: ErrInvalidPath,
			kind:     KindInvalidPath,
		},
		{
			name:     "unavailable",
			err:      Unavailable("stat", "/c", errors.New("connection refused")),
			sentinel: ErrUnavailable,
			kind:     KindUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false, want true", tt.err)
			}
			if got := KindOf(tt.err); got != tt.kind {
				t.Errorf("KindOf = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestErrorKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("save failed: %w", NotFound("save", "/x"))
	if !errors.Is(err, ErrNotFound) {
		t.Error("wrapped not-found error no longer matches ErrNotFound")
	}
	if KindOf(err) != KindNotFound {
		t.Errorf("KindOf(wrapped) = %v, want KindNotFound", KindOf(err))
	}
}

func TestKindsDoNotCrossMatch(t *testing.T) {
	if errors.Is(NotFound("open", "/a"), ErrAlreadyExists) {
		t.Error("not-found error matched ErrAlreadyExists")
	}
	if errors.Is(errors.New("plain"), ErrNotFound) {
		t.Error("plain error matched ErrNotFound")
	}
}

func TestKindOfForeignError(t *testing.T) {
	if got := KindOf(errors.New("backend exploded")); got != KindUnknown {
		t.Errorf("KindOf(foreign) = %v, want KindUnknown", got)
	}
}

func TestUnknownRetainsCause(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := Unknown("save", "/big", cause)
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap chain")
	}
}

func TestAbsentFileInfoDefaults(t *testing.T) {
	fi := Absent("/missing/file.txt")
	if fi.Exists {
		t.Error("Absent returned Exists = true")
	}
	if fi.IsDir {
		t.Error("absent info must not report IsDir")
	}
	if fi.Size != 0 {
		t.Errorf("absent info Size = %d, want 0", fi.Size)
	}
	if fi.Name != "file.txt" {
		t.Errorf("Name = %q, want %q", fi.Name, "file.txt")
	}
}
