package storage

import "errors"

// ErrorKind identifies one of the closed set of failure categories that may
// cross the abstraction boundary. Callers match on kind, never on a
// backend-originated error type.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindAlreadyExists
	KindInvalidPath
	KindUnavailable
)

// String returns the wire-stable name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindInvalidPath:
		return "invalid_path"
	case KindUnavailable:
		return "backend_unavailable"
	default:
		return "unknown"
	}
}

// Kind sentinels for errors.Is matching. Any *Error with the same kind
// matches the sentinel regardless of Op, Path, or wrapped cause.
var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists}
	ErrInvalidPath   = &Error{Kind: KindInvalidPath}
	ErrUnavailable   = &Error{Kind: KindUnavailable}
)

// Error is the single error type surfaced by sharefs. Err holds the
// backend-native cause, retained for operators but never required for
// programmatic handling.
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches kind sentinels: errors.Is(err, storage.ErrNotFound) holds for
// any Error whose Kind is KindNotFound.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NotFound reports that a required path does not exist.
func NotFound(op, path string) error {
	return &Error{Kind: KindNotFound, Op: op, Path: path}
}

// AlreadyExists reports a conflicting existing resource.
func AlreadyExists(op, path string) error {
	return &Error{Kind: KindAlreadyExists, Op: op, Path: path}
}

// InvalidPath reports a path rejected by normalization.
func InvalidPath(path string) error {
	return &Error{Kind: KindInvalidPath, Op: "normalize", Path: path}
}

// Unavailable wraps a transport-level backend failure (network, auth,
// timeout). Always surfaced, never retried or swallowed by sharefs.
func Unavailable(op, path string, err error) error {
	return &Error{Kind: KindUnavailable, Op: op, Path: path, Err: err}
}

// Unknown wraps a backend failure that fits no other category.
func Unknown(op, path string, err error) error {
	return &Error{Kind: KindUnknown, Op: op, Path: path, Err: err}
}

// KindOf extracts the kind from err, unwrapping as needed.
// Errors not originating from this package report KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
