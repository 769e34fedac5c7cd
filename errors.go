package bluecrab

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies the failure modes of the engine. The set is finite
// and disjoint: every operation that can fail returns one of these.
type ErrorKind int

const (
	// KindInvalidArg covers an empty key or a nil value where one is required.
	KindInvalidArg ErrorKind = iota
	// KindNotFound covers a missing key, commit, branch or tag.
	KindNotFound
	// KindConflict covers a merge refused because auto-resolve was off.
	KindConflict
	// KindIo covers a filesystem failure during save/load.
	KindIo
	// KindCorrupt covers malformed bytes found while loading.
	KindCorrupt
	// KindTypeMismatch covers an unknown or unsupported type tag on load.
	KindTypeMismatch
	// KindUnsupported is reserved for on-disk format versions we can't read.
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArg:
		return "InvalidArg"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindIo:
		return "Io"
	case KindCorrupt:
		return "Corrupt"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindUnsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every operation in this
// package. It carries enough context (key, commit/tag/branch name, byte
// offset) to make a failure diagnosable without the engine ever logging
// on its own.
type Error struct {
	Kind ErrorKind
	Op   string // operation name, e.g. "set", "checkout", "load"
	Key  string // key, commit id, tag or branch name, when applicable
	Off  int    // byte offset into the decoded stream, for codec errors
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("bluecrab: %s: %s: %s", e.Op, e.Kind, e.Msg)
	if e.Key != "" {
		s = fmt.Sprintf("bluecrab: %s(%q): %s: %s", e.Op, e.Key, e.Kind, e.Msg)
	}
	if e.Off != 0 {
		s = fmt.Sprintf("%s (offset %d)", s, e.Off)
	}
	if e.Err != nil {
		s = fmt.Sprintf("%s: %v", s, e.Err)
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind ErrorKind, op, key string, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Key: key, Msg: fmt.Sprintf(format, args...), Err: err}
}

func invalidArgErr(op, key, format string, args ...any) error {
	return newErr(KindInvalidArg, op, key, nil, format, args...)
}

func notFoundErr(op, key string) error {
	return newErr(KindNotFound, op, key, nil, "%s not found", key)
}

func conflictErr(op, key string, format string, args ...any) error {
	return newErr(KindConflict, op, key, nil, format, args...)
}

func ioErr(op string, cause error, format string, args ...any) error {
	return newErr(KindIo, op, "", errors.Wrap(cause, "io"), format, args...)
}

func corruptErr(op string, off int, format string, args ...any) error {
	e := newErr(KindCorrupt, op, "", nil, format, args...)
	e.Off = off
	return e
}

func typeMismatchErr(op string, off int, tag uint16) error {
	e := newErr(KindTypeMismatch, op, "", nil, "unknown type tag %d", tag)
	e.Off = off
	return e
}

func unsupportedErr(op string, format string, args ...any) error {
	return newErr(KindUnsupported, op, "", nil, format, args...)
}

// Kind reports the ErrorKind carried by err, walking Unwrap chains.
// It returns false if err is nil or doesn't originate from this package.
func Kind(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given ErrorKind.
func Is(err error, kind ErrorKind) bool {
	k, ok := Kind(err)
	return ok && k == kind
}
