package bluecrab

import (
	"errors"
	"strings"
	"testing"
)

func TestError_ErrorAndUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := ioErr("save", inner, "writing %s", "temp file")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("err = %T, wanted *Error", err)
	}
	if !errors.Is(err, inner) {
		t.Fatalf("errors.Is(err, inner) = false, wanted true")
	}
	if e.Kind != KindIo {
		t.Fatalf("Kind = %v, wanted KindIo", e.Kind)
	}
	s := err.Error()
	if !strings.Contains(s, "writing temp file") || !strings.Contains(s, "disk full") {
		t.Fatalf("err.Error() = %q, wanted message with writing temp file/disk full", s)
	}
}

func TestError_KindHelpers(t *testing.T) {
	cases := []struct {
		err  error
		kind ErrorKind
	}{
		{invalidArgErr("set", "", "empty key"), KindInvalidArg},
		{notFoundErr("get", "missing"), KindNotFound},
		{conflictErr("merge", "k", "source and target disagree"), KindConflict},
		{corruptErr("load", 12, "truncated"), KindCorrupt},
		{typeMismatchErr("load", 4, 99), KindTypeMismatch},
		{unsupportedErr("load", "format version 2"), KindUnsupported},
	}
	for _, c := range cases {
		k, ok := Kind(c.err)
		if !ok || k != c.kind {
			t.Fatalf("Kind(%v) = (%v, %v), wanted (%v, true)", c.err, k, ok, c.kind)
		}
		if !Is(c.err, c.kind) {
			t.Fatalf("Is(%v, %v) = false, wanted true", c.err, c.kind)
		}
	}

	if _, ok := Kind(errors.New("plain")); ok {
		t.Fatalf("Kind(plain error) = ok, wanted !ok")
	}
}

func TestError_NotFoundMentionsKey(t *testing.T) {
	err := notFoundErr("checkout", "deadbeef")
	if !strings.Contains(err.Error(), "deadbeef") {
		t.Fatalf("err.Error() = %q, wanted to mention the key", err.Error())
	}
}
