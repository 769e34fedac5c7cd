// Package durable adapts the teacher's mmap/Fdatasync helper (an
// fsync-family call the original package used to flush mmap'ed pages) to
// this engine's persistence codec, which never maps anything into memory
// (mmap access is explicitly out of scope). Only the OS-specific "flush a
// plain file's data" half of that helper survives here.
package durable

import "os"

// Fdatasync flushes f's data to stable storage using the fastest
// fsync-family call available on the current platform, skipping metadata
// flushes where the OS offers that distinction.
//
// WARNING: errors from this function are not recoverable. Once an fsync
// fails, there is no reliable way to know whether the write that triggered
// it ever reached disk; the only sound response is to treat the file as
// possibly corrupt.
func Fdatasync(f *os.File) error {
	return fdatasync(f)
}
