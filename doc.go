/*
Package bluecrab implements an embedded, single-process key/value store
with a tamper-evident, Git-style versioned history layered over a typed
value model.

We implement:

1. A typed Value union (integers, floats, strings, hex/octal/binary text,
opaque blobs) with a canonical byte encoding shared by hashing and
persistence.

2. An ordered entry store keyed by string, each entry carrying a content
hash that detects tampering with its value or metadata.

3. A commit log: Commit snapshots the live entry set under a
deterministic, content-derived id, and Checkout restores one.

4. Branches and tags, scoped to the Database handle rather than any
process-global table.

5. Diff and merge between two commits' snapshots, with conflict detection
and an optional auto-resolve.

# Technical details

**Hashing.** Every entry's hash is FNV-1a over its canonical fields
followed by one avalanche mixing step, formatted as 16 uppercase hex
characters. Commit ids use the same derivation over (parent id, message,
timestamp, snapshot hashes), so changing any input changes the id.

**Ownership.** A commit's snapshot never aliases the live entry set: Set,
Commit and Checkout all deep-copy through Value.Clone, so mutating one
can never corrupt the other.

**Binary format.** Save/Load use a length-prefixed little-endian layout
behind a 4-byte magic and a format version, written atomically via a
temp file, fsync, and rename.
*/
package bluecrab
