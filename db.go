package bluecrab

import (
	"sort"
	"time"
)

// Options configures a Database at construction time (mirrors the
// teacher's Options struct in db.go: a handful of knobs, no builder
// pattern). The zero value is a usable default.
type Options struct {
	// Logger receives diagnostic lines the engine would otherwise print
	// (spec §7/§9 flag stdout/stderr writes inside the engine as a
	// defect). Defaults to a *logrus.Logger at Warn level.
	Logger Logf
	// MaxValueBytes caps the canonical-encoded size of a Value passed to
	// Set, when non-zero (§6: implementers MAY impose a documented
	// per-entry cap). Zero means no cap.
	MaxValueBytes int
	// Clock overrides time.Now, for deterministic tests.
	Clock func() time.Time
}

func (o Options) logf() Logf {
	if o.Logger != nil {
		return o.Logger
	}
	return logrusSink(defaultLogger)
}

func (o Options) clock() func() time.Time {
	if o.Clock != nil {
		return o.Clock
	}
	return time.Now
}

// Database is the aggregate root of the engine: the live entry set, the
// append-only commit log, the branch and tag registries, and the id of
// the commit currently checked out. A Database is not safe for
// concurrent use by multiple goroutines without external synchronization
// (§1: no multi-writer concurrency).
type Database struct {
	path string

	entries  *entryStore
	commits  *commitLog
	branches *branchRegistry
	tags     *tagRegistry

	currentCommitID string

	openTxns []*Txn

	logf          Logf
	maxValueBytes int
	clock         func() time.Time
}

func newDatabase(opt Options) *Database {
	return &Database{
		entries:       newEntryStore(),
		commits:       newCommitLog(),
		branches:      newBranchRegistry(),
		tags:          newTagRegistry(),
		logf:          opt.logf(),
		maxValueBytes: opt.MaxValueBytes,
		clock:         opt.clock(),
	}
}

// Init creates a brand-new, empty Database (§4.8 init/new). It is not
// backed by a file until Save is called with one.
func Init(opt Options) *Database {
	return newDatabase(opt)
}

// Open loads a Database previously written by Save at path. A missing
// file is reported as a KindIo error, not silently treated as empty;
// callers that want create-or-open semantics should check
// os.IsNotExist(unwrapped err) and fall back to Init themselves.
func Open(path string, opt Options) (*Database, error) {
	db, err := load(path)
	if err != nil {
		return nil, err
	}
	db.logf = opt.logf()
	db.maxValueBytes = opt.MaxValueBytes
	db.clock = opt.clock()
	return db, nil
}

// Save persists db's full state to path atomically (§4.7).
func (db *Database) Save(path string) error {
	if err := save(db, path); err != nil {
		return err
	}
	db.path = path
	return nil
}

// Load replaces db's state in place with what's stored at path, keeping
// the caller's existing *Database identity (and its configured logger,
// clock, and cap) rather than handing back a new value the way Open
// does. Useful for reloading from disk after an external change.
func (db *Database) Load(path string) error {
	fresh, err := load(path)
	if err != nil {
		return err
	}
	fresh.logf = db.logf
	fresh.maxValueBytes = db.maxValueBytes
	fresh.clock = db.clock
	*db = *fresh
	return nil
}

// Close releases db. The in-memory engine holds no OS resources beyond
// whatever the last Save/Load touched, so Close is a formality kept for
// symmetry with the teacher's DB.Close and to flag any transaction a
// caller forgot to end.
func (db *Database) Close() error {
	if len(db.openTxns) > 0 {
		db.logf("bluecrab: closing with %d open transaction(s)", len(db.openTxns))
	}
	return nil
}

func (db *Database) now() int64 { return db.clock().UnixNano() }

// ---- Entry Store (§4.1, §4.8) ----

// Set inserts or updates key with val, touching UpdatedAt and CreatedAt
// (on insert) and recomputing the entry's hash.
func (db *Database) Set(key string, val Value) error {
	if db.maxValueBytes > 0 && len(val.canonicalBytes()) > db.maxValueBytes {
		return invalidArgErr("set", key, "value exceeds max size of %d bytes", db.maxValueBytes)
	}
	_, err := db.entries.set(key, val, db.now())
	return err
}

// Get returns a deep copy of the value stored at key.
func (db *Database) Get(key string) (Value, error) {
	return db.entries.get(key)
}

// Delete removes key. Returns KindNotFound if key doesn't exist.
func (db *Database) Delete(key string) error {
	return db.entries.delete(key)
}

// Has reports whether key exists in the live set.
func (db *Database) Has(key string) bool {
	return db.entries.has(key)
}

// Exists is an alias for Has, matching the original engine's naming
// (recovered from search.h; see SPEC_FULL.md).
func (db *Database) Exists(key string) bool {
	return db.entries.has(key)
}

// Clear removes every entry from the live set. It does not touch the
// commit log; call Commit afterward to record the empty state.
func (db *Database) Clear() {
	db.entries.clear()
}

// Len reports the number of live entries.
func (db *Database) Len() int {
	return db.entries.len()
}

// SetMetadata attaches a free-form annotation to key's entry and
// recomputes its hash, so tampering with metadata is as detectable as
// tampering with the value.
func (db *Database) SetMetadata(key, text string) error {
	return db.entries.setMetadata(key, text, db.now())
}

// GetMetadata returns key's metadata string.
func (db *Database) GetMetadata(key string) (string, error) {
	return db.entries.getMetadata(key)
}

// ---- Pattern search (§4.3, §4.8) ----

// FindKeys returns every live key matching pattern, in insertion order.
func (db *Database) FindKeys(pattern string) []string {
	var out []string
	db.entries.each(func(e *Entry) {
		if matchPattern(pattern, e.Key) {
			out = append(out, e.Key)
		}
	})
	return out
}

// FindEntries returns a deep copy of every live entry matching pattern,
// in insertion order.
func (db *Database) FindEntries(pattern string) []Entry {
	var out []Entry
	db.entries.each(func(e *Entry) {
		if matchPattern(pattern, e.Key) {
			out = append(out, e.clone())
		}
	})
	return out
}

// FindFunc returns a deep copy of every live entry for which pred
// returns true, in insertion order (recovered from search.h's predicate
// search; see SPEC_FULL.md).
func (db *Database) FindFunc(pred func(Entry) bool) []Entry {
	var out []Entry
	db.entries.each(func(e *Entry) {
		if pred(e.clone()) {
			out = append(out, e.clone())
		}
	})
	return out
}

// FindFirstFunc returns the first live entry (insertion order) for which
// pred returns true, and reports whether one was found.
func (db *Database) FindFirstFunc(pred func(Entry) bool) (Entry, bool) {
	var found Entry
	var ok bool
	db.entries.each(func(e *Entry) {
		if ok {
			return
		}
		if pred(e.clone()) {
			found = e.clone()
			ok = true
		}
	})
	return found, ok
}

// CountFunc counts the live entries for which pred returns true.
func (db *Database) CountFunc(pred func(Entry) bool) int {
	n := 0
	db.entries.each(func(e *Entry) {
		if pred(e.clone()) {
			n++
		}
	})
	return n
}

// FindByValue returns every live entry whose value's canonical encoding
// equals val's (recovered from search.h's fossil_crabsearch_by_value).
func (db *Database) FindByValue(val Value) []Entry {
	want := string(val.canonicalBytes())
	return db.FindFunc(func(e Entry) bool {
		return e.Value.typ == val.typ && string(e.Value.canonicalBytes()) == want
	})
}

// ---- Verification (§4.2, §4.8) ----

// VerifyEntry reports whether key's stored hash matches its recomputed
// hash.
func (db *Database) VerifyEntry(key string) (bool, error) {
	e, err := db.entries.getEntry(key)
	if err != nil {
		return false, err
	}
	return e.verify(), nil
}

// VerifyDB reports whether every live entry verifies.
func (db *Database) VerifyDB() bool {
	return len(db.entries.verifyAll()) == 0
}

// VerifyReport is the result of Database.VerifyReport: the keys that
// failed verification, if any.
type VerifyReport struct {
	BadKeys []string
}

// OK reports whether the report found no corruption.
func (r VerifyReport) OK() bool { return len(r.BadKeys) == 0 }

// VerifyReport runs VerifyEntry over every live entry and returns the
// full list of keys that failed, rather than only a pass/fail bool
// (recovered from crabdb.h's fossil_crabdb_check_integrity).
func (db *Database) VerifyReport() VerifyReport {
	return VerifyReport{BadKeys: db.entries.verifyAll()}
}

// ---- Commit log (§4.4, §4.8) ----

// Commit freezes a snapshot of the live entry set onto the current
// branch, returning the new commit's id. The branch tip and the
// database's checked-out commit both advance to it.
func (db *Database) Commit(message string) (string, error) {
	snap := db.entries.snapshot()
	now := db.now()
	id := deriveCommitID(db.currentCommitID, message, now, snap)
	c := &Commit{
		ID:         id,
		ParentID:   db.currentCommitID,
		BranchName: db.branches.current,
		Message:    message,
		Timestamp:  now,
		Snapshot:   snap,
	}
	db.commits.append(c)
	db.branches.advance(db.branches.current, id)
	db.currentCommitID = id
	return id, nil
}

// Checkout replaces the live entry set with commitID's snapshot and
// makes it the checked-out commit.
func (db *Database) Checkout(commitID string) error {
	c, ok := db.commits.find(commitID)
	if !ok {
		return notFoundErr("checkout", commitID)
	}
	db.entries.restore(c.Snapshot)
	db.currentCommitID = commitID
	return nil
}

// Log returns the commits reachable from the current branch's tip,
// newest first.
func (db *Database) Log() []*Commit {
	tip, _ := db.branches.tip(db.branches.current)
	return db.commits.chain(tip)
}

// CurrentCommit reports the id of the checked-out commit, or "" if
// nothing has been committed yet.
func (db *Database) CurrentCommit() string {
	return db.currentCommitID
}

// ---- Branch & tag registry (§4.5, §4.8) ----

// Branch switches the current branch to name, creating it (pointed at
// the current commit) if it doesn't already exist. A branch never
// silently forgets its tip (§4.5): switching to an existing branch
// restores the live entry set to that branch's last commit, and
// switching to a brand-new branch leaves the live set exactly as it was
// (the new branch starts out pointed at the commit already checked
// out).
func (db *Database) Branch(name string) error {
	_, existed := db.branches.tip(name)
	if err := db.branches.switchTo(name, db.currentCommitID); err != nil {
		return err
	}
	if !existed {
		return nil
	}
	tip, _ := db.branches.tip(name)
	if tip == "" {
		return nil
	}
	c, ok := db.commits.find(tip)
	if !ok {
		return notFoundErr("branch", tip)
	}
	db.entries.restore(c.Snapshot)
	db.currentCommitID = tip
	return nil
}

// Branches lists every branch name, recovered from namespace.h's
// enumeration (see SPEC_FULL.md).
func (db *Database) Branches() []string {
	names := db.branches.names()
	sort.Strings(names)
	return names
}

// DeleteBranch removes name. Refuses to delete the current branch.
func (db *Database) DeleteBranch(name string) error {
	return db.branches.delete(name)
}

// TagCommit binds name to commitID, replacing any previous binding.
func (db *Database) TagCommit(name, commitID string) error {
	if _, ok := db.commits.find(commitID); !ok {
		return notFoundErr("tag", commitID)
	}
	db.tags.set(name, commitID)
	return nil
}

// GetTaggedCommit returns the commit id bound to name.
func (db *Database) GetTaggedCommit(name string) (string, error) {
	id, ok := db.tags.get(name)
	if !ok {
		return "", notFoundErr("get_tag", name)
	}
	return id, nil
}

// Tags lists every tag, sorted by name.
func (db *Database) Tags() []TagInfo {
	list := db.tags.list()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// DeleteTag removes name.
func (db *Database) DeleteTag(name string) error {
	return db.tags.delete(name)
}

// ---- Diff & merge (§4.6, §4.8) ----

// Diff compares the snapshots of two commits.
func (db *Database) Diff(fromCommitID, toCommitID string) ([]DiffLine, error) {
	from, ok := db.commits.find(fromCommitID)
	if !ok {
		return nil, notFoundErr("diff", fromCommitID)
	}
	to, ok := db.commits.find(toCommitID)
	if !ok {
		return nil, notFoundErr("diff", toCommitID)
	}
	return diffSnapshots(from.Snapshot, to.Snapshot), nil
}

// Merge implements §4.6's merge(source, target, auto_resolve): it resets
// the live entry set to targetCommitID's snapshot, then merges
// sourceCommitID's snapshot into it key by key. A key absent from target
// is inserted; a key present in both with a different entry hash is a
// conflict. With autoResolve false, any conflict aborts the merge with a
// KindConflict error listing every conflicting key, and the live set is
// left bit-identical to
// target's snapshot — never a partial merge (§4.6, §5). With autoResolve
// true, source wins every conflict and, on success, Merge commits the
// result with the message "merge commit" whose parent is the current
// commit from before the merge began, returning the new commit's id.
func (db *Database) Merge(sourceCommitID, targetCommitID string, autoResolve bool) (commitID string, conflicts []string, err error) {
	source, ok := db.commits.find(sourceCommitID)
	if !ok {
		return "", nil, notFoundErr("merge", sourceCommitID)
	}
	target, ok := db.commits.find(targetCommitID)
	if !ok {
		return "", nil, notFoundErr("merge", targetCommitID)
	}
	parent := db.currentCommitID

	merged, conflicts, err := mergeSnapshots(source.Snapshot, target.Snapshot, autoResolve)
	if err != nil {
		db.entries.restore(target.Snapshot)
		db.currentCommitID = targetCommitID
		return "", conflicts, err
	}

	db.entries.restore(merged)
	now := db.now()
	id := deriveCommitID(parent, "merge commit", now, merged)
	c := &Commit{
		ID:         id,
		ParentID:   parent,
		BranchName: db.branches.current,
		Message:    "merge commit",
		Timestamp:  now,
		Snapshot:   merged,
	}
	db.commits.append(c)
	db.branches.advance(db.branches.current, id)
	db.currentCommitID = id
	return id, conflicts, nil
}

// MergeBranch is a convenience wrapper over Merge for the common case of
// merging another branch's tip into the branch currently checked out: the
// target is the current commit, and on success the current branch's tip
// advances to the new merge commit.
func (db *Database) MergeBranch(sourceBranch string, autoResolve bool) (commitID string, conflicts []string, err error) {
	sourceTip, ok := db.branches.tip(sourceBranch)
	if !ok {
		return "", nil, notFoundErr("merge", sourceBranch)
	}
	if sourceTip == "" {
		return "", nil, notFoundErr("merge", sourceBranch)
	}
	return db.Merge(sourceTip, db.currentCommitID, autoResolve)
}
