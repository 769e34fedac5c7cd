package bluecrab

// Txn is an ephemeral, in-process transaction over a Database's live entry
// set (§9's open question on transactions). Unlike the commit log, a Txn
// never touches storage and leaves nothing behind on rollback or commit:
// Begin snapshots the live set, Rollback restores it, and Commit simply
// drops the snapshot and lets the mutations already applied through db
// stand. There is no isolation between concurrent Txns on the same
// Database; like the rest of this package, a Txn assumes single-goroutine
// use by its owner.
//
// This replaces the teacher's bbolt-backed Tx (tx.go), which gets real
// isolation and durability for free from bbolt's MVCC pages. Without a
// backing engine that offers that, the honest alternative is the one the
// source's own commit/restore machinery already provides, so Txn is built
// on entryStore.snapshot/restore rather than reimplementing MVCC.
type Txn struct {
	db     *Database
	snap   []Entry
	done   bool
	origin string // not set by Begin and not read by DescribeOpenTxns
}

// Begin starts a transaction: snap is grabbed before any mutation a
// subsequent db.Set/Delete/etc. would apply, so Rollback can undo them.
func (db *Database) Begin() *Txn {
	tx := &Txn{db: db, snap: db.entries.snapshot()}
	db.openTxns = append(db.openTxns, tx)
	return tx
}

// Rollback restores the live entry set to the state it had when the
// transaction began and closes the transaction. Calling Rollback or Commit
// more than once is a no-op past the first call.
func (tx *Txn) Rollback() {
	if tx.done {
		return
	}
	tx.db.entries.restore(tx.snap)
	tx.close()
}

// Commit closes the transaction, keeping whatever mutations were applied
// to the live set while it was open. It does not create a Commit in the
// versioned history; call Database.Commit separately for that.
func (tx *Txn) Commit() {
	if tx.done {
		return
	}
	tx.close()
}

func (tx *Txn) close() {
	tx.done = true
	tx.db.removeOpenTxn(tx)
}

func (db *Database) removeOpenTxn(tx *Txn) {
	for i, t := range db.openTxns {
		if t == tx {
			db.openTxns = append(db.openTxns[:i], db.openTxns[i+1:]...)
			return
		}
	}
}

// DescribeOpenTxns reports one line per transaction still open on db,
// intended for diagnosing a leaked Begin with no matching Commit/Rollback
// (the same role the teacher's debug.go fills for leaked bbolt txns).
func (db *Database) DescribeOpenTxns() []string {
	out := make([]string, 0, len(db.openTxns))
	for range db.openTxns {
		out = append(out, "open transaction over "+db.path)
	}
	return out
}
