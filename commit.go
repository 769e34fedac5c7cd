package bluecrab

// Commit is a frozen snapshot of the entry set plus identifying metadata
// (§3, §4.4).
type Commit struct {
	ID         string
	ParentID   string // empty for a root commit
	BranchName string
	Message    string
	Timestamp  int64
	Snapshot   []Entry
}

// deriveCommitID implements the §4.4 commit-id scheme: a deterministic
// 16-hex hash of (parent_id, message, timestamp, snapshot hashes). The ids
// carry no ordering; creation order is kept by the commit log's list, not
// by comparing ids. Content-hash ids are preferred over the source's "commit_N"
// counter (§9) because they don't need separate persistence to stay
// unique after a reload, and they make the "changing any input changes
// the id" testable property immediate rather than incidental.
func deriveCommitID(parentID, message string, timestamp int64, snapshot []Entry) string {
	parts := make([][]byte, 0, 3+len(snapshot))
	parts = append(parts, []byte(parentID), []byte(message), le64(uint64(timestamp)))
	for _, e := range snapshot {
		parts = append(parts, []byte(e.Hash))
	}
	return contentHash(parts...)
}

// commitLog is the append-only history of snapshots for one database
// (§4.4). It is stored as a single flat list in creation order; per-branch
// traversal walks ParentID links starting from a branch tip.
type commitLog struct {
	commits []*Commit
	byID    map[string]*Commit
}

func newCommitLog() *commitLog {
	return &commitLog{byID: make(map[string]*Commit)}
}

func (l *commitLog) append(c *Commit) {
	l.commits = append(l.commits, c)
	l.byID[c.ID] = c
}

// find looks a commit up by id in the byID index, which append keeps in
// step with the commit list, rather than scanning the list.
func (l *commitLog) find(id string) (*Commit, bool) {
	c, ok := l.byID[id]
	return c, ok
}

func (l *commitLog) len() int { return len(l.commits) }

// chain returns the commits reachable from tip via ParentID links,
// newest first, per §4.4's log() contract.
func (l *commitLog) chain(tip string) []*Commit {
	var out []*Commit
	id := tip
	for id != "" {
		c, ok := l.find(id)
		if !ok {
			break
		}
		out = append(out, c)
		id = c.ParentID
	}
	return out
}
