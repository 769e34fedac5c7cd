package bluecrab

// Entry is one key/value row plus its bookkeeping fields (§3).
type Entry struct {
	Key       string
	Value     Value
	CreatedAt int64 // nanosecond epoch
	UpdatedAt int64 // nanosecond epoch
	Metadata  string
	Hash      string // 16 uppercase hex chars
}

// recomputeHash sets Hash to the canonical hash of the entry's other
// fields (§4.2). Callers must call this any time Value, Metadata,
// CreatedAt or UpdatedAt change.
func (e *Entry) recomputeHash() {
	e.Hash = hashEntryFields(e.Key, e.Value, e.Metadata, e.CreatedAt, e.UpdatedAt)
}

// verify reports whether the entry's stored hash matches its recomputed
// hash (§4.2 verify(entry)).
func (e *Entry) verify() bool {
	return e.Hash == hashEntryFields(e.Key, e.Value, e.Metadata, e.CreatedAt, e.UpdatedAt)
}

// clone deep-copies e, including any heap-backed Value payload, so a
// snapshot entry never aliases a live one (§9's "snapshot ownership").
func (e Entry) clone() Entry {
	e.Value = e.Value.Clone()
	return e
}

// entryStore is the ordered, unique-key live entry set (§4.1). Ordering
// is insertion order for new keys; updates are pinned to their original
// position, so it's backed by a slice plus an index map rather than a
// plain map, mirroring the teacher's choice of an explicit ordered
// structure over bbolt's natural key ordering (storage_mem.go) for the
// same reason: iteration order is part of the contract, not an
// implementation accident.
type entryStore struct {
	order   []string // key -> position invariant maintained by index
	entries map[string]*Entry
	index   map[string]int // key -> position in order
}

func newEntryStore() *entryStore {
	return &entryStore{
		entries: make(map[string]*Entry),
		index:   make(map[string]int),
	}
}

// setResult distinguishes an insert from an update, per §4.1.
type setResult int

const (
	setInserted setResult = iota
	setUpdated
)

func (s *entryStore) set(key string, val Value, now int64) (setResult, error) {
	if key == "" {
		return 0, invalidArgErr("set", key, "key must not be empty")
	}
	if e, ok := s.entries[key]; ok {
		e.Value = val.Clone()
		e.UpdatedAt = now
		e.recomputeHash()
		return setUpdated, nil
	}

	e := &Entry{
		Key:       key,
		Value:     val.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.recomputeHash()
	s.index[key] = len(s.order)
	s.order = append(s.order, key)
	s.entries[key] = e
	return setInserted, nil
}

func (s *entryStore) get(key string) (Value, error) {
	e, ok := s.entries[key]
	if !ok {
		return Value{}, notFoundErr("get", key)
	}
	return e.Value.Clone(), nil
}

func (s *entryStore) getEntry(key string) (Entry, error) {
	e, ok := s.entries[key]
	if !ok {
		return Entry{}, notFoundErr("get", key)
	}
	return e.clone(), nil
}

func (s *entryStore) has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

func (s *entryStore) delete(key string) error {
	if key == "" {
		return invalidArgErr("delete", key, "key must not be empty")
	}
	pos, ok := s.index[key]
	if !ok {
		return notFoundErr("delete", key)
	}
	delete(s.entries, key)
	delete(s.index, key)
	s.order = append(s.order[:pos], s.order[pos+1:]...)
	for i := pos; i < len(s.order); i++ {
		s.index[s.order[i]] = i
	}
	return nil
}

func (s *entryStore) clear() {
	s.order = nil
	s.entries = make(map[string]*Entry)
	s.index = make(map[string]int)
}

func (s *entryStore) len() int { return len(s.order) }

func (s *entryStore) setMetadata(key, text string, now int64) error {
	if key == "" {
		return invalidArgErr("set_metadata", key, "key must not be empty")
	}
	e, ok := s.entries[key]
	if !ok {
		return notFoundErr("set_metadata", key)
	}
	e.Metadata = text
	e.UpdatedAt = now
	e.recomputeHash()
	return nil
}

func (s *entryStore) getMetadata(key string) (string, error) {
	e, ok := s.entries[key]
	if !ok {
		return "", notFoundErr("get_metadata", key)
	}
	return e.Metadata, nil
}

// each calls fn for every entry in insertion order. fn must not mutate
// the store.
func (s *entryStore) each(fn func(*Entry)) {
	for _, k := range s.order {
		fn(s.entries[k])
	}
}

// snapshot deep-copies every live entry, in insertion order, for
// embedding into a Commit (§4.4, §9).
func (s *entryStore) snapshot() []Entry {
	out := make([]Entry, 0, len(s.order))
	s.each(func(e *Entry) {
		out = append(out, e.clone())
	})
	return out
}

// restore replaces the live set with a deep copy of snap, preserving
// snap's order.
func (s *entryStore) restore(snap []Entry) {
	s.order = make([]string, 0, len(snap))
	s.entries = make(map[string]*Entry, len(snap))
	s.index = make(map[string]int, len(snap))
	for i, e := range snap {
		ec := e.clone()
		s.order = append(s.order, ec.Key)
		s.entries[ec.Key] = &ec
		s.index[ec.Key] = i
	}
}

func (s *entryStore) verifyAll() []string {
	var bad []string
	s.each(func(e *Entry) {
		if !e.verify() {
			bad = append(bad, e.Key)
		}
	})
	return bad
}
