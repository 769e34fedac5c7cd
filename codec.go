package bluecrab

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dreamer-coding/fossil-crabdb/internal/durable"
)

func fdatasyncFile(f *os.File) error { return durable.Fdatasync(f) }

// magic identifies a Blue Crab file on disk; decodeBytes rejects anything
// else with KindCorrupt rather than trying to make sense of it.
var magic = [4]byte{'B', 'C', 'R', 'B'}

// formatVersion is bumped whenever the byte layout below changes in a way
// that breaks readers of an older version. decodeBytes rejects any version
// it doesn't recognize with KindUnsupported (§6, §9: the on-disk magic and
// version are a SHOULD in spec.md that this engine implements).
const formatVersion uint32 = 1

// encodeValue appends typ then the type's canonicalBytes, length-prefixed
// where the type's width isn't fixed by the tag alone (§4.7's "type tag;
// encoded payload" per-value layout).
func encodeValue(bb *bytesBuilder, v Value) {
	bb.AppendU16(uint16(v.typ))
	switch v.typ {
	case TypeString, TypeHex, TypeOctal, TypeBinary, TypeAny:
		bb.AppendLenPrefixed(v.canonicalBytes())
	default:
		bb.AppendRaw(v.canonicalBytes())
	}
}

func decodeValue(d *byteDecoder) (Value, error) {
	tag, err := d.U16()
	if err != nil {
		return Value{}, err
	}
	typ := Type(tag)
	switch typ {
	case TypeNull:
		return NullValue(), nil
	case TypeI8, TypeU8, TypeBool, TypeChar:
		b, err := d.Byte()
		if err != nil {
			return Value{}, err
		}
		if typ == TypeI8 {
			return Value{typ: typ, i: int64(int8(b))}, nil
		}
		return Value{typ: typ, i: int64(b)}, nil
	case TypeI16, TypeU16:
		v, err := d.U16()
		if err != nil {
			return Value{}, err
		}
		if typ == TypeI16 {
			return Value{typ: typ, i: int64(int16(v))}, nil
		}
		return Value{typ: typ, i: int64(v)}, nil
	case TypeI32, TypeU32:
		v, err := d.U32()
		if err != nil {
			return Value{}, err
		}
		if typ == TypeI32 {
			return Value{typ: typ, i: int64(int32(v))}, nil
		}
		return Value{typ: typ, i: int64(v)}, nil
	case TypeF32:
		v, err := d.U32()
		if err != nil {
			return Value{}, err
		}
		return Value{typ: typ, f: float64(bitsToF32(v))}, nil
	case TypeI64, TypeU64, TypeSize, TypeDatetime, TypeDuration:
		v, err := d.U64()
		if err != nil {
			return Value{}, err
		}
		return Value{typ: typ, i: int64(v)}, nil
	case TypeF64:
		v, err := d.U64()
		if err != nil {
			return Value{}, err
		}
		return Value{typ: typ, f: bitsToF64(v)}, nil
	case TypeString, TypeHex, TypeOctal, TypeBinary:
		raw, err := d.LenPrefixed()
		if err != nil {
			return Value{}, err
		}
		return Value{typ: typ, s: string(raw)}, nil
	case TypeAny:
		raw, err := d.LenPrefixed()
		if err != nil {
			return Value{}, err
		}
		return Any(raw), nil
	default:
		return Value{}, typeMismatchErr("load", d.Off(), tag)
	}
}

func encodeEntry(bb *bytesBuilder, e Entry) {
	bb.AppendLenPrefixed([]byte(e.Key))
	encodeValue(bb, e.Value)
	bb.AppendU64(uint64(e.CreatedAt))
	bb.AppendU64(uint64(e.UpdatedAt))
	bb.AppendLenPrefixed([]byte(e.Metadata))
	bb.AppendLenPrefixed([]byte(e.Hash))
}

func decodeEntry(d *byteDecoder) (Entry, error) {
	keyRaw, err := d.LenPrefixed()
	if err != nil {
		return Entry{}, err
	}
	val, err := decodeValue(d)
	if err != nil {
		return Entry{}, err
	}
	createdAt, err := d.U64()
	if err != nil {
		return Entry{}, err
	}
	updatedAt, err := d.U64()
	if err != nil {
		return Entry{}, err
	}
	metaRaw, err := d.LenPrefixed()
	if err != nil {
		return Entry{}, err
	}
	hashRaw, err := d.LenPrefixed()
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Key:       string(keyRaw),
		Value:     val,
		CreatedAt: int64(createdAt),
		UpdatedAt: int64(updatedAt),
		Metadata:  string(metaRaw),
		Hash:      string(hashRaw),
	}, nil
}

func encodeCommit(bb *bytesBuilder, c *Commit) {
	bb.AppendLenPrefixed([]byte(c.ID))
	bb.AppendLenPrefixed([]byte(c.ParentID))
	bb.AppendLenPrefixed([]byte(c.BranchName))
	bb.AppendLenPrefixed([]byte(c.Message))
	bb.AppendU64(uint64(c.Timestamp))
	bb.AppendU64(uint64(len(c.Snapshot)))
	for _, e := range c.Snapshot {
		encodeEntry(bb, e)
	}
}

func decodeCommit(d *byteDecoder) (*Commit, error) {
	id, err := d.LenPrefixed()
	if err != nil {
		return nil, err
	}
	parent, err := d.LenPrefixed()
	if err != nil {
		return nil, err
	}
	branch, err := d.LenPrefixed()
	if err != nil {
		return nil, err
	}
	msg, err := d.LenPrefixed()
	if err != nil {
		return nil, err
	}
	ts, err := d.U64()
	if err != nil {
		return nil, err
	}
	n, err := d.U64()
	if err != nil {
		return nil, err
	}
	snap := make([]Entry, 0, n)
	for i := uint64(0); i < n; i++ {
		e, err := decodeEntry(d)
		if err != nil {
			return nil, err
		}
		snap = append(snap, e)
	}
	return &Commit{
		ID:         string(id),
		ParentID:   string(parent),
		BranchName: string(branch),
		Message:    string(msg),
		Timestamp:  int64(ts),
		Snapshot:   snap,
	}, nil
}

// encodeBytes renders the full on-disk layout (§4.7):
//
//	magic[4]; u32 format version;
//	u64 entry_count; entry_count * entry;
//	u64 commit_count; commit_count * commit;
//	len-prefixed current branch name; u64 branch_count; branch_count * (name, tip commit id);
//	u64 tag_count; tag_count * (name, commit id);
//	len-prefixed current commit id.
func encodeBytes(db *Database) []byte {
	bb := &bytesBuilder{}
	bb.AppendRaw(magic[:])
	bb.AppendRaw(le32(formatVersion))

	live := db.entries.snapshot()
	bb.AppendU64(uint64(len(live)))
	for _, e := range live {
		encodeEntry(bb, e)
	}

	bb.AppendU64(uint64(db.commits.len()))
	for _, c := range db.commits.commits {
		encodeCommit(bb, c)
	}

	bb.AppendLenPrefixed([]byte(db.branches.current))
	names := db.branches.names()
	bb.AppendU64(uint64(len(names)))
	for _, n := range names {
		tip, _ := db.branches.tip(n)
		bb.AppendLenPrefixed([]byte(n))
		bb.AppendLenPrefixed([]byte(tip))
	}

	tags := db.tags.list()
	bb.AppendU64(uint64(len(tags)))
	for _, t := range tags {
		bb.AppendLenPrefixed([]byte(t.Name))
		bb.AppendLenPrefixed([]byte(t.CommitID))
	}

	bb.AppendLenPrefixed([]byte(db.currentCommitID))
	return bb.Buf
}

// decodeBytes parses buf into a fresh Database, rejecting an unrecognized
// magic or format version before trusting any of the framed content.
func decodeBytes(buf []byte) (*Database, error) {
	d := makeByteDecoder(buf)

	gotMagic, err := d.Raw(4)
	if err != nil {
		return nil, err
	}
	if string(gotMagic) != string(magic[:]) {
		return nil, corruptErr("load", d.Off(), "bad magic %q", gotMagic)
	}
	ver, err := d.U32()
	if err != nil {
		return nil, err
	}
	if ver != formatVersion {
		return nil, unsupportedErr("load", "unsupported format version %d", ver)
	}

	db := newDatabase(Options{})

	entryCount, err := d.U64()
	if err != nil {
		return nil, err
	}
	snap := make([]Entry, 0, entryCount)
	for i := uint64(0); i < entryCount; i++ {
		e, err := decodeEntry(&d)
		if err != nil {
			return nil, err
		}
		snap = append(snap, e)
	}
	db.entries.restore(snap)

	commitCount, err := d.U64()
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < commitCount; i++ {
		c, err := decodeCommit(&d)
		if err != nil {
			return nil, err
		}
		db.commits.append(c)
	}

	curBranch, err := d.LenPrefixed()
	if err != nil {
		return nil, err
	}
	branchCount, err := d.U64()
	if err != nil {
		return nil, err
	}
	db.branches = newBranchRegistry()
	db.branches.tips = make(map[string]string, branchCount)
	for i := uint64(0); i < branchCount; i++ {
		name, err := d.LenPrefixed()
		if err != nil {
			return nil, err
		}
		tip, err := d.LenPrefixed()
		if err != nil {
			return nil, err
		}
		db.branches.tips[string(name)] = string(tip)
	}
	db.branches.current = string(curBranch)

	tagCount, err := d.U64()
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < tagCount; i++ {
		name, err := d.LenPrefixed()
		if err != nil {
			return nil, err
		}
		id, err := d.LenPrefixed()
		if err != nil {
			return nil, err
		}
		db.tags.set(string(name), string(id))
	}

	curCommit, err := d.LenPrefixed()
	if err != nil {
		return nil, err
	}
	db.currentCommitID = string(curCommit)

	return db, nil
}

// save writes db's full state to path atomically: encode into memory, write
// to a sibling temp file, fsync it, then rename over path. The rename is
// what makes this atomic from a reader's perspective; the fsync before it
// is what makes the rename's target durable rather than an empty or
// truncated file after a crash.
func save(db *Database, path string) error {
	buf := encodeBytes(db)

	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, ".bluecrab-"+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return ioErr("save", err, "create temp file")
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		os.Remove(tmp)
		return ioErr("save", err, "write temp file")
	}
	if err := fdatasyncFile(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return ioErr("save", err, "fsync temp file")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return ioErr("save", err, "close temp file")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return ioErr("save", err, "rename temp file into place")
	}
	return nil
}

// load reads path and decodes it into a fresh Database.
func load(path string) (*Database, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, ioErr("load", err, "read %s", path)
	}
	db, err := decodeBytes(buf)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	db.path = path
	return db, nil
}
