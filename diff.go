package bluecrab

import "sort"

// DiffKind classifies one line of a Diff report.
type DiffKind int

const (
	DiffRemoved DiffKind = iota
	DiffModified
	DiffAdded
)

func (k DiffKind) String() string {
	switch k {
	case DiffRemoved:
		return "removed"
	case DiffModified:
		return "modified"
	case DiffAdded:
		return "added"
	default:
		return "unknown"
	}
}

// DiffLine is one key's change between two snapshots.
type DiffLine struct {
	Key  string
	Kind DiffKind
}

// diffSnapshots compares two snapshots by key set (§4.6). The result is
// deterministic: removed, then modified, then added, each sorted by key.
// Keys present in both with identical entry hashes are unchanged and
// omitted.
func diffSnapshots(a, b []Entry) []DiffLine {
	am := indexByKey(a)
	bm := indexByKey(b)

	var removed, modified, added []string
	for k := range am {
		if _, ok := bm[k]; !ok {
			removed = append(removed, k)
		}
	}
	for k, be := range bm {
		if ae, ok := am[k]; ok {
			if ae.Hash != be.Hash {
				modified = append(modified, k)
			}
		} else {
			added = append(added, k)
		}
	}

	sort.Strings(removed)
	sort.Strings(modified)
	sort.Strings(added)

	out := make([]DiffLine, 0, len(removed)+len(modified)+len(added))
	for _, k := range removed {
		out = append(out, DiffLine{k, DiffRemoved})
	}
	for _, k := range modified {
		out = append(out, DiffLine{k, DiffModified})
	}
	for _, k := range added {
		out = append(out, DiffLine{k, DiffAdded})
	}
	return out
}

func indexByKey(entries []Entry) map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Key] = e
	}
	return m
}

// mergeSnapshots implements §4.6's merge: the result starts as target's
// snapshot; for each key in source, a key absent from target is inserted,
// a key present with a different hash is a conflict. When autoResolve is
// true, source wins on every conflict; when false, any conflict aborts the
// merge and mergeSnapshots returns every conflicting key, sorted, with a
// Conflict error and the
// live set (the caller's responsibility) left untouched, since this
// function only computes the result — it never mutates caller state.
func mergeSnapshots(source, target []Entry, autoResolve bool) ([]Entry, []string, error) {
	result := make(map[string]Entry, len(target))
	order := make([]string, 0, len(target))
	for _, e := range target {
		result[e.Key] = e
		order = append(order, e.Key)
	}

	// Iterate source in its own snapshot order so output order is stable.
	var conflicts []string
	for _, se := range source {
		te, existsInTarget := result[se.Key]
		switch {
		case !existsInTarget:
			result[se.Key] = se
			order = append(order, se.Key)
		case te.Hash != se.Hash:
			conflicts = append(conflicts, se.Key)
			if autoResolve {
				result[se.Key] = se
			}
		}
	}

	if len(conflicts) > 0 && !autoResolve {
		sort.Strings(conflicts)
		return nil, conflicts, conflictErr("merge", conflicts[0], "conflicting keys: %v", conflicts)
	}

	out := make([]Entry, 0, len(order))
	for _, k := range order {
		out = append(out, result[k])
	}
	return out, conflicts, nil
}
