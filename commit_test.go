package bluecrab

import "testing"

func TestDeriveCommitID_Deterministic(t *testing.T) {
	snap := []Entry{mkEntry("k", "H1")}
	a := deriveCommitID("parent", "msg", 1000, snap)
	b := deriveCommitID("parent", "msg", 1000, snap)
	if a != b {
		t.Fatalf("deriveCommitID not deterministic: %q vs %q", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("commit id length = %d, wanted 16", len(a))
	}
}

func TestDeriveCommitID_SensitiveToEachComponent(t *testing.T) {
	snap := []Entry{mkEntry("k", "H1")}
	base := deriveCommitID("parent", "msg", 1000, snap)

	if got := deriveCommitID("other-parent", "msg", 1000, snap); got == base {
		t.Fatalf("commit id unaffected by parent id change")
	}
	if got := deriveCommitID("parent", "other msg", 1000, snap); got == base {
		t.Fatalf("commit id unaffected by message change")
	}
	if got := deriveCommitID("parent", "msg", 2000, snap); got == base {
		t.Fatalf("commit id unaffected by timestamp change")
	}
	otherSnap := []Entry{mkEntry("k", "H2")}
	if got := deriveCommitID("parent", "msg", 1000, otherSnap); got == base {
		t.Fatalf("commit id unaffected by snapshot change")
	}
}

func TestCommitLog_AppendFindChain(t *testing.T) {
	l := newCommitLog()
	root := &Commit{ID: "C1", ParentID: "", Snapshot: nil}
	mid := &Commit{ID: "C2", ParentID: "C1", Snapshot: nil}
	tip := &Commit{ID: "C3", ParentID: "C2", Snapshot: nil}
	l.append(root)
	l.append(mid)
	l.append(tip)

	if l.len() != 3 {
		t.Fatalf("len = %d, wanted 3", l.len())
	}
	if _, ok := l.find("missing"); ok {
		t.Fatalf("find(missing) should fail")
	}
	c, ok := l.find("C2")
	if !ok || c.ID != "C2" {
		t.Fatalf("find(C2) = (%v, %v)", c, ok)
	}

	chain := l.chain("C3")
	if len(chain) != 3 || chain[0].ID != "C3" || chain[1].ID != "C2" || chain[2].ID != "C1" {
		t.Fatalf("chain = %v, wanted [C3 C2 C1]", chain)
	}
}

func TestCommitLog_ChainFromEmptyTip(t *testing.T) {
	l := newCommitLog()
	if chain := l.chain(""); len(chain) != 0 {
		t.Fatalf("chain(\"\") = %v, wanted empty", chain)
	}
}
