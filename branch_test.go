package bluecrab

import "testing"

func TestBranchRegistry_DefaultsToMain(t *testing.T) {
	r := newBranchRegistry()
	if r.current != defaultBranch {
		t.Fatalf("current = %q, wanted %q", r.current, defaultBranch)
	}
	tip, ok := r.tip(defaultBranch)
	if !ok || tip != "" {
		t.Fatalf("tip(main) = (%q, %v), wanted (\"\", true)", tip, ok)
	}
}

func TestBranchRegistry_SwitchToCreatesLazily(t *testing.T) {
	r := newBranchRegistry()
	if err := r.switchTo("feature", "C1"); err != nil {
		t.Fatal(err)
	}
	if r.current != "feature" {
		t.Fatalf("current = %q, wanted feature", r.current)
	}
	tip, ok := r.tip("feature")
	if !ok || tip != "C1" {
		t.Fatalf("tip(feature) = (%q, %v), wanted (C1, true)", tip, ok)
	}
}

func TestBranchRegistry_SwitchToExistingKeepsTip(t *testing.T) {
	r := newBranchRegistry()
	r.advance(defaultBranch, "C1")
	if err := r.switchTo(defaultBranch, "C2"); err != nil {
		t.Fatal(err)
	}
	tip, _ := r.tip(defaultBranch)
	if tip != "C1" {
		t.Fatalf("tip(main) = %q, wanted C1 (should not be overwritten)", tip)
	}
}

func TestBranchRegistry_EmptyNameRejected(t *testing.T) {
	r := newBranchRegistry()
	if err := r.switchTo("", "C1"); !Is(err, KindInvalidArg) {
		t.Fatalf("switchTo(\"\") err = %v, wanted KindInvalidArg", err)
	}
}

func TestBranchRegistry_DeleteCurrentRejected(t *testing.T) {
	r := newBranchRegistry()
	if err := r.delete(defaultBranch); !Is(err, KindInvalidArg) {
		t.Fatalf("delete(current) err = %v, wanted KindInvalidArg", err)
	}
}

func TestBranchRegistry_DeleteMissingFails(t *testing.T) {
	r := newBranchRegistry()
	if err := r.delete("ghost"); !Is(err, KindNotFound) {
		t.Fatalf("delete(ghost) err = %v, wanted KindNotFound", err)
	}
}

func TestBranchRegistry_DeleteOther(t *testing.T) {
	r := newBranchRegistry()
	_ = r.switchTo("feature", "C1")
	_ = r.switchTo(defaultBranch, "")
	if err := r.delete("feature"); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.tip("feature"); ok {
		t.Fatalf("feature should be gone")
	}
}

func TestTagRegistry_SetGetDelete(t *testing.T) {
	r := newTagRegistry()
	r.set("v1", "C1")
	id, ok := r.get("v1")
	if !ok || id != "C1" {
		t.Fatalf("get(v1) = (%q, %v), wanted (C1, true)", id, ok)
	}
	r.set("v1", "C2") // rebind replaces
	id, _ = r.get("v1")
	if id != "C2" {
		t.Fatalf("rebind did not replace target, got %q", id)
	}
	if err := r.delete("v1"); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.get("v1"); ok {
		t.Fatalf("v1 should be gone after delete")
	}
	if err := r.delete("v1"); !Is(err, KindNotFound) {
		t.Fatalf("double delete err = %v, wanted KindNotFound", err)
	}
}

func TestTagRegistry_List(t *testing.T) {
	r := newTagRegistry()
	r.set("a", "C1")
	r.set("b", "C2")
	list := r.list()
	if len(list) != 2 {
		t.Fatalf("list = %v, wanted 2 entries", list)
	}
}
