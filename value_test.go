package bluecrab

import "testing"

func TestValue_ConstructorsRoundTrip(t *testing.T) {
	if v := I32(-7); v.Type() != TypeI32 || v.I32() != -7 {
		t.Fatalf("I32 round-trip failed: %v", v)
	}
	if v := U64(42); v.Type() != TypeU64 || v.U64() != 42 {
		t.Fatalf("U64 round-trip failed: %v", v)
	}
	if v := F32(1.5); v.Type() != TypeF32 || v.F32() != 1.5 {
		t.Fatalf("F32 round-trip failed: %v", v)
	}
	if v := Bool(true); v.Type() != TypeBool || !v.Bool() {
		t.Fatalf("Bool round-trip failed: %v", v)
	}
	if v := Str("hello"); v.Type() != TypeString || v.Str() != "hello" {
		t.Fatalf("Str round-trip failed: %v", v)
	}
	if v := Hex("1A2B"); v.Type() != TypeHex || v.Str() != "1A2B" {
		t.Fatalf("Hex round-trip failed: %v", v)
	}
	if v := Any([]byte{1, 2, 3}); v.Type() != TypeAny || string(v.Any()) != "\x01\x02\x03" {
		t.Fatalf("Any round-trip failed: %v", v)
	}
	if v := NullValue(); !v.IsNull() {
		t.Fatalf("NullValue().IsNull() = false")
	}
}

func TestValue_CloneDeepCopiesBlob(t *testing.T) {
	blob := []byte{1, 2, 3}
	v := Any(blob)
	clone := v.Clone()
	blob[0] = 99
	if clone.Any()[0] == 99 {
		t.Fatalf("Clone aliased the backing blob")
	}
}

func TestValue_Equal(t *testing.T) {
	if !I32(5).Equal(I32(5)) {
		t.Fatalf("I32(5) should equal I32(5)")
	}
	if I32(5).Equal(I32(6)) {
		t.Fatalf("I32(5) should not equal I32(6)")
	}
	if I32(5).Equal(I64(5)) {
		t.Fatalf("values of different types should not be equal")
	}
	if !Any([]byte{1, 2}).Equal(Any([]byte{1, 2})) {
		t.Fatalf("equal any blobs should be Equal")
	}
	if !NullValue().Equal(NullValue()) {
		t.Fatalf("null should equal null")
	}
}

func TestValue_CanonicalBytesByVariant(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		n    int
	}{
		{"i8", I8(1), 1},
		{"bool", Bool(true), 1},
		{"char", Char('x'), 1},
		{"i16", I16(1), 2},
		{"u16", U16(1), 2},
		{"i32", I32(1), 4},
		{"f32", F32(1), 4},
		{"i64", I64(1), 8},
		{"f64", F64(1), 8},
		{"size", Size(1), 8},
		{"datetime", Datetime(1), 8},
		{"duration", Duration(1), 8},
		{"null", NullValue(), 0},
	}
	for _, c := range cases {
		if got := len(c.v.canonicalBytes()); got != c.n {
			t.Errorf("%s: canonicalBytes length = %d, wanted %d", c.name, got, c.n)
		}
	}

	if got := string(Str("abc").canonicalBytes()); got != "abc" {
		t.Fatalf("cstr canonicalBytes = %q, wanted %q", got, "abc")
	}
	if got := string(Hex("1A").canonicalBytes()); got != "1A" {
		t.Fatalf("hex canonicalBytes = %q, wanted %q", got, "1A")
	}
}
