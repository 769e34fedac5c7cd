package bluecrab

import (
	"reflect"
	"testing"
)

func TestBytesBuilder_Basics(t *testing.T) {
	var bb bytesBuilder
	bb.AppendRaw([]byte{1, 2, 3})
	bb.AppendByte(4)
	bb.AppendU64(0x0102030405060708)
	bb.AppendLenPrefixed([]byte("hi"))

	want := []byte{1, 2, 3, 4}
	want = append(want, le64(0x0102030405060708)...)
	want = append(want, le64(2)...)
	want = append(want, "hi"...)

	if !reflect.DeepEqual(bb.Buf, want) {
		t.Fatalf("bb.Buf = %x, wanted %x", bb.Buf, want)
	}
}

func TestByteUtil_AppendRaw(t *testing.T) {
	src := []byte{0xAA, 0xBB, 0xCC}
	buf := appendRaw(nil, src)
	if !reflect.DeepEqual(buf, src) {
		t.Fatalf("appendRaw = %x, wanted %x", buf, src)
	}
}

func TestByteDecoder_RoundTrip(t *testing.T) {
	var bb bytesBuilder
	bb.AppendU16(0xBEEF)
	bb.AppendU64(42)
	bb.AppendLenPrefixed([]byte("hello"))

	d := makeByteDecoder(bb.Buf)
	u16, err := d.U16()
	if err != nil || u16 != 0xBEEF {
		t.Fatalf("U16 = (%x, %v), wanted (beef, nil)", u16, err)
	}
	u64, err := d.U64()
	if err != nil || u64 != 42 {
		t.Fatalf("U64 = (%d, %v), wanted (42, nil)", u64, err)
	}
	s, err := d.LenPrefixed()
	if err != nil || string(s) != "hello" {
		t.Fatalf("LenPrefixed = (%q, %v), wanted (\"hello\", nil)", s, err)
	}
	if len(d.buf) != 0 {
		t.Fatalf("%d bytes remaining, wanted 0", len(d.buf))
	}
}

func TestByteDecoder_Errors(t *testing.T) {
	t.Run("Raw not enough data", func(t *testing.T) {
		d := makeByteDecoder([]byte{1, 2})
		_, err := d.Raw(3)
		if !Is(err, KindCorrupt) {
			t.Fatalf("Raw err = %v, wanted KindCorrupt", err)
		}
	})

	t.Run("LenPrefixed truncated", func(t *testing.T) {
		d := makeByteDecoder(le64(10)) // claims 10 bytes follow but none do
		_, err := d.LenPrefixed()
		if !Is(err, KindCorrupt) {
			t.Fatalf("LenPrefixed err = %v, wanted KindCorrupt", err)
		}
	})

	t.Run("U64 on empty buffer reports offset", func(t *testing.T) {
		d := makeByteDecoder([]byte{1, 2, 3})
		_, _ = d.Raw(3)
		_, err := d.U64()
		if err == nil {
			t.Fatalf("expected error")
		}
		if ok := Is(err, KindCorrupt); !ok {
			t.Fatalf("err = %v, wanted KindCorrupt", err)
		}
		if e, ok := err.(*Error); !ok || e.Off != 3 {
			t.Fatalf("err = %v, wanted *Error at offset 3", err)
		}
	})
}

func TestFloatBits_RoundTrip(t *testing.T) {
	if got := bitsToF32(f32bits(3.5)); got != 3.5 {
		t.Fatalf("f32 round-trip = %v, wanted 3.5", got)
	}
	if got := bitsToF64(f64bits(-2.25)); got != -2.25 {
		t.Fatalf("f64 round-trip = %v, wanted -2.25", got)
	}
}
