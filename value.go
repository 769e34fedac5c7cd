package bluecrab

import "fmt"

// Type is the runtime tag of a Value. The set mirrors the variants of
// fossil_bluecrab_core_type_t / fossil_crabdb_type_t in the original C
// sources, canonicalized onto one naming scheme (see DESIGN.md).
type Type uint16

const (
	TypeNull Type = iota
	TypeI8
	TypeI16
	TypeI32
	TypeI64
	TypeU8
	TypeU16
	TypeU32
	TypeU64
	TypeF32
	TypeF64
	TypeBool
	TypeChar
	TypeString
	TypeSize
	TypeDatetime
	TypeDuration
	TypeHex
	TypeOctal
	TypeBinary
	TypeAny
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeI8:
		return "i8"
	case TypeI16:
		return "i16"
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeU8:
		return "u8"
	case TypeU16:
		return "u16"
	case TypeU32:
		return "u32"
	case TypeU64:
		return "u64"
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	case TypeBool:
		return "bool"
	case TypeChar:
		return "char"
	case TypeString:
		return "cstr"
	case TypeSize:
		return "size"
	case TypeDatetime:
		return "datetime"
	case TypeDuration:
		return "duration"
	case TypeHex:
		return "hex"
	case TypeOctal:
		return "oct"
	case TypeBinary:
		return "bin"
	case TypeAny:
		return "any"
	default:
		return fmt.Sprintf("Type(%d)", uint16(t))
	}
}

// Value is a tagged union over exactly one of the variants in Type. It is
// immutable once constructed: mutators on Entry always build a new Value
// rather than mutating one in place, so a Value returned from Get is safe
// to retain.
//
// Only one of the payload fields is meaningful, selected by typ. String-
// carrying variants (cstr, hex, oct, bin) and the blob-carrying any variant
// own their backing bytes; Clone deep-copies them.
type Value struct {
	typ Type
	i   int64   // i8/i16/i32/i64/u8/u16/u32/u64/bool/char/size/datetime/duration, per typ
	f   float64 // f32/f64, per typ (f32 stored widened, bits reduced on encode)
	s   string  // cstr/hex/oct/bin: textual form
	any []byte  // any: opaque blob
}

func (v Value) Type() Type { return v.typ }

// IsNull reports whether v is the null variant (the Value zero value).
func (v Value) IsNull() bool { return v.typ == TypeNull }

func NullValue() Value { return Value{typ: TypeNull} }

func I8(v int8) Value   { return Value{typ: TypeI8, i: int64(v)} }
func I16(v int16) Value { return Value{typ: TypeI16, i: int64(v)} }
func I32(v int32) Value { return Value{typ: TypeI32, i: int64(v)} }
func I64(v int64) Value { return Value{typ: TypeI64, i: v} }

func U8(v uint8) Value   { return Value{typ: TypeU8, i: int64(v)} }
func U16(v uint16) Value { return Value{typ: TypeU16, i: int64(v)} }
func U32(v uint32) Value { return Value{typ: TypeU32, i: int64(v)} }
func U64(v uint64) Value { return Value{typ: TypeU64, i: int64(v)} }

func F32(v float32) Value { return Value{typ: TypeF32, f: float64(v)} }
func F64(v float64) Value { return Value{typ: TypeF64, f: v} }

func Bool(v bool) Value {
	var i int64
	if v {
		i = 1
	}
	return Value{typ: TypeBool, i: i}
}

func Char(v byte) Value { return Value{typ: TypeChar, i: int64(v)} }

func Str(v string) Value { return Value{typ: TypeString, s: v} }

func Size(v uint64) Value { return Value{typ: TypeSize, i: int64(v)} }

// Datetime holds a wall-clock instant as nanosecond epoch.
func Datetime(nanosSinceEpoch int64) Value { return Value{typ: TypeDatetime, i: nanosSinceEpoch} }

// Duration holds a signed nanosecond span.
func Duration(nanos int64) Value { return Value{typ: TypeDuration, i: nanos} }

// Hex, Octal and Binary carry their textual form verbatim (e.g. "1A2B",
// "755", "1011") rather than a parsed integer, per spec §3.
func Hex(text string) Value    { return Value{typ: TypeHex, s: text} }
func Octal(text string) Value  { return Value{typ: TypeOctal, s: text} }
func Binary(text string) Value { return Value{typ: TypeBinary, s: text} }

// Any wraps an opaque byte blob. The bytes are copied in.
func Any(blob []byte) Value {
	b := make([]byte, len(blob))
	copy(b, blob)
	return Value{typ: TypeAny, any: b}
}

func (v Value) I8() int8     { return int8(v.i) }
func (v Value) I16() int16   { return int16(v.i) }
func (v Value) I32() int32   { return int32(v.i) }
func (v Value) I64() int64   { return v.i }
func (v Value) U8() uint8    { return uint8(v.i) }
func (v Value) U16() uint16  { return uint16(v.i) }
func (v Value) U32() uint32  { return uint32(v.i) }
func (v Value) U64() uint64  { return uint64(v.i) }
func (v Value) F32() float32 { return float32(v.f) }
func (v Value) F64() float64 { return v.f }
func (v Value) Bool() bool   { return v.i != 0 }
func (v Value) Char() byte   { return byte(v.i) }
func (v Value) Str() string  { return v.s }
func (v Value) Size() uint64 { return uint64(v.i) }
func (v Value) Nanos() int64 { return v.i }
func (v Value) Any() []byte {
	b := make([]byte, len(v.any))
	copy(b, v.any)
	return b
}

// Clone deep-copies any heap-backed payload (strings are immutable in Go
// and need no copy; the any blob does).
func (v Value) Clone() Value {
	if v.typ == TypeAny {
		return Any(v.any)
	}
	return v
}

// Equal reports whether two values are identical in type and payload.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeF32, TypeF64:
		return v.f == o.f
	case TypeString, TypeHex, TypeOctal, TypeBinary:
		return v.s == o.s
	case TypeAny:
		if len(v.any) != len(o.any) {
			return false
		}
		for i := range v.any {
			if v.any[i] != o.any[i] {
				return false
			}
		}
		return true
	case TypeNull:
		return true
	default:
		return v.i == o.i
	}
}

// canonicalBytes returns the type-specific byte encoding used both by the
// hasher (§4.2) and the persistence codec (§4.7). Integers and floats are
// little-endian; cstr/hex/oct/bin contribute their raw UTF-8 bytes with no
// length prefix (the codec adds its own length prefix around the result;
// the hasher relies on the field's position in the canonical stream); any
// contributes its raw blob; null contributes nothing.
func (v Value) canonicalBytes() []byte {
	switch v.typ {
	case TypeNull:
		return nil
	case TypeI8, TypeU8, TypeBool, TypeChar:
		return []byte{byte(v.i)}
	case TypeI16, TypeU16:
		return le16(uint16(v.i))
	case TypeI32, TypeU32:
		return le32(uint32(v.i))
	case TypeF32:
		return le32(f32bits(float32(v.f)))
	case TypeI64, TypeU64, TypeSize, TypeDatetime, TypeDuration:
		return le64(uint64(v.i))
	case TypeF64:
		return le64(f64bits(v.f))
	case TypeString, TypeHex, TypeOctal, TypeBinary:
		return []byte(v.s)
	case TypeAny:
		return v.any
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.typ {
	case TypeNull:
		return "null"
	case TypeString, TypeHex, TypeOctal, TypeBinary:
		return v.s
	case TypeF32, TypeF64:
		return fmt.Sprintf("%v", v.f)
	case TypeBool:
		return fmt.Sprintf("%v", v.Bool())
	case TypeChar:
		return string(rune(v.i))
	case TypeAny:
		return fmt.Sprintf("any(%d bytes)", len(v.any))
	default:
		return fmt.Sprintf("%v", v.i)
	}
}
