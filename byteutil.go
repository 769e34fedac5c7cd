package bluecrab

import (
	"encoding/binary"
	"math"
)

// ensureCapacity and grow are the teacher's append-buffer growth scheme
// (andreyvit/edb byteutil.go), reused verbatim: double the backing array
// instead of relying on append's own growth heuristics, since we know
// record counts up front from the length prefixes we're about to write.
func ensureCapacity(buf []byte, minCap int) []byte {
	c := cap(buf)
	if minCap > c {
		if c < 16 {
			c = 16
		}
		for minCap > c {
			c <<= 1
		}
		old := buf
		buf = make([]byte, len(old), c)
		copy(buf, old)
	}
	return buf
}

func grow(buf []byte, n int) (int, []byte) {
	off := len(buf)
	newLen := off + n
	buf = ensureCapacity(buf, newLen)
	return off, buf[:newLen]
}

func appendRaw(buf []byte, chunk []byte) []byte {
	n := len(chunk)
	off, buf := grow(buf, n)
	copy(buf[off:], chunk)
	return buf
}

// bytesBuilder accumulates the flat byte stream for one codec record
// (§4.7) or one hasher input (§4.2). All integer fields in the on-disk
// format and the canonical hash stream are little-endian.
type bytesBuilder struct {
	Buf []byte
}

func (bb *bytesBuilder) AppendByte(v byte) {
	off, buf := grow(bb.Buf, 1)
	buf[off] = v
	bb.Buf = buf
}

func (bb *bytesBuilder) AppendRaw(v []byte) {
	bb.Buf = appendRaw(bb.Buf, v)
}

func (bb *bytesBuilder) AppendU16(v uint16) {
	bb.AppendRaw(le16(v))
}

func (bb *bytesBuilder) AppendU64(v uint64) {
	bb.AppendRaw(le64(v))
}

// AppendLenPrefixed writes a u64 byte length followed by the bytes, per
// the §4.7 layout ("u64 len; bytes ...").
func (bb *bytesBuilder) AppendLenPrefixed(v []byte) {
	bb.AppendU64(uint64(len(v)))
	bb.AppendRaw(v)
}

// byteDecoder walks a byte slice left to right, tracking the offset into
// the original buffer for error reporting (mirrors andreyvit/edb's
// byteDecoder, adapted from uvarint framing to this format's fixed u64
// length prefixes and u16 type tags).
type byteDecoder struct {
	orig []byte
	buf  []byte
}

func makeByteDecoder(buf []byte) byteDecoder {
	return byteDecoder{buf, buf}
}

func (d *byteDecoder) Off() int {
	return len(d.orig) - len(d.buf)
}

func (d *byteDecoder) Raw(n int) ([]byte, error) {
	if n < 0 || len(d.buf) < n {
		return nil, corruptErr("load", d.Off(), "not enough data: %d bytes remaining, %d wanted", len(d.buf), n)
	}
	v := d.buf[:n]
	d.buf = d.buf[n:]
	return v, nil
}

func (d *byteDecoder) Byte() (byte, error) {
	b, err := d.Raw(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *byteDecoder) U16() (uint16, error) {
	b, err := d.Raw(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *byteDecoder) U32() (uint32, error) {
	b, err := d.Raw(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *byteDecoder) U64() (uint64, error) {
	b, err := d.Raw(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// LenPrefixed reads a u64 byte length followed by that many bytes.
func (d *byteDecoder) LenPrefixed() ([]byte, error) {
	n, err := d.U64()
	if err != nil {
		return nil, err
	}
	if n > math.MaxInt32 {
		return nil, corruptErr("load", d.Off(), "implausible length %d", n)
	}
	return d.Raw(int(n))
}

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func le64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func f32bits(v float32) uint32 { return math.Float32bits(v) }
func f64bits(v float64) uint64 { return math.Float64bits(v) }

func bitsToF32(v uint32) float32 { return math.Float32frombits(v) }
func bitsToF64(v uint64) float64 { return math.Float64frombits(v) }
