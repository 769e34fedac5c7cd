package bluecrab

import (
	"encoding/hex"
	"hash/fnv"
)

// hashEntryFields computes the canonical 64-bit hash of an entry per §4.2:
// FNV-1a over (key, value type tag, value bytes, metadata, created_at,
// updated_at), followed by one avalanche step, formatted as 16 uppercase
// hex characters.
//
// hash/fnv is the standard library's implementation of exactly the
// algorithm the spec names; no third-party hashing package in the pack
// (e.g. cespare/xxhash) implements FNV-1a, and the spec requires
// byte-for-byte determinism that only this exact algorithm gives us — see
// DESIGN.md.
func hashEntryFields(key string, val Value, metadata string, createdAt, updatedAt int64) string {
	return contentHash(
		[]byte(key),
		le16(uint16(val.typ)),
		val.canonicalBytes(),
		[]byte(metadata),
		le64(uint64(createdAt)),
		le64(uint64(updatedAt)),
	)
}

// contentHash is the same FNV-1a + avalanche derivation used for commit
// ids (§4.4): "a 16-hex canonical hash of (parent_id ∥ message ∥
// timestamp ∥ snapshot hashes)".
func contentHash(parts ...[]byte) string {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write(p)
	}
	return formatHash(avalanche(h.Sum64()))
}

// avalanche is a single invertible mixing step (MurmurHash3's fmix64
// finalizer: two multiplies, three xor-shifts) applied after the FNV mix so that small
// input changes spread across all 64 bits of the output, rather than
// relying solely on FNV-1a's own (comparatively weak) avalanche.
func avalanche(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

func formatHash(sum uint64) string {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(sum >> (56 - 8*i))
	}
	s := hex.EncodeToString(b[:])
	return upperHex(s)
}

func upperHex(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'f' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
