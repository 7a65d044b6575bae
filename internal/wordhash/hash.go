// Package wordhash implements the length-stratified hashing paths of
// spec §4.4: direct-indexed counters for very-short tokens, a bijective
// multiplicative scramble for short (3-8 byte) tokens, and a general
// 64-bit string hash for medium/long tokens.
package wordhash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/krishrvh/wordcount-engine/internal/wtypes"
)

// scrambleConst and its modular inverse are the multiplicative constants
// the reference uses to make the short-token hash a bijection on the
// packed key (original_source/wordcount.cpp: hashu64/unhashu64). Because
// both are odd, multiplication by either is invertible mod 2^64, so the
// original bytes can always be recovered from the hash alone - the short
// table therefore never needs an equality check (spec §4.5).
const (
	scrambleConst    = 0x517cc1b727220a95
	scrambleConstInv = 0x2040003d780970bd
)

// longHashSeed distinguishes this pipeline's medium/long hashing from a
// bare xxhash.Sum64 of the same bytes used elsewhere in a process, per
// spec §4.4's "seeded with a fixed constant".
const longHashSeed uint64 = 0x9e3779b97f4a7c15

// VeryShort holds the direct-indexed occurrence counters for length-1 and
// length-2 tokens (spec §3, "dense array of size 2^8 ... and 2^16").
type VeryShort struct {
	Len1 [256]uint32
	Len2 [65536]uint32
}

// AddLen1 increments the counter for a single-byte token.
func (v *VeryShort) AddLen1(b byte) { v.Len1[b]++ }

// AddLen2 increments the counter for a two-byte token.
func (v *VeryShort) AddLen2(b0, b1 byte) {
	v.Len2[uint16(b0)<<8|uint16(b1)]++
}

// ShortKey packs up to 8 raw token bytes into one word exactly as the
// reference does: a native (little-endian) load of the 8 bytes at the
// token's start, masked to the low len*8 bits (spec §4.4). Because token
// is padded in the file, reading 8 bytes past a short token's end is
// always in-bounds; here we build the same value from a zero-filled
// buffer so the function works for arena-synthesized bytes too, which are
// not necessarily followed by 8 safe bytes.
func ShortKey(token []byte) uint64 {
	var buf [8]byte
	copy(buf[:], token) // unfilled high-order buffer bytes stay zero
	return binary.LittleEndian.Uint64(buf[:])
}

// Scramble produces the hash for a short (3-8 byte) token: multiplication
// by an odd constant, which is an injection on the masked key space
// (spec §4.4).
func Scramble(key uint64) wtypes.Hash { return wtypes.Hash(key * scrambleConst) }

// Unscramble recovers the original packed key bytes from a scrambled hash
// (spec §4.7, used by the compactor to derive a short-table entry's raw
// bytes and length).
func Unscramble(h wtypes.Hash) uint64 { return uint64(h) * scrambleConstInv }

// ShortLength derives a token's length from its unscrambled key by
// counting leading zero bytes (spec §4.7: "len = 8 - leading_zero_bytes
// of unscrambled"). Because ShortKey loads little-endian, the token's own
// bytes occupy the low-order end and zero padding occupies the high-order
// end, so leading zero bytes of the 64-bit word count directly.
func ShortLength(unscrambled uint64) int {
	length := 8
	for length > 0 && byte(unscrambled>>(uint(length-1)*8)) == 0 {
		length--
	}
	return length
}

// ShortBytes reconstructs a short token's raw bytes from its unscrambled
// key and length, for materializing them into the arena during compaction
// (spec §4.7).
func ShortBytes(unscrambled uint64, length int) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], unscrambled)
	return buf[:length]
}

// Long hashes a medium (9-255 byte) or long (>=256 byte) token with a
// general-purpose 64-bit string hash (spec §4.4). cespare/xxhash/v2 plays
// the role of the reference's wyhash-family hash.
func Long(token []byte) wtypes.Hash {
	return wtypes.Hash(xxhash.Sum64(token) ^ longHashSeed)
}

// Prefix extracts up to the first 8 bytes of token as a zero-padded,
// big-endian-comparable array (spec §3, Entry.prefix). Ascending unsigned
// integer comparison of the array bytes equals ascending byte-lex
// comparison of the token, which is what the radix sorter's byte phase
// relies on (spec §4.8).
func Prefix(token []byte) [8]byte {
	var p [8]byte
	n := copy(p[:], token)
	_ = n
	return p
}
