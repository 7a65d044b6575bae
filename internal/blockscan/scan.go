// Package blockscan walks the mapped file in chunks and locates token
// boundaries (spec §4.2). The reference's boundary detector is a
// target-specific 256-bit SIMD shuffle; this port takes the portable path
// the specification explicitly allows ("Portable implementations MAY use
// a scalar loop; they MUST preserve the across-window edge semantics
// exactly", spec §9) while keeping the same 64-byte-window, bitmask-based
// structure so the edge-detection arithmetic is unchanged.
package blockscan

import "math/bits"

// Window is the number of bytes whose whitespace state is packed into one
// 64-bit mask.
const Window = 64

// isWS reports whether b is one of the three recognized delimiters
// (spec §6, "Token delimiters"). 0x0D and non-ASCII whitespace are
// deliberately excluded.
func isWS(b byte) bool {
	return b == 0x20 || b == 0x09 || b == 0x0A
}

// windowMask builds the 64-bit whitespace bitmask for one 64-byte window,
// bit i set iff byte i is a delimiter. This is the scalar stand-in for the
// reference's nibble-shuffle vector compare.
func windowMask(w []byte) uint64 {
	var mask uint64
	for i := 0; i < len(w); i++ {
		if isWS(w[i]) {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// Boundaries holds the in-chunk token-start and token-end offsets produced
// by one Scan call, plus any token left pending across the chunk boundary.
type Boundaries struct {
	Starts []uint16 // in-chunk offsets where a token begins
	Ends   []uint16 // in-chunk offsets one past where a token ends

	// PendingStart is true if a token was open when the chunk ran out of
	// bytes; StartOffset is its in-chunk start, to be resolved as an
	// interblock token by the caller (spec §4.3).
	PendingStart  bool
	StartOffset   uint16
	// LeadingEnd is true if the chunk opened mid-token (a start pushed by
	// the previous chunk); EndOffset is where that token ends.
	LeadingEnd  bool
	EndOffset   uint16
}

// Scanner walks chunk-sized slices of the padded file and extracts token
// boundaries window by window (spec §4.2).
type Scanner struct {
	starts []uint16
	ends   []uint16
}

// NewScanner preallocates the per-chunk offset buffers with chunkSize
// slots each. Tokens are separated by at least one delimiter byte, so one
// chunk yields at most chunkSize/2+1 starts and as many ends.
func NewScanner(chunkSize int) *Scanner {
	return &Scanner{
		starts: make([]uint16, 0, chunkSize),
		ends:   make([]uint16, 0, chunkSize),
	}
}

// Scan produces the starts/ends boundary lists for one chunk. prevWS is the
// whitespace mask of the window immediately preceding chunk[0] (all-ones at
// file start, per spec §4.2, so the first non-space byte of the file is
// treated as a token start).
func (s *Scanner) Scan(chunk []byte, prevWS uint64) Boundaries {
	s.starts = s.starts[:0]
	s.ends = s.ends[:0]

	for base := 0; base < len(chunk); base += Window {
		end := base + Window
		if end > len(chunk) {
			end = len(chunk)
		}
		ws := windowMask(chunk[base:end])

		carry := prevWS >> 63
		shifted := (ws << 1) | carry
		starts := (^ws) & shifted
		ends := ws & ^shifted

		emit(&s.starts, starts, base)
		emit(&s.ends, ends, base)

		prevWS = ws
	}

	b := Boundaries{Starts: s.starts, Ends: s.ends}

	// A chunk can simultaneously open mid-token (its first end closes a
	// start from the previous chunk) and close mid-token (its last start
	// has no matching end yet) - both conditions are checked independently,
	// not as alternatives (spec §4.3).
	if len(b.Ends) > 0 && (len(b.Starts) == 0 || b.Ends[0] < b.Starts[0]) {
		b.LeadingEnd = true
		b.EndOffset = b.Ends[0]
		b.Ends = b.Ends[1:]
	}
	if len(b.Starts) > len(b.Ends) {
		last := b.Starts[len(b.Starts)-1]
		b.Starts = b.Starts[:len(b.Starts)-1]
		b.PendingStart = true
		b.StartOffset = last
	}
	return b
}

// LastWindowMask recomputes the whitespace mask of the final window of
// chunk, so the caller can seed prevWS for the next chunk.
func LastWindowMask(chunk []byte) uint64 {
	if len(chunk) == 0 {
		return ^uint64(0)
	}
	base := len(chunk) - Window
	if base < 0 {
		base = 0
	}
	return windowMask(chunk[base:])
}

// emit expands mask into offsets relative to base, via iterated
// trailing-zero extraction (spec §4.2's CTZ-batch expansion; the reference
// unrolls into three fixed batches of 9/6/49, which is a code-size
// optimization with no observable effect here).
func emit(out *[]uint16, mask uint64, base int) {
	for mask != 0 {
		i := bits.TrailingZeros64(mask)
		*out = append(*out, uint16(base+i))
		mask &= mask - 1
	}
}
