// Package radixsort implements the MSD radix sort of spec §4.8: entries
// ordered by count descending, ties broken by token bytes ascending, with
// an insertion-sort fallback below a cutoff.
package radixsort

import (
	"github.com/krishrvh/wordcount-engine/internal/wtypes"
)

// ByteAt returns the byte of e's token at the given 0-based depth, and
// whether the token has a byte there at all. depths below 8 are served
// from the cached Entry.Prefix; depths at or beyond 8 "remount" from the
// underlying storage (spec §4.8, "remount") via whatever resolver the
// caller wires (file mapping or arena, depending on Entry.Source).
type ByteAt func(e wtypes.Entry, depth int) (b byte, ok bool)

// Sort orders entries by count descending, then by token bytes ascending
// (spec §4.8), in place.
func Sort(entries []wtypes.Entry, byteAt ByteAt, cutoff int) {
	sortByCount(entries, 0, cutoff, byteAt)
}

// sortByCount is Phase A: MSD radix over the 4 big-endian count bytes,
// buckets enumerated highest to lowest so the result is descending
// (spec §4.8). Equal-count runs are handed to Phase B.
func sortByCount(entries []wtypes.Entry, depth int, cutoff int, byteAt ByteAt) {
	if len(entries) < 2 {
		return
	}
	if depth >= 4 {
		sortByBytes(entries, 0, cutoff, byteAt)
		return
	}
	if len(entries) < cutoff {
		insertionSortByCount(entries, byteAt)
		return
	}

	shift := uint(3-depth) * 8
	var buckets [256][]wtypes.Entry
	for _, e := range entries {
		b := byte(uint32(e.Count) >> shift)
		buckets[b] = append(buckets[b], e)
	}

	pos := 0
	for b := 255; b >= 0; b-- { // descending: highest count bucket first
		n := len(buckets[b])
		if n == 0 {
			continue
		}
		copy(entries[pos:pos+n], buckets[b])
		sortByCount(entries[pos:pos+n], depth+1, cutoff, byteAt)
		pos += n
	}
}

// sortByBytes is Phase B: MSD radix over token bytes ascending. A token
// that ends at the current depth is placed before every token that
// continues past it, even one continuing with a 0x00 byte, so shorter
// tokens that are a prefix of a longer one come first (spec §4.8).
func sortByBytes(entries []wtypes.Entry, depth int, cutoff int, byteAt ByteAt) {
	if len(entries) < 2 {
		return
	}
	if len(entries) < cutoff {
		insertionSortByBytes(entries, depth, byteAt)
		return
	}

	var ended []wtypes.Entry
	var buckets [256][]wtypes.Entry
	for _, e := range entries {
		b, ok := byteAt(e, depth)
		if !ok {
			ended = append(ended, e)
			continue
		}
		buckets[b] = append(buckets[b], e)
	}

	pos := copy(entries, ended)
	for b := 0; b < 256; b++ { // ascending
		n := len(buckets[b])
		if n == 0 {
			continue
		}
		copy(entries[pos:pos+n], buckets[b])
		sortByBytes(entries[pos:pos+n], depth+1, cutoff, byteAt)
		pos += n
	}
}

// insertionSortByCount handles small count-phase subranges directly,
// comparing the full count first and falling through to a byte-wise
// comparison only on a tie (spec §4.8).
func insertionSortByCount(entries []wtypes.Entry, byteAt ByteAt) {
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && less(entries[j], entries[j-1], byteAt) {
			entries[j], entries[j-1] = entries[j-1], entries[j]
			j--
		}
	}
}

// insertionSortByBytes sorts by token bytes ascending starting at depth,
// restricting comparison to near-duplicates once the cached prefix ties.
func insertionSortByBytes(entries []wtypes.Entry, depth int, byteAt ByteAt) {
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && bytesLess(entries[j], entries[j-1], depth, byteAt) {
			entries[j], entries[j-1] = entries[j-1], entries[j]
			j--
		}
	}
}

// less is the full ordering relation: count descending, then bytes
// ascending (spec §8, "Ordering invariant").
func less(a, b wtypes.Entry, byteAt ByteAt) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return bytesLess(a, b, 0, byteAt)
}

func bytesLess(a, b wtypes.Entry, fromDepth int, byteAt ByteAt) bool {
	for depth := fromDepth; ; depth++ {
		ab, aok := byteAt(a, depth)
		bb, bok := byteAt(b, depth)
		if !aok && !bok {
			return false
		}
		if aok != bok {
			return !aok // the token that ends first sorts first
		}
		if ab != bb {
			return ab < bb
		}
	}
}
