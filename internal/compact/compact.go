// Package compact merges the two hash tables and the very-short counters
// into one dense Entry array (spec §4.7), the shape the radix sorter
// consumes.
package compact

import (
	"github.com/krishrvh/wordcount-engine/internal/arena"
	"github.com/krishrvh/wordcount-engine/internal/rht"
	"github.com/krishrvh/wordcount-engine/internal/wordhash"
	"github.com/krishrvh/wordcount-engine/internal/wtypes"
)

// Compact drains long, short, and the very-short counters into a single
// Entry slice allocated from a. fileBytes addresses the long table's
// token bytes directly; short and very-short tokens have their raw bytes
// synthesized into the arena, since the short table never stored an
// offset (spec §4.7).
func Compact(a *arena.Arena, fileBytes []byte, long *rht.Long, short *rht.Short, veryShort *wordhash.VeryShort, expected int) []wtypes.Entry {
	entries := make([]wtypes.Entry, 0, expected)

	long.Each(func(h wtypes.Hash, lenlo wtypes.LenLo, count wtypes.Count) {
		off, n := int(lenlo.Offset()), int(lenlo.Length())
		end := n
		if end > 8 {
			end = 8
		}
		entries = append(entries, wtypes.Entry{
			Count:  count,
			Source: wtypes.SourceFile,
			Key:    lenlo,
			Prefix: wordhash.Prefix(fileBytes[off : off+end]),
		})
	})

	short.Each(func(h wtypes.Hash, count wtypes.Count) {
		key := wordhash.Unscramble(h)
		length := wordhash.ShortLength(key)
		raw := wordhash.ShortBytes(key, length)
		dst := a.Alloc(length)
		copy(dst, raw)
		entries = append(entries, wtypes.Entry{
			Count:  count,
			Source: wtypes.SourceArena,
			Key:    wtypes.Pack(wtypes.Length(length), fileOffsetOf(a, dst)),
			Prefix: wordhash.Prefix(dst),
		})
	})

	for b, count := range veryShort.Len1 {
		if count == 0 {
			continue
		}
		dst := a.Alloc(1)
		dst[0] = byte(b)
		entries = append(entries, wtypes.Entry{
			Count:  wtypes.Count(count),
			Source: wtypes.SourceArena,
			Key:    wtypes.Pack(1, fileOffsetOf(a, dst)),
			Prefix: wordhash.Prefix(dst),
		})
	}
	for packed, count := range veryShort.Len2 {
		if count == 0 {
			continue
		}
		dst := a.Alloc(2)
		dst[0] = byte(packed >> 8)
		dst[1] = byte(packed)
		entries = append(entries, wtypes.Entry{
			Count:  wtypes.Count(count),
			Source: wtypes.SourceArena,
			Key:    wtypes.Pack(2, fileOffsetOf(a, dst)),
			Prefix: wordhash.Prefix(dst),
		})
	}

	return entries
}

// fileOffsetOf returns dst's position relative to a's backing buffer, so
// it can be packed into a LenLo and resolved later via
// arena.Context.TokenBytes. dst must have come from a.Alloc.
func fileOffsetOf(a *arena.Arena, dst []byte) wtypes.FileOffset {
	base := a.Bytes()
	return wtypes.FileOffset(len(base) - len(dst))
}
