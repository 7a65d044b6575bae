// Package bucket sorts token spans emitted by blockscan into per-length
// buckets, a long-range list, and the interblock list of tokens that cross
// a chunk boundary (spec §4.3).
package bucket

import (
	"sort"

	"github.com/krishrvh/wordcount-engine/internal/wtypes"
)

// Range is a (lo, hi) in-chunk span for a token whose length is >= the
// medium-string threshold, where the exact length no longer fits the
// per-length bucket index (spec §4.3, "long-range list").
type Range struct {
	Lo, Hi uint16
}

// Buckets accumulates one chunk's worth of bucketized token spans.
type Buckets struct {
	// ByLength[n] holds the in-chunk start offsets of every token of
	// length n, for n in [1, maxBucketLen-1].
	ByLength [][]uint16
	// Long holds (lo, hi) spans for tokens at or above maxBucketLen.
	Long []Range

	maxBucketLen int
}

// New allocates buckets for lengths [0, maxBucketLen-1] (spec's medium
// threshold, default 256, so lengths 0..255 get a direct bucket).
func New(maxBucketLen int) *Buckets {
	b := &Buckets{maxBucketLen: maxBucketLen}
	b.ByLength = make([][]uint16, maxBucketLen)
	return b
}

// Reset clears all buckets for the next chunk without releasing their
// backing arrays.
func (b *Buckets) Reset() {
	for i := range b.ByLength {
		b.ByLength[i] = b.ByLength[i][:0]
	}
	b.Long = b.Long[:0]
}

// Push files one (lo, hi) token span into the right bucket.
func (b *Buckets) Push(lo, hi uint16) {
	length := int(hi - lo)
	if length < b.maxBucketLen {
		b.ByLength[length] = append(b.ByLength[length], lo)
		return
	}
	b.Long = append(b.Long, Range{Lo: lo, Hi: hi})
}

// Interblock accumulates tokens that straddle a chunk boundary, resolved
// in a single post-scan pass (spec §4.6). At most one token is pending at
// a time, per spec's Data Model invariant.
type Interblock struct {
	pending      wtypes.FileOffset
	hasPending   bool
	list         []wtypes.LenLo
}

// NewInterblock preallocates the interblock list.
func NewInterblock(capacity int) *Interblock {
	return &Interblock{list: make([]wtypes.LenLo, 0, capacity)}
}

// OpenPending records a token start that ran off the end of a chunk.
// fileOffset is the token's absolute position in the file.
func (ib *Interblock) OpenPending(fileOffset wtypes.FileOffset) {
	ib.pending = fileOffset
	ib.hasPending = true
}

// ClosePending completes the currently pending token, given the absolute
// file offset one past its last byte. It is a programming fault to call
// this with nothing pending (spec §7, "nonzero after-chunk pending pair
// mismatch").
func (ib *Interblock) ClosePending(fileEndOffset wtypes.FileOffset) {
	if !ib.hasPending {
		panic("bucket: interblock end with no pending start")
	}
	length := wtypes.Length(fileEndOffset - ib.pending)
	ib.list = append(ib.list, wtypes.Pack(length, ib.pending))
	ib.hasPending = false
}

// HasPending reports whether a token start is still open (used at EOF to
// assert there is no unterminated token left, since the file is padded
// with a trailing space that always closes the final token).
func (ib *Interblock) HasPending() bool { return ib.hasPending }

// Finalize appends the sentinel and returns the interblock list sorted by
// packed (length, offset) value ascending, so length-major order lets the
// caller replay each token through the length-appropriate hasher
// (spec §4.6). Sorting by the full packed word is equivalent to sorting by
// length then by offset, and is stable in effect because offsets are
// unique.
func (ib *Interblock) Finalize() []wtypes.LenLo {
	ib.list = append(ib.list, wtypes.Sentinel)
	sort.Slice(ib.list, func(i, j int) bool { return ib.list[i] < ib.list[j] })
	return ib.list
}
