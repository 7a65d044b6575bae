// Package config carries the compile-time toggles of spec §6 as a runtime
// struct so callers can override them without rebuilding the binary.
package config

// Config holds every tunable named in the specification. Defaults mirror
// the reference implementation; within the valid ranges noted on each
// field, changing them affects performance only, never the result (see
// spec §9 on prefetch distance and §4.8 on the insertion-sort cutoff).
type Config struct {
	// ChunkSize is the number of file bytes the scanner processes as one
	// unit before handing tokens off to the bucketizer. It must be a
	// multiple of 64 (the scanner's window) and at most 65536, since
	// in-chunk offsets are uint16.
	ChunkSize int

	// VeryShortStringLength is the largest token length resolved via the
	// direct-indexed counters instead of the short hash table. Only
	// lengths 1 and 2 have counters, so values above 2 act as 2.
	VeryShortStringLength int

	// MediumStringLength is the token length at which bucketizing switches
	// from a per-length bucket to an explicit (lo, hi) range. It does not
	// move the short/general hash boundary, which is fixed at 8 bytes.
	MediumStringLength int

	// ShortRHTPow is log2 of the short table's slot count.
	ShortRHTPow uint

	// LongRHTPow is log2 of the long table's slot count.
	LongRHTPow uint

	// InssortCutoff is the subrange size below which the radix sorter
	// falls back to insertion sort.
	InssortCutoff int

	// PrefetchDistance is how many records ahead of the current insert the
	// table issues its prefetch hint. Tuning only, per spec §9.
	PrefetchDistance int

	// UseHugepages requests huge pages for the scratch arena, falling back
	// to base pages on failure.
	UseHugepages bool

	// StrictEquality enables the optional memcmp-based equality check on
	// hash-table hits (spec §4.5, "implementations MAY add ... guarded by
	// a compile-time flag"). Off by default to match the reference's
	// collision-free assumption at expected cardinalities.
	StrictEquality bool
}

// ArenaBytes is the size of the scratch arena carved from the single
// contiguous reservation made by the memory provider (spec §4.1).
const ArenaBytes = 4 << 30 // 4 GiB

// Default returns the specification's defaults (spec §6).
func Default() Config {
	return Config{
		ChunkSize:              65536,
		VeryShortStringLength:  3,
		MediumStringLength:     256,
		ShortRHTPow:            23,
		LongRHTPow:             26,
		InssortCutoff:          55,
		PrefetchDistance:       40,
		UseHugepages:           true,
		StrictEquality:         false,
	}
}
