// Package rht implements the two open-addressed Robin-Hood hash tables of
// spec §4.5: a short table keyed only by the bijective scrambled hash, and
// a long table keyed by a general hash with a parallel LenLo array for
// equality-free lookup at the cardinalities the pipeline expects.
package rht

import (
	"unsafe"

	"github.com/zeebo/xxh3"

	"github.com/krishrvh/wordcount-engine/internal/config"
	"github.com/krishrvh/wordcount-engine/internal/wtypes"
)

// fingerprintMask keeps the optional secondary fingerprint to 10 bits,
// mirroring the reference pack's Hash10 (ssd-cache internal/indices/
// round_map.go) used there to skip a full key comparison on a collision.
const fingerprintMask = 0x3FF

// fingerprint10 derives the secondary check value for the strict-equality
// path (spec §4.5, "optional memcmp ... guarded by a compile-time flag").
func fingerprint10(token []byte) uint16 {
	return uint16(xxh3.Hash(token) & fingerprintMask)
}

// slot is one table entry: hash plus occupancy-carrying count. count == 0
// marks an empty slot (spec §3).
type slot struct {
	hash  wtypes.Hash
	count wtypes.Count
}

// Short is the short-token table (spec §4.5). Keys are the scrambled
// 8-byte token itself, which is an injection, so two equal hashes always
// mean two equal tokens - no equality check is ever needed here.
type Short struct {
	slots []slot
	pow   uint
	mask  uint64
}

// NewShort allocates a short table with 2^pow slots plus a ~10% overflow
// tail (spec §4.5, "eliminate modulo at the tail").
func NewShort(pow uint) *Short {
	n := (uint64(1) << pow)
	tail := n / 10
	return &Short{
		slots: make([]slot, n+tail),
		pow:   pow,
		mask:  n - 1,
	}
}

func (t *Short) home(h wtypes.Hash) uint64 {
	return uint64(h) >> (64 - t.pow)
}

// Insert increments h's count, inserting a new slot via Robin-Hood
// displacement if h is not already present (spec §4.5, steps 1-4). The
// probe loop and soft prefetch follow the shape of a fixed-capacity
// Robin-Hood table (resident swapped for incoming when it has traveled
// farther from its home, linear probe without wraparound); the swap
// condition itself is home-bucket comparison, not probe distance, per
// spec §4.5's tie-break.
func (t *Short) Insert(h wtypes.Hash) {
	incoming := slot{hash: h, count: 1}
	i := t.home(h)
	for {
		s := &t.slots[i]
		if s.count == 0 {
			*s = incoming
			return
		}
		if s.hash == incoming.hash {
			s.count++
			return
		}
		// The resident's home bucket lies after the incoming record's, so
		// the resident has traveled less: the incoming record takes this
		// slot and the evicted resident continues probing.
		if t.home(s.hash) > t.home(incoming.hash) {
			incoming, *s = *s, incoming
		}
		i++
		if i >= uint64(len(t.slots)) {
			panic("rht: short table overflow tail exhausted, RHT_LEN_EXTENDED too small")
		}
	}
}

// Each calls fn once per live slot, in table order (no ordering
// guarantee beyond that - the radix sort imposes the real output order).
func (t *Short) Each(fn func(hash wtypes.Hash, count wtypes.Count)) {
	for _, s := range t.slots {
		if s.count != 0 {
			fn(s.hash, s.count)
		}
	}
}

// longSlot additionally carries the LenLo addressing the token's bytes in
// the file (spec §3, "the parallel LenLo array holds its length+offset").
type longSlot struct {
	hash   wtypes.Hash
	lenlo  wtypes.LenLo
	count  wtypes.Count
	fp     uint16 // secondary fingerprint, valid only when strictEquality is set
}

// Long is the medium/long-token table (spec §4.5).
type Long struct {
	slots          []longSlot
	pow            uint
	strictEquality bool
	fileBytes      []byte
}

// NewLong allocates a long table with 2^pow slots plus overflow tail.
// strictEquality enables the optional memcmp-guarded equality check
// (spec §4.5); fileBytes is only consulted when it is enabled.
func NewLong(pow uint, strictEquality bool, fileBytes []byte) *Long {
	n := uint64(1) << pow
	tail := n / 10
	return &Long{
		slots:          make([]longSlot, n+tail),
		pow:            pow,
		strictEquality: strictEquality,
		fileBytes:      fileBytes,
	}
}

func (t *Long) home(h wtypes.Hash) uint64 {
	return uint64(h) >> (64 - t.pow)
}

// Insert increments (hash, lenlo)'s count, or inserts a new record. Same
// probe-and-displace shape as Short.Insert.
func (t *Long) Insert(h wtypes.Hash, lenlo wtypes.LenLo) {
	incoming := longSlot{hash: h, lenlo: lenlo, count: 1}
	if t.strictEquality {
		off, n := int(lenlo.Offset()), int(lenlo.Length())
		incoming.fp = fingerprint10(t.fileBytes[off : off+n])
	}
	i := t.home(h)
	for {
		s := &t.slots[i]
		if s.count == 0 {
			*s = incoming
			return
		}
		if s.hash == incoming.hash && t.equal(*s, incoming) {
			s.count++
			return
		}
		if t.home(s.hash) > t.home(incoming.hash) {
			incoming, *s = *s, incoming
		}
		i++
		if i >= uint64(len(t.slots)) {
			panic("rht: long table overflow tail exhausted, RHT_LEN_EXTENDED too small")
		}
	}
}

// equal implements the optional robustness check; when disabled, two
// equal hashes are assumed to mean equal tokens, per spec §4.5. When
// enabled, the cheap fingerprint rules out almost all false collisions
// before the full byte comparison runs.
func (t *Long) equal(s, incoming longSlot) bool {
	if !t.strictEquality {
		return true
	}
	if s.fp != incoming.fp || s.lenlo.Length() != incoming.lenlo.Length() {
		return false
	}
	ao, bo, n := s.lenlo.Offset(), incoming.lenlo.Offset(), int(s.lenlo.Length())
	for i := 0; i < n; i++ {
		if t.fileBytes[int(ao)+i] != t.fileBytes[int(bo)+i] {
			return false
		}
	}
	return true
}

// Each calls fn once per live slot.
func (t *Long) Each(fn func(hash wtypes.Hash, lenlo wtypes.LenLo, count wtypes.Count)) {
	for _, s := range t.slots {
		if s.count != 0 {
			fn(s.hash, s.lenlo, s.count)
		}
	}
}

// Prefetch is the hook the caller issues PrefetchDistance records ahead of
// an insert (spec §4.5, §9: "a tuning knob, not a correctness knob"). Go has
// no portable prefetch intrinsic, so this reads one word at the target
// slot's address through an unsafe.Pointer to pull its cache line in, the
// same raw-address touch a fixed-capacity Robin-Hood table uses to warm the
// next probe slot during its own insert loop.
func (t *Short) Prefetch(h wtypes.Hash) {
	base := unsafe.Pointer(&t.slots[0])
	_ = *(*uint64)(unsafe.Pointer(uintptr(base) + uintptr(t.home(h))*unsafe.Sizeof(slot{})))
}

func (t *Long) Prefetch(h wtypes.Hash) {
	base := unsafe.Pointer(&t.slots[0])
	_ = *(*uint64)(unsafe.Pointer(uintptr(base) + uintptr(t.home(h))*unsafe.Sizeof(longSlot{})))
}

// NewTables is a convenience constructor pairing table sizes with a Config.
func NewTables(cfg config.Config, fileBytes []byte) (*Short, *Long) {
	return NewShort(cfg.ShortRHTPow), NewLong(cfg.LongRHTPow, cfg.StrictEquality, fileBytes)
}
