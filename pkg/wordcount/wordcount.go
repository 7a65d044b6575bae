// Package wordcount is the public entry point: Count(path) computes the
// frequency of every whitespace-delimited token in a UTF-8 text file and
// returns the (token, count) pairs sorted by descending count, ties
// broken by ascending byte order (spec §1).
package wordcount

import (
	"github.com/krishrvh/wordcount-engine/internal/arena"
	"github.com/krishrvh/wordcount-engine/internal/blockscan"
	"github.com/krishrvh/wordcount-engine/internal/bucket"
	"github.com/krishrvh/wordcount-engine/internal/compact"
	"github.com/krishrvh/wordcount-engine/internal/config"
	"github.com/krishrvh/wordcount-engine/internal/radixsort"
	"github.com/krishrvh/wordcount-engine/internal/rht"
	"github.com/krishrvh/wordcount-engine/internal/wordhash"
	"github.com/krishrvh/wordcount-engine/internal/wtypes"
)

// Result is the sorted output of one Count call. Entries reference bytes
// inside the file mapping or the scratch arena and remain valid until the
// Context backing them is released (spec §5, "Results reference bytes
// inside the arena/file mapping").
type Result struct {
	Entries []wtypes.Entry
	ctx     *arena.Context
}

// Bytes resolves e's token bytes. e must belong to this Result.
func (r *Result) Bytes(e wtypes.Entry) []byte {
	return r.ctx.TokenBytes(e.Source, e.Key)
}

// Close releases the underlying mapping/arena. After Close, every slice
// returned by Bytes is invalid (spec §5, "callers must not free them
// externally" - Close is the one caller-visible release point).
func (r *Result) Close() error { return r.ctx.Release() }

// Option customizes a Count call.
type Option func(*options)

type options struct {
	cfg  config.Config
	pool *arena.Pool
}

// WithConfig overrides the default compile-time toggles (spec §6,
// "Implementations MAY expose these at runtime").
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithPool draws the scratch arena from a shared arena.Pool instead of
// reserving a fresh one, for repeated calls from a long-running process
// (see internal/arena.Pool).
func WithPool(p *arena.Pool) Option {
	return func(o *options) { o.pool = p }
}

// Count runs the full pipeline against path (spec §2): scan, bucketize,
// hash, insert, resolve interblock tokens, compact, and sort.
func Count(path string, opts ...Option) (*Result, error) {
	o := options{cfg: config.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	var ctx *arena.Context
	var err error
	if o.pool != nil {
		ctx, err = o.pool.Acquire(path)
	} else {
		ctx, err = arena.Acquire(path, o.cfg)
	}
	if err != nil {
		return nil, err
	}

	entries := run(ctx, o.cfg)
	return &Result{Entries: entries, ctx: ctx}, nil
}

// shortRec and longRec are the per-token records batched up within one
// chunk before being handed to insertBatches, so prefetch can run a fixed
// distance ahead of the matching insert (spec §4.5, §9).
type shortRec struct {
	hash wtypes.Hash
}

type longRec struct {
	hash  wtypes.Hash
	lenlo wtypes.LenLo
}

// shortMaxLen is the longest token the 8-byte packed key can hold (spec
// §4.4, "len 3-8"); it is fixed by ShortKey's word width, not a config
// toggle. Lengths above it go through the general string hash even when
// they still fall inside a per-length bucket.
const shortMaxLen = 8

// run drives the pipeline once the file and arena are mapped.
func run(ctx *arena.Context, cfg config.Config) []wtypes.Entry {
	veryShortCap := cfg.VeryShortStringLength
	if veryShortCap > 2 {
		veryShortCap = 2 // only lengths 1-2 have a dense direct-index array (spec §3)
	}

	scanner := blockscan.NewScanner(cfg.ChunkSize)
	buckets := bucket.New(cfg.MediumStringLength)
	interblock := bucket.NewInterblock(1024)
	veryShort := &wordhash.VeryShort{}
	short, long := rht.NewTables(cfg, ctx.File)

	shortBatch := make([]shortRec, 0, cfg.ChunkSize)
	longBatch := make([]longRec, 0, cfg.ChunkSize/8)

	prevWS := ^uint64(0)
	file := ctx.File

	processChunk := func(chunkBase int, chunk []byte) {
		boundaries := scanner.Scan(chunk, prevWS)
		prevWS = blockscan.LastWindowMask(chunk)

		if boundaries.LeadingEnd {
			interblock.ClosePending(wtypes.FileOffset(chunkBase) + wtypes.FileOffset(boundaries.EndOffset))
		}

		buckets.Reset()
		n := len(boundaries.Starts)
		if len(boundaries.Ends) < n {
			n = len(boundaries.Ends)
		}
		for i := 0; i < n; i++ {
			buckets.Push(boundaries.Starts[i], boundaries.Ends[i])
		}
		if boundaries.PendingStart {
			interblock.OpenPending(wtypes.FileOffset(chunkBase) + wtypes.FileOffset(boundaries.StartOffset))
		}

		shortBatch = shortBatch[:0]
		longBatch = longBatch[:0]

		if veryShortCap >= 1 {
			for _, lo := range buckets.ByLength[1] {
				veryShort.AddLen1(chunk[lo])
			}
		}
		if veryShortCap >= 2 {
			for _, lo := range buckets.ByLength[2] {
				veryShort.AddLen2(chunk[lo], chunk[lo+1])
			}
		}
		startLen := 1
		if veryShortCap < 2 {
			startLen = veryShortCap + 1
		} else {
			startLen = 3
		}
		for length := startLen; length < len(buckets.ByLength); length++ {
			for _, lo := range buckets.ByLength[length] {
				token := chunk[lo : int(lo)+length]
				if length <= shortMaxLen {
					key := wordhash.ShortKey(token)
					shortBatch = append(shortBatch, shortRec{hash: wordhash.Scramble(key)})
					continue
				}
				h := wordhash.Long(token)
				lenlo := wtypes.Pack(wtypes.Length(length), wtypes.FileOffset(chunkBase)+wtypes.FileOffset(lo))
				longBatch = append(longBatch, longRec{hash: h, lenlo: lenlo})
			}
		}
		for _, r := range buckets.Long {
			lo, hi := r.Lo, r.Hi
			token := chunk[lo:hi]
			h := wordhash.Long(token)
			lenlo := wtypes.Pack(wtypes.Length(hi-lo), wtypes.FileOffset(chunkBase)+wtypes.FileOffset(lo))
			longBatch = append(longBatch, longRec{hash: h, lenlo: lenlo})
		}

		insertBatches(short, long, shortBatch, longBatch, cfg.PrefetchDistance)
	}

	for chunkBase := 0; chunkBase < len(file); chunkBase += cfg.ChunkSize {
		end := chunkBase + cfg.ChunkSize
		if end > len(file) {
			end = len(file)
		}
		processChunk(chunkBase, file[chunkBase:end])
	}

	if interblock.HasPending() {
		panic("wordcount: token still open after the last chunk")
	}
	resolveInterblock(interblock, file, short, long, veryShort, veryShortCap)

	expected := int(uint64(1)<<cfg.LongRHTPow) / 8
	entries := compact.Compact(ctx.Arena, file, long, short, veryShort, expected)

	byteAt := func(e wtypes.Entry, depth int) (byte, bool) {
		if depth < 8 {
			return e.Prefix[depth], depth < int(e.Key.Length())
		}
		length := int(e.Key.Length())
		if depth >= length {
			return 0, false
		}
		return ctx.TokenBytes(e.Source, e.Key)[depth], true
	}
	radixsort.Sort(entries, byteAt, cfg.InssortCutoff)

	return entries
}

func insertBatches(short *rht.Short, long *rht.Long, shortBatch []shortRec, longBatch []longRec, distance int) {
	for i := range shortBatch {
		if i+distance < len(shortBatch) {
			short.Prefetch(shortBatch[i+distance].hash)
		}
		short.Insert(shortBatch[i].hash)
	}
	for i := range longBatch {
		if i+distance < len(longBatch) {
			long.Prefetch(longBatch[i+distance].hash)
		}
		long.Insert(longBatch[i].hash, longBatch[i].lenlo)
	}
}

// resolveInterblock replays every token that crossed a chunk boundary
// through the length-appropriate hasher, into the same tables used during
// the main scan (spec §4.6). The list is sorted length-major with a
// sentinel last, so the sentinel is simply skipped.
func resolveInterblock(ib *bucket.Interblock, file []byte, short *rht.Short, long *rht.Long, veryShort *wordhash.VeryShort, veryShortCap int) {
	for _, lenlo := range ib.Finalize() {
		if lenlo == wtypes.Sentinel {
			continue
		}
		off, length := int(lenlo.Offset()), int(lenlo.Length())
		token := file[off : off+length]
		switch {
		case length == 1 && veryShortCap >= 1:
			veryShort.AddLen1(token[0])
		case length == 2 && veryShortCap >= 2:
			veryShort.AddLen2(token[0], token[1])
		case length <= shortMaxLen:
			key := wordhash.ShortKey(token)
			short.Insert(wordhash.Scramble(key))
		default:
			h := wordhash.Long(token)
			long.Insert(h, lenlo)
		}
	}
}
