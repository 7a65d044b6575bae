package arena

import (
	"errors"
	"os"

	"github.com/krishrvh/wordcount-engine/internal/config"
	"github.com/krishrvh/wordcount-engine/internal/wcerr"
	"github.com/krishrvh/wordcount-engine/internal/wtypes"
)

// Arena is a bump allocator over one contiguous scratch region (spec §4.1,
// "Bump allocator"). All working buffers for one Count call are sized up
// front and carved from here; nothing is ever freed individually - the
// whole arena is reclaimed (or recycled into a Pool, see pool.go) when the
// call finishes.
type Arena struct {
	buf    []byte
	offset int
}

// NewArena wraps a pre-reserved byte slice as a bump arena.
func NewArena(buf []byte) *Arena {
	return &Arena{buf: buf}
}

// Alloc hands out an 8-byte-aligned slice of n bytes. It panics on
// exhaustion: once scanning has started, running out of arena space is a
// sizing bug, not a recoverable condition (spec §7).
func (a *Arena) Alloc(n int) []byte {
	start := roundUp(a.offset, 8)
	end := start + n
	if end > len(a.buf) {
		panic("arena: scratch reservation exhausted, buffers were not sized up front")
	}
	a.offset = end
	return a.buf[start:end]
}

// Bytes returns the live (already allocated) prefix of the arena; used to
// address arena-synthesized token bytes by offset (wtypes.SourceArena).
func (a *Arena) Bytes() []byte { return a.buf[:a.offset] }

// Reset rewinds the bump pointer without touching the underlying pages,
// letting a Pool recycle the reservation across calls.
func (a *Arena) Reset() { a.offset = 0 }

// Context owns everything one Count invocation needs: the padded file
// mapping and the scratch arena (spec §3 "Lifecycle").
type Context struct {
	File     []byte // padded, page-aligned, read-only file bytes
	FileSize int64  // real (unpadded) file length
	Arena    *Arena

	fileMapping []byte
	pooled      bool
	pool        *Pool
}

// Acquire maps path and reserves a fresh config.ArenaBytes scratch arena,
// trying huge pages first when cfg.UseHugepages is set.
func Acquire(path string, cfg config.Config) (*Context, error) {
	return acquireWithArenaSource(path, cfg, func() (*Arena, error) {
		scratch, err := mapAnon(config.ArenaBytes, cfg.UseHugepages)
		if err != nil {
			return nil, err
		}
		return NewArena(scratch), nil
	})
}

// acquireWithArenaSource maps path and pulls the scratch arena from
// newArena, which either reserves a fresh region (Acquire) or draws one
// from a Pool (Pool.Acquire).
func acquireWithArenaSource(path string, cfg config.Config, newArena func() (*Arena, error)) (*Context, error) {
	padded, full, fileSize, err := mapFile(path)
	if err != nil {
		// os.Open/Stat failures are *os.PathError; anything else is a
		// rejected mmap.
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil, wcerr.New(wcerr.OpenFailed, path, err)
		}
		return nil, wcerr.New(wcerr.MapFailed, path, err)
	}
	const tib = int64(1) << 40
	if fileSize >= tib {
		_ = unmap(full)
		return nil, wcerr.New(wcerr.TooLarge, path, nil)
	}

	a, err := newArena()
	if err != nil {
		_ = unmap(full)
		return nil, wcerr.New(wcerr.MapFailed, path, err)
	}

	return &Context{
		File:        padded,
		FileSize:    fileSize,
		Arena:       a,
		fileMapping: full,
	}, nil
}

// Release unmaps both regions. A pooled context (see pool.go) is handed to
// Pool.Put instead, which unmaps the file and recycles the arena.
func (c *Context) Release() error {
	if c.pooled {
		c.pool.Put(c)
		return nil
	}
	err1 := unmap(c.fileMapping)
	err2 := unmap(c.Arena.buf)
	if err1 != nil {
		return err1
	}
	return err2
}

// TokenBytes resolves an Entry's key bytes against whichever region it
// names (spec §6, "each Entry yields (count, byte_slice)").
func (c *Context) TokenBytes(source wtypes.Source, key wtypes.LenLo) []byte {
	off, length := int(key.Offset()), int(key.Length())
	if source == wtypes.SourceArena {
		return c.Arena.Bytes()[off : off+length]
	}
	return c.File[off : off+length]
}

func roundUp(n, multiple int) int {
	if n%multiple == 0 {
		return n
	}
	return n + (multiple - n%multiple)
}
