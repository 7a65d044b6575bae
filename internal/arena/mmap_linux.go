//go:build linux

// Package arena owns every byte the pipeline touches after the path is
// opened: the read-only file mapping and the bump-allocated scratch arena
// that all working buffers come from (spec §4.1, §9 "Globals").
package arena

import (
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

const pageSize = 4096

// mapAnon reserves a zero-filled anonymous region, attempting huge pages
// first when requested and falling back to base pages on failure - logged
// once, per spec §7.
func mapAnon(size int, hugepages bool) ([]byte, error) {
	flags := unix.MAP_PRIVATE | unix.MAP_ANON
	if hugepages {
		b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, flags|unix.MAP_HUGETLB)
		if err == nil {
			return b, nil
		}
		log.Debug().Err(err).Msg("arena: hugepage reservation failed, retrying with base pages")
	}
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, flags)
}

// mapFile maps a regular file read-only/private, copies its bytes into a
// private anonymous region, unmaps the file, and advises the kernel of
// sequential access on the copy (spec §4.1). The returned slices view that
// anonymous copy, not the file mapping itself. The copy is padded at its
// tail, beyond the real EOF, with space bytes up to the next 128-byte
// multiple plus another 128 bytes, so the scanner can issue 64-byte reads
// without masking (spec §4.1, §9 open question).
// mapFile returns two views over the same mapping: padded is the slice the
// scanner reads from (file bytes followed by space padding), and full is
// the entire mmap'd region, needed verbatim by Munmap on release.
func mapFile(path string) (padded, full []byte, fileLen int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, 0, err
	}
	fileLen = info.Size()

	paddedLen := roundUp(int(fileLen), 128) + 128 // spare window beyond the rounded tail
	full, err = unix.Mmap(-1, 0, roundUp(paddedLen, pageSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, fileLen, err
	}
	if fileLen > 0 {
		region, mmapErr := unix.Mmap(int(f.Fd()), 0, int(fileLen), unix.PROT_READ, unix.MAP_PRIVATE)
		if mmapErr != nil {
			_ = unix.Munmap(full)
			return nil, nil, fileLen, mmapErr
		}
		copy(full, region)
		_ = unix.Munmap(region)
	}
	for i := int(fileLen); i < len(full); i++ {
		full[i] = ' '
	}
	if err := unix.Madvise(full, unix.MADV_SEQUENTIAL); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("arena: failed to madvise file mapping")
	}
	return full[:paddedLen], full, fileLen, nil
}

func unmap(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munmap(b)
}
