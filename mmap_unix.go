//go:build !windows

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// region is the live OS mapping: the mapped byte slice plus the file it
// shadows. The file handle is owned by the Mapping, not the region.
type region struct {
	f    *os.File
	data []byte
}

func mapRegion(f *os.File, size int64, mode Mode) (*region, error) {
	prot := unix.PROT_READ
	flags := unix.MAP_SHARED
	switch mode {
	case ReadWrite:
		prot |= unix.PROT_WRITE
	case CopyOnWrite:
		prot |= unix.PROT_WRITE
		flags = unix.MAP_PRIVATE
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), prot, flags)
	if err != nil {
		return nil, os.NewSyscallError("mmap", err)
	}
	return &region{f: f, data: data}, nil
}

// sync persists [start, end) of the mapping. start must be page-aligned;
// the kernel rounds the length up to whole pages itself.
func (r *region) sync(start, end int64) error {
	if end <= start {
		return nil
	}
	if err := unix.Msync(r.data[start:end], unix.MS_SYNC); err != nil {
		return os.NewSyscallError("msync", err)
	}
	return nil
}

func (r *region) unmap() error {
	if err := unix.Munmap(r.data); err != nil {
		return os.NewSyscallError("munmap", err)
	}
	r.data = nil
	return nil
}
