//go:build hugepages && linux

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapRegionTiered walks the huge-page fallback chain when hugePages is
// requested. Tier 1 asks the kernel for an explicit, pre-populated
// huge-page mapping; a hugetlbfs-less kernel or exhausted pool refuses
// and we drop to tier 2, a normal mapping advised toward transparent
// huge pages; refusal there drops to plain pages. Only a failure to map
// at all is an error.
func mapRegionTiered(f *os.File, size int64, mode Mode, hugePages bool) (*region, int, error) {
	if !hugePages {
		r, err := mapRegion(f, size, mode)
		return r, hugeTierNone, err
	}

	prot := unix.PROT_READ
	flags := unix.MAP_SHARED
	switch mode {
	case ReadWrite:
		prot |= unix.PROT_WRITE
	case CopyOnWrite:
		prot |= unix.PROT_WRITE
		flags = unix.MAP_PRIVATE
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), prot,
		flags|unix.MAP_HUGETLB|unix.MAP_POPULATE)
	if err == nil {
		return &region{f: f, data: data}, hugeTierExplicit, nil
	}

	r, err := mapRegion(f, size, mode)
	if err != nil {
		return nil, 0, err
	}
	if err := unix.Madvise(r.data, unix.MADV_HUGEPAGE); err == nil {
		return r, hugeTierTransparent, nil
	}
	return r, hugeTierNone, nil
}
