//go:build !hugepages || !linux

package mmap

import "os"

// Built without the hugepages tag (or on a platform without the
// explicit tier): the request silently resolves to normal pages.
func mapRegionTiered(f *os.File, size int64, mode Mode, hugePages bool) (*region, int, error) {
	r, err := mapRegion(f, size, mode)
	return r, hugeTierNone, err
}
