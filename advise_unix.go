//go:build advise && !windows

package mmap

import (
	"golang.org/x/sys/unix"

	"github.com/arcflow/mmap/diag"
)

// LOCKS_REQUIRED(m.mu held shared or exclusive)
func (m *Mapping) osAdvise(start, end int64, advice Advice) {
	native := unix.MADV_NORMAL
	switch advice {
	case AdviceRandom:
		native = unix.MADV_RANDOM
	case AdviceSequential:
		native = unix.MADV_SEQUENTIAL
	case AdviceWillNeed:
		native = unix.MADV_WILLNEED
	case AdviceDontNeed:
		native = unix.MADV_DONTNEED
	}
	if err := unix.Madvise(m.region.data[start:end], native); err != nil {
		m.log.Debug("madvise refused",
			diag.Path(m.path),
			diag.String("advice", advice.String()),
			diag.Err(err))
	}
}
