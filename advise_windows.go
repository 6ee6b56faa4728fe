//go:build advise && windows

package mmap

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/arcflow/mmap/diag"
)

// Windows exposes no madvise equivalent; the closest match is
// prefetching for WillNeed. Every other advice value is accepted and
// ignored.
//
// LOCKS_REQUIRED(m.mu held shared or exclusive)
func (m *Mapping) osAdvise(start, end int64, advice Advice) {
	if advice != AdviceWillNeed {
		m.log.Debug("advice unsupported on windows, ignored",
			diag.Path(m.path),
			diag.String("advice", advice.String()))
		return
	}
	entry := windows.WIN32_MEMORY_RANGE_ENTRY{
		VirtualAddress: windows.Pointer(unsafe.Pointer(&m.region.data[start])),
		NumberOfBytes:  uintptr(end - start),
	}
	if err := windows.PrefetchVirtualMemory(windows.CurrentProcess(), 1, &entry, 0); err != nil {
		m.log.Debug("prefetch refused",
			diag.Path(m.path),
			diag.Err(err))
	}
}
