//go:build windows

package mmap

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// region is the live OS mapping: the mapped view plus the file-mapping
// object backing it. The file handle is owned by the Mapping.
type region struct {
	f       *os.File
	data    []byte
	mapping windows.Handle
	addr    uintptr
}

func mapRegion(f *os.File, size int64, mode Mode) (*region, error) {
	prot := uint32(windows.PAGE_READONLY)
	access := uint32(windows.FILE_MAP_READ)
	switch mode {
	case ReadWrite:
		prot = windows.PAGE_READWRITE
		access = windows.FILE_MAP_WRITE
	case CopyOnWrite:
		prot = windows.PAGE_WRITECOPY
		access = windows.FILE_MAP_COPY
	}

	maxSizeHigh := uint32(uint64(size) >> 32)
	maxSizeLow := uint32(uint64(size))
	mapping, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, prot, maxSizeHigh, maxSizeLow, nil)
	if err != nil {
		return nil, os.NewSyscallError("CreateFileMapping", err)
	}

	addr, err := windows.MapViewOfFile(mapping, access, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(mapping)
		return nil, os.NewSyscallError("MapViewOfFile", err)
	}

	return &region{
		f:       f,
		data:    unsafe.Slice((*byte)(unsafe.Pointer(addr)), size),
		mapping: mapping,
		addr:    addr,
	}, nil
}

// sync persists [start, end) of the mapping. FlushViewOfFile writes the
// dirty pages, FlushFileBuffers makes them durable on the device.
func (r *region) sync(start, end int64) error {
	if end <= start {
		return nil
	}
	if err := windows.FlushViewOfFile(r.addr+uintptr(start), uintptr(end-start)); err != nil {
		return os.NewSyscallError("FlushViewOfFile", err)
	}
	if err := windows.FlushFileBuffers(windows.Handle(r.f.Fd())); err != nil {
		return os.NewSyscallError("FlushFileBuffers", err)
	}
	return nil
}

func (r *region) unmap() error {
	err := windows.UnmapViewOfFile(r.addr)
	if cerr := windows.CloseHandle(r.mapping); err == nil {
		err = cerr
	}
	r.data = nil
	r.addr = 0
	r.mapping = 0
	if err != nil {
		return os.NewSyscallError("UnmapViewOfFile", err)
	}
	return nil
}
