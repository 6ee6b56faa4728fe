//go:build cow

package mmap

import (
	"bytes"
	"testing"
)

func TestCopyOnWriteStaysPrivate(t *testing.T) {
	path := tmpPath(t, "cow.bin")
	m := mustCreateRW(t, path, 4096)
	if err := m.UpdateRegion(0, []byte("original")); err != nil {
		t.Fatalf("UpdateRegion: %v", err)
	}
	if err := m.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	m.Close()

	cow, err := OpenCOW(path)
	if err != nil {
		t.Fatalf("OpenCOW: %v", err)
	}
	defer cow.Close()

	// Writes are visible through this mapping.
	if err := cow.UpdateRegion(0, []byte("private!")); err != nil {
		t.Fatalf("UpdateRegion on cow: %v", err)
	}
	buf := make([]byte, 8)
	if err := cow.ReadInto(0, buf); err != nil {
		t.Fatalf("ReadInto: %v", err)
	}
	if !bytes.Equal(buf, []byte("private!")) {
		t.Errorf("cow mapping does not see its own write: %q", buf)
	}

	// Flush succeeds but persists nothing.
	if err := cow.Flush(); err != nil {
		t.Fatalf("Flush on cow: %v", err)
	}
	if err := cow.FlushRange(0, 8); err != nil {
		t.Fatalf("FlushRange on cow: %v", err)
	}

	ro, err := OpenRO(path)
	if err != nil {
		t.Fatalf("OpenRO: %v", err)
	}
	defer ro.Close()
	if err := ro.ReadInto(0, buf); err != nil {
		t.Fatalf("ReadInto: %v", err)
	}
	if !bytes.Equal(buf, []byte("original")) {
		t.Errorf("cow write leaked to backing file: %q", buf)
	}
}

func TestCopyOnWriteRejectsResize(t *testing.T) {
	path := tmpPath(t, "cow-resize.bin")
	mustCreateRW(t, path, 4096).Close()

	cow, err := OpenCOW(path)
	if err != nil {
		t.Fatalf("OpenCOW: %v", err)
	}
	defer cow.Close()

	if err := cow.Resize(8192); KindOf(err) != KindInvalidMode {
		t.Errorf("Resize on cow: %v, want invalid mode", err)
	}
}
