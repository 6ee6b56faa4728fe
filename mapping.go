package mmap

import (
	"os"
	"sync"

	"github.com/jacobsa/syncutil"

	"github.com/arcflow/mmap/diag"
)

// Mode selects how a mapping may be accessed.
type Mode uint8

const (
	// ReadWrite maps the file shared: writes land in the file's pages
	// and persist once flushed. The default.
	ReadWrite Mode = iota

	// ReadOnly rejects every mutating operation.
	ReadOnly

	// CopyOnWrite accepts writes but keeps them private to this
	// mapping; flush never persists them.
	CopyOnWrite
)

func (m Mode) String() string {
	switch m {
	case ReadWrite:
		return "read-write"
	case ReadOnly:
		return "read-only"
	case CopyOnWrite:
		return "copy-on-write"
	default:
		return "unknown"
	}
}

// TouchHint selects whether construction pre-faults the mapping.
type TouchHint uint8

const (
	// TouchNever leaves page population to first access. The default.
	TouchNever TouchHint = iota

	// TouchEager dereferences every page once at the end of
	// construction so the first user operation pays no faults.
	TouchEager
)

// Mapping is a memory-mapped file. It is safe for concurrent use:
// reads, writes, flushes and touches take a shared lock so they can run
// in parallel against a consistent length and base address, while
// Resize and Close are exclusive. Byte-level races between overlapping
// concurrent writes are last-writer-wins, inherited from the hardware —
// this layer does not serialize them.
type Mapping struct {
	path     string
	mode     Mode
	pageSize int64
	policy   FlushPolicy
	log      *diag.Logger

	// mu guards region identity, length and the closed flag. Shared
	// holders may read/write mapped bytes; the exclusive holder may
	// swap the region.
	mu     syncutil.InvariantMutex
	file   *os.File
	region *region
	length int64
	closed bool

	// counterMu serializes "bump counters, check policy, maybe flush,
	// reset counters" so a reset cannot lose a concurrent bump.
	counterMu        sync.Mutex
	bytesSinceFlush  uint64
	writesSinceFlush uint64

	flusher *timeFlusher
}

// LOCKS_REQUIRED(m.mu)
func (m *Mapping) checkInvariants() {
	if m.length < 0 {
		panic("mmap: negative length")
	}
	if m.closed {
		return
	}
	if m.length == 0 && m.region != nil {
		panic("mmap: zero-length mapping with live region")
	}
	if m.length > 0 {
		if m.region == nil {
			panic("mmap: open mapping without region")
		}
		if int64(len(m.region.data)) != m.length {
			panic("mmap: region length out of sync")
		}
	}
}

// CreateRW creates or opens path, sets its length to size and maps it
// read-write. An existing file is truncated or extended to exactly size.
func CreateRW(path string, size int64) (*Mapping, error) {
	return NewBuilder(path).Size(size).Create()
}

// OpenRO maps an existing file read-only; the mapping length equals the
// file length.
func OpenRO(path string) (*Mapping, error) {
	return NewBuilder(path).Mode(ReadOnly).Create()
}

// OpenCOW maps an existing file copy-on-write: writes are visible
// through this mapping only and are never persisted. Requires the cow
// build tag; otherwise it reports KindCapabilityDisabled.
func OpenCOW(path string) (*Mapping, error) {
	return NewBuilder(path).Mode(CopyOnWrite).Create()
}

// Len returns the current mapping length in bytes.
func (m *Mapping) Len() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.length
}

// Mode returns the access mode the mapping was created with.
func (m *Mapping) Mode() Mode { return m.mode }

// Path returns the backing file's path.
func (m *Mapping) Path() string { return m.path }

// Slice returns the mapped bytes [off, off+n) without copying. The
// returned slice aliases the mapping and is valid only until the next
// Resize or Close; callers that need to retain bytes must copy them.
func (m *Mapping) Slice(off, n int64) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, opError("slice", m.path, KindIO, os.ErrClosed)
	}
	if !validRange(off, n, m.length) {
		return nil, opError("slice", m.path, KindInvalidRange, nil)
	}
	if n == 0 {
		return nil, nil
	}
	return m.region.data[off : off+n : off+n], nil
}

// ReadInto copies len(buf) bytes starting at off into buf.
func (m *Mapping) ReadInto(off int64, buf []byte) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return opError("read_into", m.path, KindIO, os.ErrClosed)
	}
	if !validRange(off, int64(len(buf)), m.length) {
		return opError("read_into", m.path, KindInvalidRange, nil)
	}
	if len(buf) == 0 {
		return nil
	}
	copy(buf, m.region.data[off:])
	return nil
}

// UpdateRegion copies b into [off, off+len(b)), bumps the since-flush
// counters, and performs an implicit full flush when the policy's
// condition has become true. A policy-triggered flush that fails is
// reported by this call; the bytes are still written.
func (m *Mapping) UpdateRegion(off int64, b []byte) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return opError("update_region", m.path, KindIO, os.ErrClosed)
	}
	if m.mode == ReadOnly {
		return opError("update_region", m.path, KindReadOnly, nil)
	}
	if !validRange(off, int64(len(b)), m.length) {
		return opError("update_region", m.path, KindInvalidRange, nil)
	}
	if len(b) == 0 {
		return nil
	}
	copy(m.region.data[off:], b)

	m.counterMu.Lock()
	defer m.counterMu.Unlock()
	m.bytesSinceFlush += uint64(len(b))
	m.writesSinceFlush++
	if !m.policy.triggers(m.bytesSinceFlush, m.writesSinceFlush) {
		return nil
	}
	if m.mode == ReadWrite {
		if err := m.syncAll(); err != nil {
			return opError("update_region", m.path, KindIO, err)
		}
	}
	m.resetCountersLocked()
	return nil
}

// Flush synchronously persists the full mapping. On a read-only mapping
// it reports KindReadOnly without touching anything; on a copy-on-write
// mapping it succeeds without persisting, which is the mode's contract.
func (m *Mapping) Flush() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return opError("flush", m.path, KindIO, os.ErrClosed)
	}
	if m.mode == ReadOnly {
		return opError("flush", m.path, KindReadOnly, nil)
	}

	m.counterMu.Lock()
	defer m.counterMu.Unlock()
	if m.mode == ReadWrite {
		if err := m.syncAll(); err != nil {
			return opError("flush", m.path, KindIO, err)
		}
	}
	m.resetCountersLocked()
	return nil
}

// FlushRange persists the page-aligned enclosing window of
// [off, off+n). A sub-page range syncs exactly one page — the microflush
// behavior — never the whole mapping.
func (m *Mapping) FlushRange(off, n int64) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return opError("flush_range", m.path, KindIO, os.ErrClosed)
	}
	if m.mode == ReadOnly {
		return opError("flush_range", m.path, KindReadOnly, nil)
	}
	start, end, ok := enclosingWindow(off, n, m.length, m.pageSize)
	if !ok {
		return opError("flush_range", m.path, KindInvalidRange, nil)
	}

	m.counterMu.Lock()
	defer m.counterMu.Unlock()
	if m.mode == ReadWrite && end > start {
		if err := m.region.sync(start, end); err != nil {
			return opError("flush_range", m.path, KindIO, err)
		}
	}
	m.resetCountersLocked()
	return nil
}

// syncAll persists the whole region.
//
// LOCKS_REQUIRED(m.mu held shared or exclusive)
func (m *Mapping) syncAll() error {
	if m.region == nil {
		return nil
	}
	return m.region.sync(0, m.length)
}

// LOCKS_REQUIRED(m.counterMu)
func (m *Mapping) resetCountersLocked() {
	m.bytesSinceFlush = 0
	m.writesSinceFlush = 0
	if m.flusher != nil {
		m.flusher.markFlushed()
	}
}

// Resize sets the backing file length to newSize and remaps. Growing is
// always allowed in ReadWrite mode; shrinking truncates the file.
// Slices returned before the call are invalid afterward. Resize is
// exclusive: it blocks until in-flight operations drain and blocks new
// ones until the remap completes.
func (m *Mapping) Resize(newSize int64) error {
	if newSize <= 0 {
		return opError("resize", m.path, KindInvalidSize, nil)
	}
	switch m.mode {
	case ReadOnly:
		return opError("resize", m.path, KindReadOnly, nil)
	case CopyOnWrite:
		return opError("resize", m.path, KindInvalidMode, nil)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return opError("resize", m.path, KindIO, os.ErrClosed)
	}
	if newSize == m.length {
		return nil
	}
	oldLength := m.length

	if m.region != nil {
		if err := m.region.unmap(); err != nil {
			return opError("resize", m.path, KindIO, err)
		}
		m.region = nil
	}
	// From here until the new region is live the mapping has no
	// addressable bytes; a failure leaves it closed rather than
	// half-mapped.
	if err := m.file.Truncate(newSize); err != nil {
		m.closed = true
		m.length = 0
		m.file.Close()
		return opError("resize", m.path, KindIO, err)
	}
	r, err := mapRegion(m.file, newSize, m.mode)
	if err != nil {
		m.closed = true
		m.length = 0
		m.file.Close()
		return opError("resize", m.path, KindIO, err)
	}
	m.region = r
	m.length = newSize

	m.log.Info("mapping resized",
		diag.Path(m.path),
		diag.Int64("old_length", oldLength),
		diag.Int64("new_length", newSize))
	return nil
}

// Close stops the background flusher if one is running, unmaps the
// region and closes the backing file. No final flush is performed;
// callers that need durability must Flush first. Close is idempotent.
func (m *Mapping) Close() error {
	if m.flusher != nil {
		m.flusher.halt()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true

	var firstErr error
	if m.region != nil {
		if err := m.region.unmap(); err != nil {
			firstErr = err
		}
		m.region = nil
	}
	m.length = 0
	if err := m.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr != nil {
		return opError("close", m.path, KindIO, firstErr)
	}
	m.log.Debug("mapping closed", diag.Path(m.path))
	return nil
}
