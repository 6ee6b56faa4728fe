package diag

import (
	"sync"
	"sync/atomic"
)

// AsyncWriter decouples event rendering from the emitting goroutine: a
// Write enqueues the event and returns immediately, a dedicated
// goroutine drains the queue into the wrapped Writer. When the queue is
// full the event is counted and dropped — the mapping's write path must
// never block on terminal or pipe I/O for the sake of a debug line.
type AsyncWriter struct {
	events  chan Event
	writer  Writer
	dropped atomic.Uint64

	done      chan struct{}
	closeOnce sync.Once
}

// NewAsyncWriter wraps w with a queue of the given capacity and starts
// the draining goroutine.
func NewAsyncWriter(w Writer, capacity int) *AsyncWriter {
	aw := &AsyncWriter{
		events: make(chan Event, capacity),
		writer: w,
		done:   make(chan struct{}),
	}
	go aw.drain()
	return aw
}

func (aw *AsyncWriter) drain() {
	defer close(aw.done)
	for e := range aw.events {
		aw.writer(e)
	}
}

// Write enqueues e, dropping it when the queue is full. Must not be
// called after Close.
func (aw *AsyncWriter) Write(e Event) error {
	select {
	case aw.events <- e:
	default:
		aw.dropped.Add(1)
	}
	return nil
}

// Dropped reports how many events were discarded on a full queue.
func (aw *AsyncWriter) Dropped() uint64 {
	return aw.dropped.Load()
}

// Close stops accepting events and waits for the queue to drain.
func (aw *AsyncWriter) Close() error {
	aw.closeOnce.Do(func() { close(aw.events) })
	<-aw.done
	return nil
}

// Writer returns a diag.Writer backed by this async writer.
func (aw *AsyncWriter) Writer() Writer {
	return aw.Write
}
