package mmap

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jacobsa/timeutil"

	"github.com/arcflow/mmap/diag"
)

// timeFlusher drives FlushEveryMillis: a dedicated goroutine that wakes
// every interval and invokes the flush callback when at least one
// interval has elapsed since the last recorded flush. Manual flushes on
// the owning mapping call markFlushed so the worker does not double-sync
// right behind them.
//
// The worker holds no reference to the Mapping beyond the callback
// closure; halt() makes it exit on its next wakeup, and Close calls
// halt() before tearing the region down.
type timeFlusher struct {
	interval  time.Duration
	clock     timeutil.Clock
	lastFlush atomic.Int64 // unix nanos of the last successful flush

	stop     chan struct{}
	stopOnce sync.Once
}

// newTimeFlusher starts the background worker. A non-positive interval
// is refused and returns nil: the caller treats that as "no flusher".
// The callback reports success; failures are retried on the next tick.
func newTimeFlusher(interval time.Duration, clock timeutil.Clock, flush func() bool, log *diag.Logger) *timeFlusher {
	if interval <= 0 {
		return nil
	}
	f := &timeFlusher{
		interval: interval,
		clock:    clock,
		stop:     make(chan struct{}),
	}
	f.lastFlush.Store(clock.Now().UnixNano())
	go f.run(flush, log)
	return f
}

func (f *timeFlusher) run(flush func() bool, log *diag.Logger) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-f.stop:
			return
		case <-ticker.C:
			if !f.due() {
				continue
			}
			if flush() {
				f.markFlushed()
				log.Debug("background flush", diag.Duration("interval", f.interval))
			} else {
				// Non-fatal: the timestamp is untouched so the
				// next tick retries.
				log.Warn("background flush failed, will retry",
					diag.Duration("interval", f.interval))
			}
		}
	}
}

// due reports whether a full interval has passed since the last
// recorded flush.
func (f *timeFlusher) due() bool {
	last := time.Unix(0, f.lastFlush.Load())
	return f.clock.Now().Sub(last) >= f.interval
}

// markFlushed records a successful flush, whatever its origin.
func (f *timeFlusher) markFlushed() {
	f.lastFlush.Store(f.clock.Now().UnixNano())
}

// halt makes the worker exit on its next wakeup. It does not join; any
// in-flight callback finishes under the mapping's own locks.
func (f *timeFlusher) halt() {
	f.stopOnce.Do(func() { close(f.stop) })
}
