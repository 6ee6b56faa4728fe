package mmap

import (
	"bytes"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jacobsa/timeutil"

	"github.com/arcflow/mmap/diag"
)

func TestFlusherZeroIntervalRefused(t *testing.T) {
	f := newTimeFlusher(0, timeutil.RealClock(), func() bool { return true }, diag.Discard())
	if f != nil {
		t.Error("zero interval produced a flusher")
	}
}

func TestFlusherDueRespectsLastFlush(t *testing.T) {
	var clock timeutil.SimulatedClock
	clock.SetTime(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	// Interval long enough that the ticker never fires during the
	// test; only due/markFlushed arithmetic is exercised.
	f := newTimeFlusher(time.Hour, &clock, func() bool { return true }, diag.Discard())
	if f == nil {
		t.Fatal("flusher not created")
	}
	defer f.halt()

	if f.due() {
		t.Error("due immediately after construction")
	}
	clock.AdvanceTime(time.Hour)
	if !f.due() {
		t.Error("not due after a full interval")
	}
	f.markFlushed()
	if f.due() {
		t.Error("due immediately after markFlushed")
	}
}

func TestFlusherInvokesCallback(t *testing.T) {
	var calls atomic.Int32
	f := newTimeFlusher(10*time.Millisecond, timeutil.RealClock(), func() bool {
		calls.Add(1)
		return true
	}, diag.Discard())
	if f == nil {
		t.Fatal("flusher not created")
	}
	time.Sleep(100 * time.Millisecond)
	f.halt()

	if calls.Load() == 0 {
		t.Error("callback never invoked")
	}
}

func TestFlusherRetriesAfterFailure(t *testing.T) {
	var calls atomic.Int32
	f := newTimeFlusher(10*time.Millisecond, timeutil.RealClock(), func() bool {
		return calls.Add(1) > 1
	}, diag.Discard())
	if f == nil {
		t.Fatal("flusher not created")
	}
	time.Sleep(150 * time.Millisecond)
	f.halt()

	// The first callback reported failure, so the timestamp stayed put
	// and the worker retried on a later tick.
	if calls.Load() < 2 {
		t.Errorf("callback called %d times, want at least 2", calls.Load())
	}
}

func TestFlusherStopsAfterHalt(t *testing.T) {
	var calls atomic.Int32
	f := newTimeFlusher(10*time.Millisecond, timeutil.RealClock(), func() bool {
		calls.Add(1)
		return true
	}, diag.Discard())
	f.halt()
	f.halt() // idempotent

	time.Sleep(50 * time.Millisecond)
	before := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if after := calls.Load(); after != before {
		t.Errorf("callback still firing after halt: %d -> %d", before, after)
	}
}

func TestEveryMillisBackgroundFlush(t *testing.T) {
	path := tmpPath(t, "timeflush.bin")
	m, err := NewBuilder(path).
		Size(4096).
		FlushPolicy(FlushEveryMillis(50)).
		Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer m.Close()

	if m.flusher == nil {
		t.Fatal("no background flusher for time policy")
	}

	payload := []byte("time-based test")
	if err := m.UpdateRegion(0, payload); err != nil {
		t.Fatalf("UpdateRegion: %v", err)
	}

	time.Sleep(300 * time.Millisecond)

	ro, err := OpenRO(path)
	if err != nil {
		t.Fatalf("OpenRO: %v", err)
	}
	defer ro.Close()
	buf := make([]byte, len(payload))
	if err := ro.ReadInto(0, buf); err != nil {
		t.Fatalf("ReadInto: %v", err)
	}
	if !bytes.Equal(buf, payload) {
		t.Errorf("payload not persisted by background flusher: %q", buf)
	}
}

func TestEveryMillisZeroDisablesFlusher(t *testing.T) {
	path := tmpPath(t, "timezero.bin")
	m, err := NewBuilder(path).Size(4096).FlushPolicy(FlushEveryMillis(0)).Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer m.Close()
	if m.flusher != nil {
		t.Error("flusher started for zero interval")
	}
}
