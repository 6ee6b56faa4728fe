package mmap

import (
	"fmt"
	"time"
)

type policyKind uint8

const (
	policyNever policyKind = iota
	policyManual
	policyAlways
	policyEveryBytes
	policyEveryWrites
	policyEveryMillis
)

// FlushPolicy describes when a read-write mapping flushes implicitly.
// The zero value is FlushNever. Manual and Never are distinct
// constructors with identical behavior: both mean "no implicit flush";
// Manual reads better at call sites that flush explicitly.
type FlushPolicy struct {
	kind policyKind
	arg  uint64
}

// FlushNever disables implicit flushing. The default.
func FlushNever() FlushPolicy { return FlushPolicy{kind: policyNever} }

// FlushManual is an alias of FlushNever for call-site readability.
func FlushManual() FlushPolicy { return FlushPolicy{kind: policyManual} }

// FlushAlways flushes after every successful write.
func FlushAlways() FlushPolicy { return FlushPolicy{kind: policyAlways} }

// FlushEveryBytes flushes once at least n bytes accumulated since the
// last flush.
func FlushEveryBytes(n uint64) FlushPolicy {
	return FlushPolicy{kind: policyEveryBytes, arg: n}
}

// FlushEveryWrites flushes once at least w writes accumulated since the
// last flush.
func FlushEveryWrites(w uint64) FlushPolicy {
	return FlushPolicy{kind: policyEveryWrites, arg: w}
}

// FlushEveryMillis flushes from a background worker roughly every ms
// milliseconds. An interval of zero disables the worker entirely.
func FlushEveryMillis(ms uint64) FlushPolicy {
	return FlushPolicy{kind: policyEveryMillis, arg: ms}
}

// triggers reports whether the accumulated counters satisfy the policy.
// Time-based policies never trigger inline; the background worker owns
// them.
func (p FlushPolicy) triggers(bytesSince, writesSince uint64) bool {
	switch p.kind {
	case policyAlways:
		return true
	case policyEveryBytes:
		return bytesSince >= p.arg
	case policyEveryWrites:
		return writesSince >= p.arg
	default:
		return false
	}
}

// interval returns the background flush cadence, zero for non-time
// policies.
func (p FlushPolicy) interval() time.Duration {
	if p.kind != policyEveryMillis {
		return 0
	}
	return time.Duration(p.arg) * time.Millisecond
}

func (p FlushPolicy) String() string {
	switch p.kind {
	case policyNever:
		return "never"
	case policyManual:
		return "manual"
	case policyAlways:
		return "always"
	case policyEveryBytes:
		return fmt.Sprintf("every %d bytes", p.arg)
	case policyEveryWrites:
		return fmt.Sprintf("every %d writes", p.arg)
	case policyEveryMillis:
		return fmt.Sprintf("every %d ms", p.arg)
	default:
		return "unknown"
	}
}
