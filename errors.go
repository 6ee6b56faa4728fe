package mmap

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-stack/stack"
)

// Kind classifies an Error.
type Kind uint8

const (
	// KindIO is a failed file or mapping syscall; the OS error is wrapped.
	KindIO Kind = iota

	// KindInvalidRange is an offset/length outside the current mapping.
	KindInvalidRange

	// KindInvalidSize is a zero or impossible creation/resize size.
	KindInvalidSize

	// KindReadOnly is a mutating operation on a read-only mapping.
	KindReadOnly

	// KindInvalidMode is an operation the current mode does not permit.
	KindInvalidMode

	// KindInvalidConfig is a contradictory or incomplete builder setup.
	KindInvalidConfig

	// KindCapabilityDisabled is a feature not compiled into this build.
	KindCapabilityDisabled
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io error"
	case KindInvalidRange:
		return "invalid range"
	case KindInvalidSize:
		return "invalid size"
	case KindReadOnly:
		return "read-only mapping"
	case KindInvalidMode:
		return "invalid mode"
	case KindInvalidConfig:
		return "invalid config"
	case KindCapabilityDisabled:
		return "capability disabled"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by every fallible operation.
// It records the operation name, the backing path, a Kind, and the
// wrapped OS error when one exists. The call site that created the error
// is captured so diagnostics can attribute a failure without a debugger;
// it is rendered by %+v only.
type Error struct {
	Op   string
	Path string
	Kind Kind
	Err  error

	at stack.Call
}

func opError(op, path string, kind Kind, err error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Err: err, at: stack.Caller(1)}
}

func (e *Error) Error() string {
	s := "mmap: " + e.Op
	if e.Path != "" {
		s += " " + e.Path
	}
	s += ": " + e.Kind.String()
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes the underlying OS error to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Format renders the captured call site under %+v.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s (at %+v)", e.Error(), e.at)
		return
	}
	io.WriteString(s, e.Error())
}

// KindOf extracts the Kind from err. Errors that did not originate in
// this package report KindIO.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIO
}
