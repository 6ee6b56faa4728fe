package diag

import (
	"strconv"
	"strings"
	"time"
)

// Level is the severity of a diagnostic event.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// label is the fixed-width badge the terminal writer prints.
func (l Level) label() string {
	switch l {
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	default:
		return "???"
	}
}

// maxEventFields bounds an event's field count. The core's events carry
// at most a path, a couple of lengths and an interval or error; fields
// past the bound are dropped rather than allocated for.
const maxEventFields = 6

// Event is one diagnostic record. It is a plain value: emitting an
// event costs a timestamp and a field copy, never an encoding step.
type Event struct {
	Time  time.Time
	Level Level
	Msg   string

	// Fields[:N] are the event's fields.
	N      int
	Fields [maxEventFields]Field
}

type fieldKind uint8

const (
	kindString fieldKind = iota
	kindInt64
	kindBool
	kindDuration
)

// Field is a typed key/value pair. The kinds cover the core's actual
// vocabulary — strings, byte counts/offsets, flags, intervals — and
// nothing more.
type Field struct {
	Key  string
	kind fieldKind
	str  string
	num  int64
	dur  time.Duration
}

// String creates a string field.
func String(key, val string) Field {
	return Field{Key: key, kind: kindString, str: val}
}

// Int64 creates an integer field, used for lengths and offsets.
func Int64(key string, val int64) Field {
	return Field{Key: key, kind: kindInt64, num: val}
}

// Bool creates a boolean field.
func Bool(key string, val bool) Field {
	f := Field{Key: key, kind: kindBool}
	if val {
		f.num = 1
	}
	return f
}

// Duration creates an interval field, rendered in Go duration notation.
func Duration(key string, val time.Duration) Field {
	return Field{Key: key, kind: kindDuration, dur: val}
}

// Path creates the conventional field for the mapping's backing path.
func Path(val string) Field {
	return String("path", val)
}

// Offset creates a named byte-offset field.
func Offset(key string, val int64) Field {
	return Int64(key, val)
}

// Err creates the conventional field carrying a swallowed error's text.
func Err(err error) Field {
	return String("error", err.Error())
}

// appendValue renders the field's value, quoting strings that would
// break a key=value line.
func (f Field) appendValue(b []byte) []byte {
	switch f.kind {
	case kindInt64:
		return strconv.AppendInt(b, f.num, 10)
	case kindBool:
		return strconv.AppendBool(b, f.num != 0)
	case kindDuration:
		return append(b, f.dur.String()...)
	default:
		return appendText(b, f.str)
	}
}

func appendText(b []byte, s string) []byte {
	if s == "" || strings.ContainsAny(s, " =\"\n\r\t") {
		return strconv.AppendQuote(b, s)
	}
	return append(b, s...)
}
