package diag

import (
	"io"
	"os"
	"sync"

	colorable "github.com/mattn/go-colorable"
	isatty "github.com/mattn/go-isatty"
)

const termTimeFormat = "01-02|15:04:05.000"

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
)

func levelColor(l Level) string {
	switch l {
	case LevelDebug:
		return colorCyan
	case LevelInfo:
		return colorGreen
	case LevelWarn:
		return colorYellow
	default:
		return colorRed
	}
}

// TerminalWriter renders events as human-readable, optionally colorized
// lines. Color detection and Windows ANSI translation are delegated to
// go-isatty/go-colorable rather than hand-rolled per platform.
type TerminalWriter struct {
	mu       sync.Mutex
	buf      []byte
	out      io.Writer
	useColor bool
}

// NewTerminalWriter wraps f (expected to be os.Stdout or os.Stderr).
// When f is a TTY, output is colorized and, on Windows, routed through
// colorable so ANSI escapes render in consoles that don't natively
// interpret them.
func NewTerminalWriter(f *os.File) *TerminalWriter {
	useColor := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	var out io.Writer = f
	if useColor {
		out = colorable.NewColorable(f)
	}
	return &TerminalWriter{out: out, useColor: useColor}
}

// Writer returns a diag.Writer backed by this terminal writer.
func (w *TerminalWriter) Writer() Writer {
	return w.Write
}

// Write renders one event as a "BADGE time message key=value ..." line.
func (w *TerminalWriter) Write(e Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b := w.buf[:0]
	if w.useColor {
		b = append(b, levelColor(e.Level)...)
		b = append(b, e.Level.label()...)
		b = append(b, colorReset...)
	} else {
		b = append(b, e.Level.label()...)
	}
	b = append(b, ' ')
	b = e.Time.AppendFormat(b, termTimeFormat)
	b = append(b, ' ')
	b = append(b, e.Msg...)

	for i := 0; i < e.N; i++ {
		f := &e.Fields[i]
		b = append(b, ' ')
		if w.useColor {
			b = append(b, levelColor(e.Level)...)
			b = append(b, f.Key...)
			b = append(b, colorReset...)
		} else {
			b = append(b, f.Key...)
		}
		b = append(b, '=')
		b = f.appendValue(b)
	}
	b = append(b, '\n')
	w.buf = b

	_, err := w.out.Write(b)
	return err
}

// StdoutTerminal creates a Writer for stdout.
func StdoutTerminal() Writer {
	return NewTerminalWriter(os.Stdout).Writer()
}

// StderrTerminal creates a Writer for stderr.
func StderrTerminal() Writer {
	return NewTerminalWriter(os.Stderr).Writer()
}
