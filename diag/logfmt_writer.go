package diag

import (
	"io"
	"sync"
	"time"
)

// LogfmtWriter renders events as logfmt lines (key=value pairs), the
// default sink when output isn't a terminal.
type LogfmtWriter struct {
	mu  sync.Mutex
	buf []byte
	out io.Writer
}

// NewLogfmtWriter creates a logfmt sink writing to out.
func NewLogfmtWriter(out io.Writer) *LogfmtWriter {
	return &LogfmtWriter{out: out}
}

// Writer returns a diag.Writer backed by this logfmt writer.
func (w *LogfmtWriter) Writer() Writer {
	return w.Write
}

// Write renders one event as a single logfmt line.
func (w *LogfmtWriter) Write(e Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b := w.buf[:0]
	b = append(b, "time="...)
	b = e.Time.AppendFormat(b, time.RFC3339)
	b = append(b, " level="...)
	b = append(b, e.Level.String()...)
	b = append(b, " msg="...)
	b = appendText(b, e.Msg)
	for i := 0; i < e.N; i++ {
		f := &e.Fields[i]
		b = append(b, ' ')
		b = append(b, f.Key...)
		b = append(b, '=')
		b = f.appendValue(b)
	}
	b = append(b, '\n')
	w.buf = b

	_, err := w.out.Write(b)
	return err
}
