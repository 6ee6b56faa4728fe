package diag

import (
	"os"
	"sync/atomic"

	isatty "github.com/mattn/go-isatty"
)

var defaultLogger atomic.Pointer[Logger]

func init() {
	logger := New()
	logger.SetWriter(NewAsyncWriter(defaultSinkWriter(), 256).Writer())
	defaultLogger.Store(logger)
}

// defaultSinkWriter picks a colorized terminal writer when stderr is a
// TTY and a logfmt writer otherwise.
func defaultSinkWriter() Writer {
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return NewTerminalWriter(os.Stderr).Writer()
	}
	return NewLogfmtWriter(os.Stderr).Writer()
}

// Default returns the package-level diagnostics logger used whenever a
// caller does not supply its own via a builder option.
func Default() *Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the package-level diagnostics logger.
func SetDefault(logger *Logger) {
	defaultLogger.Store(logger)
}

// Discard returns a logger whose events are dropped, useful for tests
// and for callers who want the mapping's operations but none of its
// chatter.
func Discard() *Logger {
	return New()
}
