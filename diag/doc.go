// Package diag is the diagnostics sink for the mmap core.
//
// The core emits a small, closed set of leveled events — construction,
// resize, background flush outcomes, advice and huge-page fallbacks —
// each carrying at most a handful of typed fields (path, lengths,
// intervals, error text). Package diag models exactly that: an Event is
// a plain value with a bounded field array, handed to whichever Writer
// is attached (a colorized terminal writer when output is a TTY, a
// logfmt writer otherwise, or an AsyncWriter that decouples rendering
// from the emitting goroutine).
//
// Diagnostics are strictly best-effort: the AsyncWriter drops events
// rather than block the mapping's hot path, and nothing in this package
// may influence the success or failure of a mapping operation.
package diag
