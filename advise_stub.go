//go:build !advise

package mmap

// Built without the advise tag: the hint is validated and dropped.
//
// LOCKS_REQUIRED(m.mu held shared or exclusive)
func (m *Mapping) osAdvise(start, end int64, advice Advice) {}
