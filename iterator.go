//go:build iterator

package mmap

// Chunks yields successive copies of the mapping's contents in order,
// chunkSize bytes at a time; the last chunk may be shorter. The channel
// is closed after the final chunk. Chunks are copied, not aliased, so
// the caller may keep them past a later Resize or Close.
//
// Each chunk is read under the same shared lock as any other read, so a
// concurrent shrinking resize can interleave between chunks; iteration
// then ends early at the new length without error. The caller must
// drain the channel to release the producing goroutine.
func (m *Mapping) Chunks(chunkSize int64) (<-chan []byte, error) {
	if chunkSize <= 0 {
		return nil, opError("chunks", m.path, KindInvalidRange, nil)
	}

	ch := make(chan []byte)
	go func() {
		defer close(ch)
		for off := int64(0); ; off += chunkSize {
			m.mu.RLock()
			if m.closed || off >= m.length {
				m.mu.RUnlock()
				return
			}
			n := chunkSize
			if rest := m.length - off; rest < n {
				n = rest
			}
			buf := make([]byte, n)
			copy(buf, m.region.data[off:off+n])
			m.mu.RUnlock()
			ch <- buf
		}
	}()
	return ch, nil
}
