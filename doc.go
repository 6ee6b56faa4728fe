// Package mmap is a policy-driven facade over operating-system file
// mappings. A Mapping exposes a file as a byte region with explicit
// control over durability (full and page-ranged flushing, plus implicit
// flush policies including a background time-based flusher), page
// residency (eager and on-demand touching), resizing, access mode
// (read-only, read-write, copy-on-write), and OS paging advice.
//
// Construct a Mapping through one of the shortcut constructors:
//
//	m, err := mmap.CreateRW("data.bin", 1<<20)
//	m, err := mmap.OpenRO("data.bin")
//
// or through the builder when more than the defaults is needed:
//
//	m, err := mmap.NewBuilder("data.bin").
//		Size(1 << 20).
//		FlushPolicy(mmap.FlushEveryBytes(64 << 10)).
//		TouchHint(mmap.TouchEager).
//		Create()
//
// A Mapping is safe for use from multiple goroutines. Writes to disjoint
// ranges proceed concurrently; Resize and Close are exclusive. Durability
// is only guaranteed after a successful Flush or FlushRange — no final
// flush happens on Close.
//
// The advise, cow, hugepages and iterator build tags enable the optional
// capabilities of the same names. Without the tag the corresponding
// methods keep their signatures and either no-op or report
// KindCapabilityDisabled.
package mmap
