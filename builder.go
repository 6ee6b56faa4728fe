package mmap

import (
	"os"

	fallocate "github.com/detailyang/go-fallocate"
	"github.com/jacobsa/syncutil"
	"github.com/jacobsa/timeutil"

	"github.com/arcflow/mmap/diag"
)

// Builder collects mapping configuration and decides between "create
// with size" and "open existing" when Create is called.
type Builder struct {
	path      string
	mode      Mode
	size      int64
	sizeSet   bool
	policy    FlushPolicy
	touch     TouchHint
	hugePages bool
	advice    Advice
	adviceSet bool
	clock     timeutil.Clock
	log       *diag.Logger
}

// NewBuilder returns a builder for path with the defaults: ReadWrite
// mode, FlushNever, TouchNever, no huge pages, no advice.
func NewBuilder(path string) *Builder {
	return &Builder{
		path:   path,
		mode:   ReadWrite,
		policy: FlushNever(),
		clock:  timeutil.RealClock(),
		log:    diag.Default(),
	}
}

// Mode sets the access mode. Default ReadWrite.
func (b *Builder) Mode(mode Mode) *Builder {
	b.mode = mode
	return b
}

// Size sets the file length for creation. Required when creating a new
// file in ReadWrite mode; invalid in the opening modes.
func (b *Builder) Size(size int64) *Builder {
	b.size = size
	b.sizeSet = true
	return b
}

// FlushPolicy sets when implicit flushes fire. Only meaningful in
// ReadWrite mode; accepted but inert otherwise. Default FlushNever.
func (b *Builder) FlushPolicy(p FlushPolicy) *Builder {
	b.policy = p
	return b
}

// TouchHint selects eager page population at the end of construction.
// Default TouchNever.
func (b *Builder) TouchHint(h TouchHint) *Builder {
	b.touch = h
	return b
}

// HugePages requests a huge-page mapping. Purely an optimization
// request: when the hugepages build tag is absent, or the platform or
// kernel refuses, construction silently falls back to normal pages and
// never fails on that account.
func (b *Builder) HugePages(enabled bool) *Builder {
	b.hugePages = enabled
	return b
}

// Advice applies the given OS advice to the whole mapping right after
// construction, before the touch hint runs. Inert without the advise
// build tag.
func (b *Builder) Advice(a Advice) *Builder {
	b.advice = a
	b.adviceSet = true
	return b
}

// Logger overrides the package-default diagnostics logger.
func (b *Builder) Logger(log *diag.Logger) *Builder {
	if log != nil {
		b.log = log
	}
	return b
}

// Create validates the configuration, opens or creates the backing
// file, maps it, then applies advice, the touch hint, and finally
// starts the time-based flusher when the policy calls for one. Partial
// failures tear down everything acquired so far.
func (b *Builder) Create() (*Mapping, error) {
	if b.path == "" {
		return nil, opError("create", b.path, KindInvalidConfig, nil)
	}

	var (
		f      *os.File
		length int64
		err    error
	)
	switch b.mode {
	case ReadOnly, CopyOnWrite:
		if b.sizeSet {
			return nil, opError("create", b.path, KindInvalidConfig, nil)
		}
		if b.mode == CopyOnWrite && !cowEnabled {
			return nil, opError("create", b.path, KindCapabilityDisabled, nil)
		}
		f, err = os.Open(b.path)
		if err != nil {
			return nil, opError("create", b.path, KindIO, err)
		}
		fi, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, opError("create", b.path, KindIO, err)
		}
		length = fi.Size()

	case ReadWrite:
		if b.sizeSet {
			if b.size <= 0 {
				return nil, opError("create", b.path, KindInvalidSize, nil)
			}
			f, err = os.OpenFile(b.path, os.O_RDWR|os.O_CREATE, 0644)
			if err != nil {
				return nil, opError("create", b.path, KindIO, err)
			}
			if err := f.Truncate(b.size); err != nil {
				f.Close()
				return nil, opError("create", b.path, KindIO, err)
			}
			// Best effort: back the mapping with real blocks so a
			// full disk surfaces here rather than as a fault while
			// writing through the mapping.
			if err := fallocate.Fallocate(f, 0, b.size); err != nil {
				b.log.Debug("preallocation unavailable",
					diag.Path(b.path), diag.Err(err))
			}
			length = b.size
		} else {
			f, err = os.OpenFile(b.path, os.O_RDWR, 0)
			if err != nil {
				if os.IsNotExist(err) {
					return nil, opError("create", b.path, KindInvalidConfig, err)
				}
				return nil, opError("create", b.path, KindIO, err)
			}
			fi, err := f.Stat()
			if err != nil {
				f.Close()
				return nil, opError("create", b.path, KindIO, err)
			}
			length = fi.Size()
		}

	default:
		return nil, opError("create", b.path, KindInvalidConfig, nil)
	}

	m := &Mapping{
		path:     b.path,
		mode:     b.mode,
		pageSize: int64(os.Getpagesize()),
		policy:   b.policy,
		log:      b.log,
		file:     f,
		length:   length,
	}

	if length > 0 {
		var tier int
		m.region, tier, err = mapRegionTiered(f, length, b.mode, b.hugePages)
		if err != nil {
			f.Close()
			return nil, opError("create", b.path, KindIO, err)
		}
		if b.hugePages {
			logHugePageTier(b.log, b.path, tier)
		}
	}
	m.mu = syncutil.NewInvariantMutex(m.checkInvariants)

	if b.adviceSet && length > 0 {
		// Advisory by contract: any platform refusal is swallowed
		// inside Advise.
		if err := m.Advise(0, length, b.advice); err != nil {
			m.Close()
			return nil, err
		}
	}
	if b.touch == TouchEager {
		if err := m.TouchPages(); err != nil {
			m.Close()
			return nil, err
		}
	}

	if b.mode == ReadWrite {
		if interval := b.policy.interval(); interval > 0 {
			m.flusher = newTimeFlusher(interval, b.clock, func() bool {
				return m.Flush() == nil
			}, b.log)
		}
	}

	b.log.Info("mapping created",
		diag.Path(b.path),
		diag.String("mode", b.mode.String()),
		diag.Int64("length", length),
		diag.String("flush_policy", b.policy.String()))
	return m, nil
}
