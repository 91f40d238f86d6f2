package resource

import (
	"time"

	"github.com/kestrel-engine/kestrel/internal/core/observability/log"
	"github.com/kestrel-engine/kestrel/pkg/xsync"
)

// DefaultLockTimeout bounds index and queue lock acquisitions. A caller
// that cannot get the lock in this window gets a failure report instead of
// stalling the frame loop.
const DefaultLockTimeout = 100 * time.Millisecond

// Index holds the current snapshot of discovered resource descriptors.
// Readers always observe a complete snapshot: a scan replaces the whole
// map inside one write-lock hold, never mutates it in place.
type Index struct {
	mu          *xsync.TimedRWMutex
	entries     map[string]Descriptor
	lockTimeout time.Duration
	log         log.Log
}

func NewIndex(logger log.Log) *Index {
	if logger == nil {
		logger = log.Nop()
	}
	return &Index{
		mu:          xsync.NewTimedRWMutex(),
		entries:     make(map[string]Descriptor),
		lockTimeout: DefaultLockTimeout,
		log:         logger,
	}
}

// Lookup returns the descriptor for key. On lock timeout it logs and
// reports not-found rather than blocking the caller.
func (i *Index) Lookup(key string) (Descriptor, bool) {
	if !i.mu.TryRLock(i.lockTimeout) {
		i.log.Error("resource index read lock timed out",
			log.String("key", key),
			log.Duration("timeout", i.lockTimeout))
		return Descriptor{}, false
	}
	defer i.mu.RUnlock()
	d, ok := i.entries[key]
	return d, ok
}

// LookupHandle resolves a handle back to its descriptor.
func (i *Index) LookupHandle(h Handle) (Descriptor, bool) {
	if !i.mu.TryRLock(i.lockTimeout) {
		i.log.Error("resource index read lock timed out",
			log.Uint64("handle", uint64(h)),
			log.Duration("timeout", i.lockTimeout))
		return Descriptor{}, false
	}
	defer i.mu.RUnlock()
	for _, d := range i.entries {
		if d.Handle() == h {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Replace swaps in a freshly built descriptor map: clear plus bulk insert
// under a single write-lock hold, so readers see either the old or the new
// snapshot, never a mix. Returns ErrIndexLockTimeout when the write lock
// cannot be acquired in time; the old snapshot then stays authoritative.
func (i *Index) Replace(entries map[string]Descriptor) error {
	if !i.mu.TryLock(i.lockTimeout) {
		return ErrIndexLockTimeout
	}
	defer i.mu.Unlock()
	clear(i.entries)
	for k, d := range entries {
		i.entries[k] = d
	}
	return nil
}

// Len reports the number of descriptors in the current snapshot. A lock
// timeout reports zero.
func (i *Index) Len() int {
	if !i.mu.TryRLock(i.lockTimeout) {
		i.log.Error("resource index read lock timed out", log.Duration("timeout", i.lockTimeout))
		return 0
	}
	defer i.mu.RUnlock()
	return len(i.entries)
}

// Keys returns the keys of the current snapshot, unordered.
func (i *Index) Keys() []string {
	if !i.mu.TryRLock(i.lockTimeout) {
		i.log.Error("resource index read lock timed out", log.Duration("timeout", i.lockTimeout))
		return nil
	}
	defer i.mu.RUnlock()
	keys := make([]string, 0, len(i.entries))
	for k := range i.entries {
		keys = append(keys, k)
	}
	return keys
}
