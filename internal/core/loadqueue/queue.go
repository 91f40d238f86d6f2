package loadqueue

import (
	"time"

	"github.com/kestrel-engine/kestrel/internal/core/observability/log"
	"github.com/kestrel-engine/kestrel/internal/core/resource"
	"github.com/kestrel-engine/kestrel/pkg/xsync"
)

// DefaultLockTimeout bounds every queue lock acquisition. An operation that
// cannot get the lock in this window reports failure instead of hanging
// whichever loop called it.
const DefaultLockTimeout = 100 * time.Millisecond

// Queue is a thread-safe ordered collection of pending load requests,
// sorted ascending by priority with stable insertion order among equal
// priorities. It caches the current minimum and maximum priorities so that
// appends at either extreme stay O(1); a middle insert falls back to a
// linear scan, a deliberate simplicity trade for the small queue depths the
// engine sees in practice.
//
// At most one request per resource handle is ever held: enqueueing a handle
// that is already queued succeeds without modifying the queue.
type Queue struct {
	mu          *xsync.TimedRWMutex
	items       []*Request
	minPriority int32
	maxPriority int32
	lockTimeout time.Duration
	log         log.Log
}

func New(logger log.Log) *Queue {
	if logger == nil {
		logger = log.Nop()
	}
	return &Queue{
		mu:          xsync.NewTimedRWMutex(),
		lockTimeout: DefaultLockTimeout,
		log:         logger,
	}
}

// Contains reports whether a request for handle is queued. A lock timeout
// reports false.
func (q *Queue) Contains(handle resource.Handle) bool {
	if !q.mu.TryRLock(q.lockTimeout) {
		q.logLockTimeout("contains")
		return false
	}
	defer q.mu.RUnlock()
	return q.indexOfLocked(handle) >= 0
}

// Enqueue inserts a request at its priority position. Returns false only
// when the lock could not be acquired or the request is nil; a handle that
// is already queued is reported as success without modification.
func (q *Queue) Enqueue(req *Request) bool {
	if req == nil {
		return false
	}
	if !q.mu.TryLock(q.lockTimeout) {
		q.logLockTimeout("enqueue")
		return false
	}
	defer q.mu.Unlock()

	if q.indexOfLocked(req.Handle) >= 0 {
		return true
	}

	switch {
	case len(q.items) == 0:
		q.items = append(q.items, req)
		q.minPriority = req.Priority
		q.maxPriority = req.Priority
	case req.Priority >= q.maxPriority:
		q.items = append(q.items, req)
		q.maxPriority = req.Priority
	case req.Priority < q.minPriority:
		q.items = append([]*Request{req}, q.items...)
		q.minPriority = req.Priority
	default:
		// Stable among equals: insert before the first strictly greater
		// priority, so earlier requests at the same priority keep their
		// place.
		at := len(q.items)
		for i, it := range q.items {
			if it.Priority > req.Priority {
				at = i
				break
			}
		}
		q.items = append(q.items, nil)
		copy(q.items[at+1:], q.items[at:])
		q.items[at] = req
	}
	return true
}

// Dequeue removes and returns the most urgent request, or nil when the
// queue is empty or the lock timed out.
func (q *Queue) Dequeue() *Request {
	if !q.mu.TryLock(q.lockTimeout) {
		q.logLockTimeout("dequeue")
		return nil
	}
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	req := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	if len(q.items) > 0 {
		q.minPriority = q.items[0].Priority
	} else {
		q.minPriority = 0
		q.maxPriority = 0
	}
	return req
}

// Remove discards the request for handle, if queued. Its completion future
// is cancelled so no reader is left polling forever.
func (q *Queue) Remove(handle resource.Handle) bool {
	if !q.mu.TryLock(q.lockTimeout) {
		q.logLockTimeout("remove")
		return false
	}
	defer q.mu.Unlock()

	at := q.indexOfLocked(handle)
	if at < 0 {
		return false
	}
	req := q.items[at]
	q.items = append(q.items[:at], q.items[at+1:]...)
	if len(q.items) > 0 {
		q.minPriority = q.items[0].Priority
		q.maxPriority = q.items[len(q.items)-1].Priority
	} else {
		q.minPriority = 0
		q.maxPriority = 0
	}
	req.Completion.Cancel()
	return true
}

// PeekByHandle returns the queued request for handle without removing it.
func (q *Queue) PeekByHandle(handle resource.Handle) *Request {
	if !q.mu.TryRLock(q.lockTimeout) {
		q.logLockTimeout("peek")
		return nil
	}
	defer q.mu.RUnlock()

	if at := q.indexOfLocked(handle); at >= 0 {
		return q.items[at]
	}
	return nil
}

// Len reports the number of queued requests. A lock timeout reports zero.
func (q *Queue) Len() int {
	if !q.mu.TryRLock(q.lockTimeout) {
		q.logLockTimeout("len")
		return 0
	}
	defer q.mu.RUnlock()
	return len(q.items)
}

func (q *Queue) indexOfLocked(handle resource.Handle) int {
	for i, it := range q.items {
		if it.Handle == handle {
			return i
		}
	}
	return -1
}

func (q *Queue) logLockTimeout(op string) {
	q.log.Error("load queue lock acquisition timed out",
		log.String("op", op),
		log.Duration("timeout", q.lockTimeout))
}
