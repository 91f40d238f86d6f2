package xsync

import (
	"sync"
)

// FutureState reports where a Future is in its lifecycle.
type FutureState uint8

const (
	FuturePending FutureState = iota
	FutureResolved
	FutureCancelled
)

func (s FutureState) String() string {
	switch s {
	case FuturePending:
		return "pending"
	case FutureResolved:
		return "resolved"
	case FutureCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Future is a single-assignment result cell. The first call to Complete or
// Cancel wins; every later resolution attempt is a no-op returning false.
// Readers poll it rather than wait on it, which keeps a frame loop
// cooperative, but Done is available for callers that do want to block.
type Future[T any] struct {
	mu    sync.Mutex
	state FutureState
	value T
	done  chan struct{}
}

func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Complete resolves the future with value. Returns false if the future was
// already resolved or cancelled; the stored result is never overwritten.
func (f *Future[T]) Complete(value T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FuturePending {
		return false
	}
	f.value = value
	f.state = FutureResolved
	close(f.done)
	return true
}

// Cancel resolves the future to the cancelled sentinel state. Returns false
// if the future was already resolved or cancelled.
func (f *Future[T]) Cancel() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FuturePending {
		return false
	}
	f.state = FutureCancelled
	close(f.done)
	return true
}

// Poll returns the current value and state without blocking. The value is
// the zero value unless the state is FutureResolved.
func (f *Future[T]) Poll() (T, FutureState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.state
}

// State is a convenience wrapper around Poll for callers that only care
// whether the cell has been written.
func (f *Future[T]) State() FutureState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Done is closed once the future leaves the pending state.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}
