package xsync

import (
	"sync"
	"sync/atomic"
)

// Signal is a monotonic cooperative cancellation flag: once raised it stays
// raised for its lifetime. Raise is idempotent and safe from any goroutine.
type Signal struct {
	raised atomic.Bool
	once   sync.Once
	done   chan struct{}
}

func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

func (s *Signal) Raise() {
	s.once.Do(func() {
		s.raised.Store(true)
		close(s.done)
	})
}

func (s *Signal) Raised() bool {
	return s.raised.Load()
}

// Done is closed when the signal is raised.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}
