package xsync

import (
	"time"
)

// TimedRWMutex is a reader-writer lock whose acquisitions can give up after
// a deadline instead of blocking the caller forever. It is built on channel
// semaphores: a single-slot writer channel and a counting reader channel.
//
// The zero value is not usable; construct with NewTimedRWMutex.
type TimedRWMutex struct {
	write   chan struct{}
	readers chan struct{}
}

// maxReaders bounds concurrent read holds. Acquiring the write lock drains
// every reader slot, so the constant also caps writer acquisition cost.
const maxReaders = 64

func NewTimedRWMutex() *TimedRWMutex {
	m := &TimedRWMutex{
		write:   make(chan struct{}, 1),
		readers: make(chan struct{}, maxReaders),
	}
	return m
}

// TryLock acquires the write lock, waiting at most timeout. It returns false
// if the lock could not be acquired before the deadline; the caller must not
// touch the guarded state in that case.
func (m *TimedRWMutex) TryLock(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case m.write <- struct{}{}:
	case <-timer.C:
		return false
	}

	// Writers wait out all active readers by filling every reader slot.
	for i := 0; i < maxReaders; i++ {
		select {
		case m.readers <- struct{}{}:
		case <-timer.C:
			// Give back what was taken and report failure.
			for j := 0; j < i; j++ {
				<-m.readers
			}
			<-m.write
			return false
		}
	}
	return true
}

// Unlock releases the write lock. Calling it without holding the lock
// corrupts the mutex; that is a programmer error, same as sync.RWMutex.
func (m *TimedRWMutex) Unlock() {
	for i := 0; i < maxReaders; i++ {
		<-m.readers
	}
	<-m.write
}

// TryRLock acquires a read lock, waiting at most timeout.
func (m *TimedRWMutex) TryRLock(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	// Taking the writer slot first keeps writers from starving behind a
	// stream of readers.
	select {
	case m.write <- struct{}{}:
	case <-timer.C:
		return false
	}
	select {
	case m.readers <- struct{}{}:
		<-m.write
		return true
	case <-timer.C:
		<-m.write
		return false
	}
}

// RUnlock releases one read hold.
func (m *TimedRWMutex) RUnlock() {
	<-m.readers
}
