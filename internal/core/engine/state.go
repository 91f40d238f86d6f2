package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/kestrel-engine/kestrel/internal/core/observability/log"
	"github.com/kestrel-engine/kestrel/pkg/xsync"
)

// Shutdown of a loop-bearing state polls for the loop flag to clear rather
// than joining the loop goroutine. Best effort: after the poll budget it
// proceeds regardless.
const (
	shutdownPollInterval = 10 * time.Millisecond
	shutdownPollCount    = 50
)

// lifecycleState is the behavior bound to one phase. It is a tagged
// variant: the phase discriminant picks the per-frame update behavior once,
// at initialize time, instead of going through virtual dispatch every
// frame.
type lifecycleState struct {
	phase    Phase
	m        *Machine
	internal *xsync.Signal
	update   func() (success bool)

	inLoop   atomic.Bool
	disposed atomic.Bool
	failed   atomic.Bool

	// Loading-phase data
	scanFuture  *xsync.Future[bool]
	scanning    atomic.Bool
	scanResult  atomic.Bool
	loadedOK    atomic.Bool
}

func newLifecycleState(m *Machine, phase Phase) *lifecycleState {
	return &lifecycleState{phase: phase, m: m}
}

// initialize prepares the state to run. Loop-bearing states allocate a
// fresh internal cancellation signal; the Loading state additionally kicks
// off resource discovery on its own goroutine.
func (s *lifecycleState) initialize() bool {
	if s.disposed.Load() || s.m.disposed.Load() {
		return false
	}
	if s.phase.hasMainLoop() {
		if s.m.CurrentPhase() != s.phase {
			return false
		}
		if s.inLoop.Load() {
			return false
		}
		s.internal = xsync.NewSignal()
	}

	switch s.phase {
	case PhaseStarting:
		return s.m.app.Initialize()
	case PhaseLoading:
		s.update = s.updateLoading
		return s.startScan()
	case PhaseRunning:
		s.update = s.updateRunning
	case PhaseUnloading:
		s.update = s.updateUnloading
	case PhaseExiting:
		s.m.app.Shutdown()
	}
	return true
}

// run executes the frame loop until the external exit signal, the internal
// signal or engine disposal is observed. Non-loop phases return
// immediately. Nothing thrown inside a frame escapes this method.
func (s *lifecycleState) run(external *xsync.Signal) bool {
	if !s.phase.hasMainLoop() {
		return true
	}
	s.inLoop.Store(true)
	defer s.inLoop.Store(false)

	for {
		if external.Raised() || s.internal.Raised() || s.m.disposed.Load() {
			break
		}
		s.frame()
	}
	return !s.failed.Load()
}

// frame runs one iteration of the shared per-frame sequence. A panic in
// any step is caught here, logged at critical severity and converted into
// internal cancellation plus loop failure; it never propagates to Run's
// caller.
func (s *lifecycleState) frame() {
	defer func() {
		if r := recover(); r != nil {
			s.m.log.Error("unhandled panic in main loop",
				log.Bool("critical", true),
				log.String("phase", s.phase.String()),
				log.String("panic", fmt.Sprint(r)))
			s.failed.Store(true)
			s.internal.Raise()
		}
	}()

	if !s.m.window.PumpEvents() {
		// window closed: end the loop, not an error
		s.internal.Raise()
		return
	}
	s.m.clock.FrameBegin()
	s.m.input.Snapshot()

	if !s.update() {
		s.failed.Store(true)
		s.internal.Raise()
		return
	}

	if sleep := s.m.clock.FrameEnd(); sleep > 0 {
		time.Sleep(sleep)
	}
}

// shutdown signals internal cancellation and waits, bounded, for the loop
// flag to clear. The Loading state also forces an unresolved scan future to
// cancelled so no poller is left waiting on it.
func (s *lifecycleState) shutdown() {
	if s.disposed.Swap(true) {
		return
	}
	if s.internal != nil {
		s.internal.Raise()
	}
	if s.scanFuture != nil {
		s.scanFuture.Cancel()
	}
	for i := 0; i < shutdownPollCount && s.inLoop.Load(); i++ {
		time.Sleep(shutdownPollInterval)
	}
	if s.inLoop.Load() {
		s.m.log.Warn("state loop still running after shutdown wait",
			log.String("phase", s.phase.String()),
			log.Duration("waited", shutdownPollCount*shutdownPollInterval))
	}
}

// startScan launches resource discovery on a dedicated goroutine. The
// result lands in a single-assignment future polled by the loading loop.
func (s *lifecycleState) startScan() bool {
	if s.m.scanner == nil {
		return false
	}
	s.scanFuture = xsync.NewFuture[bool]()
	s.scanning.Store(true)
	go func() {
		s.scanFuture.Complete(s.m.scanner.ScanAll())
	}()
	return true
}

// updateLoading is the Loading-phase frame hook. Stage one polls the scan
// future; stage two forwards every frame to the application's loading
// callback until it reports done.
func (s *lifecycleState) updateLoading() bool {
	if s.scanning.Load() {
		v, state := s.scanFuture.Poll()
		if state == xsync.FuturePending {
			return true
		}
		scanOK := state == xsync.FutureResolved && v
		s.scanResult.Store(scanOK)
		s.scanning.Store(false)
		if scanOK {
			s.m.log.Info("resource discovery complete")
		} else {
			// Intentional lenience: application loading still runs and
			// decides what a failed scan means for it.
			s.m.log.Error("resource discovery failed")
		}
		return true
	}

	success, done := s.m.app.UpdateLoading(s.scanResult.Load())
	if done {
		s.loadedOK.Store(success)
		s.internal.Raise()
	}
	return success
}

func (s *lifecycleState) updateRunning() bool {
	if !s.m.app.UpdateInput() {
		return false
	}
	if !s.m.app.Update() {
		return false
	}
	return s.m.app.Draw()
}

func (s *lifecycleState) updateUnloading() bool {
	success, done := s.m.app.UpdateUnloading()
	if done {
		s.internal.Raise()
	}
	return success
}
