package engine

import (
	"sync"
	"sync/atomic"

	"github.com/kestrel-engine/kestrel/internal/core/observability/log"
	"github.com/kestrel-engine/kestrel/internal/core/platform"
	"github.com/kestrel-engine/kestrel/pkg/xsync"
)

// Scanner is the slice of the resource subsystem the Loading state drives.
type Scanner interface {
	ScanAll() bool
}

// Options wires the machine's collaborators. App and Scanner are required;
// nil platform collaborators fall back to headless implementations.
type Options struct {
	App     Application
	Scanner Scanner
	Window  platform.Window
	Input   platform.Input
	Clock   platform.Clock
	Log     log.Log
}

// Machine owns the engine lifecycle: it validates phase transitions,
// drives Starting through Exiting sequentially, and exposes cooperative
// cancellation to the host. All transitions serialize through one guard
// mutex; the phase value itself is stored atomically so readers never see
// a half-applied write.
type Machine struct {
	mu    sync.Mutex // guards transitions and exit bookkeeping
	phase atomic.Uint32

	current       *lifecycleState
	external      *xsync.Signal
	exitRequested bool
	isLoaded      bool
	running       atomic.Bool
	disposed      atomic.Bool

	observers *observerList

	app     Application
	scanner Scanner
	window  platform.Window
	input   platform.Input
	clock   platform.Clock
	log     log.Log
}

func NewMachine(opts Options) (*Machine, error) {
	if opts.App == nil {
		return nil, ErrNilApplication
	}
	if opts.Scanner == nil {
		return nil, ErrNilScanner
	}
	if opts.Window == nil {
		opts.Window = platform.HeadlessWindow{}
	}
	if opts.Input == nil {
		opts.Input = platform.HeadlessInput{}
	}
	if opts.Clock == nil {
		opts.Clock = platform.NewFixedStepClock(0)
	}
	if opts.Log == nil {
		opts.Log = log.Nop()
	}

	m := &Machine{
		external:  xsync.NewSignal(),
		observers: newObserverList(),
		app:       opts.App,
		scanner:   opts.Scanner,
		window:    opts.Window,
		input:     opts.Input,
		clock:     opts.Clock,
		log:       opts.Log,
	}
	m.phase.Store(uint32(PhaseNone))

	// The application's own phase-change hooks ride the observer list,
	// registered first so they always fire before external observers.
	m.observers.add(ObserverFuncs(opts.App.OnStateChanging, opts.App.OnStateChanged))
	return m, nil
}

// Observe registers an observer; notification order follows registration
// order. Returns an id for RemoveObserver.
func (m *Machine) Observe(o Observer) string {
	return m.observers.add(o)
}

func (m *Machine) RemoveObserver(id string) bool {
	return m.observers.remove(id)
}

// Run drives the full lifecycle. Stage outcomes accumulate with logical
// AND, but a failed stage does not stop later stages from being attempted:
// only the Running and Unloading loops are gated, on whether loading
// finished. Unloading and Exiting are always reached so teardown always
// gets its chance.
func (m *Machine) Run() bool {
	if m.disposed.Load() || !m.running.CompareAndSwap(false, true) {
		return false
	}
	defer m.running.Store(false)

	ok := m.SetState(PhaseStarting)

	stage := m.runStage(PhaseLoading)
	ok = stage && ok

	stage = m.runStage(PhaseRunning)
	ok = stage && ok

	stage = m.runStage(PhaseUnloading)
	ok = stage && ok

	stage = m.SetState(PhaseExiting)
	ok = stage && ok

	return ok
}

// runStage transitions to target and, when the reached phase runs a main
// loop, blocks until that loop exits.
func (m *Machine) runStage(target Phase) bool {
	ok := m.SetState(target)
	if !ok {
		return false
	}

	m.mu.Lock()
	state := m.current
	external := m.external
	loaded := m.isLoaded
	m.mu.Unlock()

	if state == nil || !state.phase.hasMainLoop() {
		return ok
	}
	// Running and Unloading loops only make sense once loading produced a
	// world to run or unload.
	if (state.phase == PhaseRunning || state.phase == PhaseUnloading) && !loaded {
		return false
	}

	loopOK := state.run(external)

	if state.phase == PhaseLoading && loopOK {
		m.mu.Lock()
		m.isLoaded = state.loadedOK.Load()
		m.mu.Unlock()
	}
	return loopOK
}

// RequestExit asks the lifecycle to wind down. Idempotent; a no-op when
// the engine is disposed, not running, or already exiting.
func (m *Machine) RequestExit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed.Load() || !m.running.Load() || m.exitRequested {
		return
	}
	if Phase(m.phase.Load()) == PhaseExiting {
		return
	}
	m.exitRequested = true
	m.external.Raise()
	m.log.Info("exit requested")
}

// SetState attempts a transition to target. When an exit has been
// requested, the target is first redirected toward teardown: Loading and
// Running become Unloading, Starting becomes Exiting. A self-transition
// succeeds without side effects; an illegal transition logs and fails
// without mutating anything.
func (m *Machine) SetState(target Phase) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed.Load() {
		m.log.Error("state change on disposed engine", log.String("target", target.String()))
		return false
	}

	current := Phase(m.phase.Load())

	// With an exit pending the lifecycle may only move toward teardown:
	// from Loading or Running every target becomes Unloading, from
	// Starting it becomes Exiting. The redirected target is still subject
	// to transition validation below.
	if m.exitRequested {
		switch current {
		case PhaseStarting:
			target = PhaseExiting
		case PhaseLoading, PhaseRunning:
			target = PhaseUnloading
		}
	}
	if target == current {
		m.log.Debug("state change to current phase ignored", log.String("phase", current.String()))
		return true
	}
	if !CanTransition(current, target) {
		m.log.Error("illegal state transition",
			log.String("from", current.String()),
			log.String("to", target.String()))
		return false
	}

	m.observers.stateChanging(current, target)

	if m.current != nil {
		// Shutdown failure is deliberately treated as success: the old
		// state is abandoned either way and the transition proceeds.
		m.current.shutdown()
	}

	m.phase.Store(uint32(target))
	m.current = newLifecycleState(m, target)

	if !m.current.initialize() {
		m.log.Error("state initialization failed",
			log.Bool("critical", true),
			log.String("phase", target.String()))
		return false
	}

	m.observers.stateChanged(current, target)
	m.log.Info("state changed",
		log.String("from", current.String()),
		log.String("to", target.String()))
	return true
}

// CurrentPhase returns the active lifecycle phase.
func (m *Machine) CurrentPhase() Phase {
	return Phase(m.phase.Load())
}

// IsRunning reports whether Run is currently driving the lifecycle.
func (m *Machine) IsRunning() bool {
	return m.running.Load()
}

// IsExiting reports whether teardown has begun, either by request or by
// reaching the Exiting phase.
func (m *Machine) IsExiting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exitRequested || Phase(m.phase.Load()) == PhaseExiting
}

// IsInMainLoop reports whether the active state is inside its frame loop.
func (m *Machine) IsInMainLoop() bool {
	m.mu.Lock()
	state := m.current
	m.mu.Unlock()
	return state != nil && state.inLoop.Load()
}

// Close disposes the machine. Further transitions and exit requests become
// no-ops. Safe to call more than once.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed.Swap(true) {
		return
	}
	if m.current != nil {
		m.current.shutdown()
		m.current = nil
	}
}
