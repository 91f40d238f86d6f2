package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kestrel-engine/kestrel/internal/core/platform"
)

// stubApp is a scriptable Application. Zero value: everything succeeds,
// loading and unloading finish on their first frame.
type stubApp struct {
	mu sync.Mutex

	initOK       bool
	initCalls    int
	shutdownDone bool

	loadingFrames  int
	sawScanResult  *bool
	failLoading    bool
	unloadFrames   int
	runningFrames  int
	onUpdate       func(frame int) bool
	panicOnUpdate  bool

	changing [][2]Phase
	changed  [][2]Phase
}

func newStubApp() *stubApp {
	return &stubApp{initOK: true}
}

func (a *stubApp) Initialize() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.initCalls++
	return a.initOK
}

func (a *stubApp) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.shutdownDone = true
}

func (a *stubApp) OnStateChanging(old, new Phase) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.changing = append(a.changing, [2]Phase{old, new})
}

func (a *stubApp) OnStateChanged(old, new Phase) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.changed = append(a.changed, [2]Phase{old, new})
}

func (a *stubApp) UpdateLoading(scanSucceeded bool) (bool, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loadingFrames++
	if a.sawScanResult == nil {
		v := scanSucceeded
		a.sawScanResult = &v
	}
	if a.failLoading {
		return false, true
	}
	return true, true
}

func (a *stubApp) UpdateUnloading() (bool, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unloadFrames++
	return true, true
}

func (a *stubApp) UpdateInput() bool { return true }

func (a *stubApp) Update() bool {
	if a.panicOnUpdate {
		panic("scripted update panic")
	}
	a.mu.Lock()
	a.runningFrames++
	frame := a.runningFrames
	fn := a.onUpdate
	a.mu.Unlock()
	if fn != nil {
		return fn(frame)
	}
	return true
}

func (a *stubApp) Draw() bool { return true }

func (a *stubApp) shutdownCalled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shutdownDone
}

func (a *stubApp) scanResult() *bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sawScanResult
}

// stubScanner scripts the discovery result.
type stubScanner struct {
	result  bool
	delay   time.Duration
	scans   atomic.Int32
}

func (s *stubScanner) ScanAll() bool {
	s.scans.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.result
}

func newTestMachine(t *testing.T, app *stubApp, sc *stubScanner) *Machine {
	t.Helper()
	m, err := NewMachine(Options{
		App:     app,
		Scanner: sc,
		Clock:   platform.NewFixedStepClock(time.Millisecond),
	})
	require.NoError(t, err)
	return m
}

func TestNewMachine(t *testing.T) {
	_, err := NewMachine(Options{Scanner: &stubScanner{}})
	require.ErrorIs(t, err, ErrNilApplication)

	_, err = NewMachine(Options{App: newStubApp()})
	require.ErrorIs(t, err, ErrNilScanner)
}

func TestSetState(t *testing.T) {
	t.Run("legal chain advances", func(t *testing.T) {
		m := newTestMachine(t, newStubApp(), &stubScanner{result: true})
		require.True(t, m.SetState(PhaseStarting))
		require.Equal(t, PhaseStarting, m.CurrentPhase())
	})

	t.Run("illegal transition rejected without mutation", func(t *testing.T) {
		m := newTestMachine(t, newStubApp(), &stubScanner{result: true})
		require.False(t, m.SetState(PhaseRunning))
		require.Equal(t, PhaseNone, m.CurrentPhase())
	})

	t.Run("self transition succeeds and fires no notifications", func(t *testing.T) {
		app := newStubApp()
		m := newTestMachine(t, app, &stubScanner{result: true})
		require.True(t, m.SetState(PhaseStarting))

		before := len(app.changed)
		require.True(t, m.SetState(PhaseStarting))
		require.Len(t, app.changed, before)
		require.Len(t, app.changing, before)
	})

	t.Run("notifications bracket the change in registration order", func(t *testing.T) {
		app := newStubApp()
		m := newTestMachine(t, app, &stubScanner{result: true})

		var order []string
		m.Observe(ObserverFuncs(
			func(old, new Phase) { order = append(order, "first-changing") },
			func(old, new Phase) { order = append(order, "first-changed") },
		))
		m.Observe(ObserverFuncs(
			func(old, new Phase) { order = append(order, "second-changing") },
			func(old, new Phase) { order = append(order, "second-changed") },
		))

		require.True(t, m.SetState(PhaseStarting))
		require.Equal(t, []string{
			"first-changing", "second-changing",
			"first-changed", "second-changed",
		}, order)
		require.Equal(t, [][2]Phase{{PhaseNone, PhaseStarting}}, app.changing)
	})

	t.Run("init failure reported as failed transition", func(t *testing.T) {
		app := newStubApp()
		app.initOK = false
		m := newTestMachine(t, app, &stubScanner{result: true})
		require.False(t, m.SetState(PhaseStarting))
		// phase advanced before the failed initialization; later stages
		// may still be attempted from it
		require.Equal(t, PhaseStarting, m.CurrentPhase())
	})
}

func TestExitRedirects(t *testing.T) {
	t.Run("from running every target becomes unloading", func(t *testing.T) {
		app := newStubApp()
		m := newTestMachine(t, app, &stubScanner{result: true})
		require.True(t, m.SetState(PhaseStarting))
		require.True(t, m.SetState(PhaseLoading))
		require.True(t, m.SetState(PhaseRunning))

		m.running.Store(true) // RequestExit requires an active run
		m.RequestExit()
		m.RequestExit() // idempotent

		require.True(t, m.SetState(PhaseStarting))
		require.Equal(t, PhaseUnloading, m.CurrentPhase())
	})

	t.Run("from starting the redirect aims at exiting", func(t *testing.T) {
		m := newTestMachine(t, newStubApp(), &stubScanner{result: true})
		require.True(t, m.SetState(PhaseStarting))

		m.running.Store(true)
		m.RequestExit()

		// the redirected target (Exiting) is not directly reachable from
		// Starting, so the change is refused; the engine never moves
		// forward into Loading
		require.False(t, m.SetState(PhaseLoading))
		require.Equal(t, PhaseStarting, m.CurrentPhase())
	})

	t.Run("exit request outside a run is ignored", func(t *testing.T) {
		m := newTestMachine(t, newStubApp(), &stubScanner{result: true})
		m.RequestExit()
		require.False(t, m.IsExiting())
	})
}

func TestRun(t *testing.T) {
	t.Run("full lifecycle with exit from running", func(t *testing.T) {
		app := newStubApp()
		m := newTestMachine(t, app, &stubScanner{result: true})

		app.onUpdate = func(frame int) bool {
			if frame >= 3 {
				m.RequestExit()
			}
			return true
		}

		require.True(t, m.Run())
		require.Equal(t, PhaseExiting, m.CurrentPhase())
		require.True(t, app.shutdownCalled())
		require.GreaterOrEqual(t, app.runningFrames, 3)

		sawScan := app.scanResult()
		require.NotNil(t, sawScan)
		require.True(t, *sawScan)
	})

	t.Run("scan failure still reaches application loading", func(t *testing.T) {
		app := newStubApp()
		m := newTestMachine(t, app, &stubScanner{result: false})

		app.onUpdate = func(int) bool {
			m.RequestExit()
			return true
		}

		m.Run()
		sawScan := app.scanResult()
		require.NotNil(t, sawScan)
		require.False(t, *sawScan)
	})

	t.Run("loading failure skips running and unloading loops", func(t *testing.T) {
		app := newStubApp()
		app.failLoading = true
		m := newTestMachine(t, app, &stubScanner{result: true})

		require.False(t, m.Run())
		require.Equal(t, PhaseExiting, m.CurrentPhase())
		require.Zero(t, app.runningFrames)
		require.Zero(t, app.unloadFrames)
		require.True(t, app.shutdownCalled())
	})

	t.Run("panic in running loop fails run but teardown still happens", func(t *testing.T) {
		app := newStubApp()
		app.panicOnUpdate = true
		m := newTestMachine(t, app, &stubScanner{result: true})

		require.False(t, m.Run())
		require.Equal(t, PhaseExiting, m.CurrentPhase())
		require.True(t, app.shutdownCalled())
	})

	t.Run("run on disposed machine fails", func(t *testing.T) {
		m := newTestMachine(t, newStubApp(), &stubScanner{result: true})
		m.Close()
		require.False(t, m.Run())
	})
}

func TestLoadingStagePolling(t *testing.T) {
	// a slow scan keeps the loading loop polling: the application callback
	// must not run before the future resolves
	app := newStubApp()
	sc := &stubScanner{result: true, delay: 30 * time.Millisecond}
	m := newTestMachine(t, app, sc)

	app.onUpdate = func(int) bool {
		m.RequestExit()
		return true
	}

	start := time.Now()
	require.True(t, m.Run())
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	require.EqualValues(t, 1, sc.scans.Load())
	require.GreaterOrEqual(t, app.loadingFrames, 1)
}

func TestAccessors(t *testing.T) {
	app := newStubApp()
	m := newTestMachine(t, app, &stubScanner{result: true})

	require.Equal(t, PhaseNone, m.CurrentPhase())
	require.False(t, m.IsRunning())
	require.False(t, m.IsExiting())
	require.False(t, m.IsInMainLoop())

	inLoop := make(chan bool, 1)
	app.onUpdate = func(frame int) bool {
		if frame == 1 {
			inLoop <- m.IsInMainLoop() && m.IsRunning()
		}
		if frame >= 2 {
			m.RequestExit()
		}
		return true
	}

	done := make(chan bool)
	go func() { done <- m.Run() }()

	select {
	case v := <-inLoop:
		require.True(t, v)
	case <-time.After(5 * time.Second):
		t.Fatal("running loop never reached")
	}

	select {
	case ok := <-done:
		require.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}
	require.True(t, m.IsExiting())
	require.False(t, m.IsRunning())
}

func TestObserverRemoval(t *testing.T) {
	m := newTestMachine(t, newStubApp(), &stubScanner{result: true})

	calls := 0
	id := m.Observe(ObserverFuncs(nil, func(old, new Phase) { calls++ }))
	require.True(t, m.RemoveObserver(id))
	require.False(t, m.RemoveObserver(id))

	require.True(t, m.SetState(PhaseStarting))
	require.Zero(t, calls)
}
