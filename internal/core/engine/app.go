package engine

// Application is the host-supplied game logic the engine drives. Every
// method reports success with a boolean; the engine never receives errors
// or exceptions across this boundary.
type Application interface {
	// Initialize runs once while the engine is Starting.
	Initialize() bool
	// Shutdown runs once while the engine is Exiting.
	Shutdown()

	// OnStateChanging and OnStateChanged bracket every accepted phase
	// change.
	OnStateChanging(old, new Phase)
	OnStateChanged(old, new Phase)

	// UpdateLoading runs every Loading frame after resource discovery has
	// resolved. scanSucceeded carries the scan outcome; the application
	// decides whether to proceed without a fresh index. Returns per-frame
	// success and whether loading is finished.
	UpdateLoading(scanSucceeded bool) (success, done bool)

	// UpdateUnloading runs every Unloading frame until it reports done.
	UpdateUnloading() (success, done bool)

	// The three Running-phase updates, called in order each frame.
	UpdateInput() bool
	Update() bool
	Draw() bool
}
