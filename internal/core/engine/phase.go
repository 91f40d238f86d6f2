package engine

// Phase is one discrete state of the engine lifecycle. Exactly one phase is
// active at any instant; the Machine owns it and mutates it only inside its
// state-guard critical section.
type Phase uint8

const (
	PhaseNone Phase = iota
	PhaseStarting
	PhaseLoading
	PhaseRunning
	PhaseUnloading
	PhaseExiting
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "None"
	case PhaseStarting:
		return "Starting"
	case PhaseLoading:
		return "Loading"
	case PhaseRunning:
		return "Running"
	case PhaseUnloading:
		return "Unloading"
	case PhaseExiting:
		return "Exiting"
	default:
		return "Unknown"
	}
}

// transitions is the static table of legal direct phase changes. A
// self-transition is always legal and handled as a no-op before the table
// is consulted.
var transitions = map[Phase]Phase{
	PhaseNone:      PhaseStarting,
	PhaseStarting:  PhaseLoading,
	PhaseLoading:   PhaseRunning,
	PhaseRunning:   PhaseUnloading,
	PhaseUnloading: PhaseExiting,
	PhaseExiting:   PhaseNone,
}

// CanTransition reports whether the lifecycle may move directly from one
// phase to another.
func CanTransition(from, to Phase) bool {
	if from == to {
		return true
	}
	return transitions[from] == to
}

// hasMainLoop reports whether a phase runs a bounded frame loop.
func (p Phase) hasMainLoop() bool {
	switch p {
	case PhaseLoading, PhaseRunning, PhaseUnloading:
		return true
	default:
		return false
	}
}
