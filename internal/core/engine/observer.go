package engine

import (
	"sync"

	"github.com/google/uuid"
)

// Observer is notified around every accepted phase change: StateChanging
// fires before the phase field mutates, StateChanged after the new state
// initialized.
type Observer interface {
	StateChanging(old, new Phase)
	StateChanged(old, new Phase)
}

// observerFuncs adapts two funcs to Observer for callers that don't want a
// type.
type observerFuncs struct {
	changing func(old, new Phase)
	changed  func(old, new Phase)
}

func (o observerFuncs) StateChanging(old, new Phase) {
	if o.changing != nil {
		o.changing(old, new)
	}
}

func (o observerFuncs) StateChanged(old, new Phase) {
	if o.changed != nil {
		o.changed(old, new)
	}
}

// ObserverFuncs builds an Observer from plain functions; either may be nil.
func ObserverFuncs(changing, changed func(old, new Phase)) Observer {
	return observerFuncs{changing: changing, changed: changed}
}

// observerList keeps observers in registration order so notification order
// is deterministic.
type observerList struct {
	mu      sync.Mutex
	ids     []string
	entries map[string]Observer
}

func newObserverList() *observerList {
	return &observerList{entries: make(map[string]Observer)}
}

func (l *observerList) add(o Observer) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := uuid.NewString()
	l.ids = append(l.ids, id)
	l.entries[id] = o
	return id
}

func (l *observerList) remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[id]; !ok {
		return false
	}
	delete(l.entries, id)
	for i, existing := range l.ids {
		if existing == id {
			l.ids = append(l.ids[:i], l.ids[i+1:]...)
			break
		}
	}
	return true
}

func (l *observerList) snapshot() []Observer {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Observer, 0, len(l.ids))
	for _, id := range l.ids {
		out = append(out, l.entries[id])
	}
	return out
}

func (l *observerList) stateChanging(old, new Phase) {
	for _, o := range l.snapshot() {
		o.StateChanging(old, new)
	}
}

func (l *observerList) stateChanged(old, new Phase) {
	for _, o := range l.snapshot() {
		o.StateChanged(old, new)
	}
}
