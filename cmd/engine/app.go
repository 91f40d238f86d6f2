package main

import (
	"context"
	"time"

	"github.com/kestrel-engine/kestrel/internal/core/engine"
	"github.com/kestrel-engine/kestrel/internal/core/loadqueue"
	"github.com/kestrel-engine/kestrel/internal/core/observability/log"
	"github.com/kestrel-engine/kestrel/internal/core/resource"
	"github.com/kestrel-engine/kestrel/pkg/xsync"
)

// demoApp is a minimal host application: during loading it requests every
// discovered resource through the priority queue and drains it with the
// worker pool, during running it idles until an exit is requested.
type demoApp struct {
	index  *resource.Index
	queue  *loadqueue.Queue
	loader *loadqueue.Loader
	log    log.Log

	requests []*loadqueue.Request
	enqueued bool
	drained  bool
}

var _ engine.Application = (*demoApp)(nil)

func (a *demoApp) Initialize() bool {
	a.log.Info("demo application initializing")
	return true
}

func (a *demoApp) Shutdown() {
	a.log.Info("demo application shut down")
}

func (a *demoApp) OnStateChanging(old, new engine.Phase) {
	a.log.Debug("phase changing",
		log.String("from", old.String()),
		log.String("to", new.String()))
}

func (a *demoApp) OnStateChanged(old, new engine.Phase) {
	a.log.Info("phase changed",
		log.String("from", old.String()),
		log.String("to", new.String()))
}

func (a *demoApp) UpdateLoading(scanSucceeded bool) (bool, bool) {
	if !a.enqueued {
		a.enqueued = true
		if !scanSucceeded {
			a.log.Warn("proceeding without a fresh resource index")
		}
		for i, key := range a.index.Keys() {
			req := loadqueue.NewRequest(resource.HandleFor(key), int32(i))
			if a.queue.Enqueue(req) {
				a.requests = append(a.requests, req)
			}
		}
		return true, false
	}

	if !a.drained {
		a.drained = true
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := a.loader.Drain(ctx); err != nil {
			a.log.Error("load drain interrupted", log.Err(err))
			return false, true
		}
		return true, false
	}

	for _, req := range a.requests {
		ok, state := req.Completion.Poll()
		if state == xsync.FuturePending {
			return true, false
		}
		if state != xsync.FutureResolved || !ok {
			a.log.Warn("resource failed to load", log.Uint64("handle", uint64(req.Handle)))
		}
	}
	a.log.Info("loading complete", log.Int("resources", len(a.requests)))
	return true, true
}

func (a *demoApp) UpdateUnloading() (bool, bool) {
	return true, true
}

func (a *demoApp) UpdateInput() bool { return true }
func (a *demoApp) Update() bool      { return true }
func (a *demoApp) Draw() bool        { return true }
