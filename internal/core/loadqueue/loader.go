package loadqueue

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kestrel-engine/kestrel/internal/core/observability/log"
	"github.com/kestrel-engine/kestrel/internal/core/resource"
)

// LoadFunc performs the actual byte loading for one descriptor. Supplied by
// the host application; the engine core never interprets resource formats.
type LoadFunc func(ctx context.Context, d resource.Descriptor) error

// Loader drains the queue with a fixed pool of workers, resolving each
// request's completion future with the load outcome. When a requested
// handle is missing from the index, or its load fails, the descriptor's
// fallback key is tried once before the request is failed.
type Loader struct {
	queue   *Queue
	index   *resource.Index
	loadFn  LoadFunc
	workers int
	log     log.Log
}

func NewLoader(queue *Queue, index *resource.Index, workers int, fn LoadFunc, logger log.Log) (*Loader, error) {
	if queue == nil || index == nil || fn == nil {
		return nil, ErrNilCollaborator
	}
	if workers <= 0 {
		return nil, ErrInvalidWorkerCount
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Loader{
		queue:   queue,
		index:   index,
		loadFn:  fn,
		workers: workers,
		log:     logger,
	}, nil
}

// Drain processes queued requests until the queue is empty or ctx is
// cancelled. Individual load failures resolve the request's future to false
// and do not stop the drain; the returned error is non-nil only when ctx
// ended the drain early.
func (l *Loader) Drain(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < l.workers; i++ {
		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				req := l.queue.Dequeue()
				if req == nil {
					return nil
				}
				l.serve(ctx, req)
			}
		})
	}
	return g.Wait()
}

func (l *Loader) serve(ctx context.Context, req *Request) {
	d, ok := l.index.LookupHandle(req.Handle)
	if !ok {
		l.log.Error("load request for unknown resource handle",
			log.Uint64("handle", uint64(req.Handle)))
		req.Completion.Complete(false)
		return
	}

	err := l.loadFn(ctx, d)
	if err != nil && d.FallbackKey != "" {
		fb, fbOK := l.index.Lookup(d.FallbackKey)
		if fbOK {
			l.log.Warn("primary load failed, trying fallback",
				log.String("key", d.Key),
				log.String("fallback", d.FallbackKey),
				log.Err(err))
			err = l.loadFn(ctx, fb)
		}
	}
	if err != nil {
		l.log.Error("resource load failed",
			log.String("key", d.Key),
			log.Err(err))
		req.Completion.Complete(false)
		return
	}
	req.Completion.Complete(true)
}
