package loadqueue

import (
	"github.com/google/uuid"

	"github.com/kestrel-engine/kestrel/internal/core/resource"
	"github.com/kestrel-engine/kestrel/pkg/xsync"
)

// Request asks for one resource to be loaded. Priority is ascending
// urgency: lower values are served first. Completion is a single-assignment
// future resolved exactly once with the load outcome, or cancelled when the
// request is discarded unserved.
type Request struct {
	ID         uuid.UUID
	Handle     resource.Handle
	Priority   int32
	Completion *xsync.Future[bool]
}

func NewRequest(handle resource.Handle, priority int32) *Request {
	return &Request{
		ID:         uuid.New(),
		Handle:     handle,
		Priority:   priority,
		Completion: xsync.NewFuture[bool](),
	}
}
