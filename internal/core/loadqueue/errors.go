package loadqueue

import "errors"

var (
	ErrNilCollaborator    = errors.New("loader requires a queue, an index and a load function")
	ErrInvalidWorkerCount = errors.New("loader worker count must be positive")
)
