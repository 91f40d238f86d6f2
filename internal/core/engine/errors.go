package engine

import "errors"

var (
	ErrNilApplication = errors.New("engine requires an application")
	ErrNilScanner     = errors.New("engine requires a resource scanner")
	ErrDisposed       = errors.New("engine is disposed")
)
