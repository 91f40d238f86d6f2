package config

import "errors"

// Configuration validation errors
var (
	ErrMissingAssetsRoot        = errors.New("assets root is not set")
	ErrInvalidManifestExtension = errors.New("manifest extension must start with a period")
	ErrInvalidFrameRate         = errors.New("target frame rate must be positive")
	ErrInvalidLockTimeout       = errors.New("lock timeout must be positive")
	ErrInvalidWorkerCount       = errors.New("loader worker count must be positive")
)
