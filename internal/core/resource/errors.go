package resource

import "errors"

// Manifest validation errors
var (
	ErrManifestNoResources = errors.New("manifest has no Resources array")
	ErrMissingResourceKey  = errors.New("resource key is required")
	ErrMissingRelativePath = errors.New("relative path is required")
	ErrMissingDataSize     = errors.New("data size is required")
	ErrMissingFormatKey    = errors.New("format key is required")
	ErrFormatKeyNotLower   = errors.New("format key must be lowercase")
	ErrMissingType         = errors.New("resource type is required")
)

// Index errors
var (
	ErrIndexLockTimeout = errors.New("resource index lock acquisition timed out")
)
