// Package embedded carries the engine's own resource bundle: manifests for
// the fallback assets every installation ships with, compiled into the
// binary.
package embedded

import "embed"

//go:embed *.resources.json
var FS embed.FS
