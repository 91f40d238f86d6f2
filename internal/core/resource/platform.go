package resource

import (
	"runtime"
)

// Platform is what restriction checks compare against: the operating
// system the engine is running on and the graphics backend it was
// configured with.
type Platform struct {
	OS       OSRestriction
	Graphics GraphicsRestriction
}

// CurrentPlatform derives the running OS and pairs it with the configured
// backend name. Unknown GOOS values map to unrestricted, which makes every
// OS-restricted manifest skip on them.
func CurrentPlatform(backend GraphicsRestriction) Platform {
	return Platform{OS: currentOS(), Graphics: backend}
}

func currentOS() OSRestriction {
	switch runtime.GOOS {
	case "windows":
		return OSWindows
	case "linux":
		return OSLinux
	case "darwin":
		return OSMacOS
	case "android":
		return OSAndroid
	case "ios":
		return OSIOS
	default:
		return OSAny
	}
}

// Allows reports whether a manifest or descriptor restricted to (os, gfx)
// may be used on this platform. Empty restrictions always match.
func (p Platform) Allows(os OSRestriction, gfx GraphicsRestriction) bool {
	if os != OSAny && os != p.OS {
		return false
	}
	if gfx != GraphicsAny && gfx != p.Graphics {
		return false
	}
	return true
}
