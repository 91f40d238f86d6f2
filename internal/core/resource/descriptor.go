package resource

import (
	"github.com/cespare/xxhash/v2"
)

// Handle is a stable numeric identity for a resource, derived from its key.
// Load requests and queue bookkeeping use handles instead of strings.
type Handle uint64

// HandleFor derives the handle of a resource key.
func HandleFor(key string) Handle {
	return Handle(xxhash.Sum64String(key))
}

// Location says where a resource's bytes live.
type Location string

const (
	LocationAssetFile    Location = "AssetFile"
	LocationEmbeddedFile Location = "EmbeddedFile"
	LocationNetwork      Location = "Network"
	LocationProcedural   Location = "Procedural"
)

// Type is the coarse resource category.
type Type string

const (
	TypeTexture  Type = "Texture"
	TypeModel    Type = "Model"
	TypeShader   Type = "Shader"
	TypeAudio    Type = "Audio"
	TypeFont     Type = "Font"
	TypeMaterial Type = "Material"
	TypeData     Type = "Data"
)

// OSRestriction limits a manifest or descriptor to one operating system.
// The empty value means unrestricted.
type OSRestriction string

const (
	OSAny     OSRestriction = ""
	OSWindows OSRestriction = "Windows"
	OSLinux   OSRestriction = "Linux"
	OSMacOS   OSRestriction = "MacOS"
	OSAndroid OSRestriction = "Android"
	OSIOS     OSRestriction = "iOS"
)

// GraphicsRestriction limits a manifest or descriptor to one graphics
// backend. The empty value means unrestricted.
type GraphicsRestriction string

const (
	GraphicsAny      GraphicsRestriction = ""
	GraphicsVulkan   GraphicsRestriction = "Vulkan"
	GraphicsOpenGL   GraphicsRestriction = "OpenGL"
	GraphicsDirect3D GraphicsRestriction = "Direct3D"
	GraphicsMetal    GraphicsRestriction = "Metal"
)

// Descriptor identifies one loadable resource. Immutable once built by a
// scan; a later scan replaces descriptors wholesale rather than mutating
// them.
type Descriptor struct {
	Key                 string
	FallbackKey         string
	Location            Location
	RelativePath        string
	DataOffset          uint32
	DataSize            uint32
	FormatKey           string
	Type                Type
	SubType             int32
	OSRestriction       OSRestriction
	GraphicsRestriction GraphicsRestriction
}

// Handle returns the descriptor's derived handle.
func (d Descriptor) Handle() Handle {
	return HandleFor(d.Key)
}
