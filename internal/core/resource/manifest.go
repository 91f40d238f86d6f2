package resource

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Manifest is the on-disk resource listing. One manifest bundles any number
// of descriptors and may carry restrictions gating the whole file.
type Manifest struct {
	OSRestriction       OSRestriction       `json:"OSRestriction,omitempty" yaml:"OSRestriction,omitempty"`
	GraphicsRestriction GraphicsRestriction `json:"GraphicsRestriction,omitempty" yaml:"GraphicsRestriction,omitempty"`
	Resources           []ManifestEntry     `json:"Resources" yaml:"Resources"`
}

// ManifestEntry mirrors one descriptor in manifest field naming. Location
// is optional: when absent, the scan source decides it.
type ManifestEntry struct {
	ResourceKey         string              `json:"ResourceKey" yaml:"ResourceKey"`
	FallbackResourceKey string              `json:"FallbackResourceKey,omitempty" yaml:"FallbackResourceKey,omitempty"`
	Location            Location            `json:"Location,omitempty" yaml:"Location,omitempty"`
	RelativePath        string              `json:"RelativePath" yaml:"RelativePath"`
	DataOffset          uint32              `json:"DataOffset,omitempty" yaml:"DataOffset,omitempty"`
	DataSize            uint32              `json:"DataSize" yaml:"DataSize"`
	FormatKey           string              `json:"FormatKey" yaml:"FormatKey"`
	Type                Type                `json:"Type" yaml:"Type"`
	SubType             int32               `json:"SubType,omitempty" yaml:"SubType,omitempty"`
	OSRestriction       OSRestriction       `json:"OSRestriction,omitempty" yaml:"OSRestriction,omitempty"`
	GraphicsRestriction GraphicsRestriction `json:"GraphicsRestriction,omitempty" yaml:"GraphicsRestriction,omitempty"`
}

// DecodeManifest reads and validates a manifest from r.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := json.NewDecoder(r)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) Validate() error {
	if m.Resources == nil {
		return ErrManifestNoResources
	}
	for i := range m.Resources {
		if err := m.Resources[i].Validate(); err != nil {
			return fmt.Errorf("resource %d: %w", i, err)
		}
	}
	return nil
}

func (e *ManifestEntry) Validate() error {
	if e.ResourceKey == "" {
		return ErrMissingResourceKey
	}
	if e.RelativePath == "" && e.Location != LocationProcedural {
		return ErrMissingRelativePath
	}
	if e.DataSize == 0 && e.Location != LocationProcedural {
		return ErrMissingDataSize
	}
	if e.FormatKey == "" {
		return ErrMissingFormatKey
	}
	if e.FormatKey != strings.ToLower(e.FormatKey) {
		return ErrFormatKeyNotLower
	}
	if e.Type == "" {
		return ErrMissingType
	}
	return nil
}

// Descriptor converts the entry, filling Location from the scan source when
// the entry does not pin one.
func (e *ManifestEntry) Descriptor(source Location) Descriptor {
	loc := e.Location
	if loc == "" {
		loc = source
	}
	return Descriptor{
		Key:                 e.ResourceKey,
		FallbackKey:         e.FallbackResourceKey,
		Location:            loc,
		RelativePath:        e.RelativePath,
		DataOffset:          e.DataOffset,
		DataSize:            e.DataSize,
		FormatKey:           e.FormatKey,
		Type:                e.Type,
		SubType:             e.SubType,
		OSRestriction:       e.OSRestriction,
		GraphicsRestriction: e.GraphicsRestriction,
	}
}
