package config

import (
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds everything the engine core needs at construction time.
// Values come from an optional YAML file, overridden by KESTREL_* env vars.
type Config struct {
	// AssetsRoot is the directory searched recursively for resource
	// manifests.
	AssetsRoot string `json:"assetsRoot" yaml:"assetsRoot" env:"KESTREL_ASSETS_ROOT"`

	// ManifestExtension identifies manifest files among embedded resource
	// names and asset files. Lowercase, leading period.
	ManifestExtension string `json:"manifestExtension" yaml:"manifestExtension" env:"KESTREL_MANIFEST_EXT"`

	// GraphicsBackend names the active graphics backend for manifest
	// restriction checks.
	GraphicsBackend string `json:"graphicsBackend" yaml:"graphicsBackend" env:"KESTREL_GRAPHICS_BACKEND"`

	// TargetFrameRate paces loop-bearing lifecycle states, frames per
	// second.
	TargetFrameRate int `json:"targetFrameRate" yaml:"targetFrameRate" env:"KESTREL_TARGET_FPS"`

	// LockTimeout bounds every shared-structure lock acquisition.
	LockTimeout time.Duration `json:"lockTimeout" yaml:"lockTimeout" env:"KESTREL_LOCK_TIMEOUT"`

	// LoaderWorkers sizes the load-queue worker pool.
	LoaderWorkers int `json:"loaderWorkers" yaml:"loaderWorkers" env:"KESTREL_LOADER_WORKERS"`

	LogLevel string `json:"logLevel" yaml:"logLevel" env:"KESTREL_LOG_LEVEL"`
}

func Default() Config {
	return Config{
		AssetsRoot:        "assets",
		ManifestExtension: ".resources.json",
		GraphicsBackend:   "vulkan",
		TargetFrameRate:   60,
		LockTimeout:       100 * time.Millisecond,
		LoaderWorkers:     4,
		LogLevel:          "info",
	}
}

// Load reads YAML from r on top of the defaults, then applies env
// overrides.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, err
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile is Load over a file path. A missing file is not an error: the
// defaults plus env overrides apply.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err = env.Parse(&cfg); err != nil {
				return Config{}, err
			}
			if err = cfg.Validate(); err != nil {
				return Config{}, err
			}
			return cfg, nil
		}
		return Config{}, err
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

func (c Config) Validate() error {
	if c.AssetsRoot == "" {
		return ErrMissingAssetsRoot
	}
	if len(c.ManifestExtension) < 2 || c.ManifestExtension[0] != '.' {
		return ErrInvalidManifestExtension
	}
	if c.TargetFrameRate <= 0 {
		return ErrInvalidFrameRate
	}
	if c.LockTimeout <= 0 {
		return ErrInvalidLockTimeout
	}
	if c.LoaderWorkers <= 0 {
		return ErrInvalidWorkerCount
	}
	return nil
}

// FrameDuration is the target duration of one frame.
func (c Config) FrameDuration() time.Duration {
	return time.Second / time.Duration(c.TargetFrameRate)
}
