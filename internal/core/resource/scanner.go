package resource

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kestrel-engine/kestrel/internal/core/observability/log"
)

// Scanner discovers resource manifests and builds fresh Index snapshots.
// A scan walks, in order, the engine's embedded bundle, the host
// application's embedded bundle, and the assets directory tree. The scan is
// all-or-nothing per source: any open or parse failure aborts the whole
// scan and leaves the previous index snapshot authoritative.
type Scanner struct {
	index    *Index
	engineFS fs.FS
	appFS    fs.FS
	root     string
	ext      string
	platform Platform
	log      log.Log
}

// ScannerOptions configures a Scanner. EngineFS and AppFS may be nil when
// the corresponding bundle ships no manifests.
type ScannerOptions struct {
	EngineFS          fs.FS
	AppFS             fs.FS
	AssetsRoot        string
	ManifestExtension string
	Platform          Platform
}

func NewScanner(index *Index, opts ScannerOptions, logger log.Log) *Scanner {
	if logger == nil {
		logger = log.Nop()
	}
	return &Scanner{
		index:    index,
		engineFS: opts.EngineFS,
		appFS:    opts.AppFS,
		root:     opts.AssetsRoot,
		ext:      opts.ManifestExtension,
		platform: opts.Platform,
		log:      logger,
	}
}

// ScanAll rebuilds the resource index from every manifest source. On
// success the index is replaced wholesale; on any failure it is left
// untouched and false is returned.
func (s *Scanner) ScanAll() bool {
	dest := make(map[string]Descriptor, max(s.index.Len(), 16))

	if !s.scanBundle(s.engineFS, "engine", dest) {
		return false
	}
	if !s.scanBundle(s.appFS, "application", dest) {
		return false
	}
	if !s.scanAssetsDir(dest) {
		return false
	}

	if err := s.index.Replace(dest); err != nil {
		s.log.Error("failed to apply scanned resource index",
			log.Err(err),
			log.Int("descriptors", len(dest)))
		return false
	}

	s.log.Info("resource scan complete", log.Int("descriptors", len(dest)))
	return true
}

// scanBundle merges every manifest found among the embedded resource names
// of one bundle.
func (s *Scanner) scanBundle(bundle fs.FS, name string, dest map[string]Descriptor) bool {
	if bundle == nil {
		return true
	}
	ok := true
	err := fs.WalkDir(bundle, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(path, s.ext) {
			return nil
		}
		f, err := bundle.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if !s.mergeManifest(f, path, LocationEmbeddedFile, dest) {
			ok = false
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		s.log.Error("embedded bundle scan failed",
			log.String("bundle", name),
			log.Err(err))
		return false
	}
	return ok
}

// scanAssetsDir merges every manifest found by recursive search under the
// assets root. A missing root is treated as an empty source, not a failure.
func (s *Scanner) scanAssetsDir(dest map[string]Descriptor) bool {
	if s.root == "" {
		return true
	}
	if _, err := os.Stat(s.root); os.IsNotExist(err) {
		s.log.Warn("assets root does not exist, skipping directory scan",
			log.String("root", s.root))
		return true
	}

	ok := true
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(path, s.ext) {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if !s.mergeManifest(f, path, LocationAssetFile, dest) {
			ok = false
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		s.log.Error("assets directory scan failed",
			log.String("root", s.root),
			log.Err(err))
		return false
	}
	return ok
}

// mergeManifest decodes one manifest stream and merges its descriptors into
// dest. Platform-restricted manifests are skipped silently. Duplicate keys
// keep the first writer and log a warning. A decode or validation failure
// fails the merge.
func (s *Scanner) mergeManifest(r io.Reader, path string, source Location, dest map[string]Descriptor) bool {
	m, err := DecodeManifest(r)
	if err != nil {
		s.log.Error("manifest rejected",
			log.String("manifest", path),
			log.Err(err))
		return false
	}

	if !s.platform.Allows(m.OSRestriction, m.GraphicsRestriction) {
		s.log.Debug("manifest skipped for platform",
			log.String("manifest", path),
			log.String("os", string(m.OSRestriction)),
			log.String("graphics", string(m.GraphicsRestriction)))
		return true
	}

	for i := range m.Resources {
		d := m.Resources[i].Descriptor(source)
		if _, exists := dest[d.Key]; exists {
			s.log.Warn("duplicate resource key ignored",
				log.String("key", d.Key),
				log.String("manifest", path))
			continue
		}
		dest[d.Key] = d
	}
	return true
}
