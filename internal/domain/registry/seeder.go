package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// ManifestPattern selects seedable manifests anywhere below the apps dir
const ManifestPattern = "**/*.app.yaml"

// Seeder loads extra app manifests from disk
type Seeder struct {
	registry *Registry
	appsDir  string
	fsys     fs.FS
	logger   *zap.Logger
}

// NewSeeder creates a seeder over appsDir
func NewSeeder(registry *Registry, appsDir string, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	var fsys fs.FS
	if appsDir != "" {
		fsys = os.DirFS(appsDir)
	}
	return &Seeder{registry: registry, appsDir: appsDir, fsys: fsys, logger: logger}
}

// WithFS seeds from fsys instead of the apps directory
func (s *Seeder) WithFS(fsys fs.FS) *Seeder {
	s.fsys = fsys
	return s
}

// Seed merges every manifest matching ManifestPattern. A bad manifest is
// logged and skipped; the returned count covers manifests merged.
func (s *Seeder) Seed() (int, error) {
	if s.fsys == nil {
		return 0, nil
	}

	matches, err := doublestar.Glob(s.fsys, ManifestPattern)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("Apps directory not found", zap.String("dir", s.appsDir))
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", s.appsDir, err)
	}

	var loaded, failed int
	for _, path := range matches {
		if err := s.load(path); err != nil {
			s.logger.Warn("Failed to load manifest", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}
		s.logger.Debug("Loaded manifest", zap.String("path", path))
		loaded++
	}

	s.logger.Info("Seeding complete",
		zap.Int("loaded", loaded),
		zap.Int("failed", failed),
		zap.Int("apps", s.registry.Len()),
	)
	return loaded, nil
}

func (s *Seeder) load(path string) error {
	data, err := fs.ReadFile(s.fsys, path)
	if err != nil {
		return err
	}
	m, err := Parse(data)
	if err != nil {
		return err
	}
	return s.registry.Merge(m)
}
