package registry

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/GriffinCanCode/DualShell/backend/internal/domain/route"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/monitoring"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

//go:embed apps.yaml
var builtin []byte

// App is one launchable application
type App struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Icon  string `yaml:"icon" json:"icon"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
	Route string `yaml:"route,omitempty" json:"route"`
}

// Manifest is the on-disk layout of a registry file
type Manifest struct {
	Apps    []App    `yaml:"apps"`
	Desktop []string `yaml:"desktop,omitempty"`
	Home    []string `yaml:"home,omitempty"`
	Dock    []string `yaml:"dock,omitempty"`
}

// Parse decodes and validates a manifest. Unknown fields are rejected.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.UnmarshalWithOptions(data, &m, yaml.Strict()); err != nil {
		return Manifest{}, fmt.Errorf("invalid manifest: %w", err)
	}

	seen := make(map[string]bool, len(m.Apps))
	for i := range m.Apps {
		app := &m.Apps[i]
		app.ID = strings.TrimSpace(app.ID)
		if app.ID == "" {
			return Manifest{}, fmt.Errorf("app %d has no id", i)
		}
		if seen[app.ID] {
			return Manifest{}, fmt.Errorf("duplicate app id %q", app.ID)
		}
		seen[app.ID] = true
		if app.Name == "" {
			app.Name = app.ID
		}
		if app.Route == "" {
			app.Route = route.AppPath(app.Name)
		}
	}
	return m, nil
}

// Registry holds the merged application catalogue
type Registry struct {
	mu      sync.RWMutex
	apps    map[string]App
	desktop []string
	home    []string
	dock    []string
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// New creates an empty registry
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		apps:   make(map[string]App),
		logger: logger,
	}
}

// Load creates a registry holding the built-in applications
func Load(logger *zap.Logger) (*Registry, error) {
	m, err := Parse(builtin)
	if err != nil {
		return nil, fmt.Errorf("built-in registry: %w", err)
	}
	r := New(logger)
	if err := r.Merge(m); err != nil {
		return nil, fmt.Errorf("built-in registry: %w", err)
	}
	return r, nil
}

// WithMetrics adds metrics tracking to the registry
func (r *Registry) WithMetrics(metrics *monitoring.Metrics) *Registry {
	r.metrics = metrics
	if metrics != nil {
		metrics.SetRegistryApps(r.Len())
	}
	return r
}

// Merge adds the manifest's apps, replacing any with the same id, and
// appends its view entries that are not already listed. View entries must
// name a known app.
func (r *Registry) Merge(m Manifest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	known := func(appID string) bool {
		_, ok := r.apps[appID]
		return ok || lo.ContainsBy(m.Apps, func(a App) bool { return a.ID == appID })
	}
	for _, view := range [][]string{m.Desktop, m.Home, m.Dock} {
		if missing, ok := lo.Find(view, func(appID string) bool { return !known(appID) }); ok {
			return fmt.Errorf("view references unknown app %q", missing)
		}
	}

	for _, app := range m.Apps {
		if _, exists := r.apps[app.ID]; exists {
			r.logger.Debug("Replacing registry entry", zap.String("id", app.ID))
		}
		r.apps[app.ID] = app
	}
	r.desktop = lo.Uniq(append(r.desktop, m.Desktop...))
	r.home = lo.Uniq(append(r.home, m.Home...))
	r.dock = lo.Uniq(append(r.dock, m.Dock...))

	if r.metrics != nil {
		r.metrics.SetRegistryApps(len(r.apps))
	}
	return nil
}

// Get returns the app with the exact id
func (r *Registry) Get(appID string) (App, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.apps[appID]
	return app, ok
}

// Resolve finds an app by id or name, ignoring case
func (r *Registry) Resolve(name string) (App, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if app, ok := r.apps[name]; ok {
		return app, true
	}
	ids := lo.Keys(r.apps)
	slices.Sort(ids)
	return lo.Find(r.view(ids), func(app App) bool {
		return strings.EqualFold(app.ID, name) || strings.EqualFold(app.Name, name)
	})
}

// All returns every app sorted by id
func (r *Registry) All() []App {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := lo.Keys(r.apps)
	slices.Sort(ids)
	return r.view(ids)
}

// Desktop returns the desktop icons in registry order
func (r *Registry) Desktop() []App {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view(r.desktop)
}

// Home returns the home screen grid in order
func (r *Registry) Home() []App {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view(r.home)
}

// Dock returns the dock apps in order
func (r *Registry) Dock() []App {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view(r.dock)
}

// Len returns the number of apps
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.apps)
}

// view maps ids to apps (must hold lock)
func (r *Registry) view(ids []string) []App {
	return lo.Map(ids, func(appID string, _ int) App { return r.apps[appID] })
}

// IDs returns the ids of apps
func IDs(apps []App) []string {
	return lo.Map(apps, func(app App, _ int) string { return app.ID })
}
