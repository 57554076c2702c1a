// Package prefs holds the shell preferences shared by both shells.
//
// Each preference is stored under its own key in the "prefs" namespace.
// A missing or invalid stored value reads as the default.
package prefs

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/kv"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// Namespace is the store prefix owned by this package
const Namespace = "prefs"

// MobileBreakpoint is the viewport width below which auto picks mobile
const MobileBreakpoint = 768

type OS string

const (
	OSWindows OS = "windows"
	OSAndroid OS = "android"
	OSAuto    OS = "auto"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Performance string

const (
	PerformanceLow  Performance = "low"
	PerformanceHigh Performance = "high"
)

// Storage keys
const (
	keyOS          = "os-preference"
	keyTheme       = "theme-preference"
	keyWallpaper   = "wallpaper"
	keyAccent      = "accent-color"
	keyPerformance = "performance-mode"
	keyWidgets     = "show-widgets"
)

// Prefs is the full preference set
type Prefs struct {
	OS          OS          `json:"os"`
	Theme       Theme       `json:"theme"`
	Performance Performance `json:"performance"`
	Wallpaper   string      `json:"wallpaper"`
	Accent      string      `json:"accent"`
	ShowWidgets bool        `json:"showWidgets"`
}

// Defaults returns the preferences of a fresh install
func Defaults() Prefs {
	return Prefs{
		OS:          OSAuto,
		Theme:       ThemeDark,
		Performance: PerformanceLow,
		Wallpaper:   "gradient-1",
		Accent:      "345 85% 35%",
		ShowWidgets: false,
	}
}

// ReducedMotion reports whether animations should use the short settle
func (p Prefs) ReducedMotion() bool {
	return p.Performance == PerformanceLow
}

// ShouldUseMobile resolves which shell to show
func ShouldUseMobile(os OS, isMobileViewport bool) bool {
	switch os {
	case OSAndroid:
		return true
	case OSWindows:
		return false
	default:
		return isMobileViewport
	}
}

// IsMobileViewport reports whether a viewport width counts as mobile
func IsMobileViewport(width int) bool {
	return width > 0 && width < MobileBreakpoint
}

// Patch is a partial update; nil fields are left alone
type Patch struct {
	OS          *OS          `json:"os,omitempty"`
	Theme       *Theme       `json:"theme,omitempty"`
	Performance *Performance `json:"performance,omitempty"`
	Wallpaper   *string      `json:"wallpaper,omitempty"`
	Accent      *string      `json:"accent,omitempty"`
	ShowWidgets *bool        `json:"showWidgets,omitempty"`
}

// Validate rejects values outside the allowed sets
func (p Patch) Validate() error {
	if p.OS != nil && !slices.Contains([]OS{OSWindows, OSAndroid, OSAuto}, *p.OS) {
		return fmt.Errorf("invalid os %q", *p.OS)
	}
	if p.Theme != nil && !slices.Contains([]Theme{ThemeLight, ThemeDark}, *p.Theme) {
		return fmt.Errorf("invalid theme %q", *p.Theme)
	}
	if p.Performance != nil && !slices.Contains([]Performance{PerformanceLow, PerformanceHigh}, *p.Performance) {
		return fmt.Errorf("invalid performance mode %q", *p.Performance)
	}
	if p.Wallpaper != nil && strings.TrimSpace(*p.Wallpaper) == "" {
		return fmt.Errorf("wallpaper cannot be empty")
	}
	if p.Accent != nil && strings.TrimSpace(*p.Accent) == "" {
		return fmt.Errorf("accent cannot be empty")
	}
	return nil
}

// Service reads and writes preferences
type Service struct {
	mu      sync.Mutex
	store   kv.Store
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewService creates a preference service on its own store namespace
func NewService(store kv.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  kv.Namespace(store, Namespace),
		logger: logger,
	}
}

// WithMetrics adds metrics tracking to the service
func (s *Service) WithMetrics(metrics *monitoring.Metrics) *Service {
	s.metrics = metrics
	return s
}

// Get returns the stored preferences, field by field falling back to defaults
func (s *Service) Get() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load reads every key (must hold lock)
func (s *Service) load() Prefs {
	def := Defaults()
	p := Prefs{
		OS:          loadOneOf(s.store, keyOS, def.OS, OSWindows, OSAndroid, OSAuto),
		Theme:       loadOneOf(s.store, keyTheme, def.Theme, ThemeLight, ThemeDark),
		Performance: loadOneOf(s.store, keyPerformance, def.Performance, PerformanceLow, PerformanceHigh),
		Wallpaper:   kv.Load(s.store, keyWallpaper, def.Wallpaper),
		Accent:      kv.Load(s.store, keyAccent, def.Accent),
		ShowWidgets: kv.Load(s.store, keyWidgets, def.ShowWidgets),
	}
	if strings.TrimSpace(p.Wallpaper) == "" {
		p.Wallpaper = def.Wallpaper
	}
	if strings.TrimSpace(p.Accent) == "" {
		p.Accent = def.Accent
	}
	return p
}

// Update validates and applies a patch, returning the resulting preferences.
// Nothing is written when validation fails.
func (s *Service) Update(patch Patch) (Prefs, error) {
	if err := patch.Validate(); err != nil {
		return Prefs{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	writes := []struct {
		key   string
		value any
		set   bool
	}{
		{keyOS, deref(patch.OS), patch.OS != nil},
		{keyTheme, deref(patch.Theme), patch.Theme != nil},
		{keyPerformance, deref(patch.Performance), patch.Performance != nil},
		{keyWallpaper, deref(patch.Wallpaper), patch.Wallpaper != nil},
		{keyAccent, deref(patch.Accent), patch.Accent != nil},
		{keyWidgets, deref(patch.ShowWidgets), patch.ShowWidgets != nil},
	}
	for _, w := range writes {
		if !w.set {
			continue
		}
		err := kv.Save(s.store, w.key, w.value)
		if s.metrics != nil {
			s.metrics.RecordStoreWrite(Namespace, err)
		}
		if err != nil {
			s.logger.Error("Failed to save preference", zap.String("key", w.key), zap.Error(err))
			return s.load(), err
		}
	}
	return s.load(), nil
}

// Reset removes every stored preference
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.store.Keys()
	if err != nil {
		return fmt.Errorf("failed to list preferences: %w", err)
	}
	for _, key := range keys {
		if err := s.store.Remove(key); err != nil {
			return fmt.Errorf("failed to remove %q: %w", key, err)
		}
	}
	return nil
}

func loadOneOf[T ~string](store kv.Store, key string, def T, allowed ...T) T {
	v := kv.Load(store, key, def)
	if !slices.Contains(allowed, v) {
		return def
	}
	return v
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
