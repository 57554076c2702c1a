// Package icons lays out desktop icons on a grid and remembers where the
// user dropped them.
//
// Unsaved icons take a deterministic grid slot derived from their registry
// index and the viewport width. Saved placements are keyed by app id, so
// reordering the registry never remaps a placement.
package icons

import (
	"fmt"
	"sync"

	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/kv"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	// Namespace is the engine's slice of the shared store
	Namespace = "icons"
	// StorageKey holds the placement list inside Namespace
	StorageKey = "icon-positions"
)

// Config sets the grid geometry
type Config struct {
	CellWidth  int
	CellHeight int
	Padding    int
}

// DefaultConfig returns 100x100 cells with 20px padding
func DefaultConfig() Config {
	return Config{CellWidth: 100, CellHeight: 100, Padding: 20}
}

// Placement is a saved icon position
type Placement struct {
	ID       string      `json:"id"`
	Position types.Point `json:"position"`
}

// Engine computes and persists icon positions
type Engine struct {
	mu         sync.RWMutex
	cfg        Config
	store      kv.Store
	placements []Placement // Protected by mu
	logger     *zap.Logger
	metrics    *monitoring.Metrics
}

// NewEngine loads saved placements from store. Malformed data is logged and
// treated as no placements.
func NewEngine(store kv.Store, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CellWidth <= 0 || cfg.CellHeight <= 0 {
		cfg = DefaultConfig()
	}

	e := &Engine{
		cfg:    cfg,
		store:  kv.Namespace(store, Namespace),
		logger: logger,
	}

	placements, err := kv.TryLoad(e.store, StorageKey, []Placement{})
	if err != nil {
		logger.Warn("Ignoring saved icon positions", zap.Error(err))
	}
	e.placements = placements
	return e
}

// WithMetrics adds metrics tracking to the engine
func (e *Engine) WithMetrics(metrics *monitoring.Metrics) *Engine {
	e.metrics = metrics
	return e
}

// IconsPerRow returns how many cells fit across width, never less than one
func (c Config) IconsPerRow(width int) int {
	return max(1, (width-2*c.Padding)/c.CellWidth)
}

// Slot returns the default grid position for a registry index
func (c Config) Slot(index, width int) types.Point {
	perRow := c.IconsPerRow(width)
	row, col := index/perRow, index%perRow
	return types.Point{
		X: c.Padding + col*c.CellWidth,
		Y: c.Padding + row*c.CellHeight,
	}
}

// PositionFor returns the saved position of id, or its default grid slot
func (e *Engine) PositionFor(appID string, index int, viewport types.Viewport) types.Point {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if p, ok := lo.Find(e.placements, func(p Placement) bool { return p.ID == appID }); ok {
		return p.Position
	}
	return e.cfg.Slot(index, viewport.Width)
}

// Layout positions every id in registry order
func (e *Engine) Layout(appIDs []string, viewport types.Viewport) []Placement {
	return lo.Map(appIDs, func(appID string, index int) Placement {
		return Placement{ID: appID, Position: e.PositionFor(appID, index, viewport)}
	})
}

// RecordDrop saves where an icon was dropped, replacing any earlier placement
func (e *Engine) RecordDrop(appID string, position types.Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := append([]Placement(nil), e.placements...)
	if _, i, ok := lo.FindIndexOf(next, func(p Placement) bool { return p.ID == appID }); ok {
		next[i].Position = position
	} else {
		next = append(next, Placement{ID: appID, Position: position})
	}
	return e.commit(next)
}

// Forget drops the saved placement of id
func (e *Engine) Forget(appID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := lo.Reject(e.placements, func(p Placement, _ int) bool { return p.ID == appID })
	if len(next) == len(e.placements) {
		return nil
	}
	return e.commit(next)
}

// Reset clears every saved placement
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Remove(StorageKey); err != nil {
		e.recordWrite(err)
		return fmt.Errorf("failed to reset icon positions: %w", err)
	}
	e.recordWrite(nil)
	e.placements = []Placement{}
	return nil
}

// Saved returns a copy of the saved placements
func (e *Engine) Saved() []Placement {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return append([]Placement{}, e.placements...)
}

// commit persists next and adopts it on success (must hold lock)
func (e *Engine) commit(next []Placement) error {
	err := kv.Save(e.store, StorageKey, next)
	e.recordWrite(err)
	if err != nil {
		e.logger.Error("Failed to persist icon positions", zap.Error(err))
		return err
	}
	e.placements = next
	return nil
}

func (e *Engine) recordWrite(err error) {
	if e.metrics != nil {
		e.metrics.RecordStoreWrite(Namespace, err)
	}
}
