package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/GriffinCanCode/DualShell/backend/internal/domain/icons"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/pager"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/window"
	"github.com/pelletier/go-toml/v2"
)

// Tuning overrides shell constants from a TOML file. Unset keys keep the
// built-in values.
//
//	[window]
//	cascade = 24
//	min_width = 480
//
//	[pager]
//	page_size = 8
//	commit_ratio = 0.3
type Tuning struct {
	Window WindowTuning `toml:"window"`
	Icons  IconTuning   `toml:"icons"`
	Pager  PagerTuning  `toml:"pager"`
}

// WindowTuning overrides window geometry
type WindowTuning struct {
	OriginX   *int `toml:"origin_x"`
	OriginY   *int `toml:"origin_y"`
	Cascade   *int `toml:"cascade"`
	Width     *int `toml:"width"`
	Height    *int `toml:"height"`
	MinWidth  *int `toml:"min_width"`
	MinHeight *int `toml:"min_height"`
	BaseZ     *int `toml:"base_z"`
}

// IconTuning overrides the desktop grid
type IconTuning struct {
	CellWidth  *int `toml:"cell_width"`
	CellHeight *int `toml:"cell_height"`
	Padding    *int `toml:"padding"`
}

// PagerTuning overrides home screen paging
type PagerTuning struct {
	PageSize        *int     `toml:"page_size"`
	Slop            *int     `toml:"slop"`
	RubberBand      *float64 `toml:"rubber_band"`
	CommitRatio     *float64 `toml:"commit_ratio"`
	FlickVelocity   *float64 `toml:"flick_velocity"`
	FlickFactor     *float64 `toml:"flick_factor"`
	FrameIntervalMS *int     `toml:"frame_interval_ms"`
}

// LoadTuning reads a tuning file. An empty path or a missing file yields
// no overrides; unknown keys are an error.
func LoadTuning(path string) (Tuning, error) {
	if path == "" {
		return Tuning{}, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Tuning{}, nil
	}
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to open tuning file: %w", err)
	}
	defer f.Close()

	var t Tuning
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&t); err != nil {
		return Tuning{}, fmt.Errorf("failed to parse tuning file %s: %w", path, err)
	}
	if err := t.validate(); err != nil {
		return Tuning{}, fmt.Errorf("invalid tuning file %s: %w", path, err)
	}
	return t, nil
}

func (t Tuning) validate() error {
	positive := map[string]*int{
		"window.width":      t.Window.Width,
		"window.height":     t.Window.Height,
		"window.min_width":  t.Window.MinWidth,
		"window.min_height": t.Window.MinHeight,
		"icons.cell_width":  t.Icons.CellWidth,
		"icons.cell_height": t.Icons.CellHeight,
		"pager.page_size":   t.Pager.PageSize,
	}
	for key, v := range positive {
		if v != nil && *v <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	ratios := map[string]*float64{
		"pager.rubber_band":  t.Pager.RubberBand,
		"pager.commit_ratio": t.Pager.CommitRatio,
		"pager.flick_factor": t.Pager.FlickFactor,
	}
	for key, v := range ratios {
		if v != nil && (*v <= 0 || *v > 1) {
			return fmt.Errorf("%s must be in (0, 1]", key)
		}
	}
	return nil
}

// ApplyWindow returns c with the window overrides applied
func (t Tuning) ApplyWindow(c window.Config) window.Config {
	w := t.Window
	set(&c.Origin.X, w.OriginX)
	set(&c.Origin.Y, w.OriginY)
	set(&c.Cascade, w.Cascade)
	set(&c.DefaultSize.Width, w.Width)
	set(&c.DefaultSize.Height, w.Height)
	set(&c.MinSize.Width, w.MinWidth)
	set(&c.MinSize.Height, w.MinHeight)
	set(&c.BaseZ, w.BaseZ)
	return c
}

// ApplyIcons returns c with the icon grid overrides applied
func (t Tuning) ApplyIcons(c icons.Config) icons.Config {
	set(&c.CellWidth, t.Icons.CellWidth)
	set(&c.CellHeight, t.Icons.CellHeight)
	set(&c.Padding, t.Icons.Padding)
	return c
}

// ApplyPager returns c with the paging overrides applied
func (t Tuning) ApplyPager(c pager.Config) pager.Config {
	p := t.Pager
	set(&c.PageSize, p.PageSize)
	set(&c.Slop, p.Slop)
	set(&c.RubberBand, p.RubberBand)
	set(&c.CommitRatio, p.CommitRatio)
	set(&c.FlickVelocity, p.FlickVelocity)
	set(&c.FlickFactor, p.FlickFactor)
	if p.FrameIntervalMS != nil && *p.FrameIntervalMS > 0 {
		c.FrameInterval = time.Duration(*p.FrameIntervalMS) * time.Millisecond
	}
	return c
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
