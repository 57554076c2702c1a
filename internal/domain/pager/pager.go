// Package pager implements the mobile home screen's paginated grid and the
// swipe gesture that moves between pages.
//
// The package has two layers. The pure functions (TotalPages, DampOffset,
// Decide, TrackOffset, SettleFor) hold all the arithmetic and never
// schedule anything. Navigator is the per-screen state machine that feeds
// gestures through them, coalesces live transforms into animation frames,
// and mirrors the page index into the route.
//
// Gesture states:
//
//	Idle --start--> Tracking
//	Tracking --move, |dx| > |dy| and |dx| > slop--> DraggingHorizontal
//	Tracking --move, |dy| >= |dx| and |dy| > slop--> VerticalIgnored
//	DraggingHorizontal --release--> Settling --settle elapsed--> Idle
//	any --close--> Closed
package pager

import (
	"time"

	"github.com/GriffinCanCode/DualShell/backend/internal/domain/frame"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/route"
	"github.com/samber/lo"
)

// Config holds the paging and gesture constants
type Config struct {
	PageSize      int
	Slop          int     // px before a gesture picks a direction
	RubberBand    float64 // damping past the first or last page
	CommitRatio   float64 // share of the viewport width needed to change page
	FlickVelocity float64 // px; faster releases use the reduced threshold
	FlickFactor   float64 // threshold multiplier for flicks
	ReducedMotion bool
	FrameInterval time.Duration
}

// DefaultConfig returns the stock home screen behaviour
func DefaultConfig() Config {
	return Config{
		PageSize:      6,
		Slop:          5,
		RubberBand:    0.25,
		CommitRatio:   0.25,
		FlickVelocity: 100,
		FlickFactor:   0.6,
		FrameInterval: frame.Interval,
	}
}

// TotalPages returns ceil(count / pageSize)
func TotalPages(count, pageSize int) int {
	if count <= 0 {
		return 0
	}
	pageSize = max(1, pageSize)
	return (count + pageSize - 1) / pageSize
}

// ClampPage bounds index to [0, total-1]
func ClampPage(index, total int) int {
	return route.ClampIndex(index, total)
}

// PageSlice returns the items shown on page
func PageSlice[T any](items []T, page, pageSize int) []T {
	pageSize = max(1, pageSize)
	if page < 0 {
		return []T{}
	}
	return lo.Subset(items, page*pageSize, uint(pageSize))
}

// DampOffset applies the rubber band to a drag that pulls past the first
// page (offset > 0 on page 0) or the last page (offset < 0 on the last)
func DampOffset(offset float64, page, total int, factor float64) float64 {
	if (page == 0 && offset > 0) || (page == total-1 && offset < 0) {
		return offset * factor
	}
	return offset
}

// CommitThreshold returns the release distance needed to change page
func (c Config) CommitThreshold(width int, velocity float64) float64 {
	threshold := float64(width) * c.CommitRatio
	if velocity > c.FlickVelocity {
		threshold *= c.FlickFactor
	}
	return threshold
}

// Decide returns the page a release settles on. distance is start x minus
// end x, so positive values mean the finger moved left; velocity is the
// release speed in px and picks the flick threshold.
func (c Config) Decide(distance, velocity float64, page, total, width int) int {
	threshold := c.CommitThreshold(width, velocity)
	switch {
	case distance > threshold && page < total-1:
		return page + 1
	case distance < -threshold && page > 0:
		return page - 1
	default:
		return page
	}
}

// TrackOffset returns the strip translation in percent of the viewport for
// a page plus a live pixel offset
func TrackOffset(page int, offset float64, width int) float64 {
	percent := -float64(page) * 100
	if width > 0 {
		percent += offset / float64(width) * 100
	}
	return percent
}
