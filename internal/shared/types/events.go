package types

import "time"

// LaunchSource tells which shell produced a launch
type LaunchSource string

const (
	SourceDesktop LaunchSource = "desktop"
	SourceMobile  LaunchSource = "mobile"
)

// LaunchEvent is emitted whenever an application is launched or re-activated
type LaunchEvent struct {
	Source   LaunchSource   `json:"source"`
	App      string         `json:"app"`
	WindowID string         `json:"window_id,omitempty"`
	Path     string         `json:"path,omitempty"`
	Reused   bool           `json:"reused"`
	Metadata map[string]any `json:"metadata,omitempty"`
	At       time.Time      `json:"at"`
}

// WSMessage is the envelope for websocket traffic in both directions
type WSMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`

	Path   string `json:"path,omitempty"`
	Name   string `json:"name,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Page   *int   `json:"page,omitempty"`

	Percent    *float64 `json:"percent,omitempty"`
	Animate    *bool    `json:"animate,omitempty"`
	DurationMS int64    `json:"duration_ms,omitempty"`
	Easing     string   `json:"easing,omitempty"`
	Replace    bool     `json:"replace,omitempty"`
	TotalPages int      `json:"total_pages,omitempty"`
	Apps       []string `json:"apps,omitempty"`

	Event *LaunchEvent `json:"event,omitempty"`
}
