// Package types provides data structures shared across the shell backend.
//
// Geometry:
//   - Point: pixel coordinate (window origin, pointer sample)
//   - Size / Viewport: pixel dimensions
//   - Rect: positioned rectangle
//
// Events:
//   - LaunchEvent: an application was launched or re-activated
//   - WSMessage: websocket envelope used by the home-screen stream
//
// Example Usage:
//
//	r := types.RectOf(types.Point{X: 100, Y: 100}, types.Size{Width: 700, Height: 600})
package types
