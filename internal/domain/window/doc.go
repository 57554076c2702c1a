// Package window provides the desktop shell's window session manager.
//
// A session is one open virtual application wrapped in a movable,
// resizable, stackable window. The manager owns every session; nothing else
// mutates them.
//
// Rules:
//   - At most one session per title; opening an open title re-activates it
//   - z-order comes from a manager-wide counter, so values never repeat
//   - Focusing the topmost window changes nothing
//   - Minimize keeps the session; only Close destroys it
//   - Maximize is a rendering override; geometry is kept for restore
//   - Unknown ids are silent no-ops (methods report false)
//
// Gestures:
//
// Drag and resize are computed from a snapshot taken at gesture start plus
// the total pointer delta, never from accumulated per-event deltas. Resize
// clamps to the minimum size at every update; west and north edges move the
// origin so the opposite edge stays put. Cancel restores the snapshot.
//
// Example Usage:
//
//	mgr := window.NewManager(window.DefaultConfig()).WithNotifier(hub)
//	s, _ := mgr.Open("Notes", nil)
//	mgr.BeginDrag(s.ID, types.Point{X: 150, Y: 110})
//	mgr.UpdateDrag(s.ID, types.Point{X: 190, Y: 140})
//	mgr.EndDrag(s.ID)
//
// Window sessions are ephemeral and never persisted.
package window
