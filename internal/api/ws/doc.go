// Package ws streams the mobile home screen over a WebSocket.
//
// Each connection owns a page navigator and a navigation history. Touch
// samples drive the navigator; page changes, strip transforms and route
// changes stream back. Launch events from every client are broadcast.
//
// Message Types (Client → Server):
//   - mount: Adopt a /pages/<n> path and viewport
//   - touch_start, touch_move, touch_end: Swipe samples
//   - touch_cancel: Abandon the swipe
//   - go_to: Jump to a page (page indicator tap)
//   - resize: Viewport changed
//   - route: Path changed outside the shell (browser back)
//   - open: Launch an app from the current page
//   - back: Leave the app for the page it came from
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - welcome: Connection accepted, carries the dock
//   - page: Current page, page count and the apps on it
//   - transform: Strip position, animated or live
//   - settle: Settle animation finished
//   - navigate: Route to display
//   - launched: Some client launched an app
//   - error: Request rejected
//
// Example Usage:
//
//	handler := ws.NewHandler(ws.Deps{Registry: reg, Launcher: launcher, Hub: hub})
//	router.GET("/home/stream", handler.HandleConnection)
package ws
