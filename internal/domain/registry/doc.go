// Package registry provides the static catalogue of shell applications.
//
// The catalogue ships as an embedded YAML manifest listing every app and
// the three views built from it: desktop icons, home screen grid, dock.
// Views reference apps by id, and ids are app names, never positions, so
// reordering a view never remaps state saved against an id.
//
// Components:
//   - Registry: thread-safe lookup over the merged manifests
//   - Seeder: loads extra *.app.yaml manifests from a directory tree
//
// Example Usage:
//
//	reg, err := registry.Load(logger)
//	n, err := registry.NewSeeder(reg, appsDir, logger).Seed()
//	app, ok := reg.Resolve("notes")
//	page := pager.PageSlice(reg.Home(), 0, 6)
package registry
