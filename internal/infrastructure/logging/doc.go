// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components take a *zap.Logger and log under their own name:
//
//	logger, err := logging.New(logging.Config{Level: "debug"})
//	windows := window.NewManager(cfg).WithLogger(logger.Component("window"))
package logging
