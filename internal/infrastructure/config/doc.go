// Package config loads process configuration from the environment.
//
// Environment variables cover the server, logging, rate limiting, storage,
// the registry and launch notifications. Shell constants (window geometry,
// icon grid, paging thresholds) can be overridden from an optional TOML
// file named by SHELL_TUNING_FILE.
//
// Example Usage:
//
//	cfg, err := config.Load()
//	tuning, err := config.LoadTuning(cfg.Shell.TuningFile)
//	windows := window.NewManager(tuning.ApplyWindow(window.DefaultConfig()))
package config
