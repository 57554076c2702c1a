// Package server wires the shell components behind one HTTP server.
//
// Server Lifecycle:
//  1. Initialize logger and metrics
//  2. Load the tuning file and open the key-value store
//  3. Load the built-in app registry and seed manifests from disk
//  4. Fan launch events out to the log, stream clients and the webhook
//  5. Setup HTTP routes and middleware
//  6. Start HTTP server
//  7. Graceful shutdown on signal
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
