// Package kv provides the persistent key-value store used by the shell.
//
// Values are JSON documents keyed by string. Components never share keys:
// each one wraps the store with Namespace and only sees its own prefix.
//
// Backends:
//   - Memory: process-local map, used in tests and when no path is configured
//   - File: one JSON document on disk, optionally zstd-compressed
//
// Example Usage:
//
//	store, err := kv.OpenFile("/var/lib/shell/state.json.zst", logger)
//	icons := kv.Namespace(store, "icons")
//	positions := kv.Load(icons, "icon-positions", []IconPosition{})
package kv

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// ErrNotFound is returned by Get when a key has no value
var ErrNotFound = errors.New("kv: key not found")

// Store is a synchronous string-keyed store of JSON values
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
	Keys() ([]string, error)
}

// Load decodes the value under key into a T. Missing keys, read failures and
// malformed documents all yield def.
func Load[T any](s Store, key string, def T) T {
	v, _ := TryLoad(s, key, def)
	return v
}

// TryLoad is Load that also reports why def was returned. A missing key is
// not an error.
func TryLoad[T any](s Store, key string, def T) (T, error) {
	data, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to read %q: %w", key, err)
	}

	var v T
	if err := sonic.Unmarshal(data, &v); err != nil {
		return def, fmt.Errorf("malformed value for %q: %w", key, err)
	}
	return v, nil
}

// Save encodes v as JSON and stores it under key
func Save[T any](s Store, key string, v T) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	if err := s.Set(key, data); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}
