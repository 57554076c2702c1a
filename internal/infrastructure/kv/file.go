package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// File is a Store persisted as a single JSON object on disk. Every write
// rewrites the document through a temp file and rename, so readers never
// observe a partial file. Paths ending in ".zst" are zstd-compressed.
type File struct {
	mu       sync.RWMutex
	path     string
	compress bool
	data     map[string]json.RawMessage
	logger   *zap.Logger
}

// OpenFile loads the store at path. A missing file starts empty; a corrupt
// one is logged and also starts empty rather than failing the shell.
func OpenFile(path string, logger *zap.Logger) (*File, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f := &File{
		path:     path,
		compress: strings.HasSuffix(path, ".zst"),
		data:     make(map[string]json.RawMessage),
		logger:   logger,
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store %s: %w", path, err)
	}

	if err := f.decode(raw); err != nil {
		logger.Warn("Discarding malformed store",
			zap.String("path", path),
			zap.Error(err),
		)
		f.data = make(map[string]json.RawMessage)
	}

	return f, nil
}

func (f *File) decode(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	if f.compress {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return err
		}
		defer dec.Close()
		if raw, err = dec.DecodeAll(raw, nil); err != nil {
			return fmt.Errorf("zstd: %w", err)
		}
	}
	return sonic.Unmarshal(raw, &f.data)
}

func (f *File) encode() ([]byte, error) {
	raw, err := sonic.Marshal(f.data)
	if err != nil {
		return nil, err
	}
	if !f.compress {
		return raw, nil
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

// flush writes the document; caller holds the write lock
func (f *File) flush() error {
	raw, err := f.encode()
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *File) Get(key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores value, which must be a JSON document
func (f *File) Set(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.data[key]
	f.data[key] = append(json.RawMessage(nil), value...)
	if err := f.flush(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.data[key]
	if !had {
		return nil
	}
	delete(f.data, key)
	if err := f.flush(); err != nil {
		f.data[key] = prev
		return err
	}
	return nil
}

func (f *File) Keys() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Path returns the backing file path
func (f *File) Path() string {
	return f.path
}
