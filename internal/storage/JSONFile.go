package storage

import (
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"mafiabot/internal/providers"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// JSONFile is a whole-file JSON snapshot of T. Every mutation reads the whole
// file, computes a new value and rewrites the whole file; writers of the same
// store are serialised.
type JSONFile[T any] struct {
	path    string
	name    string
	mu      sync.Mutex
	metrics providers.MetricsProviderInterface
}

func NewJSONFile[T any](path string, metrics providers.MetricsProviderInterface) *JSONFile[T] {
	return &JSONFile[T]{
		path:    path,
		name:    filepath.Base(path),
		metrics: metrics,
	}
}

func (f *JSONFile[T]) Path() string {
	return f.path
}

func (f *JSONFile[T]) Load() (T, error) {
	var value T

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return value, &StorageMissingError{Path: f.path, Err: err}
		}
		return value, fmt.Errorf("read store %s: %w", f.path, err)
	}

	if err := json.Unmarshal(data, &value); err != nil {
		return value, &StorageCorruptError{Path: f.path, Err: err}
	}
	return value, nil
}

func (f *JSONFile[T]) Save(value T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(value)
}

// Update applies fn to the current content and persists the result. The old
// file stays in place until the new content is fully written.
func (f *JSONFile[T]) Update(fn func(T) (T, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.Load()
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	return f.save(next)
}

// EnsureExists writes def when the file is absent.
func (f *JSONFile[T]) EnsureExists(def T) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := os.Stat(f.path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, err
		}
	}
	return true, f.save(def)
}

func (f *JSONFile[T]) save(value T) error {
	start := time.Now()
	defer func() {
		f.metrics.ObserveStoreWrite(f.name, time.Since(start))
	}()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return writeFileAtomic(f.path, data)
}

func writeFileAtomic(fileName string, data []byte) error {
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}
