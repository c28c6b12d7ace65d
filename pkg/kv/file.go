package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// File keeps all slots in one JSON object on disk. Reads take a shared
// file lock and writes an exclusive one, so a second process never sees a
// half-written file.
type File struct {
	Path string
	mu   sync.Mutex
	lock *flock.Flock
}

func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("file store needs a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &File{
		Path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.lock.RLock(); err != nil {
		return "", false, fmt.Errorf("failed to acquire shared lock on %s: %w", f.Path, err)
	}
	defer f.lock.Unlock()

	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set rewrites the file with key updated. An unreadable file is replaced.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire exclusive lock on %s: %w", f.Path, err)
	}
	defer f.lock.Unlock()

	values, err := f.read()
	if err != nil {
		values = make(map[string]string)
	}
	values[key] = value
	return f.write(values)
}

func (f *File) Close() error {
	return f.lock.Close()
}

func (f *File) read() (map[string]string, error) {
	values := make(map[string]string)

	file, err := os.Open(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode %s: %w", f.Path, err)
	}
	return values, nil
}

func (f *File) write(values map[string]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(values); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", f.Path, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}
