// Package tokenstore persists the admin client's credentials between runs.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Entry names.
const (
	AccessToken  = "access_token"
	RefreshToken = "refresh_token"
	UserData     = "user_data"
)

// Store is a small string key/value store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(keys ...string) error
}

// Clear removes all three credential entries.
func Clear(s Store) error {
	return s.Delete(AccessToken, RefreshToken, UserData)
}

/*─────────────────────────────────────────────────────────────────────────────*
| In-memory                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Memory keeps entries in process memory only.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (s *Memory) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *Memory) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *Memory) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.m, k)
	}
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| File-backed                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// File keeps entries in a JSON object on disk, readable only by the owner.
// Every write rewrites the whole file through a temp file and rename.
type File struct {
	mu   sync.Mutex
	path string
	m    map[string]string
}

// DefaultPath is <user config dir>/agriadminctl/session.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "agriadminctl", "session.json"), nil
}

// OpenFile loads path, treating a missing file as empty. A corrupt file
// is reported so the caller can decide whether to Reset it.
func OpenFile(path string) (*File, error) {
	s := &File{path: path, m: make(map[string]string)}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(b) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s.m); err != nil {
		return s, fmt.Errorf("decode %s: %w", path, err)
	}
	if s.m == nil {
		s.m = make(map[string]string)
	}
	return s, nil
}

// Path returns the backing file.
func (s *File) Path() string { return s.path }

func (s *File) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *File) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return s.flush()
}

func (s *File) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.m, k)
	}
	return s.flush()
}

// Reset empties the store and its file.
func (s *File) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string]string)
	return s.flush()
}

// flush must be called with mu held.
func (s *File) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(s.path), err)
	}
	b, err := json.MarshalIndent(s.m, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.json")
	if err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
