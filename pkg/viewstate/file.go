package viewstate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/matzehuels/entitymap/pkg/config"
)

// FileStore keeps one JSON file per key in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// NewFileStore creates a file-based view state store.
// If baseDir is empty, defaults to <config dir>/views.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get config dir: %w", err)
		}
		baseDir = filepath.Join(dir, "views")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create view state dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) statePath(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid view state key %q", key)
	}
	return filepath.Join(s.baseDir, key+".json"), nil
}

func (s *FileStore) Get(ctx context.Context, key string) (State, error) {
	path, err := s.statePath(key)
	if err != nil {
		return State{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read view state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parse view state: %w", err)
	}
	return st, nil
}

func (s *FileStore) Set(ctx context.Context, key string, st State) error {
	path, err := s.statePath(key)
	if err != nil {
		return err
	}
	st.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal view state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write view state: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	path, err := s.statePath(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove view state: %w", err)
	}
	return nil
}

// Path returns the base directory for view state files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
