package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/matzehuels/entitymap/pkg/model"
)

// FileStore keeps the whole knowledge base in one pretty-printed JSON file.
// A missing file is created with [model.Default] on first load.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates a file store at path, creating its directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) (model.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) Replace(ctx context.Context, data model.Data) error {
	if err := data.Validate(); err != nil {
		return err
	}
	normalize(&data)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(data)
}

func (s *FileStore) CreateType(ctx context.Context, t model.Type) (model.Type, error) {
	t, err := prepareType(t)
	if err != nil {
		return t, err
	}
	t.ID = newID()
	return t, s.update(func(d *model.Data) error {
		d.Types = append(d.Types, t)
		return nil
	})
}

func (s *FileStore) UpdateType(ctx context.Context, id string, t model.Type) (model.Type, error) {
	t, err := prepareType(t)
	if err != nil {
		return t, err
	}
	t.ID = id
	return t, s.update(func(d *model.Data) error {
		i := slices.IndexFunc(d.Types, func(x model.Type) bool { return x.ID == id })
		if i < 0 {
			return typeNotFound(id)
		}
		d.Types[i] = t
		return nil
	})
}

func (s *FileStore) DeleteType(ctx context.Context, id string) error {
	return s.update(func(d *model.Data) error {
		n := len(d.Types)
		d.Types = slices.DeleteFunc(d.Types, func(x model.Type) bool { return x.ID == id })
		if len(d.Types) == n {
			return typeNotFound(id)
		}
		return nil
	})
}

func (s *FileStore) CreateEntity(ctx context.Context, e model.Entity) (model.Entity, error) {
	err := s.update(func(d *model.Data) error {
		var err error
		if e, err = prepareEntity(e, d.Type(e.TypeID)); err != nil {
			return err
		}
		e.ID = newID()
		d.Entities = append(d.Entities, e)
		return nil
	})
	return e, err
}

func (s *FileStore) UpdateEntity(ctx context.Context, id string, e model.Entity) (model.Entity, error) {
	e.ID = id
	err := s.update(func(d *model.Data) error {
		i := slices.IndexFunc(d.Entities, func(x model.Entity) bool { return x.ID == id })
		if i < 0 {
			return entityNotFound(id)
		}
		var err error
		if e, err = prepareEntity(e, d.Type(e.TypeID)); err != nil {
			return err
		}
		d.Entities[i] = e
		return nil
	})
	return e, err
}

func (s *FileStore) DeleteEntity(ctx context.Context, id string) error {
	return s.update(func(d *model.Data) error {
		n := len(d.Entities)
		d.Entities = slices.DeleteFunc(d.Entities, func(x model.Entity) bool { return x.ID == id })
		if len(d.Entities) == n {
			return entityNotFound(id)
		}
		return nil
	})
}

func (s *FileStore) Close() error { return nil }

// update applies fn to the current document and writes it back if fn
// succeeds.
func (s *FileStore) update(fn func(*model.Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(&d); err != nil {
		return err
	}
	return s.write(d)
}

func (s *FileStore) read() (model.Data, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			d := model.Default()
			return d, s.write(d)
		}
		return model.Data{}, fmt.Errorf("read data file: %w", err)
	}

	var d model.Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return model.Data{}, fmt.Errorf("parse data file: %w", err)
	}
	normalize(&d)
	return d, nil
}

// write replaces the file via a temp file and rename so readers never see a
// partial document.
func (s *FileStore) write(d model.Data) error {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".data-*.json")
	if err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
