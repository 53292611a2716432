// Package store persists the knowledge base.
//
// Every backend implements [Store] with the same semantics:
//
//   - Create assigns a fresh UUID, ignoring any id in the input.
//   - Update replaces the whole record; the id comes from the argument.
//   - Update and Delete of an unknown id return a NOT_FOUND coded error
//     ([errors.ErrCodeTypeNotFound] or [errors.ErrCodeEntityNotFound]).
//   - Entities are validated against their type before they are written.
//   - Deleting a type leaves its entities in place; they are skipped when
//     the mindmap is built.
//   - Load returns types and entities in creation order.
//
// Backends: [FileStore] (one JSON document), [SQLiteStore] (modernc.org
// pure-Go SQLite) and [MongoStore].
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/entitymap/pkg/config"
	"github.com/matzehuels/entitymap/pkg/errors"
	"github.com/matzehuels/entitymap/pkg/model"
	"github.com/matzehuels/entitymap/pkg/observability"
)

// Store is the persistence interface shared by all backends.
type Store interface {
	Load(ctx context.Context) (model.Data, error)
	// Replace swaps the whole document.
	Replace(ctx context.Context, data model.Data) error

	CreateType(ctx context.Context, t model.Type) (model.Type, error)
	UpdateType(ctx context.Context, id string, t model.Type) (model.Type, error)
	DeleteType(ctx context.Context, id string) error

	CreateEntity(ctx context.Context, e model.Entity) (model.Entity, error)
	UpdateEntity(ctx context.Context, id string, e model.Entity) (model.Entity, error)
	DeleteEntity(ctx context.Context, id string) error

	Close() error
}

// Open returns the backend selected by cfg.Driver, instrumented with the
// registered store hooks.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case config.DriverFile, "":
		s, err = NewFileStore(cfg.Path)
	case config.DriverSQLite:
		s, err = OpenSQLite(ctx, cfg.DSN)
	case config.DriverMongo:
		s, err = OpenMongo(ctx, cfg.URI, cfg.Database)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, cfg.Driver), nil
}

func newID() string { return uuid.NewString() }

func typeNotFound(id string) error {
	return errors.New(errors.ErrCodeTypeNotFound, "type %q not found", id)
}

func entityNotFound(id string) error {
	return errors.New(errors.ErrCodeEntityNotFound, "entity %q not found", id)
}

// normalize replaces nil collections so the document always encodes with
// both arrays and every entity has an attribute map.
func normalize(d *model.Data) {
	if d.Types == nil {
		d.Types = []model.Type{}
	}
	if d.Entities == nil {
		d.Entities = []model.Entity{}
	}
	for i := range d.Types {
		if d.Types[i].Attributes == nil {
			d.Types[i].Attributes = []model.Attribute{}
		}
	}
	for i := range d.Entities {
		if d.Entities[i].Attributes == nil {
			d.Entities[i].Attributes = map[string]string{}
		}
	}
}

func prepareType(t model.Type) (model.Type, error) {
	if t.Attributes == nil {
		t.Attributes = []model.Attribute{}
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

func prepareEntity(e model.Entity, t *model.Type) (model.Entity, error) {
	if e.Attributes == nil {
		e.Attributes = map[string]string{}
	}
	if err := e.Validate(t); err != nil {
		return e, err
	}
	return e, nil
}

// =============================================================================
// Instrumentation
// =============================================================================

// Instrument wraps s so every call reports to the registered store hooks.
func Instrument(s Store, driver string) Store {
	return &instrumented{s: s, driver: driver}
}

type instrumented struct {
	s      Store
	driver string
}

func (i *instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, i.driver, op, time.Since(start), err)
}

func (i *instrumented) Load(ctx context.Context) (d model.Data, err error) {
	defer func(start time.Time) { i.observe(ctx, "load", start, err) }(time.Now())
	return i.s.Load(ctx)
}

func (i *instrumented) Replace(ctx context.Context, data model.Data) (err error) {
	defer func(start time.Time) { i.observe(ctx, "replace", start, err) }(time.Now())
	return i.s.Replace(ctx, data)
}

func (i *instrumented) CreateType(ctx context.Context, t model.Type) (out model.Type, err error) {
	defer func(start time.Time) { i.observe(ctx, "create_type", start, err) }(time.Now())
	return i.s.CreateType(ctx, t)
}

func (i *instrumented) UpdateType(ctx context.Context, id string, t model.Type) (out model.Type, err error) {
	defer func(start time.Time) { i.observe(ctx, "update_type", start, err) }(time.Now())
	return i.s.UpdateType(ctx, id, t)
}

func (i *instrumented) DeleteType(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { i.observe(ctx, "delete_type", start, err) }(time.Now())
	return i.s.DeleteType(ctx, id)
}

func (i *instrumented) CreateEntity(ctx context.Context, e model.Entity) (out model.Entity, err error) {
	defer func(start time.Time) { i.observe(ctx, "create_entity", start, err) }(time.Now())
	return i.s.CreateEntity(ctx, e)
}

func (i *instrumented) UpdateEntity(ctx context.Context, id string, e model.Entity) (out model.Entity, err error) {
	defer func(start time.Time) { i.observe(ctx, "update_entity", start, err) }(time.Now())
	return i.s.UpdateEntity(ctx, id, e)
}

func (i *instrumented) DeleteEntity(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { i.observe(ctx, "delete_entity", start, err) }(time.Now())
	return i.s.DeleteEntity(ctx, id)
}

func (i *instrumented) Close() error { return i.s.Close() }
