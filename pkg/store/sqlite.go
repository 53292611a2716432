package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/entitymap/pkg/errors"
	"github.com/matzehuels/entitymap/pkg/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS types (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	doc JSON NOT NULL
);
CREATE TABLE IF NOT EXISTS entities (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	type_id TEXT NOT NULL,
	doc JSON NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(type_id);
`

// SQLiteStore keeps types and entities as JSON rows in a SQLite database.
// Rows carry a position column so Load preserves creation order.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at dsn. An empty database is
// seeded with [model.Default].
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite store: empty dsn")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// A single connection serializes writers; SQLite allows one anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM types").Scan(&n); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("count types: %w", err)
	}
	if n == 0 {
		if err := s.Replace(ctx, model.Default()); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (model.Data, error) {
	var d model.Data
	if err := queryDocs(ctx, s.db, "SELECT doc FROM types ORDER BY position", &d.Types); err != nil {
		return d, fmt.Errorf("load types: %w", err)
	}
	if err := queryDocs(ctx, s.db, "SELECT doc FROM entities ORDER BY position", &d.Entities); err != nil {
		return d, fmt.Errorf("load entities: %w", err)
	}
	normalize(&d)
	return d, nil
}

func queryDocs[T any](ctx context.Context, db *sql.DB, query string, out *[]T) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode row: %w", err)
		}
		*out = append(*out, v)
	}
	return rows.Err()
}

func (s *SQLiteStore) Replace(ctx context.Context, data model.Data) error {
	if err := data.Validate(); err != nil {
		return err
	}
	normalize(&data)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM types; DELETE FROM entities;"); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	for i, t := range data.Types {
		doc, err := json.Marshal(t)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO types (id, position, doc) VALUES (?, ?, ?)", t.ID, i, string(doc)); err != nil {
			return fmt.Errorf("insert type %s: %w", t.ID, err)
		}
	}
	for i, e := range data.Entities {
		doc, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO entities (id, position, type_id, doc) VALUES (?, ?, ?, ?)", e.ID, i, e.TypeID, string(doc)); err != nil {
			return fmt.Errorf("insert entity %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) CreateType(ctx context.Context, t model.Type) (model.Type, error) {
	t, err := prepareType(t)
	if err != nil {
		return t, err
	}
	t.ID = newID()
	doc, err := json.Marshal(t)
	if err != nil {
		return t, err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO types (id, position, doc) VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM types), ?)",
		t.ID, string(doc))
	if err != nil {
		return t, errors.Wrap(errors.ErrCodeStore, err, "insert type")
	}
	return t, nil
}

func (s *SQLiteStore) UpdateType(ctx context.Context, id string, t model.Type) (model.Type, error) {
	t, err := prepareType(t)
	if err != nil {
		return t, err
	}
	t.ID = id
	doc, err := json.Marshal(t)
	if err != nil {
		return t, err
	}
	res, err := s.db.ExecContext(ctx, "UPDATE types SET doc = ? WHERE id = ?", string(doc), id)
	if err := affected(res, err, "update type"); err != nil {
		return t, err
	}
	if !found(res) {
		return t, typeNotFound(id)
	}
	return t, nil
}

func (s *SQLiteStore) DeleteType(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM types WHERE id = ?", id)
	if err := affected(res, err, "delete type"); err != nil {
		return err
	}
	if !found(res) {
		return typeNotFound(id)
	}
	return nil
}

func (s *SQLiteStore) CreateEntity(ctx context.Context, e model.Entity) (model.Entity, error) {
	t, err := s.typeByID(ctx, e.TypeID)
	if err != nil {
		return e, err
	}
	if e, err = prepareEntity(e, t); err != nil {
		return e, err
	}
	e.ID = newID()
	doc, err := json.Marshal(e)
	if err != nil {
		return e, err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO entities (id, position, type_id, doc) VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM entities), ?, ?)",
		e.ID, e.TypeID, string(doc))
	if err != nil {
		return e, errors.Wrap(errors.ErrCodeStore, err, "insert entity")
	}
	return e, nil
}

func (s *SQLiteStore) UpdateEntity(ctx context.Context, id string, e model.Entity) (model.Entity, error) {
	e.ID = id
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entities WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return e, errors.Wrap(errors.ErrCodeStore, err, "lookup entity")
	}
	if exists == 0 {
		return e, entityNotFound(id)
	}
	t, err := s.typeByID(ctx, e.TypeID)
	if err != nil {
		return e, err
	}
	if e, err = prepareEntity(e, t); err != nil {
		return e, err
	}
	doc, err := json.Marshal(e)
	if err != nil {
		return e, err
	}
	res, err := s.db.ExecContext(ctx, "UPDATE entities SET type_id = ?, doc = ? WHERE id = ?", e.TypeID, string(doc), id)
	if err := affected(res, err, "update entity"); err != nil {
		return e, err
	}
	return e, nil
}

func (s *SQLiteStore) DeleteEntity(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM entities WHERE id = ?", id)
	if err := affected(res, err, "delete entity"); err != nil {
		return err
	}
	if !found(res) {
		return entityNotFound(id)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// typeByID returns nil without error when the type does not exist so that
// entity validation reports the missing type.
func (s *SQLiteStore) typeByID(ctx context.Context, id string) (*model.Type, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, "SELECT doc FROM types WHERE id = ?", id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "lookup type")
	}
	var t model.Type
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode type %s: %w", id, err)
	}
	return &t, nil
}

func affected(res sql.Result, err error, op string) error {
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "%s", op)
	}
	return nil
}

func found(res sql.Result) bool {
	n, err := res.RowsAffected()
	return err == nil && n > 0
}

var _ Store = (*SQLiteStore)(nil)
