package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/entitymap/pkg/config"
	"github.com/matzehuels/entitymap/pkg/errors"
	"github.com/matzehuels/entitymap/pkg/model"
	"github.com/matzehuels/entitymap/pkg/observability"
)

// backends returns a fresh store per backend under test.
func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	b := map[string]func(t *testing.T) Store{
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "data.json"))
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "data.db"))
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
	if uri := os.Getenv("ENTITYMAP_TEST_MONGO_URI"); uri != "" {
		b["mongo"] = func(t *testing.T) Store {
			s, err := OpenMongo(context.Background(), uri, "entitymap_test")
			require.NoError(t, err)
			require.NoError(t, s.Replace(context.Background(), model.Default()))
			t.Cleanup(func() { s.Close() })
			return s
		}
	}
	return b
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, open(t))
		})
	}
}

var personType = model.Type{
	Name: "Person",
	Attributes: []model.Attribute{
		{Name: "Age", Kind: model.KindInteger},
		{Name: "Salary", Kind: model.KindCurrency},
		{Name: "Knows", Kind: model.KindLink},
	},
}

func TestLoadDefault(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		d, err := s.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, model.Default(), d)
	})
}

func TestTypeLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		in := personType
		in.ID = "ignored"
		created, err := s.CreateType(ctx, in)
		require.NoError(t, err)
		assert.NotEqual(t, "ignored", created.ID)
		assert.NotEmpty(t, created.ID)

		renamed := created
		renamed.Name = "Human"
		renamed.ID = "other"
		updated, err := s.UpdateType(ctx, created.ID, renamed)
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)

		d, err := s.Load(ctx)
		require.NoError(t, err)
		require.Len(t, d.Types, 2)
		assert.Equal(t, "t1", d.Types[0].ID)
		assert.Equal(t, "Human", d.Types[1].Name)
		assert.Len(t, d.Types[1].Attributes, 3)

		require.NoError(t, s.DeleteType(ctx, created.ID))
		d, err = s.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, d.Types, 1)
	})
}

func TestEntityLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		typ, err := s.CreateType(ctx, personType)
		require.NoError(t, err)

		ada, err := s.CreateEntity(ctx, model.Entity{
			Name:       "Ada",
			TypeID:     typ.ID,
			Attributes: map[string]string{"Age": "36", "Salary": "1200.50"},
		})
		require.NoError(t, err)
		bob, err := s.CreateEntity(ctx, model.Entity{
			Name:       "Bob",
			TypeID:     typ.ID,
			Attributes: map[string]string{"Knows": ada.ID},
		})
		require.NoError(t, err)

		bob.Attributes["Age"] = "40"
		_, err = s.UpdateEntity(ctx, bob.ID, bob)
		require.NoError(t, err)

		d, err := s.Load(ctx)
		require.NoError(t, err)
		require.Len(t, d.Entities, 2)
		assert.Equal(t, "Ada", d.Entities[0].Name)
		assert.Equal(t, "40", d.Entities[1].Value("Age"))
		assert.Equal(t, ada.ID, d.Entities[1].Value("Knows"))

		require.NoError(t, s.DeleteEntity(ctx, ada.ID))
		d, err = s.Load(ctx)
		require.NoError(t, err)
		require.Len(t, d.Entities, 1)
		assert.Equal(t, bob.ID, d.Entities[0].ID)
	})
}

func TestEntityValidation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		typ, err := s.CreateType(ctx, personType)
		require.NoError(t, err)

		tests := []struct {
			name   string
			entity model.Entity
			code   errors.Code
		}{
			{"blank name", model.Entity{Name: " ", TypeID: typ.ID}, errors.ErrCodeInvalidName},
			{"unknown type", model.Entity{Name: "x", TypeID: "missing"}, errors.ErrCodeTypeNotFound},
			{"bad integer", model.Entity{Name: "x", TypeID: typ.ID, Attributes: map[string]string{"Age": "3.5"}}, errors.ErrCodeInvalidAttribute},
			{"bad currency", model.Entity{Name: "x", TypeID: typ.ID, Attributes: map[string]string{"Salary": "lots"}}, errors.ErrCodeInvalidAttribute},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := s.CreateEntity(ctx, tt.entity)
				require.Error(t, err)
				assert.Equal(t, tt.code, errors.GetCode(err))
			})
		}

		d, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, d.Entities)
	})
}

func TestNotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, err := s.UpdateType(ctx, "nope", personType)
		assert.Equal(t, errors.ErrCodeTypeNotFound, errors.GetCode(err))
		assert.Equal(t, errors.ErrCodeTypeNotFound, errors.GetCode(s.DeleteType(ctx, "nope")))

		_, err = s.UpdateEntity(ctx, "nope", model.Entity{Name: "x", TypeID: "t1"})
		assert.Equal(t, errors.ErrCodeEntityNotFound, errors.GetCode(err))
		err = s.DeleteEntity(ctx, "nope")
		assert.Equal(t, errors.ErrCodeEntityNotFound, errors.GetCode(err))
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestReplace(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		doc := model.Data{
			Types: []model.Type{
				{ID: "b", Name: "Second", Attributes: []model.Attribute{}},
				{ID: "a", Name: "First", Attributes: []model.Attribute{}},
			},
			Entities: []model.Entity{
				{ID: "e2", Name: "Two", TypeID: "a", Attributes: map[string]string{}},
				{ID: "e1", Name: "One", TypeID: "b", Attributes: map[string]string{}},
			},
		}
		require.NoError(t, s.Replace(ctx, doc))

		got, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, doc, got)

		err = s.Replace(ctx, model.Data{Types: []model.Type{}})
		assert.Equal(t, errors.ErrCodeInvalidData, errors.GetCode(err))

		got, err = s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, doc, got, "failed replace must not touch stored data")
	})
}

func TestDeleteTypeKeepsEntities(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, err := s.CreateEntity(ctx, model.Entity{Name: "Orphan", TypeID: "t1"})
		require.NoError(t, err)
		require.NoError(t, s.DeleteType(ctx, "t1"))

		d, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, d.Types)
		assert.Len(t, d.Entities, 1)
	})
}

func TestFileStoreFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = s.Load(context.Background())
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"types\": [")
	assert.Contains(t, string(raw), `"entities": []`)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	s, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = s.Load(context.Background())
	assert.ErrorContains(t, err, "parse data file")
}

func TestFileStoreLegacyKinds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	legacy := `{"types":[{"id":"t","name":"Money","attributes":[{"name":"Amount","type":"Währung"}]}],"entities":[{"id":"e","name":"Rent","typeId":"t"}]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))
	s, err := NewFileStore(path)
	require.NoError(t, err)

	d, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.KindCurrency, d.Types[0].Attributes[0].Kind)
	assert.NotNil(t, d.Entities[0].Attributes)
}

func TestOpen(t *testing.T) {
	_, err := Open(context.Background(), config.Store{Driver: "bolt"})
	assert.ErrorContains(t, err, "unknown store driver")

	hooks := &opRecorder{}
	observability.SetStoreHooks(hooks)
	t.Cleanup(observability.Reset)

	s, err := Open(context.Background(), config.Store{
		Driver: config.DriverFile,
		Path:   filepath.Join(t.TempDir(), "data.json"),
	})
	require.NoError(t, err)
	_, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.Error(t, s.DeleteEntity(context.Background(), "nope"))

	assert.Equal(t, []string{"file/load/ok", "file/delete_entity/err"}, hooks.ops)
}

type opRecorder struct {
	observability.NoopStoreHooks
	ops []string
}

func (r *opRecorder) OnStoreOp(_ context.Context, driver, op string, _ time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "err"
	}
	r.ops = append(r.ops, driver+"/"+op+"/"+status)
}
