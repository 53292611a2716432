package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/entitymap/pkg/config"
	"github.com/matzehuels/entitymap/pkg/mindmap"
	"github.com/matzehuels/entitymap/pkg/model"
	"github.com/matzehuels/entitymap/pkg/store"
)

var fixture = model.Data{
	Types: []model.Type{
		{
			ID:   "person",
			Name: "Person",
			Attributes: []model.Attribute{
				{Name: "Role", Kind: model.KindText},
				{Name: "Salary", Kind: model.KindCurrency},
				{Name: "Manager", Kind: model.KindLink, LinkedTypeID: "person"},
			},
		},
		{
			ID:         "team",
			Name:       "Team",
			Attributes: []model.Attribute{{Name: "Lead", Kind: model.KindLink}},
		},
	},
	Entities: []model.Entity{
		{ID: "e1", Name: "Ada", TypeID: "person", Attributes: map[string]string{"Role": "CTO", "Salary": "1200"}},
		{ID: "e2", Name: "Bob", TypeID: "person", Attributes: map[string]string{"Manager": "e1"}},
		{ID: "e3", Name: "Core", TypeID: "team", Attributes: map[string]string{"Lead": "e1"}},
	},
}

// newTestCLI returns a CLI whose config, data and cache live in a temp dir,
// with the fixture written to the default file store.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.viewDir = filepath.Join(root, "views")
	c.In = strings.NewReader("")

	cfg, err := c.config()
	require.NoError(t, err)
	st, err := store.NewFileStore(cfg.Store.Path)
	require.NoError(t, err)
	require.NoError(t, st.Replace(context.Background(), fixture))
	return c
}

// captureUI redirects status lines for the rest of the test.
func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := c.RootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestViewKey(t *testing.T) {
	file := config.Store{Driver: config.DriverFile, Path: "/a/data.json"}
	other := config.Store{Driver: config.DriverFile, Path: "/b/data.json"}
	sqlite := config.Store{Driver: config.DriverSQLite, DSN: "/a/data.json"}

	assert.Equal(t, viewKey(file), viewKey(file))
	assert.NotEqual(t, viewKey(file), viewKey(other))
	assert.NotEqual(t, viewKey(file), viewKey(sqlite))
	assert.True(t, strings.HasPrefix(viewKey(sqlite), "sqlite-"))
	assert.Regexp(t, `^[A-Za-z0-9_.-]+$`, viewKey(file))
}

func TestStoreLocation(t *testing.T) {
	tests := []struct {
		store config.Store
		want  string
	}{
		{config.Store{Driver: config.DriverFile, Path: "data.json"}, "data.json"},
		{config.Store{Driver: config.DriverSQLite, DSN: "data.db"}, "data.db"},
		{config.Store{Driver: config.DriverMongo, URI: "mongodb://h", Database: "em"}, "mongodb://h/em"},
	}
	for _, tt := range tests {
		t.Run(tt.store.Driver, func(t *testing.T) {
			assert.Equal(t, tt.want, storeLocation(tt.store))
		})
	}
}

func TestViewport(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 1200.0, viewport(cfg, 0, 0).Width)
	assert.Equal(t, 640.0, viewport(cfg, 640, 0).Width)
	assert.Equal(t, 480.0, viewport(cfg, 0, 480).Height)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
}

func TestSavedFilterPrunesDeletedTypes(t *testing.T) {
	c := newTestCLI(t)
	captureUI(t)
	ctx := context.Background()
	cfg, err := c.config()
	require.NoError(t, err)

	require.NoError(t, c.saveFilter(ctx, cfg, mindmap.NewFilter("person", "gone")))
	f, err := c.savedFilter(ctx, cfg, fixture)
	require.NoError(t, err)
	assert.Equal(t, []string{"person"}, f.IDs())
}
