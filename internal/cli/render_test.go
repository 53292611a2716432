package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg,png", []string{"svg", "png"}},
		{"svg, png ,svg", []string{"svg", "png"}},
		{",", []string{"svg"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseFormats(tt.input))
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output string
		format string
		single bool
		want   string
	}{
		{"", "svg", true, "mindmap.svg"},
		{"out/map", "png", false, "out/map.png"},
		{"map.svg", "svg", true, "map.svg"},
		{"map.svg", "dot", false, "map.svg.dot"},
		{"map", "graphviz", false, "map.gv.svg"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, outputPath(tt.output, tt.format, tt.single))
		})
	}
}

func TestRenderWritesFormats(t *testing.T) {
	c := newTestCLI(t)
	ui := captureUI(t)
	base := filepath.Join(t.TempDir(), "out", "map")

	_, err := execute(t, c, "render", "-f", "svg,dot", "-o", base)
	require.NoError(t, err)

	svg, err := os.ReadFile(base + ".svg")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(svg, []byte("<svg")))
	dot, err := os.ReadFile(base + ".dot")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(dot, []byte("digraph")))

	assert.Contains(t, ui.String(), "Rendered 2 file(s)")
	assert.Contains(t, ui.String(), "3 nodes")
	assert.Contains(t, ui.String(), "fresh")

	ui.Reset()
	_, err = execute(t, c, "render", "-f", "svg,dot", "-o", base)
	require.NoError(t, err)
	assert.Contains(t, ui.String(), "cached")
}

func TestRenderNoCache(t *testing.T) {
	c := newTestCLI(t)
	ui := captureUI(t)
	out := filepath.Join(t.TempDir(), "map.svg")

	for range 2 {
		ui.Reset()
		_, err := execute(t, c, "render", "--no-cache", "-o", out)
		require.NoError(t, err)
		assert.Contains(t, ui.String(), "fresh")
	}
	assert.FileExists(t, out)
}

func TestRenderSaveFilter(t *testing.T) {
	c := newTestCLI(t)
	ui := captureUI(t)
	out := filepath.Join(t.TempDir(), "map.svg")

	_, err := execute(t, c, "render", "--types", "person", "--save-filter", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, ui.String(), "2 nodes")

	got, err := execute(t, c, "filter", "show")
	require.NoError(t, err)
	assert.Contains(t, got, "showing Person")

	// The saved filter applies when --types is not given.
	ui.Reset()
	_, err = execute(t, c, "render", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, ui.String(), "2 nodes")
}

func TestRenderFlagErrors(t *testing.T) {
	c := newTestCLI(t)
	captureUI(t)

	_, err := execute(t, c, "render", "-f", "gif")
	assert.Error(t, err)

	_, err = execute(t, c, "render", "--save-filter")
	assert.ErrorContains(t, err, "--save-filter needs --types")
}
