package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/entitymap/pkg/observability"
)

func TestServeStopsOnCancel(t *testing.T) {
	c := newTestCLI(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, c.runServe(ctx, serveOpts{addr: "127.0.0.1:0", noCache: true}))

	_, isNoop := observability.Store().(observability.NoopStoreHooks)
	assert.True(t, isNoop, "hooks are reset after serve returns")
}
