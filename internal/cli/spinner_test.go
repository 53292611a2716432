package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func captureSpinner(t *testing.T) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	prev := spinnerOut
	spinnerOut = buf
	t.Cleanup(func() { spinnerOut = prev })
	return buf
}

func TestSpinnerAnimatesAndClears(t *testing.T) {
	out := captureSpinner(t)
	s := newSpinner(context.Background(), "Rendering...")
	s.start()
	time.Sleep(3 * spinnerInterval)
	s.stop()

	got := out.String()
	assert.Contains(t, got, "Rendering...")
	assert.True(t, strings.HasSuffix(got, "\r"), "line cleared after stop")
	assert.False(t, s.interrupted())
}

func TestSpinnerParentCancel(t *testing.T) {
	captureSpinner(t)
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "Rendering...")
	s.start()
	cancel()

	done := make(chan struct{})
	go func() {
		s.stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop did not return after parent cancel")
	}
	assert.True(t, s.interrupted())
}

func TestSpinnerStopTwiceAndUnstarted(t *testing.T) {
	captureSpinner(t)

	s := newSpinner(context.Background(), "x")
	s.stop()
	s.stop()

	s = newSpinner(context.Background(), "y")
	s.start()
	s.stop()
	s.stop()
	assert.False(t, s.interrupted())
}
