package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// spinnerOut receives spinner frames. Status lines go to stdout, so the
// animation stays on stderr.
var spinnerOut io.Writer = os.Stderr

const (
	spinnerFrames   = "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏"
	spinnerInterval = 80 * time.Millisecond
)

// spinner animates a one-line message until stopped or until its parent
// context ends.
type spinner struct {
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	exited  chan struct{}
}

func newSpinner(ctx context.Context, message string) *spinner {
	inner, cancel := context.WithCancel(ctx)
	return &spinner{
		message: message,
		parent:  ctx,
		ctx:     inner,
		cancel:  cancel,
		exited:  make(chan struct{}),
	}
}

func (s *spinner) start() {
	s.started = true
	go func() {
		defer close(s.exited)
		defer s.clear()

		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		frames := []rune(spinnerFrames)
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				frame := string(frames[i%len(frames)])
				fmt.Fprintf(spinnerOut, "\r%s %s", styleSpinner.Render(frame), styleDim.Render(s.message))
			}
		}
	}()
}

// stop ends the animation and waits for the line to be cleared. It is safe
// to call more than once, and before start.
func (s *spinner) stop() {
	s.cancel()
	if s.started {
		<-s.exited
	}
}

// interrupted reports whether the parent context ended the spinner.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}

func (s *spinner) clear() {
	fmt.Fprintf(spinnerOut, "\r%s\r", strings.Repeat(" ", len([]rune(s.message))+2))
}
