package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// spinnerFrames turn a half-black, half-white disc.
var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

const spinnerInterval = 100 * time.Millisecond

var styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)

// spinner animates on w while a slow render runs. Only its own goroutine
// writes to w, so stop must return before anything else uses the line.
type spinner struct {
	w       io.Writer
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
}

// startSpinner starts animating message on w until stop is called or ctx
// ends.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	inner, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:       w,
		message: message,
		parent:  ctx,
		ctx:     inner,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		frame := spinnerFrames[i%len(spinnerFrames)]
		fmt.Fprintf(s.w, "\r%s %s", styleSpinner.Render(frame), StyleDim.Render(s.message))
		select {
		case <-s.ctx.Done():
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", lipgloss.Width(s.message)+2))
			return
		case <-ticker.C:
		}
	}
}

// stop ends the animation and clears its line. Calling it again is a no-op.
func (s *spinner) stop() {
	s.cancel()
	<-s.stopped
}

// interrupted reports whether the caller's context ended the spinner rather
// than stop.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}
