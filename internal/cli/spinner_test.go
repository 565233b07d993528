package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Rendering with dot...")
	time.Sleep(2 * spinnerInterval)
	s.stop()

	out := buf.String()
	if !strings.Contains(out, "Rendering with dot...") {
		t.Errorf("output %q lacks the message", out)
	}
	if !strings.Contains(out, spinnerFrames[0]) {
		t.Errorf("output %q lacks the first frame", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output %q does not end by returning to the line start", out)
	}
	if s.interrupted() {
		t.Error("stop should not count as an interruption")
	}
}

func TestSpinnerStopTwice(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "x")
	s.stop()
	n := buf.Len()
	s.stop()
	if buf.Len() != n {
		t.Errorf("second stop wrote %d more bytes", buf.Len()-n)
	}
}

func TestSpinnerInterrupted(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"deadline", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			var buf bytes.Buffer
			s := startSpinner(ctx, &buf, "Rendering with neato...")
			select {
			case <-s.stopped:
			case <-time.After(time.Second):
				t.Fatal("spinner kept running after its context ended")
			}
			s.stop()
			if !s.interrupted() {
				t.Error("interrupted() = false after the context ended")
			}
		})
	}
}
