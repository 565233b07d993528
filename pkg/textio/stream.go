package textio

import (
	"context"
	"io"
	"sync"
)

// Stream reads the document from r and writes it to w. Either may be nil,
// in which case the corresponding operation fails.
//
// Reading consumes r, so a Stream yields its document once.
type Stream struct {
	mu sync.Mutex
	r  io.Reader
	w  io.Writer
}

// NewStream returns a Stream over r and w.
func NewStream(r io.Reader, w io.Writer) *Stream {
	return &Stream{r: r, w: w}
}

func (s *Stream) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return ioErr(err, "write stream")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.w == nil {
		return ioErr(io.ErrClosedPipe, "stream has no writer")
	}
	if _, err := io.WriteString(s.w, text); err != nil {
		return ioErr(err, "write stream")
	}
	return nil
}

func (s *Stream) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ioErr(err, "read stream")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.r == nil {
		return "", ioErr(io.ErrClosedPipe, "stream has no reader")
	}
	data, err := io.ReadAll(s.r)
	if err != nil {
		return "", ioErr(err, "read stream")
	}
	return string(data), nil
}

// Close closes the reader and writer when they are io.Closers.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var first error
	for _, v := range []any{s.r, s.w} {
		if c, ok := v.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = ioErr(err, "close stream")
			}
		}
	}
	return first
}

var _ Store = (*Stream)(nil)
