package textio

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/bicolour/pkg/errors"
)

// FileStore keeps the document in a single file. The parent directory is
// created on first write.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore returns a store for path. The file need not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	return &FileStore{path: filepath.Clean(path)}, nil
}

func (s *FileStore) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return ioErr(err, "write %s", s.path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return ioErr(err, "create directory for %s", s.path)
	}
	if err := os.WriteFile(s.path, []byte(text), 0o644); err != nil {
		return ioErr(err, "write %s", s.path)
	}
	return nil
}

func (s *FileStore) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ioErr(err, "read %s", s.path)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", ioErr(err, "read %s", s.path)
	}
	return string(data), nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the file the store writes to.
func (s *FileStore) Path() string { return s.path }

var _ Store = (*FileStore)(nil)

func ioErr(err error, format string, args ...any) error {
	return errors.IOFailure(err, format, args...)
}
