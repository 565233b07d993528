package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/editor"
	"github.com/matzehuels/bicolour/pkg/errors"
	"github.com/matzehuels/bicolour/pkg/graph"
	"github.com/matzehuels/bicolour/pkg/reconcile"
	"github.com/matzehuels/bicolour/pkg/textio"
)

// locations is a position snapshot taken under the session lock.
type locations map[string]graph.Point

func (l locations) Position(id string) (graph.Point, bool) {
	p, ok := l[id]
	return p, ok
}

// session is one editing session. mu serializes mutations so that at most
// one is in flight at a time.
type session struct {
	mu      sync.Mutex
	id      string
	scene   *reconcile.Scene
	editor  *editor.Editor
	created time.Time
}

func newSession(logger *log.Logger) *session {
	id := uuid.NewString()
	scene := reconcile.NewScene()
	return &session{
		id:    id,
		scene: scene,
		editor: editor.New(scene,
			editor.WithIDs(colouring.NewCounter()),
			editor.WithStore(textio.NewMemory("")),
			editor.WithLogger(logger.With("session", id)),
		),
		created: time.Now(),
	}
}

type registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
	max      int
}

func newRegistry(max int) *registry {
	return &registry{sessions: make(map[string]*session), max: max}
}

func (r *registry) add(s *session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.max > 0 && len(r.sessions) >= r.max {
		return errors.New(errors.ErrCodeUnsupported, "session limit of %d reached", r.max)
	}
	r.sessions[s.id] = s
	return nil
}

func (r *registry) get(id string) (*session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return s, nil
}

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
