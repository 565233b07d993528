package editor

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/errors"
	"github.com/matzehuels/bicolour/pkg/graph"
	pkgio "github.com/matzehuels/bicolour/pkg/io"
	"github.com/matzehuels/bicolour/pkg/observability"
	"github.com/matzehuels/bicolour/pkg/reconcile"
	"github.com/matzehuels/bicolour/pkg/textio"
)

// View is the external view an editor drives. It owns the current snapshot
// and the selection. A view that also implements [pkgio.Locator] supplies
// live positions when the document is saved.
type View interface {
	Snapshot() colouring.Colouring
	SelectedVertices() []graph.Vertex
	SelectedEdges() []graph.Edge
	Apply(ops []reconcile.Op) error
	ClearSelection()
}

// Transform computes the next snapshot from the current one.
type Transform func(colouring.Colouring) (colouring.Colouring, error)

// Result is the outcome of a successful mutation.
type Result struct {
	Ops      []reconcile.Op
	Snapshot colouring.Colouring
}

// Summary counts the result's operations.
func (r Result) Summary() reconcile.Summary { return reconcile.Summarize(r.Ops) }

// Editor is an editing session over a view.
type Editor struct {
	view   View
	ids    colouring.IDSource
	logger *log.Logger
	store  textio.Store
	format pkgio.Format
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger. Mutations are logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIDs sets the vertex ID source. The default is a fresh counter.
func WithIDs(ids colouring.IDSource) Option {
	return func(e *Editor) {
		if ids != nil {
			e.ids = ids
		}
	}
}

// WithStore sets the text collaborator used by Export and Import.
func WithStore(s textio.Store) Option {
	return func(e *Editor) { e.store = s }
}

// WithFormat sets the document format for Save and Load. The default is JSON.
func WithFormat(f pkgio.Format) Option {
	return func(e *Editor) { e.format = f }
}

// New returns an editor driving view.
func New(view View, opts ...Option) *Editor {
	e := &Editor{
		view:   view,
		ids:    colouring.NewCounter(),
		logger: log.New(io.Discard),
		format: pkgio.FormatJSON,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// View returns the view the editor drives.
func (e *Editor) View() View { return e.view }

// Snapshot returns the view's current snapshot.
func (e *Editor) Snapshot() colouring.Colouring { return e.view.Snapshot() }

// Store returns the configured text collaborator, or nil.
func (e *Editor) Store() textio.Store { return e.store }

// Mutate applies fn to the current snapshot and reconciles the view.
//
// If fn fails, its error is returned unchanged and the view is not touched.
// If the view rejects the operations, that error is returned; a view that
// applies atomically is then still on the old snapshot.
func (e *Editor) Mutate(ctx context.Context, action string, fn Transform) (Result, error) {
	start := time.Now()
	res, err := e.mutate(ctx, fn)

	m := observability.Mutation{Action: action, Duration: time.Since(start), Err: err}
	if err == nil {
		s := res.Summary()
		m.Added, m.Removed, m.Recoloured = s.Added, s.Removed, s.Recoloured
		e.logger.Debug("mutation", "action", action, "ops", len(res.Ops), "changes", s.String())
	} else {
		e.logger.Debug("mutation failed", "action", action, "code", errors.GetCode(err), "err", err)
	}
	observability.Editor().OnMutation(ctx, m)

	return res, err
}

func (e *Editor) mutate(ctx context.Context, fn Transform) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	old := e.view.Snapshot()
	next, err := fn(old)
	if err != nil {
		return Result{}, err
	}
	ops := reconcile.Diff(old, next)
	if err := e.view.Apply(ops); err != nil {
		return Result{}, err
	}
	return Result{Ops: ops, Snapshot: next}, nil
}
