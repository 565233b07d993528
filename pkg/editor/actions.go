package editor

import (
	"context"

	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/errors"
	pkgio "github.com/matzehuels/bicolour/pkg/io"
	"github.com/matzehuels/bicolour/pkg/observability"
	"github.com/matzehuels/bicolour/pkg/textio"
)

// Action names reported to hooks and logs.
const (
	ActionAdd       = "add"
	ActionColour    = "colour"
	ActionConnect   = "connect"
	ActionBiconnect = "biconnect"
	ActionDelete    = "delete"
	ActionRelax     = "relax"
	ActionLoad      = "load"
)

// AddVertex creates a vertex with colour col at (x, y) and clears the
// selection.
func (e *Editor) AddVertex(ctx context.Context, col colouring.Colour, x, y float64) (Result, error) {
	res, err := e.Mutate(ctx, ActionAdd, func(c colouring.Colouring) (colouring.Colouring, error) {
		next, _, err := c.Add(e.ids, col, x, y)
		return next, err
	})
	if err == nil {
		e.view.ClearSelection()
	}
	return res, err
}

// SetColourOnSelection gives every selected vertex colour col and clears the
// selection.
func (e *Editor) SetColourOnSelection(ctx context.Context, col colouring.Colour) (Result, error) {
	selected := e.view.SelectedVertices()
	res, err := e.Mutate(ctx, ActionColour, func(c colouring.Colouring) (colouring.Colouring, error) {
		for _, v := range selected {
			var err error
			if c, err = c.SetColour(v, col); err != nil {
				return colouring.Colouring{}, err
			}
		}
		return c, nil
	})
	if err == nil {
		e.view.ClearSelection()
	}
	return res, err
}

// ConnectSelection joins every pair of selected vertices and clears the
// selection.
func (e *Editor) ConnectSelection(ctx context.Context) (Result, error) {
	return e.connectPairs(ctx, ActionConnect, func(colouring.Colour, colouring.Colour) bool { return true })
}

// BiconnectSelection joins every pair of selected vertices whose colours
// differ and clears the selection. Same-coloured pairs stay unconnected.
func (e *Editor) BiconnectSelection(ctx context.Context) (Result, error) {
	return e.connectPairs(ctx, ActionBiconnect, func(a, b colouring.Colour) bool { return a != b })
}

func (e *Editor) connectPairs(ctx context.Context, action string, want func(a, b colouring.Colour) bool) (Result, error) {
	selected := e.view.SelectedVertices()
	res, err := e.Mutate(ctx, action, func(c colouring.Colouring) (colouring.Colouring, error) {
		for i := range selected {
			for j := i + 1; j < len(selected); j++ {
				ci, _ := c.Colour(selected[i])
				cj, _ := c.Colour(selected[j])
				if !want(ci, cj) {
					continue
				}
				var err error
				if c, err = c.Connect(selected[i], selected[j]); err != nil {
					return colouring.Colouring{}, err
				}
			}
		}
		return c, nil
	})
	if err == nil {
		e.view.ClearSelection()
	}
	return res, err
}

// DeleteSelection removes the selected vertices with their incident edges,
// then the selected edges.
func (e *Editor) DeleteSelection(ctx context.Context) (Result, error) {
	vertices := e.view.SelectedVertices()
	edges := e.view.SelectedEdges()
	return e.Mutate(ctx, ActionDelete, func(c colouring.Colouring) (colouring.Colouring, error) {
		for _, v := range vertices {
			c = c.Remove(v)
		}
		for _, ed := range edges {
			c = c.Disconnect(ed)
		}
		return c, nil
	})
}

// Relax runs one synchronous majority relaxation step.
func (e *Editor) Relax(ctx context.Context) (Result, error) {
	return e.Mutate(ctx, ActionRelax, func(c colouring.Colouring) (colouring.Colouring, error) {
		return c.Update(), nil
	})
}

// Save encodes the current snapshot. Positions come from the view when it
// can report them.
func (e *Editor) Save(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var loc pkgio.Locator
	if l, ok := e.view.(pkgio.Locator); ok {
		loc = l
	}
	data, err := pkgio.Encode(e.view.Snapshot(), loc, e.format)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Load replaces the session with the decoded document. A document that
// cannot be decoded leaves the session unchanged and returns
// MALFORMED_INPUT.
func (e *Editor) Load(ctx context.Context, text string) (Result, error) {
	return e.Mutate(ctx, ActionLoad, func(colouring.Colouring) (colouring.Colouring, error) {
		return pkgio.Decode([]byte(text), e.format)
	})
}

// Export saves the document to the text collaborator.
func (e *Editor) Export(ctx context.Context) error {
	store, err := e.requireStore()
	if err != nil {
		return err
	}
	text, err := e.Save(ctx)
	if err != nil {
		return err
	}
	err = store.WriteText(ctx, text)
	observability.Editor().OnTextIO(ctx, "save", len(text), err)
	if err != nil {
		e.logger.Warn("save failed", "err", err)
		return err
	}
	e.logger.Debug("saved document", "bytes", len(text))
	return nil
}

// Import loads the document held by the text collaborator.
func (e *Editor) Import(ctx context.Context) (Result, error) {
	store, err := e.requireStore()
	if err != nil {
		return Result{}, err
	}
	text, err := store.ReadText(ctx)
	observability.Editor().OnTextIO(ctx, "load", len(text), err)
	if err != nil {
		e.logger.Warn("load failed", "err", err)
		return Result{}, err
	}
	return e.Load(ctx, text)
}

func (e *Editor) requireStore() (textio.Store, error) {
	if e.store == nil {
		return nil, errors.Precondition("editor has no text store")
	}
	return e.store, nil
}
