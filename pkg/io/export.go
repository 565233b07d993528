package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/errors"
	"github.com/matzehuels/bicolour/pkg/graph"
)

// Locator reports the live position of a vertex in a rendered view.
type Locator interface {
	Position(id string) (graph.Point, bool)
}

// Encode serializes c in the given format. Positions come from loc when it
// knows the vertex, otherwise from the vertex itself; loc may be nil.
func Encode(c colouring.Colouring, loc Locator, f Format) ([]byte, error) {
	doc := toDocument(c, loc)

	var buf bytes.Buffer
	switch f {
	case FormatJSON, "":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json")
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode toml")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
	}
	return buf.Bytes(), nil
}

// Marshal encodes c as JSON using the positions stored on its vertices.
func Marshal(c colouring.Colouring) ([]byte, error) {
	return Encode(c, nil, FormatJSON)
}

// Write encodes c and writes it to w. Write failures are IO_FAILURE.
func Write(w io.Writer, c colouring.Colouring, loc Locator, f Format) error {
	data, err := Encode(c, loc, f)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.IOFailure(err, "write document")
	}
	return nil
}

// ExportFile writes c to path in the format implied by its extension.
func ExportFile(path string, c colouring.Colouring, loc Locator) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	data, err := Encode(c, loc, FormatFromPath(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.IOFailure(err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.IOFailure(err, "write %s", path)
	}
	return nil
}

func toDocument(c colouring.Colouring, loc Locator) document {
	g := c.Graph()
	doc := document{
		Vertices: make([]vertex, 0, g.VertexCount()),
		Edges:    make([]edge, 0, g.EdgeCount()),
		Colours:  make(map[string]string, g.VertexCount()),
	}

	for _, v := range g.Vertices() {
		out := vertex{ID: v.ID}
		if p, ok := locate(v, loc); ok {
			x, y := p.X, p.Y
			out.X, out.Y = &x, &y
		}
		doc.Vertices = append(doc.Vertices, out)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, edge{
			ID:     e.ID,
			Source: ref{ID: e.Source.ID},
			Target: ref{ID: e.Target.ID},
		})
	}
	for id, col := range c.Colours() {
		doc.Colours[id] = col.String()
	}
	return doc
}

func locate(v graph.Vertex, loc Locator) (graph.Point, bool) {
	if loc != nil {
		if p, ok := loc.Position(v.ID); ok {
			return p, true
		}
	}
	return v.Position()
}
