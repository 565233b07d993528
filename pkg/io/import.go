package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/errors"
	"github.com/matzehuels/bicolour/pkg/graph"
)

// Decode parses data as a document in format f and rebuilds the colouring.
//
// Every failure is MALFORMED_INPUT, except an unknown format (UNSUPPORTED).
// The returned error wraps the cause: a syntax error, a validation message
// naming the offending field, or the precondition error raised by the graph
// or colouring constructor.
func Decode(data []byte, f Format) (colouring.Colouring, error) {
	var doc document
	switch f {
	case FormatJSON, "":
		if err := json.Unmarshal(data, &doc); err != nil {
			return colouring.Colouring{}, errors.Malformed(err, "parse json document")
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return colouring.Colouring{}, errors.Malformed(err, "parse toml document")
		}
	default:
		return colouring.Colouring{}, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
	}

	if err := doc.check(); err != nil {
		return colouring.Colouring{}, errors.Malformed(err, "invalid document")
	}
	return fromDocument(doc)
}

// Unmarshal decodes a JSON document.
func Unmarshal(data []byte) (colouring.Colouring, error) {
	return Decode(data, FormatJSON)
}

// Read decodes a document from r. Read does not close r.
func Read(r io.Reader, f Format) (colouring.Colouring, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return colouring.Colouring{}, errors.IOFailure(err, "read document")
	}
	return Decode(data, f)
}

// ImportFile reads and decodes the document at path, choosing the format
// from its extension.
func ImportFile(path string) (colouring.Colouring, error) {
	if err := errors.ValidatePath(path); err != nil {
		return colouring.Colouring{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return colouring.Colouring{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return colouring.Colouring{}, errors.IOFailure(err, "read %s", path)
	}
	return Decode(data, FormatFromPath(path))
}

func fromDocument(doc document) (colouring.Colouring, error) {
	vertices := make([]graph.Vertex, 0, len(doc.Vertices))
	for _, v := range doc.Vertices {
		if v.X != nil && v.Y != nil {
			vertices = append(vertices, graph.VertexAt(v.ID, *v.X, *v.Y))
		} else {
			vertices = append(vertices, graph.NewVertex(v.ID))
		}
	}

	edges := make([]graph.Edge, 0, len(doc.Edges))
	for _, e := range doc.Edges {
		edges = append(edges, graph.Edge{
			ID:     e.ID,
			Source: graph.NewVertex(e.Source.ID),
			Target: graph.NewVertex(e.Target.ID),
		})
	}

	g, err := graph.New(vertices, edges)
	if err != nil {
		return colouring.Colouring{}, errors.Malformed(err, "invalid graph")
	}

	colours := make(map[string]colouring.Colour, len(doc.Colours))
	for id, col := range doc.Colours {
		colours[id] = colouring.Colour(col)
	}
	c, err := colouring.New(g, colours)
	if err != nil {
		return colouring.Colouring{}, errors.Malformed(err, "invalid colouring")
	}
	return c, nil
}
