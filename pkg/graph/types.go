package graph

import (
	"fmt"

	"github.com/matzehuels/bicolour/pkg/errors"
)

// edgeIDSeparator joins endpoint IDs in derived edge identifiers.
const edgeIDSeparator = "_"

// Point is a position in view coordinates.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Vertex is a graph vertex. A vertex without a position is placed by the
// external layout engine. Vertices are plain values: copying one never shares
// its position with the copy.
type Vertex struct {
	ID     string
	pos    Point
	placed bool
}

// NewVertex returns a vertex without a position.
func NewVertex(id string) Vertex { return Vertex{ID: id} }

// VertexAt returns a vertex placed at (x, y).
func VertexAt(id string, x, y float64) Vertex {
	return Vertex{ID: id, pos: Point{X: x, Y: y}, placed: true}
}

// HasPosition reports whether the vertex was placed explicitly.
func (v Vertex) HasPosition() bool { return v.placed }

// Position returns the vertex position and whether it is known.
func (v Vertex) Position() (Point, bool) { return v.pos, v.placed }

// String returns the vertex ID.
func (v Vertex) String() string { return v.ID }

// sameAs compares IDs and positions.
func (v Vertex) sameAs(o Vertex) bool { return v == o }

// Edge is an undirected connection. Source and Target are kept for display
// only; adjacency ignores direction.
type Edge struct {
	ID     string
	Source Vertex
	Target Vertex
}

// EdgeID derives the identifier of the edge joining a and b.
// The smaller ID comes first so the result does not depend on argument order.
func EdgeID(a, b Vertex) string {
	if b.ID < a.ID {
		a, b = b, a
	}
	return a.ID + edgeIDSeparator + b.ID
}

// Contains reports whether v is an endpoint of e.
func (e Edge) Contains(v Vertex) bool {
	return e.Source.ID == v.ID || e.Target.ID == v.ID
}

// Connects reports whether e joins exactly the unordered pair {a, b}.
func (e Edge) Connects(a, b Vertex) bool {
	return (e.Source.ID == a.ID && e.Target.ID == b.ID) ||
		(e.Source.ID == b.ID && e.Target.ID == a.ID)
}

// Other returns the endpoint opposite v. Calling Other with a vertex that is
// not an endpoint is a precondition violation.
func (e Edge) Other(v Vertex) (Vertex, error) {
	switch v.ID {
	case e.Source.ID:
		return e.Target, nil
	case e.Target.ID:
		return e.Source, nil
	}
	return Vertex{}, errors.Precondition("vertex %q is not an endpoint of edge %q", v.ID, e.ID)
}

// String formats the edge as "id(source-target)".
func (e Edge) String() string {
	return fmt.Sprintf("%s(%s-%s)", e.ID, e.Source.ID, e.Target.ID)
}
