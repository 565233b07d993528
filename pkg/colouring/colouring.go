package colouring

import (
	"maps"

	"github.com/matzehuels/bicolour/pkg/errors"
	"github.com/matzehuels/bicolour/pkg/graph"
)

// Colouring is an immutable graph snapshot with one colour per vertex.
// The zero value is the empty colouring.
type Colouring struct {
	graph   graph.Graph
	colours map[string]Colour
}

// New pairs g with colours. The mapping must contain a valid colour for every
// vertex of g and nothing else; otherwise New returns a
// PRECONDITION_VIOLATION error. The map is copied.
func New(g graph.Graph, colours map[string]Colour) (Colouring, error) {
	for _, v := range g.Vertices() {
		col, ok := colours[v.ID]
		if !ok {
			return Colouring{}, errors.Precondition("vertex %q has no colour", v.ID)
		}
		if !col.Valid() {
			return Colouring{}, errors.Precondition("vertex %q has invalid colour %q", v.ID, col)
		}
	}
	for id := range colours {
		if _, ok := g.Vertex(id); !ok {
			return Colouring{}, errors.Precondition("colour entry %q has no matching vertex", id)
		}
	}
	return Colouring{graph: g, colours: maps.Clone(colours)}, nil
}

// Graph returns the underlying graph.
func (c Colouring) Graph() graph.Graph { return c.graph }

// Colour returns the colour of v.
func (c Colouring) Colour(v graph.Vertex) (Colour, bool) {
	col, ok := c.colours[v.ID]
	return col, ok
}

// Colours returns a copy of the vertex ID to colour mapping.
func (c Colouring) Colours() map[string]Colour {
	out := make(map[string]Colour, len(c.colours))
	maps.Copy(out, c.colours)
	return out
}

// CountColour returns how many vertices have colour col.
func (c Colouring) CountColour(col Colour) int {
	n := 0
	for _, x := range c.colours {
		if x == col {
			n++
		}
	}
	return n
}

// SetColour returns a colouring in which v has colour col.
// v must belong to the graph and col must be valid.
func (c Colouring) SetColour(v graph.Vertex, col Colour) (Colouring, error) {
	if !c.graph.ContainsVertex(v) {
		return Colouring{}, errors.Precondition("cannot colour vertex %q: not in the graph", v.ID)
	}
	if !col.Valid() {
		return Colouring{}, errors.Precondition("cannot colour vertex %q: invalid colour %q", v.ID, col)
	}
	return c.with(v.ID, col), nil
}

// ColourWeight scores how strongly v leans towards col: SelfWeight when v
// itself has col, plus NeighbourWeight for each neighbour that has col.
func (c Colouring) ColourWeight(v graph.Vertex, col Colour) float64 {
	var w float64
	if c.colours[v.ID] == col {
		w += SelfWeight
	}
	for _, n := range c.graph.Neighbours(v) {
		if c.colours[n.ID] == col {
			w += NeighbourWeight
		}
	}
	return w
}

// weight is ColourWeight over a precomputed adjacency.
func (c Colouring) weight(adj map[string][]string, id string, col Colour) float64 {
	var w float64
	if c.colours[id] == col {
		w += SelfWeight
	}
	for _, n := range adj[id] {
		if c.colours[n] == col {
			w += NeighbourWeight
		}
	}
	return w
}

// Update runs one synchronous relaxation step and returns the result over the
// same graph. Every vertex is scored against the receiver, never against
// colours assigned earlier in the same step. A vertex becomes White only if
// its white weight strictly exceeds its black weight.
func (c Colouring) Update() Colouring {
	adj := c.graph.Adjacency()
	next := make(map[string]Colour, len(c.colours))
	for _, v := range c.graph.Vertices() {
		next[v.ID] = choose(c.weight(adj, v.ID, White), c.weight(adj, v.ID, Black))
	}
	return Colouring{graph: c.graph, colours: next}
}

// choose picks White only on a strict majority; ties go to Black.
func choose(white, black float64) Colour {
	if white > black {
		return White
	}
	return Black
}

// Stable reports whether Update would leave every colour unchanged.
func (c Colouring) Stable() bool {
	return maps.Equal(c.Update().colours, c.colours)
}

// Connect returns a colouring whose graph also joins a and b.
func (c Colouring) Connect(a, b graph.Vertex) (Colouring, error) {
	g, err := c.graph.AddEdge(a, b)
	if err != nil {
		return Colouring{}, err
	}
	return Colouring{graph: g, colours: c.colours}, nil
}

// Disconnect returns a colouring whose graph no longer has edge e.
func (c Colouring) Disconnect(e graph.Edge) Colouring {
	return Colouring{graph: c.graph.RemoveEdge(e), colours: c.colours}
}

// Add creates a vertex at (x, y) with colour col, taking its ID from ids.
// IDs already used in the graph, for example by a loaded document, are
// skipped. It returns the new colouring and the created vertex.
func (c Colouring) Add(ids IDSource, col Colour, x, y float64) (Colouring, graph.Vertex, error) {
	if ids == nil {
		return Colouring{}, graph.Vertex{}, errors.Precondition("no vertex id source")
	}
	if !col.Valid() {
		return Colouring{}, graph.Vertex{}, errors.Precondition("cannot add vertex: invalid colour %q", col)
	}
	id := ids.NextID()
	for {
		if _, taken := c.graph.Vertex(id); !taken {
			break
		}
		id = ids.NextID()
	}
	v := graph.VertexAt(id, x, y)
	g, err := c.graph.AddVertex(v)
	if err != nil {
		return Colouring{}, graph.Vertex{}, err
	}
	out := c.with(id, col)
	out.graph = g
	return out, v, nil
}

// Remove returns a colouring without v, its incident edges and its colour.
func (c Colouring) Remove(v graph.Vertex) Colouring {
	if !c.graph.ContainsVertex(v) {
		return c
	}
	colours := maps.Clone(c.colours)
	delete(colours, v.ID)
	return Colouring{graph: c.graph.RemoveVertex(v), colours: colours}
}

// Equal reports whether both colourings have equal graphs and colours.
func (c Colouring) Equal(o Colouring) bool {
	return c.graph.Equal(o.graph) && maps.Equal(c.colours, o.colours)
}

// with returns a copy of c with colours[id] = col.
func (c Colouring) with(id string, col Colour) Colouring {
	colours := make(map[string]Colour, len(c.colours)+1)
	maps.Copy(colours, c.colours)
	colours[id] = col
	return Colouring{graph: c.graph, colours: colours}
}
