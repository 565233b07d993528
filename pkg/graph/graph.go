package graph

import (
	"fmt"
	"slices"

	"github.com/matzehuels/bicolour/pkg/errors"
)

// Graph is an immutable, ordered, undirected graph.
//
// The zero value is the empty graph and is ready to use. Insertion order of
// vertices and edges is preserved for deterministic serialization but has no
// other meaning.
type Graph struct {
	vertices []Vertex
	edges    []Edge
	byID     map[string]int // vertex ID -> index in vertices
	byPair   map[pair]int   // unordered endpoint pair -> index in edges
}

// pair is an unordered endpoint pair with the smaller ID first.
type pair struct{ lo, hi string }

func pairOf(a, b Vertex) pair {
	if b.ID < a.ID {
		return pair{b.ID, a.ID}
	}
	return pair{a.ID, b.ID}
}

// New builds a graph from vertices and edges, checking every invariant:
// vertex and edge IDs are valid and unique, both endpoints of every edge
// exist, there are no self-loops and no two edges join the same pair.
//
// Edge endpoints are resolved by ID against vertices, so the endpoint values
// passed in only need to carry an ID. Violations are reported as
// PRECONDITION_VIOLATION errors.
func New(vertices []Vertex, edges []Edge) (Graph, error) {
	byID := make(map[string]int, len(vertices))
	for i, v := range vertices {
		if err := errors.ValidateID(v.ID); err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodePreconditionViolation, err, "vertex %d", i)
		}
		if _, dup := byID[v.ID]; dup {
			return Graph{}, errors.Precondition("duplicate vertex %q", v.ID)
		}
		byID[v.ID] = i
	}

	resolved := make([]Edge, 0, len(edges))
	edgeIDs := make(map[string]bool, len(edges))
	pairs := make(map[pair]bool, len(edges))
	for _, e := range edges {
		if err := errors.ValidateID(e.ID); err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodePreconditionViolation, err, "edge")
		}
		if edgeIDs[e.ID] {
			return Graph{}, errors.Precondition("duplicate edge %q", e.ID)
		}
		si, ok := byID[e.Source.ID]
		if !ok {
			return Graph{}, errors.Precondition("edge %q references unknown source vertex %q", e.ID, e.Source.ID)
		}
		ti, ok := byID[e.Target.ID]
		if !ok {
			return Graph{}, errors.Precondition("edge %q references unknown target vertex %q", e.ID, e.Target.ID)
		}
		if si == ti {
			return Graph{}, errors.Precondition("edge %q is a self-loop on %q", e.ID, e.Source.ID)
		}
		p := pairOf(e.Source, e.Target)
		if pairs[p] {
			return Graph{}, errors.Precondition("edge %q duplicates an existing connection %s-%s", e.ID, e.Source.ID, e.Target.ID)
		}
		edgeIDs[e.ID] = true
		pairs[p] = true
		resolved = append(resolved, Edge{ID: e.ID, Source: vertices[si], Target: vertices[ti]})
	}

	return build(slices.Clone(vertices), resolved), nil
}

// build indexes the given slices. They may be shared with other snapshots as
// long as nobody writes into them.
func build(vertices []Vertex, edges []Edge) Graph {
	g := Graph{
		vertices: vertices,
		edges:    edges,
		byID:     make(map[string]int, len(vertices)),
		byPair:   make(map[pair]int, len(edges)),
	}
	for i, v := range vertices {
		g.byID[v.ID] = i
	}
	for i, e := range edges {
		g.byPair[pairOf(e.Source, e.Target)] = i
	}
	return g
}

// Vertices returns a copy of the vertices in insertion order.
func (g Graph) Vertices() []Vertex { return slices.Clone(g.vertices) }

// Edges returns a copy of the edges in insertion order.
func (g Graph) Edges() []Edge { return slices.Clone(g.edges) }

// VertexCount returns the number of vertices.
func (g Graph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of edges.
func (g Graph) EdgeCount() int { return len(g.edges) }

// Vertex returns the stored vertex with the given ID.
func (g Graph) Vertex(id string) (Vertex, bool) {
	i, ok := g.byID[id]
	if !ok {
		return Vertex{}, false
	}
	return g.vertices[i], true
}

// ContainsVertex reports whether a vertex with v's ID is present.
func (g Graph) ContainsVertex(v Vertex) bool {
	_, ok := g.byID[v.ID]
	return ok
}

// AddVertex returns a graph with v appended. If a vertex with the same ID is
// already present the receiver is returned unchanged.
//
// The ID must pass the same validation as in New; otherwise AddVertex returns
// a PRECONDITION_VIOLATION error and the zero Graph.
func (g Graph) AddVertex(v Vertex) (Graph, error) {
	if g.ContainsVertex(v) {
		return g, nil
	}
	if err := errors.ValidateID(v.ID); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodePreconditionViolation, err, "add vertex")
	}
	return build(append(slices.Clip(g.vertices), v), g.edges), nil
}

// RemoveVertex returns a graph without v and without any edge incident to v.
func (g Graph) RemoveVertex(v Vertex) Graph {
	if !g.ContainsVertex(v) {
		return g
	}
	vertices := make([]Vertex, 0, len(g.vertices)-1)
	for _, u := range g.vertices {
		if u.ID != v.ID {
			vertices = append(vertices, u)
		}
	}
	edges := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		if !e.Contains(v) {
			edges = append(edges, e)
		}
	}
	return build(vertices, edges)
}

// AddEdge returns a graph in which a and b are connected. Connecting an
// already connected pair returns the receiver unchanged.
//
// Both endpoints must be present and distinct; otherwise AddEdge returns a
// PRECONDITION_VIOLATION error and the zero Graph.
func (g Graph) AddEdge(a, b Vertex) (Graph, error) {
	if a.ID == b.ID {
		return Graph{}, errors.Precondition("cannot connect vertex %q to itself", a.ID)
	}
	src, ok := g.Vertex(a.ID)
	if !ok {
		return Graph{}, errors.Precondition("vertex %q is not in the graph", a.ID)
	}
	tgt, ok := g.Vertex(b.ID)
	if !ok {
		return Graph{}, errors.Precondition("vertex %q is not in the graph", b.ID)
	}
	if g.ContainsEdge(src, tgt) {
		return g, nil
	}
	e := Edge{ID: g.freeEdgeID(EdgeID(src, tgt)), Source: src, Target: tgt}
	return build(g.vertices, append(slices.Clip(g.edges), e)), nil
}

// RemoveEdge returns a graph without the edge whose ID matches e.ID.
// Removing an absent edge returns the receiver unchanged.
func (g Graph) RemoveEdge(e Edge) Graph {
	i := slices.IndexFunc(g.edges, func(x Edge) bool { return x.ID == e.ID })
	if i < 0 {
		return g
	}
	edges := make([]Edge, 0, len(g.edges)-1)
	edges = append(edges, g.edges[:i]...)
	edges = append(edges, g.edges[i+1:]...)
	return build(g.vertices, edges)
}

// freeEdgeID returns id, or id with a numeric suffix when another pair
// already owns it (IDs such as "a_b"+"c" and "a"+"b_c" derive the same text).
func (g Graph) freeEdgeID(id string) string {
	if _, taken := g.Edge(id); !taken {
		return id
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s#%d", id, n)
		if _, taken := g.Edge(candidate); !taken {
			return candidate
		}
	}
}

// Edge returns the edge with the given ID.
func (g Graph) Edge(id string) (Edge, bool) {
	i := slices.IndexFunc(g.edges, func(e Edge) bool { return e.ID == id })
	if i < 0 {
		return Edge{}, false
	}
	return g.edges[i], true
}

// EdgeBetween returns the edge joining a and b in either direction.
func (g Graph) EdgeBetween(a, b Vertex) (Edge, bool) {
	i, ok := g.byPair[pairOf(a, b)]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// ContainsEdge reports whether some edge joins the unordered pair {a, b}.
func (g Graph) ContainsEdge(a, b Vertex) bool {
	_, ok := g.EdgeBetween(a, b)
	return ok
}

// IncidentEdges returns the edges with v as an endpoint, in insertion order.
func (g Graph) IncidentEdges(v Vertex) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Contains(v) {
			out = append(out, e)
		}
	}
	return out
}

// Neighbours returns the vertices adjacent to v, in edge insertion order.
func (g Graph) Neighbours(v Vertex) []Vertex {
	var out []Vertex
	for _, e := range g.edges {
		if o, err := e.Other(v); err == nil {
			out = append(out, o)
		}
	}
	return out
}

// Adjacency returns, for every vertex ID, the IDs of its neighbours.
// Vertices without edges map to nil.
func (g Graph) Adjacency() map[string][]string {
	adj := make(map[string][]string, len(g.vertices))
	for _, v := range g.vertices {
		adj[v.ID] = nil
	}
	for _, e := range g.edges {
		adj[e.Source.ID] = append(adj[e.Source.ID], e.Target.ID)
		adj[e.Target.ID] = append(adj[e.Target.ID], e.Source.ID)
	}
	return adj
}

// Equal reports whether g and o hold the same vertices (IDs and positions)
// and the same edges (IDs and endpoint IDs). Order is ignored.
func (g Graph) Equal(o Graph) bool {
	if len(g.vertices) != len(o.vertices) || len(g.edges) != len(o.edges) {
		return false
	}
	for _, v := range g.vertices {
		ov, ok := o.Vertex(v.ID)
		if !ok || !v.sameAs(ov) {
			return false
		}
	}
	for _, e := range g.edges {
		oe, ok := o.Edge(e.ID)
		if !ok || oe.Source.ID != e.Source.ID || oe.Target.ID != e.Target.ID {
			return false
		}
	}
	return true
}
