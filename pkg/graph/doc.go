// Package graph provides the immutable undirected graph used by the editor.
//
// # Overview
//
// A [Graph] is an ordered collection of [Vertex] values and [Edge] values.
// Graphs are snapshots: every operation returns a new Graph and never mutates
// the receiver, so an old snapshot can still be diffed against a new one
// after an edit. Slices are shared between snapshots only where no operation
// can write into them.
//
// # Identity
//
// Vertices are identified by ID alone; two vertices with the same ID are the
// same entity even if one carries a position and the other does not. Edge IDs
// are derived from the unordered endpoint pair by [EdgeID], so connecting an
// already connected pair is idempotent.
//
// # Invariants
//
// Every edge endpoint references a vertex in the graph, there are no
// self-loops, and at most one edge joins any pair. [New] rejects input that
// violates these rules, [Graph.AddEdge] refuses missing endpoints and
// self-loops, and [Graph.RemoveVertex] cascades to incident edges.
//
// # Basic Usage
//
//	u, v := graph.NewVertex("u"), graph.VertexAt("v", 10, 20)
//	g, err := graph.New([]graph.Vertex{u, v}, nil)
//	if err != nil {
//	    // invalid or duplicate vertex ID
//	}
//	g, err = g.AddEdge(u, v)
//	if err != nil {
//	    // precondition violation: unknown endpoint or self-loop
//	}
//	g.ContainsEdge(v, u) // true, edges are undirected
//
// # Concurrency
//
// Graph values are immutable and safe for concurrent reads.
package graph
