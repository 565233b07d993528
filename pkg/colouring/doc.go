// Package colouring pairs a graph with a black/white vertex colouring.
//
// A [Colouring] is an immutable snapshot: a [graph.Graph] plus a mapping from
// every vertex ID to a [Colour]. The mapping always covers exactly the
// vertices of the graph. Every editing operation of the graph package is
// lifted here so that colour entries follow vertices in and out.
//
// # Relaxation
//
// [Colouring.Update] runs one synchronous step of the majority heuristic. For
// each vertex the weight of a colour is
//
//	1.5 if the vertex itself has the colour
//	+ 1.0 for each neighbour with the colour
//
// and the vertex becomes white only when the white weight is strictly greater
// than the black weight. Ties resolve to black. All weights are computed from
// the snapshot before the step, so a flip never influences another vertex in
// the same pass.
//
// # Vertex IDs
//
// New vertices receive IDs from an [IDSource]. [Counter] hands out v1, v2, …
// and is owned by the editing session rather than the package.
package colouring
