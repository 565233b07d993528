// Package reconcile computes the view operations that bring an external view
// from one colouring snapshot to the next.
//
// # Ordering
//
// [Diff] emits operations in a fixed order that a view can apply one by one:
//
//  1. RemoveEdge for every old edge that the new snapshot no longer has
//  2. RemoveVertex for every old vertex that is gone
//  3. ReplaceSnapshot, after which the view treats the new snapshot as current
//  4. AddVertex for new vertices, then AddEdge for new edges
//  5. RecolourVertex for every vertex whose colour changed, including new ones
//
// A view that follows this order never references an element before it is
// declared and never removes a vertex that still has edges. Recolouring is a
// class replacement: the vertex leaves its old colour class and joins the new
// one, so it is never in both.
//
// # Scene
//
// [Scene] is an in-memory view that applies operations strictly, keeps live
// positions and a selection. The terminal editor and the HTTP server use it
// as their view, and tests use it to check that a diff replays correctly.
package reconcile
