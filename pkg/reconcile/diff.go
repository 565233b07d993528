package reconcile

import (
	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/graph"
)

// Diff returns the ordered operations that turn a view showing old into one
// showing next. See the package documentation for the ordering contract.
//
// Vertices are matched by ID. Edges are matched by ID and endpoint pair, so an
// edge whose ID now joins a different pair is removed and re-added.
// Positions are not diffed; the view owns them after a vertex is added.
func Diff(old, next colouring.Colouring) []Op {
	og, ng := old.Graph(), next.Graph()
	var ops []Op

	for _, e := range og.Edges() {
		if !hasEdge(ng, e) {
			ops = append(ops, Op{Kind: OpRemoveEdge, ID: e.ID})
		}
	}

	for _, v := range og.Vertices() {
		if !ng.ContainsVertex(v) {
			ops = append(ops, Op{Kind: OpRemoveVertex, ID: v.ID})
		}
	}

	snapshot := next
	ops = append(ops, Op{Kind: OpReplaceSnapshot, Snapshot: &snapshot})

	for _, v := range ng.Vertices() {
		if og.ContainsVertex(v) {
			continue
		}
		op := Op{Kind: OpAddVertex, ID: v.ID}
		if p, ok := v.Position(); ok {
			op.Position = &p
		}
		ops = append(ops, op)
	}

	for _, e := range ng.Edges() {
		if !hasEdge(og, e) {
			ops = append(ops, Op{Kind: OpAddEdge, ID: e.ID, Source: e.Source.ID, Target: e.Target.ID})
		}
	}

	for _, v := range ng.Vertices() {
		col, _ := next.Colour(v)
		prev, had := old.Colour(v)
		if !had || prev != col {
			ops = append(ops, Op{Kind: OpRecolourVertex, ID: v.ID, Colour: col, Previous: prev})
		}
	}

	return ops
}

// hasEdge reports whether g has an edge with e's ID joining e's endpoints.
func hasEdge(g graph.Graph, e graph.Edge) bool {
	x, ok := g.EdgeBetween(e.Source, e.Target)
	return ok && x.ID == e.ID
}
