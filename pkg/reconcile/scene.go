package reconcile

import (
	"maps"
	"slices"

	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/errors"
	"github.com/matzehuels/bicolour/pkg/graph"
)

// gridColumns and gridSpacing place vertices that arrive without a position.
const (
	gridColumns = 8
	gridSpacing = 80.0
)

// SceneVertex is a declared vertex as the scene shows it.
type SceneVertex struct {
	ID       string
	Class    colouring.Colour // empty until the first RecolourVertex
	Pos      graph.Point
	Selected bool
}

// SceneEdge is a declared edge as the scene shows it.
type SceneEdge struct {
	ID       string
	Source   string
	Target   string
	Selected bool
}

type sceneVertex struct {
	class    colouring.Colour
	pos      graph.Point
	selected bool
}

type sceneEdge struct {
	source, target string
	selected       bool
}

// Scene is an in-memory view of a colouring. It applies reconcile operations
// strictly and owns what the snapshot does not: live positions and the
// current selection.
//
// A Scene is not safe for concurrent use; callers serialise access.
type Scene struct {
	snapshot colouring.Colouring
	vertices map[string]*sceneVertex
	vOrder   []string
	edges    map[string]*sceneEdge
	eOrder   []string
}

// NewScene returns an empty scene showing the empty colouring.
func NewScene() *Scene {
	return &Scene{
		vertices: make(map[string]*sceneVertex),
		edges:    make(map[string]*sceneEdge),
	}
}

// SceneOf returns a scene that shows c, built by applying Diff from the
// empty colouring.
func SceneOf(c colouring.Colouring) (*Scene, error) {
	s := NewScene()
	if err := s.Apply(Diff(colouring.Colouring{}, c)); err != nil {
		return nil, err
	}
	return s, nil
}

// Snapshot returns the most recently registered snapshot.
func (s *Scene) Snapshot() colouring.Colouring { return s.snapshot }

// Apply applies ops in order. If any op fails the scene is left exactly as
// it was and the error is a PRECONDITION_VIOLATION.
func (s *Scene) Apply(ops []Op) error {
	next := s.clone()
	for i, op := range ops {
		if err := next.apply(op); err != nil {
			return errors.Wrap(errors.ErrCodePreconditionViolation, err, "op %d (%s)", i, op.Kind)
		}
	}
	*s = *next
	return nil
}

func (s *Scene) apply(op Op) error {
	switch op.Kind {
	case OpRemoveEdge:
		if _, ok := s.edges[op.ID]; !ok {
			return errors.Precondition("edge %q is not declared", op.ID)
		}
		delete(s.edges, op.ID)
		s.eOrder = remove(s.eOrder, op.ID)

	case OpRemoveVertex:
		if _, ok := s.vertices[op.ID]; !ok {
			return errors.Precondition("vertex %q is not declared", op.ID)
		}
		for id, e := range s.edges {
			if e.source == op.ID || e.target == op.ID {
				return errors.Precondition("vertex %q still has edge %q", op.ID, id)
			}
		}
		delete(s.vertices, op.ID)
		s.vOrder = remove(s.vOrder, op.ID)

	case OpReplaceSnapshot:
		if op.Snapshot == nil {
			return errors.Precondition("replace_snapshot without a snapshot")
		}
		s.snapshot = *op.Snapshot

	case OpAddVertex:
		if op.ID == "" {
			return errors.Precondition("add_vertex without an id")
		}
		if _, ok := s.vertices[op.ID]; ok {
			return errors.Precondition("vertex %q is already declared", op.ID)
		}
		v := &sceneVertex{}
		if op.Position != nil {
			v.pos = *op.Position
		} else {
			v.pos = s.FreeSlot()
		}
		s.vertices[op.ID] = v
		s.vOrder = append(s.vOrder, op.ID)

	case OpAddEdge:
		if _, ok := s.edges[op.ID]; ok {
			return errors.Precondition("edge %q is already declared", op.ID)
		}
		for _, end := range []string{op.Source, op.Target} {
			if _, ok := s.vertices[end]; !ok {
				return errors.Precondition("edge %q references undeclared vertex %q", op.ID, end)
			}
		}
		s.edges[op.ID] = &sceneEdge{source: op.Source, target: op.Target}
		s.eOrder = append(s.eOrder, op.ID)

	case OpRecolourVertex:
		v, ok := s.vertices[op.ID]
		if !ok {
			return errors.Precondition("vertex %q is not declared", op.ID)
		}
		if !op.Colour.Valid() {
			return errors.Precondition("invalid colour %q for vertex %q", op.Colour, op.ID)
		}
		v.class = op.Colour

	default:
		return errors.Precondition("unknown op kind %s", op.Kind)
	}
	return nil
}

// FreeSlot returns the first grid slot, in row-major order, that no declared
// vertex occupies.
func (s *Scene) FreeSlot() graph.Point {
	taken := make(map[graph.Point]bool, len(s.vertices))
	for _, v := range s.vertices {
		taken[v.pos] = true
	}
	for i := 0; ; i++ {
		p := graph.Point{
			X: float64(i%gridColumns) * gridSpacing,
			Y: float64(i/gridColumns) * gridSpacing,
		}
		if !taken[p] {
			return p
		}
	}
}

func (s *Scene) clone() *Scene {
	c := &Scene{
		snapshot: s.snapshot,
		vertices: make(map[string]*sceneVertex, len(s.vertices)),
		vOrder:   slices.Clone(s.vOrder),
		edges:    make(map[string]*sceneEdge, len(s.edges)),
		eOrder:   slices.Clone(s.eOrder),
	}
	for id, v := range s.vertices {
		cp := *v
		c.vertices[id] = &cp
	}
	for id, e := range s.edges {
		cp := *e
		c.edges[id] = &cp
	}
	return c
}

func remove(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(x string) bool { return x == id })
}

// Vertices returns the declared vertices in declaration order.
func (s *Scene) Vertices() []SceneVertex {
	out := make([]SceneVertex, 0, len(s.vOrder))
	for _, id := range s.vOrder {
		v := s.vertices[id]
		out = append(out, SceneVertex{ID: id, Class: v.class, Pos: v.pos, Selected: v.selected})
	}
	return out
}

// Edges returns the declared edges in declaration order.
func (s *Scene) Edges() []SceneEdge {
	out := make([]SceneEdge, 0, len(s.eOrder))
	for _, id := range s.eOrder {
		e := s.edges[id]
		out = append(out, SceneEdge{ID: id, Source: e.source, Target: e.target, Selected: e.selected})
	}
	return out
}

// Class returns the colour class a vertex is currently drawn in.
func (s *Scene) Class(id string) (colouring.Colour, bool) {
	v, ok := s.vertices[id]
	if !ok || v.class == "" {
		return "", false
	}
	return v.class, true
}

// Position returns the live position of a declared vertex.
func (s *Scene) Position(id string) (graph.Point, bool) {
	v, ok := s.vertices[id]
	if !ok {
		return graph.Point{}, false
	}
	return v.pos, true
}

// Move sets the live position of a declared vertex.
func (s *Scene) Move(id string, p graph.Point) error {
	v, ok := s.vertices[id]
	if !ok {
		return errors.Precondition("vertex %q is not declared", id)
	}
	v.pos = p
	return nil
}

// Select marks a declared vertex as selected or not.
func (s *Scene) Select(id string, on bool) error {
	v, ok := s.vertices[id]
	if !ok {
		return errors.Precondition("vertex %q is not declared", id)
	}
	v.selected = on
	return nil
}

// SelectEdge marks a declared edge as selected or not.
func (s *Scene) SelectEdge(id string, on bool) error {
	e, ok := s.edges[id]
	if !ok {
		return errors.Precondition("edge %q is not declared", id)
	}
	e.selected = on
	return nil
}

// SelectedVertices returns the selected vertices in declaration order,
// carrying their live positions.
func (s *Scene) SelectedVertices() []graph.Vertex {
	var out []graph.Vertex
	for _, id := range s.vOrder {
		if v := s.vertices[id]; v.selected {
			out = append(out, graph.VertexAt(id, v.pos.X, v.pos.Y))
		}
	}
	return out
}

// SelectedEdges returns the selected edges in declaration order.
func (s *Scene) SelectedEdges() []graph.Edge {
	var out []graph.Edge
	for _, id := range s.eOrder {
		e := s.edges[id]
		if !e.selected {
			continue
		}
		out = append(out, graph.Edge{ID: id, Source: graph.NewVertex(e.source), Target: graph.NewVertex(e.target)})
	}
	return out
}

// ClearSelection deselects everything.
func (s *Scene) ClearSelection() {
	for _, v := range s.vertices {
		v.selected = false
	}
	for _, e := range s.edges {
		e.selected = false
	}
}

// Consistent reports whether the declared elements and colour classes match
// the registered snapshot exactly.
func (s *Scene) Consistent() error {
	g := s.snapshot.Graph()
	if g.VertexCount() != len(s.vertices) {
		return errors.Precondition("scene declares %d vertices, snapshot has %d", len(s.vertices), g.VertexCount())
	}
	if g.EdgeCount() != len(s.edges) {
		return errors.Precondition("scene declares %d edges, snapshot has %d", len(s.edges), g.EdgeCount())
	}
	colours := s.snapshot.Colours()
	for _, id := range slices.Sorted(maps.Keys(colours)) {
		v, ok := s.vertices[id]
		if !ok {
			return errors.Precondition("vertex %q is not declared", id)
		}
		if v.class != colours[id] {
			return errors.Precondition("vertex %q drawn %q, snapshot says %q", id, v.class, colours[id])
		}
	}
	for _, e := range g.Edges() {
		se, ok := s.edges[e.ID]
		if !ok {
			return errors.Precondition("edge %q is not declared", e.ID)
		}
		if !e.Connects(graph.NewVertex(se.source), graph.NewVertex(se.target)) {
			return errors.Precondition("edge %q joins %s-%s, snapshot says %s-%s", e.ID, se.source, se.target, e.Source.ID, e.Target.ID)
		}
	}
	return nil
}
