package editor

import (
	"context"
	stderrors "errors"
	"maps"
	"slices"
	"testing"

	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/errors"
	"github.com/matzehuels/bicolour/pkg/graph"
	pkgio "github.com/matzehuels/bicolour/pkg/io"
	"github.com/matzehuels/bicolour/pkg/observability"
	"github.com/matzehuels/bicolour/pkg/reconcile"
	"github.com/matzehuels/bicolour/pkg/textio"
)

func session(t *testing.T, colours map[string]colouring.Colour, edges ...[2]string) (*Editor, *reconcile.Scene) {
	t.Helper()
	var g graph.Graph
	for _, id := range slices.Sorted(maps.Keys(colours)) {
		var err error
		if g, err = g.AddVertex(graph.NewVertex(id)); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		var err error
		if g, err = g.AddEdge(graph.NewVertex(e[0]), graph.NewVertex(e[1])); err != nil {
			t.Fatal(err)
		}
	}
	c, err := colouring.New(g, colours)
	if err != nil {
		t.Fatal(err)
	}
	scene, err := reconcile.SceneOf(c)
	if err != nil {
		t.Fatal(err)
	}
	return New(scene), scene
}

func selectAll(t *testing.T, s *reconcile.Scene, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := s.Select(id, true); err != nil {
			t.Fatal(err)
		}
	}
}

func connected(c colouring.Colouring, a, b string) bool {
	return c.Graph().ContainsEdge(graph.NewVertex(a), graph.NewVertex(b))
}

func mustConsistent(t *testing.T, s *reconcile.Scene) {
	t.Helper()
	if err := s.Consistent(); err != nil {
		t.Fatalf("scene out of sync: %v", err)
	}
}

func TestAddVertex(t *testing.T) {
	ctx := context.Background()
	ed, scene := session(t, map[string]colouring.Colour{"v1": colouring.White})
	selectAll(t, scene, "v1")

	res, err := ed.AddVertex(ctx, colouring.Black, 30, 40)
	if err != nil {
		t.Fatal(err)
	}
	mustConsistent(t, scene)

	v, ok := res.Snapshot.Graph().Vertex("v2")
	if !ok {
		t.Fatalf("expected v2 (v1 is taken), got %v", res.Snapshot.Graph().Vertices())
	}
	if p, _ := scene.Position(v.ID); p != (graph.Point{X: 30, Y: 40}) {
		t.Errorf("scene position = %v", p)
	}
	if col, _ := scene.Class("v2"); col != colouring.Black {
		t.Errorf("class = %q", col)
	}
	if len(scene.SelectedVertices()) != 0 {
		t.Error("add should clear the selection")
	}
}

func TestSetColourOnSelection(t *testing.T) {
	ctx := context.Background()
	ed, scene := session(t, map[string]colouring.Colour{
		"a": colouring.Black, "b": colouring.Black, "c": colouring.Black,
	})
	selectAll(t, scene, "a", "c")

	res, err := ed.SetColourOnSelection(ctx, colouring.White)
	if err != nil {
		t.Fatal(err)
	}
	mustConsistent(t, scene)

	if got := res.Summary().Recoloured; got != 2 {
		t.Errorf("recoloured %d vertices, want 2", got)
	}
	if n := res.Snapshot.CountColour(colouring.White); n != 2 {
		t.Errorf("white count = %d", n)
	}
	if len(scene.SelectedVertices()) != 0 {
		t.Error("colour should clear the selection")
	}
}

func TestInvalidColourAbortsAction(t *testing.T) {
	ctx := context.Background()
	ed, scene := session(t, map[string]colouring.Colour{"a": colouring.Black})
	selectAll(t, scene, "a")
	before := scene.Snapshot()

	_, err := ed.SetColourOnSelection(ctx, colouring.Colour("red"))
	if !errors.Is(err, errors.ErrCodePreconditionViolation) {
		t.Fatalf("error = %v, want precondition violation", err)
	}
	if !scene.Snapshot().Equal(before) {
		t.Error("failed action changed the snapshot")
	}
	if len(scene.SelectedVertices()) != 1 {
		t.Error("failed action should keep the selection")
	}
}

func TestConnectSelectionFormsClique(t *testing.T) {
	ctx := context.Background()
	ed, scene := session(t, map[string]colouring.Colour{
		"a": colouring.Black, "b": colouring.Black, "c": colouring.White, "d": colouring.White,
	})
	selectAll(t, scene, "a", "b", "c")

	res, err := ed.ConnectSelection(ctx)
	if err != nil {
		t.Fatal(err)
	}
	mustConsistent(t, scene)

	c := res.Snapshot
	for _, p := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}} {
		if !connected(c, p[0], p[1]) {
			t.Errorf("%s-%s not connected", p[0], p[1])
		}
	}
	if c.Graph().EdgeCount() != 3 {
		t.Errorf("edge count = %d, want 3", c.Graph().EdgeCount())
	}
}

func TestBiconnectOnlyJoinsDifferentColours(t *testing.T) {
	ctx := context.Background()
	ed, scene := session(t, map[string]colouring.Colour{
		"a": colouring.Black, "b": colouring.White, "c": colouring.White, "d": colouring.Black,
	})
	selectAll(t, scene, "a", "b", "c", "d")

	res, err := ed.BiconnectSelection(ctx)
	if err != nil {
		t.Fatal(err)
	}
	mustConsistent(t, scene)

	c := res.Snapshot
	for _, e := range c.Graph().Edges() {
		cs, _ := c.Colour(e.Source)
		ct, _ := c.Colour(e.Target)
		if cs == ct {
			t.Errorf("biconnect joined same-coloured pair %v", e)
		}
	}
	if c.Graph().EdgeCount() != 4 {
		t.Errorf("edge count = %d, want 4", c.Graph().EdgeCount())
	}
}

func TestDeleteSelection(t *testing.T) {
	ctx := context.Background()
	ed, scene := session(t, map[string]colouring.Colour{
		"a": colouring.Black, "b": colouring.White, "c": colouring.White,
	}, [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"a", "c"})
	selectAll(t, scene, "a")
	if err := scene.SelectEdge("b_c", true); err != nil {
		t.Fatal(err)
	}

	res, err := ed.DeleteSelection(ctx)
	if err != nil {
		t.Fatal(err)
	}
	mustConsistent(t, scene)

	g := res.Snapshot.Graph()
	if g.VertexCount() != 2 || g.EdgeCount() != 0 {
		t.Errorf("after delete: %d vertices, %d edges; want 2, 0", g.VertexCount(), g.EdgeCount())
	}
}

func TestRelax(t *testing.T) {
	ctx := context.Background()
	ed, scene := session(t, map[string]colouring.Colour{
		"hub": colouring.Black, "x": colouring.White, "y": colouring.White,
	}, [2]string{"hub", "x"}, [2]string{"hub", "y"})

	res, err := ed.Relax(ctx)
	if err != nil {
		t.Fatal(err)
	}
	mustConsistent(t, scene)

	if col, _ := scene.Class("hub"); col != colouring.White {
		t.Errorf("hub = %q, want white", col)
	}
	if res.Summary().Recoloured != 1 {
		t.Errorf("summary = %v", res.Summary())
	}
}

func TestLoadMalformedKeepsSession(t *testing.T) {
	ctx := context.Background()
	ed, scene := session(t, map[string]colouring.Colour{"a": colouring.Black})
	before := scene.Snapshot()

	docs := []string{
		`{"vertices": [`,
		`{"vertices": [{"id": "a"}], "colours": {"a": "black", "ghost": "white"}}`,
		`{"vertices": [{"id": "a"}], "edges": [{"id": "a_z", "source": {"id": "a"}, "target": {"id": "z"}}], "colours": {"a": "black"}}`,
	}
	for _, doc := range docs {
		_, err := ed.Load(ctx, doc)
		if !errors.Is(err, errors.ErrCodeMalformedInput) {
			t.Errorf("Load(%q) error = %v, want MALFORMED_INPUT", doc, err)
		}
		if !scene.Snapshot().Equal(before) {
			t.Fatalf("Load(%q) changed the session", doc)
		}
		mustConsistent(t, scene)
	}
}

func TestSaveUsesLivePositions(t *testing.T) {
	ctx := context.Background()
	ed, scene := session(t, map[string]colouring.Colour{"a": colouring.Black, "b": colouring.White}, [2]string{"a", "b"})
	if err := scene.Move("a", graph.Point{X: 7, Y: 9}); err != nil {
		t.Fatal(err)
	}

	text, err := ed.Save(ctx)
	if err != nil {
		t.Fatal(err)
	}
	c, err := pkgio.Unmarshal([]byte(text))
	if err != nil {
		t.Fatalf("saved document does not decode: %v", err)
	}
	a, _ := c.Graph().Vertex("a")
	if p, ok := a.Position(); !ok || p != (graph.Point{X: 7, Y: 9}) {
		t.Errorf("saved position of a = %v, %v", p, ok)
	}
	b, _ := c.Graph().Vertex("b")
	if !b.HasPosition() {
		t.Error("every saved vertex should carry coordinates")
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	store := textio.NewMemory("")
	src, _ := session(t, map[string]colouring.Colour{"a": colouring.Black, "b": colouring.White}, [2]string{"a", "b"})
	src = New(src.View(), WithStore(store))

	if err := src.Export(ctx); err != nil {
		t.Fatal(err)
	}

	scene := reconcile.NewScene()
	dst := New(scene, WithStore(store))
	res, err := dst.Import(ctx)
	if err != nil {
		t.Fatal(err)
	}
	mustConsistent(t, scene)
	if res.Snapshot.Graph().VertexCount() != 2 || !connected(res.Snapshot, "a", "b") {
		t.Errorf("imported snapshot = %v", res.Snapshot.Graph().Vertices())
	}
}

func TestExportImportTOML(t *testing.T) {
	ctx := context.Background()
	store := textio.NewMemory("")
	ed, _ := session(t, map[string]colouring.Colour{"a": colouring.White})
	ed = New(ed.View(), WithStore(store), WithFormat(pkgio.FormatTOML))

	if err := ed.Export(ctx); err != nil {
		t.Fatal(err)
	}
	text, _ := store.ReadText(ctx)
	if _, err := pkgio.Decode([]byte(text), pkgio.FormatTOML); err != nil {
		t.Fatalf("stored text is not TOML: %v\n%s", err, text)
	}
	if _, err := ed.Import(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestExportWithoutStore(t *testing.T) {
	ed, _ := session(t, map[string]colouring.Colour{"a": colouring.White})
	if err := ed.Export(context.Background()); !errors.Is(err, errors.ErrCodePreconditionViolation) {
		t.Errorf("Export error = %v", err)
	}
	if _, err := ed.Import(context.Background()); !errors.Is(err, errors.ErrCodePreconditionViolation) {
		t.Errorf("Import error = %v", err)
	}
}

type brokenStore struct{}

func (brokenStore) WriteText(context.Context, string) error {
	return errors.IOFailure(stderrors.New("offline"), "write")
}
func (brokenStore) ReadText(context.Context) (string, error) {
	return "", errors.IOFailure(stderrors.New("offline"), "read")
}
func (brokenStore) Close() error { return nil }

func TestImportIOFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	ed, scene := session(t, map[string]colouring.Colour{"a": colouring.White})
	ed = New(scene, WithStore(brokenStore{}))
	before := scene.Snapshot()

	if _, err := ed.Import(ctx); !errors.Is(err, errors.ErrCodeIOFailure) {
		t.Fatalf("Import error = %v", err)
	}
	if err := ed.Export(ctx); !errors.Is(err, errors.ErrCodeIOFailure) {
		t.Fatalf("Export error = %v", err)
	}
	if !scene.Snapshot().Equal(before) {
		t.Error("IO failure changed the session")
	}
}

type recordingHooks struct {
	observability.NoopEditorHooks
	mutations []observability.Mutation
}

func (r *recordingHooks) OnMutation(_ context.Context, m observability.Mutation) {
	r.mutations = append(r.mutations, m)
}

func TestMutationHooks(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetEditorHooks(rec)
	defer observability.Reset()

	ctx := context.Background()
	ed, _ := session(t, map[string]colouring.Colour{"a": colouring.White})
	if _, err := ed.AddVertex(ctx, colouring.Black, 0, 0); err != nil {
		t.Fatal(err)
	}
	_, _ = ed.Load(ctx, "not a document")

	if len(rec.mutations) != 2 {
		t.Fatalf("recorded %d mutations, want 2", len(rec.mutations))
	}
	if m := rec.mutations[0]; m.Action != ActionAdd || m.Added != 1 || m.Err != nil {
		t.Errorf("add mutation = %+v", m)
	}
	if m := rec.mutations[1]; m.Action != ActionLoad || m.Err == nil {
		t.Errorf("load mutation = %+v", m)
	}
}

func TestMutateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ed, scene := session(t, map[string]colouring.Colour{"a": colouring.White})
	before := scene.Snapshot()
	if _, err := ed.Relax(ctx); !stderrors.Is(err, context.Canceled) {
		t.Errorf("Relax error = %v", err)
	}
	if !scene.Snapshot().Equal(before) {
		t.Error("cancelled mutation changed the session")
	}
}
