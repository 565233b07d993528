package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bicolour/internal/config"
	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/errors"
	"github.com/matzehuels/bicolour/pkg/graph"
	pkgio "github.com/matzehuels/bicolour/pkg/io"
	"github.com/matzehuels/bicolour/pkg/observability"
	"github.com/matzehuels/bicolour/pkg/reconcile"
)

const starDoc = `{
  "vertices": [{"id": "h", "x": 0, "y": 0}, {"id": "a"}, {"id": "b"}, {"id": "c"}],
  "edges": [
    {"id": "a_h", "source": {"id": "h"}, "target": {"id": "a"}},
    {"id": "b_h", "source": {"id": "h"}, "target": {"id": "b"}},
    {"id": "c_h", "source": {"id": "h"}, "target": {"id": "c"}}
  ],
  "colours": {"h": "black", "a": "white", "b": "white", "c": "white"}
}`

func newTestServer(t *testing.T, mutate ...func(*config.Server)) *httptest.Server {
	t.Helper()
	cfg := config.Default().Server
	for _, m := range mutate {
		m(&cfg)
	}
	ts := httptest.NewServer(New(cfg, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeOps(t *testing.T, resp *http.Response) opsResponse {
	t.Helper()
	var out opsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeError(t *testing.T, resp *http.Response) errors.Code {
	t.Helper()
	var out errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Error.Code
}

func kinds(ops []reconcile.Op) []reconcile.OpKind {
	out := make([]reconcile.OpKind, len(ops))
	for i, op := range ops {
		out[i] = op.Kind
	}
	return out
}

func createSession(t *testing.T, ts *httptest.Server, doc string) string {
	t.Helper()
	resp := do(t, ts, http.MethodPost, "/sessions", doc)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decodeOps(t, resp)
	require.NotEmpty(t, out.ID)
	return out.ID
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["sessions"])
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/sessions", starDoc)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeOps(t, resp)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, reconcile.OpReplaceSnapshot, created.Ops[0].Kind)
	assert.Equal(t, "7 added, 0 removed, 4 recoloured", created.Summary)

	resp = do(t, ts, http.MethodGet, "/sessions/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	c, err := pkgio.Read(resp.Body, pkgio.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Graph().VertexCount())
	assert.Equal(t, 3, c.Graph().EdgeCount())

	resp = do(t, ts, http.MethodDelete, "/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeSessionNotFound, decodeError(t, resp))

	resp = do(t, ts, http.MethodDelete, "/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateEmptySession(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decodeOps(t, resp)
	assert.NotNil(t, out.Ops)
	assert.Empty(t, out.Ops)
}

func TestCreateMalformedSession(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/sessions", `{"vertices": [{"id": "a"}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeMalformedInput, decodeError(t, resp))

	resp = do(t, ts, http.MethodGet, "/health", "")
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.EqualValues(t, 0, body["sessions"], "a rejected document must not register a session")
}

func TestReplaceSession(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, starDoc)

	resp := do(t, ts, http.MethodPut, "/sessions/"+id, `{"vertices": [{"id": "h"}], "colours": {"h": "white"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeOps(t, resp)
	assert.Equal(t, []reconcile.OpKind{
		reconcile.OpRemoveEdge, reconcile.OpRemoveEdge, reconcile.OpRemoveEdge,
		reconcile.OpRemoveVertex, reconcile.OpRemoveVertex, reconcile.OpRemoveVertex,
		reconcile.OpReplaceSnapshot,
		reconcile.OpRecolourVertex,
	}, kinds(out.Ops))

	resp = do(t, ts, http.MethodPut, "/sessions/"+id, `{"vertices": [`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/sessions/"+id, "")
	c, err := pkgio.Read(resp.Body, pkgio.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Graph().VertexCount(), "a malformed document leaves the session unchanged")
}

func TestTOMLDocuments(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, starDoc)

	resp := do(t, ts, http.MethodGet, "/sessions/"+id+"?format=toml", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/toml", resp.Header.Get("Content-Type"))
	c, err := pkgio.Read(resp.Body, pkgio.FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Graph().VertexCount())

	resp = do(t, ts, http.MethodGet, "/sessions/"+id+"?format=yaml", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddVertexAndActions(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, "")
	base := "/sessions/" + id

	for _, body := range []string{
		`{"colour": "black", "x": 0, "y": 0}`,
		`{"colour": "white", "x": 40, "y": 0}`,
		`{"colour": "white", "x": 80, "y": 0}`,
	} {
		resp := do(t, ts, http.MethodPost, base+"/vertices", body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		out := decodeOps(t, resp)
		assert.Equal(t, "1 added, 0 removed, 1 recoloured", out.Summary)
	}

	resp := do(t, ts, http.MethodPost, base+"/vertices", `{"colour": "grey"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeInvalidColour, decodeError(t, resp))

	all := `{"vertices": [{"id": "v1"}, {"id": "v2"}, {"id": "v3"}]}`
	resp = do(t, ts, http.MethodPost, base+"/actions/biconnect", all)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeOps(t, resp)
	var added []string
	for _, op := range out.Ops {
		if op.Kind == reconcile.OpAddEdge {
			added = append(added, op.ID)
		}
	}
	assert.Equal(t, []string{"v1_v2", "v1_v3"}, added)

	resp = do(t, ts, http.MethodPost, base+"/actions/connect", `{"vertices": [{"id": "v2"}, {"id": "v3"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1 added, 0 removed, 0 recoloured", decodeOps(t, resp).Summary)

	resp = do(t, ts, http.MethodPost, base+"/actions/colour", `{"vertices": [{"id": "v1", "x": 5, "y": 6}], "colour": "white"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out = decodeOps(t, resp)
	require.Len(t, out.Ops, 2)
	assert.Equal(t, colouring.White, out.Ops[1].Colour)
	assert.Equal(t, colouring.Black, out.Ops[1].Previous)

	resp = do(t, ts, http.MethodPost, base+"/actions/relax", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0 added, 0 removed, 0 recoloured", decodeOps(t, resp).Summary)

	resp = do(t, ts, http.MethodPost, base+"/actions/delete", `{"edges": ["v2_v3"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out = decodeOps(t, resp)
	assert.Equal(t, []reconcile.OpKind{reconcile.OpRemoveEdge, reconcile.OpReplaceSnapshot}, kinds(out.Ops))

	resp = do(t, ts, http.MethodGet, base, "")
	c, err := pkgio.Read(resp.Body, pkgio.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Graph().EdgeCount())
	v1, _ := c.Graph().Vertex("v1")
	p, ok := v1.Position()
	require.True(t, ok)
	assert.Equal(t, graph.Point{X: 5, Y: 6}, p, "positions sent with a selection are kept")
}

func TestActionErrors(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, starDoc)
	base := "/sessions/" + id + "/actions/"

	tests := []struct {
		name   string
		action string
		body   string
		status int
		code   errors.Code
	}{
		{"unknown vertex", "connect", `{"vertices": [{"id": "zz"}]}`, http.StatusConflict, errors.ErrCodePreconditionViolation},
		{"unknown edge", "delete", `{"edges": ["zz"]}`, http.StatusConflict, errors.ErrCodePreconditionViolation},
		{"half position", "connect", `{"vertices": [{"id": "h", "x": 1}]}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad colour", "colour", `{"vertices": [{"id": "h"}], "colour": "red"}`, http.StatusBadRequest, errors.ErrCodeInvalidColour},
		{"bad json", "relax", `{`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown action", "explode", `{}`, http.StatusNotFound, errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, ts, http.MethodPost, base+tt.action, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp))
		})
	}

	resp := do(t, ts, http.MethodPost, "/sessions/missing/actions/relax", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRejectedSelectionMovesNothing(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, starDoc)
	base := "/sessions/" + id

	for _, body := range []string{
		`{"vertices": [{"id": "h", "x": 50, "y": 50}, {"id": "zz"}]}`,
		`{"vertices": [{"id": "h", "x": 50, "y": 50}, {"id": "a", "y": 3}]}`,
		`{"vertices": [{"id": "h", "x": 50, "y": 50}], "edges": ["zz"]}`,
	} {
		resp := do(t, ts, http.MethodPost, base+"/actions/connect", body)
		assert.NotEqual(t, http.StatusOK, resp.StatusCode, body)
	}

	resp := do(t, ts, http.MethodGet, base, "")
	c, err := pkgio.Read(resp.Body, pkgio.FormatJSON)
	require.NoError(t, err)
	h, _ := c.Graph().Vertex("h")
	p, ok := h.Position()
	require.True(t, ok)
	assert.Equal(t, graph.Point{X: 0, Y: 0}, p, "a rejected request must not move vertices")
}

func TestRelaxAction(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, starDoc)

	resp := do(t, ts, http.MethodPost, "/sessions/"+id+"/actions/relax", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeOps(t, resp)
	require.Len(t, out.Ops, 2)
	assert.Equal(t, reconcile.OpRecolourVertex, out.Ops[1].Kind)
	assert.Equal(t, "h", out.Ops[1].ID)
	assert.Equal(t, colouring.White, out.Ops[1].Colour)
}

func TestSaveAndLoadCheckpoint(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, starDoc)
	base := "/sessions/" + id + "/actions/"

	resp := do(t, ts, http.MethodPost, base+"load", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "nothing saved yet")

	resp = do(t, ts, http.MethodPost, base+"save", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, base+"delete", `{"vertices": [{"id": "h"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0 added, 4 removed, 0 recoloured", decodeOps(t, resp).Summary)

	resp = do(t, ts, http.MethodPost, base+"load", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "4 added, 0 removed, 1 recoloured", decodeOps(t, resp).Summary)
}

func TestSessionLimit(t *testing.T) {
	ts := newTestServer(t, func(c *config.Server) { c.MaxSessions = 1 })

	createSession(t, ts, "")
	resp := do(t, ts, http.MethodPost, "/sessions", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, func(c *config.Server) { c.AllowedOrigins = []string{"http://localhost:5173"} })

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/sessions", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	h := New(config.Default().Server, nil).Handler()
	for _, path := range []string{"/health", "/sessions/nope"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, hooks.statuses)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(errors.Precondition("x")))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(errors.Malformed(nil, "x")))
	assert.Equal(t, http.StatusBadGateway, statusFor(errors.IOFailure(nil, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(context.Canceled))
}

func TestRenderDOT(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, starDoc)

	resp := do(t, ts, http.MethodGet, "/sessions/"+id+"/render?format=dot&labels=false", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/vnd.graphviz", resp.Header.Get("Content-Type"))

	var sb strings.Builder
	_, err := io.Copy(&sb, resp.Body)
	require.NoError(t, err)
	dot := sb.String()
	assert.Contains(t, dot, "graph G {")
	assert.Contains(t, dot, `pos="0.000,0.000!"`, "scene positions pin vertices")
	assert.Contains(t, dot, `"h" -- "a"`)
	assert.NotContains(t, dot, `label="h"`)
}

func TestRenderRejectsBadOptions(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, starDoc)

	for _, query := range []string{"format=png", "engine=sketch", "labels=maybe"} {
		resp := do(t, ts, http.MethodGet, "/sessions/"+id+"/render?"+query, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
	}
}
