package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bicolour/pkg/buildinfo"
	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/editor"
	"github.com/matzehuels/bicolour/pkg/errors"
	"github.com/matzehuels/bicolour/pkg/graph"
	pkgio "github.com/matzehuels/bicolour/pkg/io"
	"github.com/matzehuels/bicolour/pkg/reconcile"
)

// Actions accepted by POST /sessions/{id}/actions/{action}, besides the
// editor's own mutation names.
const (
	actionSave = "save"
	actionLoad = "load"
)

type opsResponse struct {
	ID      string         `json:"id,omitempty"`
	Ops     []reconcile.Op `json:"ops"`
	Summary string         `json:"summary"`
}

func newOpsResponse(id string, ops []reconcile.Op) opsResponse {
	if ops == nil {
		ops = []reconcile.Op{}
	}
	return opsResponse{ID: id, Ops: ops, Summary: reconcile.Summarize(ops).String()}
}

type vertexRef struct {
	ID string   `json:"id"`
	X  *float64 `json:"x,omitempty"`
	Y  *float64 `json:"y,omitempty"`
}

type actionRequest struct {
	Vertices []vertexRef `json:"vertices"`
	Edges    []string    `json:"edges"`
	Colour   string      `json:"colour"`
}

type addVertexRequest struct {
	Colour string  `json:"colour"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Get(),
		"sessions": s.sessions.len(),
	})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	sess := newSession(s.logger)
	var ops []reconcile.Op
	if len(strings.TrimSpace(string(body))) > 0 {
		res, err := loadDocument(r, sess, body)
		if err != nil {
			writeError(w, err)
			return
		}
		ops = res.Ops
	}
	if err := s.sessions.add(sess); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("session created", "id", sess.id, "vertices", sess.scene.Snapshot().Graph().VertexCount())
	writeJSON(w, http.StatusCreated, newOpsResponse(sess.id, ops))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	format, err := requestFormat(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sess.mu.Lock()
	data, err := pkgio.Encode(sess.scene.Snapshot(), sess.scene, format)
	sess.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) replaceSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	res, err := loadDocument(r, sess, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newOpsResponse("", res.Ops))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.remove(id) {
		writeError(w, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id))
		return
	}
	s.logger.Info("session deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addVertex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req addVertexRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	col, err := colouring.ParseColour(req.Colour)
	if err != nil {
		writeError(w, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	res, err := sess.editor.AddVertex(r.Context(), col, req.X, req.Y)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newOpsResponse("", res.Ops))
}

func (s *Server) runAction(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req actionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	defer sess.scene.ClearSelection()

	if err := selectAll(sess.scene, req); err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	ed := sess.editor
	var res editor.Result
	switch action := chi.URLParam(r, "action"); action {
	case editor.ActionColour:
		var col colouring.Colour
		if col, err = colouring.ParseColour(req.Colour); err == nil {
			res, err = ed.SetColourOnSelection(ctx, col)
		}
	case editor.ActionConnect:
		res, err = ed.ConnectSelection(ctx)
	case editor.ActionBiconnect:
		res, err = ed.BiconnectSelection(ctx)
	case editor.ActionDelete:
		res, err = ed.DeleteSelection(ctx)
	case editor.ActionRelax:
		res, err = ed.Relax(ctx)
	case actionSave:
		err = ed.Export(ctx)
	case actionLoad:
		res, err = ed.Import(ctx)
	default:
		err = errors.New(errors.ErrCodeNotFound, "unknown action %q", action)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newOpsResponse("", res.Ops))
}

// selectAll replaces the scene selection with the request's vertices and
// edges, moving vertices that carry a position first. The whole request is
// checked before the scene changes, so a rejected request moves nothing.
func selectAll(scene *reconcile.Scene, req actionRequest) error {
	for _, v := range req.Vertices {
		if (v.X == nil) != (v.Y == nil) {
			return errors.New(errors.ErrCodeInvalidInput, "vertex %q: x and y must be given together", v.ID)
		}
		if _, ok := scene.Position(v.ID); !ok {
			return errors.Precondition("vertex %q is not declared", v.ID)
		}
	}
	if len(req.Edges) > 0 {
		declared := make(map[string]bool)
		for _, e := range scene.Edges() {
			declared[e.ID] = true
		}
		for _, id := range req.Edges {
			if !declared[id] {
				return errors.Precondition("edge %q is not declared", id)
			}
		}
	}

	scene.ClearSelection()
	for _, v := range req.Vertices {
		if v.X != nil {
			if err := scene.Move(v.ID, graph.Point{X: *v.X, Y: *v.Y}); err != nil {
				return err
			}
		}
		if err := scene.Select(v.ID, true); err != nil {
			return err
		}
	}
	for _, id := range req.Edges {
		if err := scene.SelectEdge(id, true); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) session(r *http.Request) (*session, error) {
	return s.sessions.get(chi.URLParam(r, "id"))
}

// loadDocument replaces the session's colouring with the decoded body.
// The caller holds sess.mu, or owns sess exclusively.
func loadDocument(r *http.Request, sess *session, body []byte) (editor.Result, error) {
	format, err := requestFormat(r)
	if err != nil {
		return editor.Result{}, err
	}
	return sess.editor.Mutate(r.Context(), editor.ActionLoad, func(colouring.Colouring) (colouring.Colouring, error) {
		return pkgio.Decode(body, format)
	})
}

// requestFormat picks the document format from the "format" query parameter,
// then the Content-Type header. JSON is the default.
func requestFormat(r *http.Request) (pkgio.Format, error) {
	if q := r.URL.Query().Get("format"); q != "" {
		return pkgio.ParseFormat(q)
	}
	if strings.Contains(r.Header.Get("Content-Type"), "toml") {
		return pkgio.FormatTOML, nil
	}
	return pkgio.FormatJSON, nil
}

func contentType(f pkgio.Format) string {
	if f == pkgio.FormatTOML {
		return "application/toml"
	}
	return "application/json"
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}
