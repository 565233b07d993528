package server

import (
	"net/http"
	"strconv"

	"github.com/matzehuels/bicolour/pkg/cache"
	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/errors"
	pkgio "github.com/matzehuels/bicolour/pkg/io"
	"github.com/matzehuels/bicolour/pkg/render/nodelink"
)

// render serves the session as a node-link diagram. Query parameters:
// format (svg or dot), engine, labels.
func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	opts := nodelink.Options{Engine: s.engine, Labels: s.labels}
	if e := q.Get("engine"); e != "" {
		if opts.Engine, err = nodelink.ParseEngine(e); err != nil {
			writeError(w, err)
			return
		}
	}
	if l := q.Get("labels"); l != "" {
		if opts.Labels, err = strconv.ParseBool(l); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "labels"))
			return
		}
	}

	// Render from a copy so the lock is not held while Graphviz runs.
	sess.mu.Lock()
	snap := sess.scene.Snapshot()
	positions := make(locations)
	for _, v := range sess.scene.Vertices() {
		positions[v.ID] = v.Pos
	}
	sess.mu.Unlock()
	opts.Locator = positions

	switch format := q.Get("format"); format {
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(nodelink.ToDOT(snap, opts)))
	case "", "svg":
		data, hit, err := s.renderSVG(r, sess.id, snap, opts)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("X-Cache", cacheStatus(hit))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "unknown render format %q (want svg or dot)", format))
	}
}

func (s *Server) renderSVG(r *http.Request, id string, c colouring.Colouring, opts nodelink.Options) ([]byte, bool, error) {
	doc, err := pkgio.Encode(c, opts.Locator, pkgio.FormatJSON)
	if err != nil {
		return nil, false, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "session:"+id+":")
	key := keyer.RenderKey(cache.Hash(doc), cache.RenderKeyOpts{
		Engine: string(opts.Engine),
		Format: "svg",
		Labels: opts.Labels,
	})
	return cache.Fetch(r.Context(), s.renders, "render", key, s.renderTTL, func() ([]byte, error) {
		return nodelink.Render(r.Context(), c, opts)
	})
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
