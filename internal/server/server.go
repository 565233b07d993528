// Package server exposes editing sessions over HTTP.
//
// Each session owns a [reconcile.Scene] standing in for a remote view, an
// [editor.Editor] driving it, and an in-memory checkpoint store. Every
// mutation returns the ordered view operations so that a browser client can
// replay them against its own rendering.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/bicolour/internal/config"
	"github.com/matzehuels/bicolour/pkg/cache"
	"github.com/matzehuels/bicolour/pkg/render/nodelink"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server is the HTTP view collaborator.
type Server struct {
	cfg      config.Server
	logger   *log.Logger
	sessions *registry
	router   chi.Router

	renders   cache.Cache
	renderTTL time.Duration
	engine    nodelink.Engine
	labels    bool
}

// Option configures a Server.
type Option func(*Server)

// WithRenderCache caches rendered SVGs in c. Keys are scoped per session.
func WithRenderCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Server) {
		if c != nil {
			s.renders = c
			s.renderTTL = ttl
		}
	}
}

// WithRenderOptions sets the default layout engine and labelling used by the
// render endpoint. An unknown engine keeps neato.
func WithRenderOptions(engine string, labels bool) Option {
	return func(s *Server) {
		if e, err := nodelink.ParseEngine(engine); err == nil {
			s.engine = e
		}
		s.labels = labels
	}
}

// New builds a server from the [server] config section. A nil logger
// discards output.
func New(cfg config.Server, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: newRegistry(cfg.MaxSessions),
		renders:  cache.NewNullCache(),
		engine:   nodelink.EngineNeato,
		labels:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Put("/", s.replaceSession)
			r.Delete("/", s.deleteSession)
			r.Post("/vertices", s.addVertex)
			r.Post("/actions/{action}", s.runAction)
			r.Get("/render", s.render)
		})
	})

	return r
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
