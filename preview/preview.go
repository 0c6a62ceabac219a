// CLAUDE:SUMMARY Local preview server: chi router serving the deploy dir plus build trigger/status endpoints.
// Package preview serves a built bundle over HTTP for local play-testing.
//
// Routes:
//
//	GET  /health     liveness
//	GET  /api/build  last successful build (404 before the first one)
//	POST /api/build  run a build, return its Result (500 + error on failure)
//	GET  /api/watch  watcher counters (404 when not watching)
//	GET  /*          static files from the output directory
package preview

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/ptdbuild/bundler"
	"github.com/hazyhaar/ptdbuild/kit"
	"github.com/hazyhaar/ptdbuild/shield"
	"github.com/hazyhaar/ptdbuild/watch"
)

// Builder is the subset of *bundler.Bundler the server needs.
type Builder interface {
	Build(ctx context.Context) (*bundler.Result, error)
	Last() *bundler.Result
	NewBuildID() string
}

// WatchStatus is the subset of *watch.Watcher reported on /api/watch.
type WatchStatus interface {
	Stats() watch.Stats
	Version() int64
}

// Server is the preview HTTP server.
type Server struct {
	builder Builder
	watcher WatchStatus
	dir     string
	logger  *slog.Logger
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithWatcher reports w on GET /api/watch.
func WithWatcher(w WatchStatus) Option {
	return func(s *Server) { s.watcher = w }
}

// New creates a Server serving dir. A nil logger means slog.Default().
func New(builder Builder, dir string, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{builder: builder, dir: dir, logger: logger}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	for _, mw := range shield.DefaultStack(s.logger) {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/build", func(r chi.Router) {
		r.Get("/", s.handleLast)
		r.Post("/", s.handleBuild)
	})
	r.Get("/api/watch", s.handleWatch)

	r.Handle("/*", noCache(http.FileServer(http.Dir(s.dir))))
	return r
}

func (s *Server) handleLast(w http.ResponseWriter, _ *http.Request) {
	res := s.builder.Last()
	if res == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no build yet"})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	stack := kit.Chain(
		kit.WithTransportTag(kit.TransportHTTP),
		kit.WithBuildIDTag(s.builder.NewBuildID),
	)
	build := stack(func(ctx context.Context, _ any) (any, error) {
		id := kit.GetBuildID(ctx)
		w.Header().Set("X-Build-ID", id)
		res, err := s.builder.Build(ctx)
		if err != nil {
			s.logger.Warn("preview: build failed",
				"build_id", id, "request_id", kit.GetRequestID(ctx), "error", err)
			return nil, err
		}
		return res, nil
	})
	res, err := build(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleWatch(w http.ResponseWriter, _ *http.Request) {
	if s.watcher == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "watch mode is off"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version": s.watcher.Version(),
		"stats":   s.watcher.Stats(),
	})
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview: listening", "addr", addr, "dir", s.dir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("preview: shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// noCache keeps browsers from holding on to a stale bundle between rebuilds.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
