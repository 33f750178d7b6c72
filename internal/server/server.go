// Package server exposes the recorder ingest and synthesis HTTP API. The
// on-page recorder streams interaction and network events into a session;
// the generate endpoint snapshots the session's logs and runs the synthesis
// engine over them.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/replaygen/replaygen/internal/storage"
	"github.com/replaygen/replaygen/internal/synth"
)

type Server struct {
	Router *chi.Mux
	Port   int
	logger *slog.Logger
}

// New builds the router with the standard middleware stack and registers the
// session routes. defaults are the generator options applied when a generate
// request does not override them.
func New(port int, timeout time.Duration, logger *slog.Logger, store storage.SessionStore, defaults synth.Options) *Server {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(TimeoutMiddleware(timeout))
	r.Use(middleware.Recoverer)

	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "replaygen")
	})

	h := &sessionHandler{store: store, defaults: defaults, logger: logger}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Get("/{id}", h.getSession)
		r.Post("/{id}/interactions", h.appendInteractions)
		r.Post("/{id}/network", h.appendNetwork)
		r.Post("/{id}/generate", h.generate)
	})

	return &Server{
		Router: r,
		Port:   port,
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting server", slog.Int("port", s.Port))
	return http.ListenAndServe(fmt.Sprintf(":%d", s.Port), s.Router)
}
