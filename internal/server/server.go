package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/n0madic/go-bookrec/internal/codec"
	"github.com/n0madic/go-bookrec/internal/config"
)

// maxBodyBytes limits the size of incoming request bodies.
const maxBodyBytes = 1 << 20 // 1 MB

// Function handles one invocation document. recommend.Service and
// analyze.Service implement it.
type Function interface {
	Handle(ctx context.Context, invocation []byte) *codec.Response
}

// Server is the HTTP front for the functions.
type Server struct {
	Config     *config.ServerConfig
	Router     *chi.Mux
	httpServer *http.Server
}

// New creates a server with a POST /api/{name} route per function.
func New(cfg *config.ServerConfig, functions map[string]Function) *Server {
	s := &Server{Config: cfg}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(verboseMiddleware(cfg))
	r.Use(debugMiddleware(cfg))
	r.Use(middleware.Recoverer)

	// Health
	r.Get("/", s.handleHealth)
	r.Get("/health", s.handleHealth)

	for name, fn := range functions {
		r.Post("/api/"+name, s.handleFunction(name, fn))
		r.Options("/api/"+name, s.handleOptions)
	}

	// CORS preflight for any path
	r.Options("/*", s.handleOptions)

	s.Router = r
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout(cfg.UpstreamTimeout),
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.Router }

// ListenAndServe starts the server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// writeTimeout leaves room past the upstream deadline to write the error
// response. No upstream deadline means no write deadline.
func writeTimeout(upstream time.Duration) time.Duration {
	if upstream <= 0 {
		return 0
	}
	return upstream + 30*time.Second
}
