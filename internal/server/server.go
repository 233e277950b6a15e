package server

import (
	"context"
	"net/http"
	"time"

	"github.com/oggyb/portfolio-backend/internal/middleware"
	routes "github.com/oggyb/portfolio-backend/internal/router"
	"github.com/sirupsen/logrus"
)

// Server owns the underlying http.Server instance.
type Server struct {
	http *http.Server
}

// New creates a new HTTP server bound to the given address and configured
// with the provided application dependencies and middleware chain. An
// empty corsOrigins disables CORS headers.
func New(addr string, deps routes.AppDeps, corsOrigins string, log logrus.FieldLogger) *Server {
	mux := http.NewServeMux()
	routes.Register(mux, deps)

	var cors Middleware
	if corsOrigins != "" {
		cors = middleware.CORS(corsOrigins)
	}

	root := Chain(
		mux,
		middleware.RequestLogger(log),
		cors,
	)

	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           root,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
		},
	}
}

// Handler exposes the root handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start runs the HTTP server and blocks until ListenAndServe returns.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server, waiting for in-flight
// requests to complete until the given context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
