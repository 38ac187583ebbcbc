// HTTP surface over the simulation engine. The polling client issues
// commands and fetches state snapshots as JSON; everything else lives in
// the sim package.

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/balansim/balansim/sim"
)

// Server wires the engine to an HTTP listener.
type Server struct {
	engine *sim.Engine
	srv    *http.Server
}

// New creates a server for the given engine, listening on addr.
func New(engine *sim.Engine, addr string) *Server {
	s := &Server{engine: engine}
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	return s
}

// Router builds the chi router with all simulation endpoints.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.NoCache)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Post("/start", s.handleStart)
	router.Post("/pause", s.handlePause)
	router.Post("/reset", s.handleReset)
	router.Post("/add_process", s.handleAddProcess)
	router.Post("/generate_processes", s.handleGenerateProcesses)
	router.Get("/state", s.handleState)

	return router
}

// Serve starts listening. Blocks until the listener fails or Shutdown runs.
func (s *Server) Serve() error {
	logrus.Infof("Listening on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown() error {
	logrus.Info("Shutting down HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
