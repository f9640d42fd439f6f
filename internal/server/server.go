// Package server exposes the resolver, the fetch orchestrator and archive
// discovery over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/seabeam/echofetch/internal/discover"
	"github.com/seabeam/echofetch/internal/fetch"
	"github.com/seabeam/echofetch/internal/logger"
	"github.com/seabeam/echofetch/internal/resolve"
)

// Server holds the wired components behind the HTTP API.
type Server struct {
	Resolver     *resolve.Resolver
	Orchestrator *fetch.Orchestrator
	Explorer     *discover.Explorer
	Log          *logger.Logger

	Addr string
}

// Router builds the chi routing tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logger.RequestLogger(s.log()))

	r.Get("/healthz", s.handleHealthz)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/resolve", s.handleResolve)
		r.Post("/fetch", s.handleFetch)

		r.Route("/archive", func(r chi.Router) {
			r.Get("/ships", s.handleListShips)
			r.Get("/ships/{ship}/surveys", s.handleListSurveys)
			r.Get("/ships/{ship}/surveys/{survey}/echosounders", s.handleListEchosounders)
			r.Get("/ships/{ship}/surveys/{survey}/echosounders/{echosounder}/files", s.handleListFiles)
		})
	})

	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) log() *logger.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logger.Nop()
}
