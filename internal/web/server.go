// Package web provides the HTTP server, JSON API, and WebSocket feed for
// the Revue browser UI.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/roasbeef/revue/internal/baselib/actor"
	"github.com/roasbeef/revue/internal/config"
	"github.com/roasbeef/revue/internal/review"
)

// ConfigActorRef is the ask-capable handle to the config service.
type ConfigActorRef = actor.ActorRef[config.ConfigRequest, config.ConfigResponse]

// Server is the HTTP server for the Revue browser UI.
type Server struct {
	submissions review.SubmissionActorRef
	configSvc   ConfigActorRef
	hub         *Hub
	mux         *http.ServeMux
	srv         *http.Server
	addr        string
}

// Config holds configuration for the web server.
type Config struct {
	Addr string

	// Submissions is the handle to the submission service actor.
	Submissions review.SubmissionActorRef

	// ConfigService is the handle to the config service actor.
	ConfigService ConfigActorRef
}

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// NewServer creates a new web server.
func NewServer(cfg *Config) (*Server, error) {
	if cfg.Submissions == nil {
		return nil, fmt.Errorf("web server requires a submission " +
			"service ref")
	}
	if cfg.ConfigService == nil {
		return nil, fmt.Errorf("web server requires a config " +
			"service ref")
	}

	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	s := &Server{
		submissions: cfg.Submissions,
		configSvc:   cfg.ConfigService,
		mux:         http.NewServeMux(),
		addr:        addr,
	}

	// Register API v1 routes (JSON API for the browser frontend).
	s.registerAPIV1Routes()

	// Initialize and start WebSocket hub.
	s.hub = NewHub()
	go s.hub.Run()

	// Register WebSocket route.
	s.mux.HandleFunc("/ws", s.handleWebSocket)

	// Serve the embedded frontend for all other routes.
	frontendHandler, err := FrontendHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to create frontend handler: %w", err)
	}
	s.mux.Handle("/", frontendHandler)

	return s, nil
}

// Notifier returns the StatusNotifier that fans submission status
// changes out to connected browsers. Wire it into the submission
// service config.
func (s *Server) Notifier() review.StatusNotifier {
	return s.hub
}

// Handler returns the root handler, used by tests to serve through
// httptest.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting web server on %s", s.addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the WebSocket hub first.
	if s.hub != nil {
		s.hub.Stop()
	}

	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
