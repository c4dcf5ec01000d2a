// Package server provides the HTTP server: REST endpoints for the lesson,
// WebSocket recognition sessions and the camera preview stream.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/signite/internal/app"
	"github.com/ayusman/signite/internal/server/api"
	"github.com/ayusman/signite/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	// App enables the progress, recognition, events and stream endpoints.
	App *app.App
	// Store enables the completion log and per-gesture counts.
	Store *store.Store
}

// Server represents the HTTP server for the application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	gestures := api.NewGestureHandler(s.config.Store)
	s.mux.Handle("/api/gestures", gestures)
	s.mux.Handle("/api/gestures/", gestures)

	if s.config.Store != nil {
		s.mux.Handle("/api/completions", api.NewCompletionsHandler(s.config.Store))
	}

	if a := s.config.App; a != nil {
		progress := api.NewProgressHandler(a)
		s.mux.Handle("/api/progress", progress)
		s.mux.Handle("/api/progress/", progress)

		s.mux.Handle("/api/recognize", NewRecognizeHandler(a))
		s.mux.Handle("/api/events", NewEventsHandler(a))
		s.mux.Handle("/api/stream", NewStreamHandler(a.Preview()))
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if a := s.config.App; a != nil {
		target, _ := a.Target()
		response["target"] = target
		response["practicing"] = a.IsEnabled()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
