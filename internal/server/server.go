// Package server provides the HTTP server for FruitFrenzy: the browser
// client's static files, the game state WebSocket, the camera preview
// stream, and the REST API for scores and game control.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/fruitfrenzy/internal/capture"
	"github.com/ayusman/fruitfrenzy/internal/engine"
	"github.com/ayusman/fruitfrenzy/internal/server/api"
	"github.com/ayusman/fruitfrenzy/internal/store"
)

// Game is the engine surface the server needs: snapshots out, control in.
// *engine.Engine satisfies it.
type Game interface {
	Snapshot() engine.Snapshot
	State() engine.State
	Score() int
	Start()
	TogglePause()
	SetPaused(paused bool)
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Game      Game
	Camera    capture.Camera
	MaxScores int
}

// Server represents the FruitFrenzy HTTP server.
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

	if s.config.Store != nil {
		s.mux.Handle("/api/scores", api.NewScoresHandler(s.config.Store.Scores(), s.config.MaxScores))
	}

	if s.config.Game != nil {
		s.mux.Handle("/api/control", api.NewControlHandler(s.config.Game))
		s.mux.Handle("/api/state", NewStateHandler(s.config.Game))
	}

	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
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
	if s.config.Game != nil {
		response["state"] = s.config.Game.State()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
