// Package api provides the REST handlers for the FruitFrenzy server:
// leaderboard reads and game control.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/fruitfrenzy/internal/store"
)

// ScoresHandler serves the leaderboard.
type ScoresHandler struct {
	scores       *store.ScoreRepository
	defaultLimit int
}

// NewScoresHandler creates a ScoresHandler. defaultLimit is how many scores
// a plain GET returns; clients can ask for fewer with ?limit=.
func NewScoresHandler(scores *store.ScoreRepository, defaultLimit int) *ScoresHandler {
	if defaultLimit < 1 {
		defaultLimit = 5
	}
	return &ScoresHandler{scores: scores, defaultLimit: defaultLimit}
}

type scoreResponse struct {
	Score     int     `json:"score"`
	Duration  float64 `json:"duration_seconds"`
	CreatedAt string  `json:"created_at"`
}

type listScoresResponse struct {
	Scores []scoreResponse `json:"scores"`
	Best   int             `json:"best"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// ServeHTTP handles GET /api/scores.
func (h *ScoresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n < limit {
			limit = n
		}
	}

	entries, err := h.scores.TopEntries(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read scores")
		return
	}

	resp := listScoresResponse{Scores: make([]scoreResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Scores = append(resp.Scores, scoreResponse{
			Score:     e.Score,
			Duration:  e.Duration,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	if len(entries) > 0 {
		resp.Best = entries[0].Score
	}

	writeJSON(w, http.StatusOK, resp)
}
