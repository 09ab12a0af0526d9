package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/fruitfrenzy/internal/engine"
)

// GameController is the control surface the handler drives. The game
// engine satisfies it.
type GameController interface {
	State() engine.State
	Score() int
	Start()
	TogglePause()
	SetPaused(paused bool)
}

// ControlHandler accepts game control commands from the browser client and
// the tray.
type ControlHandler struct {
	game GameController
}

// NewControlHandler creates a ControlHandler for the given game.
func NewControlHandler(game GameController) *ControlHandler {
	return &ControlHandler{game: game}
}

type controlRequest struct {
	Action string `json:"action"`
}

type controlResponse struct {
	State engine.State `json:"state"`
	Score int          `json:"score"`
}

// ServeHTTP handles POST /api/control with {"action": "start" | "pause" |
// "resume" | "toggle_pause"}.
func (h *ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch req.Action {
	case "start":
		h.game.Start()
	case "pause":
		h.game.SetPaused(true)
	case "resume":
		h.game.SetPaused(false)
	case "toggle_pause":
		h.game.TogglePause()
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
		return
	}

	writeJSON(w, http.StatusOK, controlResponse{
		State: h.game.State(),
		Score: h.game.Score(),
	})
}
