package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/fruitfrenzy/internal/engine"
	"github.com/ayusman/fruitfrenzy/internal/store"
)

func TestServer_GameAPIWorkflow(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer st.Close()

	// Two finished games on the board.
	scores := st.Scores()
	scores.Record(180, 75.0)
	scores.Record(90, 30.0)

	game := newTestGame()
	srv := New(Config{Store: st, Game: game, MaxScores: 5})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. The menu is up.
	resp, err := client.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health: %v", err)
	}
	var health struct {
		State string `json:"state"`
	}
	json.NewDecoder(resp.Body).Decode(&health)
	resp.Body.Close()
	if health.State != string(engine.StateMenu) {
		t.Fatalf("state = %q, want menu", health.State)
	}

	// 2. Start a game through the control endpoint.
	resp, err = client.Post(ts.URL+"/api/control", "application/json",
		strings.NewReader(`{"action": "start"}`))
	if err != nil {
		t.Fatalf("POST /api/control: %v", err)
	}
	resp.Body.Close()
	if game.State() != engine.StatePlaying {
		t.Fatalf("game state = %q, want playing", game.State())
	}

	// 3. The leaderboard is readable.
	resp, err = client.Get(ts.URL + "/api/scores")
	if err != nil {
		t.Fatalf("GET /api/scores: %v", err)
	}
	var board struct {
		Best   int `json:"best"`
		Scores []struct {
			Score int `json:"score"`
		} `json:"scores"`
	}
	json.NewDecoder(resp.Body).Decode(&board)
	resp.Body.Close()
	if board.Best != 180 || len(board.Scores) != 2 {
		t.Fatalf("board = %+v, want best 180 with 2 entries", board)
	}

	// 4. The state stream delivers snapshots of the running game.
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/state"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	var snap engine.Snapshot
	if err := json.Unmarshal(msg, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.State != engine.StatePlaying {
		t.Errorf("snapshot state = %q, want playing", snap.State)
	}
	if snap.Lives != 3 {
		t.Errorf("snapshot lives = %d, want 3", snap.Lives)
	}
}

func TestServer_ScoresRouteAbsentWithoutStore(t *testing.T) {
	s := New(Config{Game: newTestGame()})

	req := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d when no store is configured", rec.Code, http.StatusNotFound)
	}
}
