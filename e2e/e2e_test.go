package e2e

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/fruitfrenzy/internal/capture"
	"github.com/ayusman/fruitfrenzy/internal/config"
	"github.com/ayusman/fruitfrenzy/internal/detector"
	"github.com/ayusman/fruitfrenzy/internal/engine"
	"github.com/ayusman/fruitfrenzy/internal/server"
	"github.com/ayusman/fruitfrenzy/internal/store"
	"github.com/ayusman/fruitfrenzy/internal/track"
)

const frameDT = 1.0 / 60.0

// newPipeline wires the full camera -> detector -> tracker -> engine chain
// the way cmd/fruitfrenzy does, but on mocks.
func newPipeline(t *testing.T, det detector.Detector, scores *store.ScoreRepository) (*engine.Engine, *track.Tracker) {
	t.Helper()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })

	cam := capture.NewMockCamera([]*gocv.Mat{&frame}, true)
	if err := cam.Open(); err != nil {
		t.Fatalf("open mock camera: %v", err)
	}

	cfg := config.Default()
	tracker := track.New(cfg, cam, det)
	t.Cleanup(func() { tracker.Close() })

	var board engine.Leaderboard
	if scores != nil {
		board = scores
	}
	game := engine.New(cfg, rand.New(rand.NewSource(7)), board)
	return game, tracker
}

// step advances the game by n frames, pulling input through the tracker.
func step(game *engine.Engine, tracker *track.Tracker, n int) {
	for i := 0; i < n; i++ {
		in, ok := tracker.Poll()
		game.StepFrame(frameDT, in, ok)
	}
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()
	scores := s.Scores()

	det := detector.NewMockDetector()
	game, tracker := newPipeline(t, det, scores)

	srv := server.New(server.Config{Store: s, Game: game, MaxScores: 10})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("HealthReportsMenu", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("GET /api/health: %v", err)
		}
		defer resp.Body.Close()

		var health struct {
			Status string `json:"status"`
			State  string `json:"state"`
		}
		json.NewDecoder(resp.Body).Decode(&health)
		if health.Status != "ok" || health.State != string(engine.StateMenu) {
			t.Fatalf("health = %+v, want ok/menu", health)
		}
	})

	t.Run("HeldHandStartsGame", func(t *testing.T) {
		det.SetHands([]detector.HandLandmarks{detector.HandAt(0.5, 0.5)})

		// The tracker may sit in idle mode for a few polls before its
		// detection probe notices the hand, so give the hold some slack.
		step(game, tracker, 90)
		if game.State() != engine.StatePlaying {
			t.Fatalf("state = %q, want playing", game.State())
		}
	})

	t.Run("PauseThroughControlEndpoint", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/control", "application/json",
			strings.NewReader(`{"action": "pause"}`))
		if err != nil {
			t.Fatalf("POST /api/control: %v", err)
		}
		resp.Body.Close()
		if game.State() != engine.StatePaused {
			t.Fatalf("state = %q, want paused", game.State())
		}

		resp, err = client.Post(ts.URL+"/api/control", "application/json",
			strings.NewReader(`{"action": "resume"}`))
		if err != nil {
			t.Fatalf("POST /api/control: %v", err)
		}
		resp.Body.Close()
		if game.State() != engine.StatePlaying {
			t.Fatalf("state = %q, want playing after resume", game.State())
		}
	})

	t.Run("StateStreamFollowsGame", func(t *testing.T) {
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
	})

	t.Run("ScoresSurvivePersistence", func(t *testing.T) {
		// A previously finished game on the board.
		if err := scores.Record(420, 61.5); err != nil {
			t.Fatalf("record score: %v", err)
		}

		resp, err := client.Get(ts.URL + "/api/scores")
		if err != nil {
			t.Fatalf("GET /api/scores: %v", err)
		}
		defer resp.Body.Close()

		var board struct {
			Best   int `json:"best"`
			Scores []struct {
				Score    int     `json:"score"`
				Duration float64 `json:"duration_seconds"`
			} `json:"scores"`
		}
		json.NewDecoder(resp.Body).Decode(&board)
		if board.Best != 420 || len(board.Scores) != 1 {
			t.Fatalf("board = %+v, want best 420 with 1 entry", board)
		}
		if board.Scores[0].Duration != 61.5 {
			t.Errorf("duration = %v, want 61.5", board.Scores[0].Duration)
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("GET /api/health: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after game operations")
		}
	})
}

func TestE2E_SwipeSlicesThroughPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	det := detector.NewMockDetector()
	game, tracker := newPipeline(t, det, nil)

	game.Start()

	// Let some fruit climb into the play field.
	det.SetHands(nil)
	fruits := 0
	for i := 0; i < 600 && fruits == 0; i++ {
		step(game, tracker, 1)
		fruits = len(game.Snapshot().Fruits)
	}
	if fruits == 0 {
		t.Fatal("no fruit spawned after 10 seconds of play")
	}

	// Sweep the hand back and forth at the height of whatever fruit is in
	// the air until one gets cut. The mirror flip does not matter for a
	// horizontal pass.
	for i := 0; i < 240 && game.Score() == 0; i++ {
		snap := game.Snapshot()
		if len(snap.Fruits) == 0 {
			det.SetHands(nil)
			step(game, tracker, 1)
			continue
		}
		x := 0.05 + float64(i%16)*0.9/15
		y := snap.Fruits[0].Y / 600.0
		det.SetHands([]detector.HandLandmarks{detector.HandAt(x, y)})
		step(game, tracker, 1)
	}

	if game.Score() == 0 {
		t.Error("full-width swipe through fruit height scored nothing")
	}
}
