package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ayusman/fruitfrenzy/internal/capture"
	"github.com/ayusman/fruitfrenzy/internal/config"
	"github.com/ayusman/fruitfrenzy/internal/detector"
	"github.com/ayusman/fruitfrenzy/internal/engine"
	"github.com/ayusman/fruitfrenzy/internal/server"
	"github.com/ayusman/fruitfrenzy/internal/store"
	"github.com/ayusman/fruitfrenzy/internal/track"
	"github.com/ayusman/fruitfrenzy/internal/tray"
)

// scoreHistoryKeep bounds the scores table on long-running installations.
const scoreHistoryKeep = 1000

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	withTray := flag.Bool("tray", false, "run with a system tray menu")
	mockDetector := flag.Bool("mock-detector", false, "use the mock hand detector (no Python service)")
	flag.Parse()

	fmt.Println("FruitFrenzy - Hand-Slicing Arcade Game")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize the store
	dbPath := cfg.Store.Path
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dataDir := filepath.Join(homeDir, ".fruitfrenzy")
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dataDir, "fruitfrenzy.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	scores := st.Scores()
	if err := scores.Prune(scoreHistoryKeep); err != nil {
		log.Printf("Failed to prune score history: %v", err)
	}

	// Camera and hand detection
	camera := capture.NewCamera(cfg.Tracker.CameraID)
	if err := camera.Open(); err != nil {
		log.Fatalf("Failed to open camera %d: %v", cfg.Tracker.CameraID, err)
	}

	det := newDetector(*mockDetector)
	tracker := track.New(cfg, camera, det)
	defer tracker.Close()

	// The game
	game := engine.New(cfg, rand.New(rand.NewSource(time.Now().UnixNano())), scores)

	// HTTP server
	webDir := cfg.Server.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Game:      game,
		Camera:    camera,
		MaxScores: cfg.Store.MaxScores,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go game.Run(ctx, tracker, nil)

	if *withTray {
		runTray(cancel, game, cfg.Server.Addr)
		return
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	fmt.Println("Shutting down")
}

// newDetector builds the hand detector, falling back to the mock when the
// MediaPipe service is unavailable so the server and menu still come up.
func newDetector(forceMock bool) detector.Detector {
	if forceMock {
		log.Println("Using mock hand detector")
		return detector.NewMockDetector()
	}

	det, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
	if err != nil {
		log.Printf("MediaPipe detector unavailable (%v), falling back to mock", err)
		return detector.NewMockDetector()
	}
	return det
}

// runTray blocks on the system tray event loop. Quit from the tray stops
// the game loop and exits.
func runTray(cancel context.CancelFunc, game *engine.Engine, addr string) {
	t := tray.New()
	t.OnTogglePause(func(paused bool) {
		game.SetPaused(paused)
	})
	t.OnOpenGame(func() {
		openBrowser("http://localhost" + addr)
	})
	t.OnQuit(func() {
		cancel()
	})

	// Keep the score line fresh while the tray is up.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			t.SetScore(game.Score())
		}
	}()

	t.Run()
}

// openBrowser opens the given URL with the platform's opener. Failures are
// logged and otherwise ignored.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web client directory in common locations.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".fruitfrenzy", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
