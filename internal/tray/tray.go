// Package tray provides a system tray interface for FruitFrenzy: pause and
// resume the game, show the latest score, open the game in the browser,
// and quit.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onTogglePause func(paused bool)
	onOpenGame    func()
	onQuit        func()
	paused        bool
	mu            sync.RWMutex

	// Menu items stored for later updates
	menuPause *systray.MenuItem
	menuScore *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{}
}

// OnTogglePause sets the callback for the pause/resume menu item.
func (t *Tray) OnTogglePause(fn func(paused bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onTogglePause = fn
}

// OnOpenGame sets the callback for the open-game menu item.
func (t *Tray) OnOpenGame(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpenGame = fn
}

// OnQuit sets the callback for the quit menu item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("FruitFrenzy")
	systray.SetTooltip("FruitFrenzy Hand-Slicing Game")

	t.menuPause = systray.AddMenuItem("Pause Game", "Pause or resume the running game")
	systray.AddSeparator()

	t.menuScore = systray.AddMenuItem("Score: 0", "Current game score")
	t.menuScore.Disable()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Game...", "Open the game in the browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit FruitFrenzy")

	go func() {
		for {
			select {
			case <-t.menuPause.ClickedCh:
				t.handleTogglePause()
			case <-menuOpen.ClickedCh:
				t.handleOpenGame()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleTogglePause flips the pause state and notifies the game.
func (t *Tray) handleTogglePause() {
	t.mu.Lock()
	t.paused = !t.paused
	paused := t.paused

	if paused {
		t.menuPause.SetTitle("Resume Game")
	} else {
		t.menuPause.SetTitle("Pause Game")
	}

	callback := t.onTogglePause
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(paused)
	}
}

func (t *Tray) handleOpenGame() {
	t.mu.RLock()
	callback := t.onOpenGame
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetScore updates the score line in the menu.
func (t *Tray) SetScore(score int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuScore != nil {
		t.menuScore.SetTitle(fmt.Sprintf("Score: %d", score))
	}
}

// IsPaused returns whether the tray last requested a pause.
func (t *Tray) IsPaused() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.paused
}
