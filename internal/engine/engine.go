// Package engine runs the FruitFrenzy game: the frame-stepped state machine
// that owns the entity managers, scoring, lives, and power-up effects.
//
// All gameplay state is mutated on a single goroutine, one frame at a time;
// the mutex only fences snapshot export and the control surface (pause,
// restart) used by the HTTP server and the tray.
package engine

import (
	"log"
	"math/rand"
	"sync"

	"github.com/ayusman/fruitfrenzy/internal/combo"
	"github.com/ayusman/fruitfrenzy/internal/config"
	"github.com/ayusman/fruitfrenzy/internal/entity"
	"github.com/ayusman/fruitfrenzy/internal/geom"
)

// State is the top-level game state.
type State string

const (
	StateMenu     State = "menu"
	StatePlaying  State = "playing"
	StatePaused   State = "paused"
	StateGameOver State = "game_over"
)

// startHoldSeconds is how long a hand must stay raised on the menu or
// game-over screen before the game starts.
const startHoldSeconds = 0.75

// Input is one tick's worth of pointer data from the tracking collaborator:
// up to two trails, their swipe speeds, and the centroid of the current
// hand positions.
type Input struct {
	Trails      [2][]geom.Point
	Speeds      [2]float64
	Hands       int
	Centroid    geom.Point
	HasCentroid bool
}

// PointerSource supplies pointer input once per tick. ok is false when no
// data is available this tick (camera hiccup); the engine then skips that
// tick's gameplay update and carries on.
type PointerSource interface {
	Poll() (in Input, ok bool)
}

// Leaderboard persists final scores. Failures degrade to an empty list and
// are never fatal to the game loop.
type Leaderboard interface {
	Record(score int, duration float64) error
	Top(n int) ([]int, error)
}

// Engine is the game orchestrator.
type Engine struct {
	mu  sync.Mutex
	cfg *config.Config
	rng *rand.Rand

	state State
	tick  uint64

	score           int
	lives           int
	elapsed         float64
	difficultyTimer float64

	slowFactor  float64
	iceTimer    float64
	magnetTimer float64
	shieldTimer float64
	magnetTarget geom.Point

	fruits   *entity.FruitManager
	bombs    *entity.BombManager
	powerups *entity.PowerUpManager

	combo     *combo.Tracker
	particles *ParticleSystem
	shake     *ScreenShake

	leaderboard Leaderboard
	topScores   []int

	// One-frame side-effect triggers for the presentation client (sounds,
	// flashes). Cleared at the start of every frame.
	events []string

	announce      string
	announceTimer float64

	menuPulse float64
	handHeld  float64
	rearmed   bool // game-over: hand must drop before a new hold counts

	lastTrails [2][]geom.Point
}

// New creates an engine in the menu state.
func New(cfg *config.Config, rng *rand.Rand, lb Leaderboard) *Engine {
	e := &Engine{
		cfg:         cfg,
		rng:         rng,
		state:       StateMenu,
		slowFactor:  1.0,
		lives:       cfg.Scoring.StartingLives,
		leaderboard: lb,
		combo:       combo.New(cfg.Scoring.ComboWindow, cfg.Scoring.ComboThresholds),
		particles:   NewParticleSystem(rng, cfg.Physics.Gravity),
		shake:       NewScreenShake(rng),
	}
	e.buildManagers()
	e.refreshTopScores()
	return e
}

// entityParams derives the shared entity constants from the config.
func (e *Engine) entityParams() entity.Params {
	return entity.Params{
		ScreenW: float64(e.cfg.Screen.Width),
		ScreenH: float64(e.cfg.Screen.Height),
		Gravity: e.cfg.Physics.Gravity,
	}
}

// spawnTuning derives the manager tuning from the config.
func (e *Engine) spawnTuning() entity.SpawnTuning {
	return entity.SpawnTuning{
		InitialInterval:    e.cfg.Spawn.InitialInterval,
		MinInterval:        e.cfg.Spawn.MinInterval,
		InitialPerBatch:    e.cfg.Spawn.InitialPerBatch,
		MaxPerBatch:        e.cfg.Spawn.MaxPerBatch,
		IntervalDecrease:   e.cfg.Difficulty.IntervalDecrease,
		PerBatchIncrease:   e.cfg.Difficulty.PerBatchIncrease,
		BombProbability:    e.cfg.Spawn.BombProbability,
		MaxBombProbability: e.cfg.Spawn.MaxBombProbability,
		BombProbIncrease:   e.cfg.Difficulty.BombProbIncrease,
		PowerUpProbability: e.cfg.Spawn.PowerUpProbability,
		GiantProbability:   e.cfg.Spawn.GiantProbability,
	}
}

// buildManagers replaces all entity managers wholesale. Used at
// construction and on every restart: entities never survive a new game.
func (e *Engine) buildManagers() {
	params := e.entityParams()
	tuning := e.spawnTuning()
	e.fruits = entity.NewFruitManager(e.rng, params, tuning)
	e.bombs = entity.NewBombManager(e.rng, params, tuning)
	e.powerups = entity.NewPowerUpManager(e.rng, params, tuning)
}

// State returns the current game state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Score returns the current score.
func (e *Engine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// Start begins a new game from the menu or game-over screen. It is a no-op
// while a game is running.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateMenu || e.state == StateGameOver {
		e.startGame()
	}
}

// TogglePause flips between playing and paused. No-op in other states.
func (e *Engine) TogglePause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case StatePlaying:
		e.state = StatePaused
	case StatePaused:
		e.state = StatePlaying
	}
}

// SetPaused pauses or resumes an active game.
func (e *Engine) SetPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if paused && e.state == StatePlaying {
		e.state = StatePaused
	} else if !paused && e.state == StatePaused {
		e.state = StatePlaying
	}
}

// StepFrame advances the game by one frame. dt is real elapsed seconds,
// clamped to the configured maximum so a stall cannot blow up the physics.
// When ok is false the gameplay update is skipped entirely; the loop itself
// never stops for missing input.
func (e *Engine) StepFrame(dt float64, in Input, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tick++
	e.events = e.events[:0]

	if dt > e.cfg.Physics.MaxFrameDT {
		dt = e.cfg.Physics.MaxFrameDT
	}
	if !ok {
		return
	}

	e.lastTrails = in.Trails

	switch e.state {
	case StateMenu:
		e.stepMenu(dt, in)
	case StatePlaying:
		e.stepPlaying(dt, in)
	case StatePaused:
		// Frozen; nothing advances.
	case StateGameOver:
		e.stepGameOver(dt, in)
	}
}

// stepMenu waits for a hand to be held up before starting.
func (e *Engine) stepMenu(dt float64, in Input) {
	e.menuPulse += dt
	if in.Hands > 0 {
		e.handHeld += dt
		if e.handHeld >= startHoldSeconds {
			e.startGame()
		}
	} else {
		e.handHeld = 0
	}
}

// stepGameOver waits for the hand to drop and be raised again, so the swipe
// that ended the game cannot immediately restart it.
func (e *Engine) stepGameOver(dt float64, in Input) {
	e.menuPulse += dt
	if in.Hands == 0 {
		e.rearmed = true
		e.handHeld = 0
		return
	}
	if e.rearmed {
		e.handHeld += dt
		if e.handHeld >= startHoldSeconds {
			e.startGame()
		}
	}
}

// stepPlaying is the per-frame gameplay pass: timers, effects, manager
// updates, then the collision sweep. Score and lives are fully settled
// before the frame's snapshot can be taken.
func (e *Engine) stepPlaying(dt float64, in Input) {
	e.elapsed += dt
	e.difficultyTimer += dt

	if e.difficultyTimer >= e.cfg.Difficulty.Interval {
		e.difficultyTimer = 0
		e.fruits.IncreaseDifficulty()
		e.bombs.IncreaseDifficulty()
		e.pushEvent("difficulty")
	}

	e.updateEffects(dt, in)

	if spawned := e.fruits.Update(dt, e.slowFactor); spawned {
		e.bombs.TrySpawn()
		e.powerups.TrySpawn()
	}
	e.bombs.Update(dt, e.slowFactor)
	e.powerups.Update(dt, e.slowFactor)

	e.particles.Update(dt)
	e.combo.Update(dt)
	e.shake.Update(dt)
	if e.announceTimer > 0 {
		e.announceTimer -= dt
	}

	for h := 0; h < len(in.Trails); h++ {
		trail := in.Trails[h]
		if len(trail) < 2 || in.Speeds[h] < e.cfg.Tracker.SliceMinSpeed {
			continue
		}
		e.sweepTrail(trail, in)
		if e.state != StatePlaying {
			return // game over mid-sweep
		}
	}
}

// sweepTrail tests one qualifying trail against every live entity and
// applies the per-kind slice contracts.
func (e *Engine) sweepTrail(trail []geom.Point, in Input) {
	for _, f := range e.fruits.Fruits() {
		if f.CheckSlice(trail) {
			f.Slice()
			e.awardFruit(f.Pos(), f.Points(), f.Kind().Color)
		}
	}

	for _, g := range e.fruits.Giants() {
		if g.CheckSlice(trail) {
			g.Slice()
			if g.Sliced() {
				e.awardFruit(g.Pos(), g.Points(), g.Kind().Color)
				e.pushEvent("giant_down")
			} else {
				e.particles.Emit(g.Pos(), g.Kind().Color, 6, 2, 6, 0.4)
				e.pushEvent("giant_hit")
			}
		}
	}

	for _, b := range e.bombs.Bombs() {
		if b.CheckSlice(trail) {
			b.Slice()
			e.onBombHit(b)
			if e.state != StatePlaying {
				return
			}
		}
	}

	for _, p := range e.powerups.PowerUps() {
		if p.CheckSlice(trail) {
			p.Slice()
			e.activatePowerUp(p, in)
		}
	}
}

// awardFruit registers the slice with the combo tracker and scores
// points × the multiplier the combo now yields.
func (e *Engine) awardFruit(pos geom.Point, points int, color string) {
	e.combo.RegisterSlice()
	e.score += points * e.combo.Multiplier()
	e.particles.EmitSlice(pos, color)
	e.pushEvent("slice")
	if e.combo.Count() >= 3 {
		e.pushEvent("combo")
	}
}

// onBombHit applies the bomb contract: consume the shield if one is up,
// otherwise lose a life and possibly end the game.
func (e *Engine) onBombHit(b *entity.Bomb) {
	e.particles.EmitExplosion(b.Pos())
	if e.shieldTimer > 0 {
		e.shieldTimer = 0
		e.shake.Trigger(8, 0.2)
		e.pushEvent("shield_break")
		return
	}

	e.lives--
	e.shake.Trigger(15, 0.4)
	e.pushEvent("bomb")
	if e.lives <= 0 {
		e.gameOver()
	}
}

// startGame resets score, lives, and effects, and replaces every manager
// and the particle system wholesale.
func (e *Engine) startGame() {
	e.state = StatePlaying
	e.score = 0
	e.lives = e.cfg.Scoring.StartingLives
	e.elapsed = 0
	e.difficultyTimer = 0
	e.slowFactor = 1.0
	e.iceTimer = 0
	e.magnetTimer = 0
	e.shieldTimer = 0
	e.announce = ""
	e.announceTimer = 0
	e.handHeld = 0
	e.rearmed = false
	e.buildManagers()
	e.particles = NewParticleSystem(e.rng, e.cfg.Physics.Gravity)
	e.combo.Reset()
	e.pushEvent("start")
}

// gameOver records the final score and switches to the game-over screen.
func (e *Engine) gameOver() {
	e.state = StateGameOver
	e.menuPulse = 0
	e.rearmed = false
	e.handHeld = 0
	e.pushEvent("gameover")

	if e.leaderboard != nil {
		if err := e.leaderboard.Record(e.score, e.elapsed); err != nil {
			log.Printf("leaderboard: record score: %v", err)
		}
	}
	e.refreshTopScores()
}

// refreshTopScores re-reads the leaderboard cache. A read failure degrades
// silently to an empty list.
func (e *Engine) refreshTopScores() {
	e.topScores = nil
	if e.leaderboard == nil {
		return
	}
	top, err := e.leaderboard.Top(e.cfg.Store.MaxScores)
	if err != nil {
		log.Printf("leaderboard: read scores: %v", err)
		return
	}
	e.topScores = top
}

func (e *Engine) pushEvent(name string) {
	e.events = append(e.events, name)
}

// setAnnouncement shows a power-up banner on the HUD for two seconds.
func (e *Engine) setAnnouncement(text string) {
	e.announce = text
	e.announceTimer = 2.0
}
