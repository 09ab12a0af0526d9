package engine

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/ayusman/fruitfrenzy/internal/config"
	"github.com/ayusman/fruitfrenzy/internal/entity"
	"github.com/ayusman/fruitfrenzy/internal/geom"
)

const frameDT = 1.0 / 60.0

// recordingBoard is an in-memory Leaderboard that remembers every score
// handed to it.
type recordingBoard struct {
	recorded  []int
	recordErr error
	topErr    error
}

func (b *recordingBoard) Record(score int, duration float64) error {
	if b.recordErr != nil {
		return b.recordErr
	}
	b.recorded = append(b.recorded, score)
	return nil
}

func (b *recordingBoard) Top(n int) ([]int, error) {
	if b.topErr != nil {
		return nil, b.topErr
	}
	top := append([]int(nil), b.recorded...)
	if len(top) > n {
		top = top[:n]
	}
	return top, nil
}

func newTestEngine(t *testing.T) (*Engine, *recordingBoard) {
	t.Helper()
	board := &recordingBoard{}
	e := New(config.Default(), rand.New(rand.NewSource(42)), board)
	return e, board
}

func handInput() Input {
	return Input{Hands: 1}
}

// stepUntilFruits advances the playing engine with idle input until at least
// want fruits are on the field.
func stepUntilFruits(t *testing.T, e *Engine, want int) {
	t.Helper()
	for i := 0; i < 600; i++ {
		if len(e.fruits.Fruits()) >= want {
			return
		}
		e.StepFrame(frameDT, Input{}, true)
	}
	t.Fatalf("no batch of %d fruits within 600 frames", want)
}

// predictPos returns where a fruit will be after one more integration step,
// so a trail laid before StepFrame still crosses it during the sweep.
func predictPos(f *entity.Fruit, gravity float64) geom.Point {
	vx, vy := f.Velocity()
	pos := f.Pos()
	return geom.Point{X: pos.X + vx, Y: pos.Y + vy + gravity}
}

func trailThrough(p geom.Point) []geom.Point {
	return []geom.Point{{X: p.X - 100, Y: p.Y}, {X: p.X + 100, Y: p.Y}}
}

func sliceInput(trail []geom.Point) Input {
	in := Input{Hands: 1}
	in.Trails[0] = trail
	in.Speeds[0] = 50
	return in
}

func TestNewStartsInMenu(t *testing.T) {
	e, _ := newTestEngine(t)
	if got := e.State(); got != StateMenu {
		t.Fatalf("initial state = %q, want %q", got, StateMenu)
	}
	if e.lives != 3 {
		t.Fatalf("initial lives = %d, want 3", e.lives)
	}
}

func TestMenuHoldStartsGame(t *testing.T) {
	e, _ := newTestEngine(t)
	for i := 0; i < 50; i++ {
		e.StepFrame(frameDT, handInput(), true)
	}
	if got := e.State(); got != StatePlaying {
		t.Fatalf("state after held hand = %q, want %q", got, StatePlaying)
	}
}

func TestMenuHandDropResetsHold(t *testing.T) {
	e, _ := newTestEngine(t)
	for i := 0; i < 30; i++ {
		e.StepFrame(frameDT, handInput(), true)
	}
	e.StepFrame(frameDT, Input{}, true) // hand dropped
	for i := 0; i < 30; i++ {
		e.StepFrame(frameDT, handInput(), true)
	}
	if got := e.State(); got != StateMenu {
		t.Fatalf("state = %q, want %q: hold must restart after a drop", got, StateMenu)
	}
}

func TestTrailSliceScoresFruit(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()
	stepUntilFruits(t, e, 1)

	f := e.fruits.Fruits()[0]
	in := sliceInput(trailThrough(predictPos(f, e.cfg.Physics.Gravity)))
	e.StepFrame(frameDT, in, true)

	if !f.Sliced() {
		t.Fatal("fruit crossed by a fast trail was not sliced")
	}
	if e.Score() < f.Points() {
		t.Fatalf("score = %d, want at least %d", e.Score(), f.Points())
	}
}

func TestSlowTrailDoesNotSlice(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()
	stepUntilFruits(t, e, 1)

	f := e.fruits.Fruits()[0]
	in := sliceInput(trailThrough(predictPos(f, e.cfg.Physics.Gravity)))
	in.Speeds[0] = e.cfg.Tracker.SliceMinSpeed / 2
	e.StepFrame(frameDT, in, true)

	if f.Sliced() {
		t.Fatal("fruit sliced by a trail below the speed gate")
	}
	if e.Score() != 0 {
		t.Fatalf("score = %d, want 0", e.Score())
	}
}

func TestComboMultiplierScoring(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()
	pos := geom.Point{X: 400, Y: 300}

	// Deltas follow the threshold table as the burst grows: counts 1..2
	// pay x1, 3..4 pay x2, the fifth slice pays x3.
	wantDeltas := []int{10, 10, 20, 20, 30}
	for i, want := range wantDeltas {
		before := e.score
		e.awardFruit(pos, 10, "#ffffff")
		if got := e.score - before; got != want {
			t.Fatalf("slice %d: score delta = %d, want %d", i+1, got, want)
		}
	}
}

func TestBombCostsLife(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()

	e.onBombHit(entity.NewBomb(e.rng, e.entityParams()))
	if e.lives != 2 {
		t.Fatalf("lives after bomb = %d, want 2", e.lives)
	}
	if e.State() != StatePlaying {
		t.Fatalf("state = %q, want still playing", e.State())
	}
}

func TestShieldAbsorbsOneBomb(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()
	e.shieldTimer = 5

	e.onBombHit(entity.NewBomb(e.rng, e.entityParams()))
	if e.lives != 3 {
		t.Fatalf("lives = %d, want 3: shield must absorb the hit", e.lives)
	}
	if e.shieldTimer != 0 {
		t.Fatalf("shieldTimer = %v, want 0 after absorbing", e.shieldTimer)
	}

	e.onBombHit(entity.NewBomb(e.rng, e.entityParams()))
	if e.lives != 2 {
		t.Fatalf("lives = %d, want 2: second bomb lands", e.lives)
	}
}

func TestGameOverRecordsScore(t *testing.T) {
	e, board := newTestEngine(t)
	e.Start()
	e.score = 123
	e.lives = 1

	e.onBombHit(entity.NewBomb(e.rng, e.entityParams()))
	if e.State() != StateGameOver {
		t.Fatalf("state = %q, want %q", e.State(), StateGameOver)
	}
	if len(board.recorded) != 1 || board.recorded[0] != 123 {
		t.Fatalf("recorded scores = %v, want [123]", board.recorded)
	}
	if len(e.topScores) != 1 || e.topScores[0] != 123 {
		t.Fatalf("topScores cache = %v, want [123]", e.topScores)
	}
}

func TestLeaderboardFailureIsNotFatal(t *testing.T) {
	e, board := newTestEngine(t)
	board.recordErr = errors.New("disk full")
	board.topErr = errors.New("disk full")
	e.Start()
	e.lives = 1

	e.onBombHit(entity.NewBomb(e.rng, e.entityParams()))
	if e.State() != StateGameOver {
		t.Fatalf("state = %q, want %q despite store failure", e.State(), StateGameOver)
	}
	if e.topScores != nil {
		t.Fatalf("topScores = %v, want nil on read failure", e.topScores)
	}
}

func TestGameOverRequiresRearm(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()
	e.lives = 1
	e.onBombHit(entity.NewBomb(e.rng, e.entityParams()))

	// The hand that swiped the bomb is still up; holding it must not
	// restart the game.
	for i := 0; i < 120; i++ {
		e.StepFrame(frameDT, handInput(), true)
	}
	if e.State() != StateGameOver {
		t.Fatalf("state = %q, want still game over without a hand drop", e.State())
	}

	e.StepFrame(frameDT, Input{}, true) // drop
	for i := 0; i < 50; i++ {
		e.StepFrame(frameDT, handInput(), true)
	}
	if e.State() != StatePlaying {
		t.Fatalf("state = %q, want %q after drop and re-hold", e.State(), StatePlaying)
	}
}

func TestRestartResetsEverything(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()
	stepUntilFruits(t, e, 1)
	e.score = 99
	e.lives = 1
	e.iceTimer = 2
	e.onBombHit(entity.NewBomb(e.rng, e.entityParams()))
	if e.State() != StateGameOver {
		t.Fatalf("state = %q, want %q after final bomb", e.State(), StateGameOver)
	}
	// Stale effect left over from the finished game.
	e.shieldTimer = 2

	e.Start()
	if e.State() != StatePlaying {
		t.Fatalf("state = %q, want %q", e.State(), StatePlaying)
	}
	if e.score != 0 || e.lives != 3 {
		t.Fatalf("score/lives = %d/%d, want 0/3", e.score, e.lives)
	}
	if len(e.fruits.Fruits()) != 0 || len(e.bombs.Bombs()) != 0 {
		t.Fatal("entities from the previous game survived the restart")
	}
	if e.iceTimer != 0 || e.shieldTimer != 0 {
		t.Fatal("power-up timers survived the restart")
	}
}

func TestPauseFreezesGameplay(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()
	e.TogglePause()
	if e.State() != StatePaused {
		t.Fatalf("state = %q, want %q", e.State(), StatePaused)
	}

	before := e.elapsed
	for i := 0; i < 30; i++ {
		e.StepFrame(frameDT, handInput(), true)
	}
	if e.elapsed != before {
		t.Fatalf("elapsed advanced from %v to %v while paused", before, e.elapsed)
	}

	e.TogglePause()
	e.StepFrame(frameDT, Input{}, true)
	if e.elapsed <= before {
		t.Fatal("elapsed did not advance after resume")
	}
}

func TestMissingInputSkipsTick(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()
	e.StepFrame(frameDT, Input{}, true)
	before := e.elapsed
	tickBefore := e.tick

	e.StepFrame(frameDT, Input{}, false)
	if e.elapsed != before {
		t.Fatalf("elapsed = %v, want %v: gameplay must not advance without input", e.elapsed, before)
	}
	if e.tick != tickBefore+1 {
		t.Fatalf("tick = %d, want %d: the frame counter still advances", e.tick, tickBefore+1)
	}
}

func TestFrameDTClamp(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()
	e.StepFrame(1.0, Input{}, true)
	if got, want := e.elapsed, e.cfg.Physics.MaxFrameDT; got != want {
		t.Fatalf("elapsed after a 1s stall = %v, want clamped %v", got, want)
	}
}

func TestDifficultyRampFires(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()
	e.difficultyTimer = e.cfg.Difficulty.Interval

	e.StepFrame(frameDT, Input{}, true)
	if got, want := e.fruits.SpawnInterval(), e.cfg.Spawn.InitialInterval-e.cfg.Difficulty.IntervalDecrease; got != want {
		t.Fatalf("spawn interval = %v, want %v after one ramp", got, want)
	}
	if e.difficultyTimer >= e.cfg.Difficulty.Interval {
		t.Fatal("difficulty timer was not reset")
	}
	found := false
	for _, ev := range e.events {
		if ev == "difficulty" {
			found = true
		}
	}
	if !found {
		t.Fatalf("events = %v, want a difficulty event", e.events)
	}
}

func TestIceSlowsIntegration(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()

	p := entity.NewPowerUpOfKind(e.rng, e.entityParams(), entity.Ice)
	e.activatePowerUp(p, Input{})
	if e.iceTimer != e.cfg.PowerUps.IceDuration {
		t.Fatalf("iceTimer = %v, want %v", e.iceTimer, e.cfg.PowerUps.IceDuration)
	}

	e.StepFrame(frameDT, Input{}, true)
	if e.slowFactor != e.cfg.PowerUps.IceSlowFactor {
		t.Fatalf("slowFactor = %v, want %v while ice is active", e.slowFactor, e.cfg.PowerUps.IceSlowFactor)
	}
	if snap := e.Snapshot(); !snap.SlowMotion {
		t.Fatal("snapshot does not report slow motion")
	}

	// Run the timer out; normal speed must return.
	for i := 0; i < 200; i++ {
		e.StepFrame(frameDT, Input{}, true)
	}
	if e.slowFactor != 1.0 {
		t.Fatalf("slowFactor = %v, want 1.0 after ice expires", e.slowFactor)
	}
}

func TestLightningPaysFlatBonus(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()

	p := entity.NewPowerUpOfKind(e.rng, e.entityParams(), entity.Lightning)
	e.activatePowerUp(p, Input{})
	if e.score != e.cfg.Scoring.LightningBonus {
		t.Fatalf("score = %d, want flat %d", e.score, e.cfg.Scoring.LightningBonus)
	}
	if e.combo.Count() != 0 {
		t.Fatalf("combo count = %d, want 0: lightning must not register slices", e.combo.Count())
	}
}

func TestShieldPowerUpArms(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()

	p := entity.NewPowerUpOfKind(e.rng, e.entityParams(), entity.Shield)
	e.activatePowerUp(p, Input{})
	if e.shieldTimer != e.cfg.PowerUps.ShieldDuration {
		t.Fatalf("shieldTimer = %v, want %v", e.shieldTimer, e.cfg.PowerUps.ShieldDuration)
	}
	if snap := e.Snapshot(); !snap.ShieldUp {
		t.Fatal("snapshot does not report the shield")
	}
}

func TestMagnetPullsFruitTowardCentroid(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()
	stepUntilFruits(t, e, 1)
	f := e.fruits.Fruits()[0]

	target := geom.Point{X: f.Pos().X + 300, Y: 50}
	in := Input{Hands: 1, Centroid: target, HasCentroid: true}
	p := entity.NewPowerUpOfKind(e.rng, e.entityParams(), entity.Magnet)
	e.activatePowerUp(p, in)
	if e.magnetTimer != e.cfg.PowerUps.MagnetDuration {
		t.Fatalf("magnetTimer = %v, want %v", e.magnetTimer, e.cfg.PowerUps.MagnetDuration)
	}

	vxBefore, vyBefore := f.Velocity()
	e.updateEffects(frameDT, in)
	vxAfter, vyAfter := f.Velocity()
	if vxAfter <= vxBefore {
		t.Fatalf("vx %v -> %v, want pull toward the target on the right", vxBefore, vxAfter)
	}
	if vyAfter >= vyBefore {
		t.Fatalf("vy %v -> %v, want pull toward the target above", vyBefore, vyAfter)
	}
}

func TestMagnetWithoutCentroidTargetsCenter(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()

	p := entity.NewPowerUpOfKind(e.rng, e.entityParams(), entity.Magnet)
	e.activatePowerUp(p, Input{})
	want := geom.Point{X: 400, Y: 300}
	if e.magnetTarget != want {
		t.Fatalf("magnetTarget = %v, want screen center %v", e.magnetTarget, want)
	}
}

func TestFireAutoSlicesNearbyFruit(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()
	stepUntilFruits(t, e, 2)

	p := entity.NewPowerUpOfKind(e.rng, e.entityParams(), entity.Fire)
	radius := e.cfg.PowerUps.FireRadius
	var inRange []*entity.Fruit
	for _, f := range e.fruits.Fruits() {
		if geom.Dist(f.Pos(), p.Pos()) <= radius {
			inRange = append(inRange, f)
		}
	}

	e.activatePowerUp(p, Input{})
	for _, f := range e.fruits.Fruits() {
		within := geom.Dist(f.Pos(), p.Pos()) <= radius
		if within != f.Sliced() {
			t.Fatalf("fruit at %v (dist %v): sliced = %v, want %v",
				f.Pos(), geom.Dist(f.Pos(), p.Pos()), f.Sliced(), within)
		}
	}
	if len(inRange) > 0 && e.score == 0 {
		t.Fatal("fruit auto-sliced by fire did not score")
	}
	if e.announce == "" {
		t.Fatal("power-up banner was not set")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start()
	stepUntilFruits(t, e, 1)

	snap := e.Snapshot()
	if snap.State != StatePlaying {
		t.Fatalf("snapshot state = %q, want %q", snap.State, StatePlaying)
	}
	if len(snap.Fruits) != len(e.fruits.Fruits()) {
		t.Fatalf("snapshot fruits = %d, want %d", len(snap.Fruits), len(e.fruits.Fruits()))
	}

	// Mutating the snapshot must not reach back into the engine.
	if len(snap.TopScores) > 0 {
		snap.TopScores[0] = -1
	}
	snap.Fruits = nil
	if len(e.fruits.Fruits()) == 0 {
		t.Fatal("snapshot shares entity state with the engine")
	}
}
