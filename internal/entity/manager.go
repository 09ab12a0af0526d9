package entity

import "math/rand"

// SpawnTuning holds the mutable spawn and difficulty parameters. The initial
// values come from configuration; IncreaseDifficulty tightens them toward
// their documented caps and never past them.
type SpawnTuning struct {
	InitialInterval    float64
	MinInterval        float64
	InitialPerBatch    int
	MaxPerBatch        int
	IntervalDecrease   float64
	PerBatchIncrease   int
	BombProbability    float64
	MaxBombProbability float64
	BombProbIncrease   float64
	PowerUpProbability float64
	GiantProbability   float64
}

// Spawn layout constants. Batch positions are sampled without replacement
// from a fixed grid so fruit never stacks visually.
const (
	spawnMargin = 80
	spawnStride = 60
)

// FruitManager owns all live fruit, including the occasional giant, and
// runs the spawn timer that paces the whole game: bombs and power-ups
// piggyback on fruit batches.
type FruitManager struct {
	rng    *rand.Rand
	params Params
	tuning SpawnTuning

	fruits []*Fruit
	giants []*GiantFruit

	spawnTimer    float64
	spawnInterval float64
	perBatch      int
	giantsEnabled bool
}

// NewFruitManager creates a manager seeded with the given random source so
// spawn sequences are reproducible.
func NewFruitManager(rng *rand.Rand, params Params, tuning SpawnTuning) *FruitManager {
	return &FruitManager{
		rng:           rng,
		params:        params,
		tuning:        tuning,
		spawnInterval: tuning.InitialInterval,
		perBatch:      tuning.InitialPerBatch,
	}
}

// Fruits returns the live regular fruit.
func (m *FruitManager) Fruits() []*Fruit { return m.fruits }

// Giants returns the live giant fruit.
func (m *FruitManager) Giants() []*GiantFruit { return m.giants }

// SpawnInterval returns the current seconds between batches.
func (m *FruitManager) SpawnInterval() float64 { return m.spawnInterval }

// PerBatch returns the current batch size.
func (m *FruitManager) PerBatch() int { return m.perBatch }

// Update advances the spawn timer and every live fruit, then prunes dead
// ones. It returns true when a batch was spawned this frame, which the
// orchestrator uses to roll bomb and power-up spawns.
func (m *FruitManager) Update(dt, slowFactor float64) bool {
	spawned := false
	m.spawnTimer += dt
	if m.spawnTimer >= m.spawnInterval {
		m.spawnTimer = 0
		m.spawnBatch()
		spawned = true
	}

	for _, f := range m.fruits {
		f.Update(dt, slowFactor)
	}
	m.fruits = pruneDead(m.fruits)

	for _, g := range m.giants {
		g.Update(dt, slowFactor)
	}
	m.giants = pruneDead(m.giants)

	return spawned
}

// IncreaseDifficulty tightens the spawn interval and batch size one notch,
// clamped to the configured floor and ceiling. It also unlocks giant fruit
// spawns. Safe to call repeatedly; the parameters approach but never pass
// their caps.
func (m *FruitManager) IncreaseDifficulty() {
	m.spawnInterval -= m.tuning.IntervalDecrease
	if m.spawnInterval < m.tuning.MinInterval {
		m.spawnInterval = m.tuning.MinInterval
	}
	m.perBatch += m.tuning.PerBatchIncrease
	if m.perBatch > m.tuning.MaxPerBatch {
		m.perBatch = m.tuning.MaxPerBatch
	}
	m.giantsEnabled = true
}

// spawnBatch adds a batch of fruit at non-overlapping x positions, plus at
// most one giant once the difficulty ramp has unlocked them.
func (m *FruitManager) spawnBatch() {
	count := m.perBatch
	if count > 1 {
		count = m.perBatch - 1 + m.rng.Intn(2)
	}

	for _, x := range m.batchPositions(count) {
		m.fruits = append(m.fruits, NewFruit(m.rng, m.params, x))
	}

	// One boss at a time keeps the field readable.
	if m.giantsEnabled && len(m.giants) == 0 && m.rng.Float64() < m.tuning.GiantProbability {
		x := spawnMargin + m.rng.Float64()*(m.params.ScreenW-2*spawnMargin)
		m.giants = append(m.giants, NewGiantFruit(m.rng, m.params, x))
	}
}

// batchPositions samples up to count distinct x positions from the spawn
// grid.
func (m *FruitManager) batchPositions(count int) []float64 {
	var grid []float64
	for x := float64(spawnMargin); x < m.params.ScreenW-spawnMargin; x += spawnStride {
		grid = append(grid, x)
	}
	if count > len(grid) {
		count = len(grid)
	}

	positions := make([]float64, 0, count)
	for _, i := range m.rng.Perm(len(grid))[:count] {
		positions = append(positions, grid[i])
	}
	return positions
}

// BombManager owns the live bombs and the bomb spawn probability.
type BombManager struct {
	rng    *rand.Rand
	params Params
	tuning SpawnTuning

	bombs       []*Bomb
	probability float64
}

// NewBombManager creates a manager seeded with the given random source.
func NewBombManager(rng *rand.Rand, params Params, tuning SpawnTuning) *BombManager {
	return &BombManager{
		rng:         rng,
		params:      params,
		tuning:      tuning,
		probability: tuning.BombProbability,
	}
}

// Bombs returns the live bombs.
func (m *BombManager) Bombs() []*Bomb { return m.bombs }

// Probability returns the current per-batch bomb spawn chance.
func (m *BombManager) Probability() float64 { return m.probability }

// TrySpawn rolls the spawn probability once. The orchestrator calls it each
// time a fruit batch spawns.
func (m *BombManager) TrySpawn() {
	if m.rng.Float64() < m.probability {
		m.bombs = append(m.bombs, NewBomb(m.rng, m.params))
	}
}

// Update advances every live bomb and prunes dead ones.
func (m *BombManager) Update(dt, slowFactor float64) {
	for _, b := range m.bombs {
		b.Update(dt, slowFactor)
	}
	m.bombs = pruneDead(m.bombs)
}

// IncreaseDifficulty raises the bomb probability one notch toward its cap.
func (m *BombManager) IncreaseDifficulty() {
	m.probability += m.tuning.BombProbIncrease
	if m.probability > m.tuning.MaxBombProbability {
		m.probability = m.tuning.MaxBombProbability
	}
}

// PowerUpManager owns the live power-ups.
type PowerUpManager struct {
	rng    *rand.Rand
	params Params

	powerups    []*PowerUp
	probability float64
}

// NewPowerUpManager creates a manager seeded with the given random source.
func NewPowerUpManager(rng *rand.Rand, params Params, tuning SpawnTuning) *PowerUpManager {
	return &PowerUpManager{
		rng:         rng,
		params:      params,
		probability: tuning.PowerUpProbability,
	}
}

// PowerUps returns the live power-ups.
func (m *PowerUpManager) PowerUps() []*PowerUp { return m.powerups }

// TrySpawn rolls the spawn probability once per fruit batch.
func (m *PowerUpManager) TrySpawn() {
	if m.rng.Float64() < m.probability {
		m.powerups = append(m.powerups, NewPowerUp(m.rng, m.params))
	}
}

// Update advances every live power-up and prunes dead ones.
func (m *PowerUpManager) Update(dt, slowFactor float64) {
	for _, p := range m.powerups {
		p.Update(dt, slowFactor)
	}
	m.powerups = pruneDead(m.powerups)
}

// pruneDead drops entities whose alive flag has gone false.
func pruneDead[T Entity](entities []T) []T {
	live := entities[:0]
	for _, e := range entities {
		if e.Alive() {
			live = append(live, e)
		}
	}
	return live
}
