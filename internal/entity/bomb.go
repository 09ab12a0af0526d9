package entity

import (
	"math/rand"

	"github.com/ayusman/fruitfrenzy/internal/geom"
)

const (
	bombRadiusMin = 24
	bombRadiusMax = 34
	bombSpinMin   = -3
	bombSpinMax   = 3
	bombFlashLife = 0.5 // seconds the explosion flash stays on screen
)

// Bomb is a hazard: slicing it costs the player a life (or the shield).
// The life-loss contract is the orchestrator's; the bomb only records that
// it was hit.
type Bomb struct {
	body

	flashTimer float64
	sparkAngle float64
}

// NewBomb spawns a bomb at a random x inside the side margins, just below
// the bottom edge.
func NewBomb(rng *rand.Rand, params Params) *Bomb {
	b := &Bomb{
		body: newBody(params, float64(bombRadiusMin+rng.Intn(bombRadiusMax-bombRadiusMin+1))),
	}
	lo := b.radius + 50
	hi := params.ScreenW - b.radius - 50
	b.pos = geom.Point{X: lo + rng.Float64()*(hi-lo), Y: params.ScreenH + b.radius + 10}
	b.vx = fruitSpeedXMin + rng.Float64()*(fruitSpeedXMax-fruitSpeedXMin)
	b.vy = fruitSpeedYMin + rng.Float64()*(fruitSpeedYMax-fruitSpeedYMin)
	b.angularVel = bombSpinMin + rng.Float64()*(bombSpinMax-bombSpinMin)
	return b
}

// SparkAngle returns the fuse spark animation phase, for rendering.
func (b *Bomb) SparkAngle() float64 { return b.sparkAngle }

// FlashTimer returns how long the explosion flash has been running.
func (b *Bomb) FlashTimer() float64 { return b.flashTimer }

// Update advances the bomb by one frame.
func (b *Bomb) Update(dt, slowFactor float64) {
	b.integrate(slowFactor)
	b.sparkAngle += 8 * dt

	if b.sliced {
		b.flashTimer += dt
		if b.flashTimer > bombFlashLife {
			b.alive = false
		}
	}

	if !b.sliced && b.belowScreen() {
		b.alive = false
	}
}

// Slice marks the bomb as hit. Idempotent.
func (b *Bomb) Slice() {
	b.sliced = true
}
