package entity

import (
	"math"
	"math/rand"

	"github.com/ayusman/fruitfrenzy/internal/geom"
)

// Kind describes one fruit variant: its display colors and base point value.
type Kind struct {
	Name   string
	Color  string // outer skin, CSS hex for the canvas client
	Inner  string // flesh
	Points int
}

// Kinds is the fixed fruit variant table. Spawns pick uniformly from it.
var Kinds = []Kind{
	{Name: "watermelon", Color: "#228b22", Inner: "#dc143c", Points: 10},
	{Name: "orange", Color: "#ff8c00", Inner: "#ffd700", Points: 10},
	{Name: "apple", Color: "#c81e1e", Inner: "#ffffff", Points: 10},
	{Name: "grape", Color: "#800080", Inner: "#ff69b4", Points: 15},
	{Name: "kiwi", Color: "#76ab2f", Inner: "#ffffff", Points: 10},
	{Name: "mango", Color: "#ffb347", Inner: "#ffd700", Points: 15},
	{Name: "banana", Color: "#ffe135", Inner: "#ffffff", Points: 10},
}

// Fruit spawn ranges, in screen units per frame.
const (
	fruitRadiusMin  = 28
	fruitRadiusMax  = 42
	fruitSpeedYMin  = -13
	fruitSpeedYMax  = -9
	fruitSpeedXMin  = -3
	fruitSpeedXMax  = 3
	fruitSpinMin    = -5
	fruitSpinMax    = 5
	fruitHalfLife   = 1.0 // seconds the separating halves stay on screen
	sliceUpwardNudge = -2 // minimum upward velocity after a slice
)

// Fruit is a single fruit falling through the play field.
type Fruit struct {
	body
	kind Kind

	// Post-slice half separation.
	halfOffset float64
	halfTimer  float64
}

// NewFruit spawns a fruit of a random kind at the given x, just below the
// bottom edge, launched upward.
func NewFruit(rng *rand.Rand, params Params, x float64) *Fruit {
	f := &Fruit{
		body: newBody(params, float64(fruitRadiusMin+rng.Intn(fruitRadiusMax-fruitRadiusMin+1))),
		kind: Kinds[rng.Intn(len(Kinds))],
	}
	f.pos = geom.Point{X: x, Y: params.ScreenH + f.radius + 10}
	f.vx = fruitSpeedXMin + rng.Float64()*(fruitSpeedXMax-fruitSpeedXMin)
	f.vy = fruitSpeedYMin + rng.Float64()*(fruitSpeedYMax-fruitSpeedYMin)
	f.angularVel = fruitSpinMin + rng.Float64()*(fruitSpinMax-fruitSpinMin)
	return f
}

// Kind returns the fruit's variant definition.
func (f *Fruit) Kind() Kind { return f.kind }

// Points returns the fruit's unmultiplied point value.
func (f *Fruit) Points() int { return f.kind.Points }

// HalfOffset returns the current separation of the sliced halves, for
// rendering.
func (f *Fruit) HalfOffset() float64 { return f.halfOffset }

// Update advances the fruit by one frame.
func (f *Fruit) Update(dt, slowFactor float64) {
	f.integrate(slowFactor)

	if f.sliced {
		f.halfTimer += dt
		f.halfOffset += 2.0 * slowFactor
		if f.halfTimer > fruitHalfLife {
			f.alive = false
		}
	}

	if !f.sliced && f.belowScreen() {
		f.alive = false
	}
}

// Attract accelerates the fruit toward target. The orchestrator calls this
// each frame while a magnet power-up is active. Sliced fruit is left alone.
func (f *Fruit) Attract(target geom.Point, strength, slowFactor float64) {
	if f.sliced {
		return
	}
	dx := target.X - f.pos.X
	dy := target.Y - f.pos.Y
	d := math.Hypot(dx, dy)
	if d < 1 {
		return
	}
	f.vx += dx / d * strength * slowFactor
	f.vy += dy / d * strength * slowFactor
}

// Slice marks the fruit as cut and nudges it upward so the halves visibly
// separate before falling away.
func (f *Fruit) Slice() {
	if f.sliced {
		return
	}
	f.sliced = true
	f.vy = math.Min(f.vy, sliceUpwardNudge)
}
