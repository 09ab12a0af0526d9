package entity

import (
	"math/rand"

	"github.com/ayusman/fruitfrenzy/internal/geom"
)

// PowerUpKind identifies a power-up effect. The entity never applies its
// effect; it only reports that it was sliced, and the orchestrator applies
// the effect exactly once.
type PowerUpKind string

const (
	Fire      PowerUpKind = "fire"      // auto-slice all fruit nearby
	Ice       PowerUpKind = "ice"       // temporary slow motion
	Lightning PowerUpKind = "lightning" // flat score bonus
	Magnet    PowerUpKind = "magnet"    // pull fruit toward the pointer
	Shield    PowerUpKind = "shield"    // temporary bomb immunity
)

// powerUpKinds is the closed set a spawn picks from, uniformly.
var powerUpKinds = []PowerUpKind{Fire, Ice, Lightning, Magnet, Shield}

// powerUpStyle maps each kind to its display colors and label.
var powerUpStyle = map[PowerUpKind]struct {
	Color string
	Glow  string
	Label string
}{
	Fire:      {Color: "#ff4500", Glow: "#ff781e", Label: "F"},
	Ice:       {Color: "#00bfff", Glow: "#64c8ff", Label: "I"},
	Lightning: {Color: "#ffff00", Glow: "#ffff96", Label: "Z"},
	Magnet:    {Color: "#c864ff", Glow: "#c864ff", Label: "M"},
	Shield:    {Color: "#50ffdc", Glow: "#50ffdc", Label: "S"},
}

const (
	powerUpRadiusMin = 30
	powerUpRadiusMax = 40
	powerUpSpeedX    = 2
	powerUpSpinMin   = -4
	powerUpSpinMax   = 4
)

// PowerUp is a special sliceable that triggers a one-shot game effect.
type PowerUp struct {
	body
	kind  PowerUpKind
	pulse float64
}

// NewPowerUp spawns a power-up of a random kind at a random x inside the
// side margins.
func NewPowerUp(rng *rand.Rand, params Params) *PowerUp {
	return NewPowerUpOfKind(rng, params, powerUpKinds[rng.Intn(len(powerUpKinds))])
}

// NewPowerUpOfKind spawns a power-up of a specific kind.
func NewPowerUpOfKind(rng *rand.Rand, params Params, kind PowerUpKind) *PowerUp {
	p := &PowerUp{
		body: newBody(params, float64(powerUpRadiusMin+rng.Intn(powerUpRadiusMax-powerUpRadiusMin+1))),
		kind: kind,
	}
	lo := p.radius + 60
	hi := params.ScreenW - p.radius - 60
	p.pos = geom.Point{X: lo + rng.Float64()*(hi-lo), Y: params.ScreenH + p.radius + 10}
	p.vx = -powerUpSpeedX + rng.Float64()*2*powerUpSpeedX
	p.vy = fruitSpeedYMin + rng.Float64()*(fruitSpeedYMax-fruitSpeedYMin)
	p.angularVel = powerUpSpinMin + rng.Float64()*(powerUpSpinMax-powerUpSpinMin)
	return p
}

// Kind returns the power-up's effect kind.
func (p *PowerUp) Kind() PowerUpKind { return p.kind }

// Style returns the display colors and label for the power-up's kind.
func (p *PowerUp) Style() (color, glow, label string) {
	s := powerUpStyle[p.kind]
	return s.Color, s.Glow, s.Label
}

// Pulse returns the glow animation phase, for rendering.
func (p *PowerUp) Pulse() float64 { return p.pulse }

// Update advances the power-up by one frame. A sliced power-up removes
// itself on its next update; its effect has already been applied by the
// orchestrator.
func (p *PowerUp) Update(dt, slowFactor float64) {
	p.integrate(slowFactor)
	p.pulse += 6 * dt

	if p.sliced {
		p.alive = false
	}

	if !p.sliced && p.belowScreen() {
		p.alive = false
	}
}

// Slice marks the power-up as collected. Idempotent.
func (p *PowerUp) Slice() {
	p.sliced = true
}
