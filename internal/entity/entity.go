// Package entity implements the sliceable game objects (fruit, bombs,
// power-ups, giant fruit) and the managers that spawn and own them.
package entity

import (
	"github.com/google/uuid"

	"github.com/ayusman/fruitfrenzy/internal/geom"
)

// Entity is the capability set shared by everything that falls through the
// play field and can be sliced by a hand trail. The variant set is closed:
// Fruit, Bomb, PowerUp, and GiantFruit.
type Entity interface {
	// Update advances physics by one frame. dt is wall-clock seconds used by
	// animation timers; slowFactor scales velocity integration uniformly
	// (1.0 normal, <1 during slow motion).
	Update(dt, slowFactor float64)

	// CheckSlice reports whether any segment of the trail intersects the
	// entity's collision circle. Already-sliced entities never match.
	CheckSlice(trail []geom.Point) bool

	// Slice marks the entity as hit. It is idempotent; repeated calls have
	// no further effect.
	Slice()

	Alive() bool
	Sliced() bool
	Pos() geom.Point
	Radius() float64
}

// Params carries the screen geometry and physics constants every entity
// needs. Managers hand it to the entities they spawn.
type Params struct {
	ScreenW float64
	ScreenH float64
	Gravity float64
}

// offscreenMargin is how far past the bottom edge an unsliced entity may
// fall before it counts as missed.
const offscreenMargin = 50

// body is the kinematic state embedded in every entity variant.
type body struct {
	id         string
	pos        geom.Point
	vx, vy     float64
	angle      float64
	angularVel float64
	radius     float64
	sliced     bool
	alive      bool
	params     Params
}

func newBody(params Params, radius float64) body {
	return body{
		id:     uuid.NewString(),
		radius: radius,
		alive:  true,
		params: params,
	}
}

// integrate applies gravity and advances position and rotation, all scaled
// by the slow factor.
func (b *body) integrate(slowFactor float64) {
	b.vy += b.params.Gravity * slowFactor
	b.pos.X += b.vx * slowFactor
	b.pos.Y += b.vy * slowFactor
	b.angle += b.angularVel * slowFactor
}

// belowScreen reports whether the entity has fallen past the bottom boundary
// by the miss margin.
func (b *body) belowScreen() bool {
	return b.pos.Y > b.params.ScreenH+b.radius+offscreenMargin
}

func (b *body) ID() string        { return b.id }
func (b *body) Alive() bool       { return b.alive }
func (b *body) Sliced() bool      { return b.sliced }
func (b *body) Pos() geom.Point   { return b.pos }
func (b *body) Radius() float64   { return b.radius }
func (b *body) Angle() float64    { return b.angle }
func (b *body) Velocity() (vx, vy float64) { return b.vx, b.vy }

func (b *body) CheckSlice(trail []geom.Point) bool {
	if b.sliced || len(trail) < 2 {
		return false
	}
	return geom.TrailIntersectsCircle(trail, b.pos, b.radius)
}
