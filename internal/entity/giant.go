package entity

import (
	"math"
	"math/rand"

	"github.com/ayusman/fruitfrenzy/internal/geom"
)

const (
	// GiantMaxHealth is the number of qualifying hits needed to cut a giant
	// fruit open.
	GiantMaxHealth = 5

	// GiantHitCooldown is the time after a qualifying hit during which
	// further hits are ignored, so one continuous swipe lands a single hit.
	GiantHitCooldown = 0.3

	// GiantPoints is the unmultiplied score for finishing a giant fruit.
	GiantPoints = 50

	giantRadiusMin = 60
	giantRadiusMax = 80
	giantSpeedYMin = -10
	giantSpeedYMax = -8
	giantSpinMax   = 2
)

// GiantFruit is the multi-hit boss variant. It takes GiantMaxHealth hits,
// each separated by more than the hit cooldown, before it counts as sliced.
type GiantFruit struct {
	body
	kind        Kind
	health      int
	hitCooldown float64

	halfOffset float64
	halfTimer  float64
}

// NewGiantFruit spawns a giant fruit at the given x, falling slower and
// spinning less than regular fruit.
func NewGiantFruit(rng *rand.Rand, params Params, x float64) *GiantFruit {
	g := &GiantFruit{
		body:   newBody(params, float64(giantRadiusMin+rng.Intn(giantRadiusMax-giantRadiusMin+1))),
		kind:   Kinds[rng.Intn(len(Kinds))],
		health: GiantMaxHealth,
	}
	g.pos = geom.Point{X: x, Y: params.ScreenH + g.radius + 10}
	g.vx = -1 + rng.Float64()*2
	g.vy = giantSpeedYMin + rng.Float64()*(giantSpeedYMax-giantSpeedYMin)
	g.angularVel = -giantSpinMax + rng.Float64()*2*giantSpinMax
	return g
}

// Kind returns the giant's fruit variant, used for rendering colors.
func (g *GiantFruit) Kind() Kind { return g.kind }

// Health returns the remaining hits needed to cut the giant open.
func (g *GiantFruit) Health() int { return g.health }

// Points returns the unmultiplied score awarded when the giant is finished.
func (g *GiantFruit) Points() int { return GiantPoints }

// HalfOffset returns the separation of the halves after the final hit.
func (g *GiantFruit) HalfOffset() float64 { return g.halfOffset }

// Update advances the giant fruit by one frame.
func (g *GiantFruit) Update(dt, slowFactor float64) {
	g.integrate(slowFactor)

	if g.hitCooldown > 0 {
		g.hitCooldown -= dt
	}

	if g.sliced {
		g.halfTimer += dt
		g.halfOffset += 2.0 * slowFactor
		if g.halfTimer > fruitHalfLife {
			g.alive = false
		}
	}

	if !g.sliced && g.belowScreen() {
		g.alive = false
	}
}

// Slice registers one hit. Hits landing within the cooldown window are
// ignored; the giant only counts as sliced once its health reaches zero.
func (g *GiantFruit) Slice() {
	if g.sliced || g.hitCooldown > 0 {
		return
	}
	g.health--
	g.hitCooldown = GiantHitCooldown
	if g.health <= 0 {
		g.sliced = true
		g.vy = math.Min(g.vy, sliceUpwardNudge)
	}
}

// CheckSlice matches the shared circle test but also refuses hits while the
// cooldown is running, so a lingering trail cannot re-hit every frame.
func (g *GiantFruit) CheckSlice(trail []geom.Point) bool {
	if g.hitCooldown > 0 {
		return false
	}
	return g.body.CheckSlice(trail)
}
