package engine

import (
	"math"
	"math/rand"

	"github.com/ayusman/fruitfrenzy/internal/geom"
)

// Particle is one juice drop or spark. Particles are pure presentation
// state: the engine simulates them and ships them in the snapshot, the
// client draws them.
type Particle struct {
	pos      geom.Point
	vx, vy   float64
	color    string
	size     float64
	lifetime float64
	age      float64
}

// ParticleView is the render-facing projection of a particle.
type ParticleView struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
	Fade  float64 `json:"fade"` // 1 fresh, 0 expired
}

// ParticleSystem owns all live particles.
type ParticleSystem struct {
	rng       *rand.Rand
	gravity   float64
	particles []*Particle
}

// NewParticleSystem creates a particle system using the given random source
// and the game gravity constant.
func NewParticleSystem(rng *rand.Rand, gravity float64) *ParticleSystem {
	return &ParticleSystem{rng: rng, gravity: gravity}
}

// Emit adds count particles bursting out of pos in random directions.
func (s *ParticleSystem) Emit(pos geom.Point, color string, count int, speedMin, speedMax, lifetime float64) {
	for i := 0; i < count; i++ {
		angle := s.rng.Float64() * 2 * math.Pi
		speed := speedMin + s.rng.Float64()*(speedMax-speedMin)
		s.particles = append(s.particles, &Particle{
			pos:      pos,
			vx:       math.Cos(angle) * speed,
			vy:       math.Sin(angle)*speed - (1 + s.rng.Float64()*2),
			color:    color,
			size:     3 + s.rng.Float64()*4,
			lifetime: lifetime,
		})
	}
}

// EmitSlice bursts juice out of a sliced fruit.
func (s *ParticleSystem) EmitSlice(pos geom.Point, color string) {
	s.Emit(pos, color, 15, 2, 8, 0.6)
}

// EmitExplosion bursts an exploding bomb: a red flash plus yellow sparks.
func (s *ParticleSystem) EmitExplosion(pos geom.Point) {
	s.Emit(pos, "#ff3232", 30, 4, 12, 0.8)
	s.Emit(pos, "#ffd700", 10, 3, 9, 0.5)
}

// EmitBurst sparkles for a collected power-up.
func (s *ParticleSystem) EmitBurst(pos geom.Point, color string) {
	s.Emit(pos, color, 20, 3, 10, 0.7)
	s.Emit(pos, "#ffffff", 8, 2, 6, 0.4)
}

// Update ages every particle one frame and prunes the expired ones.
func (s *ParticleSystem) Update(dt float64) {
	live := s.particles[:0]
	for _, p := range s.particles {
		p.age += dt
		if p.age >= p.lifetime {
			continue
		}
		p.vy += s.gravity * 0.5
		p.pos.X += p.vx
		p.pos.Y += p.vy
		live = append(live, p)
	}
	s.particles = live
}

// Len returns the number of live particles.
func (s *ParticleSystem) Len() int { return len(s.particles) }

// Views returns the render projections of all live particles.
func (s *ParticleSystem) Views() []ParticleView {
	views := make([]ParticleView, 0, len(s.particles))
	for _, p := range s.particles {
		views = append(views, ParticleView{
			X:     p.pos.X,
			Y:     p.pos.Y,
			Size:  p.size,
			Color: p.color,
			Fade:  1 - p.age/p.lifetime,
		})
	}
	return views
}
