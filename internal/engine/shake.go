package engine

import "math/rand"

// ScreenShake produces a decaying random offset the client applies to the
// whole play field after an explosion.
type ScreenShake struct {
	rng       *rand.Rand
	intensity float64
	duration  float64
	timer     float64
	offX      float64
	offY      float64
}

// NewScreenShake creates a shake generator using the given random source.
func NewScreenShake(rng *rand.Rand) *ScreenShake {
	return &ScreenShake{rng: rng}
}

// Trigger starts (or restarts) a shake of the given pixel intensity and
// duration in seconds.
func (s *ScreenShake) Trigger(intensity, duration float64) {
	s.intensity = intensity
	s.duration = duration
	s.timer = 0
}

// Update advances the shake one frame and recomputes the current offset.
func (s *ScreenShake) Update(dt float64) {
	if s.timer >= s.duration {
		s.offX, s.offY = 0, 0
		return
	}
	s.timer += dt
	progress := 1 - s.timer/s.duration
	if progress < 0 {
		progress = 0
	}
	s.offX = (s.rng.Float64()*2 - 1) * s.intensity * progress
	s.offY = (s.rng.Float64()*2 - 1) * s.intensity * progress
}

// Offset returns the current shake offset.
func (s *ScreenShake) Offset() (x, y float64) {
	return s.offX, s.offY
}
