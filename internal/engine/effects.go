package engine

import (
	"fmt"

	"github.com/ayusman/fruitfrenzy/internal/entity"
	"github.com/ayusman/fruitfrenzy/internal/geom"
)

// updateEffects runs down the active power-up timers and applies their
// per-frame consequences before the managers update.
func (e *Engine) updateEffects(dt float64, in Input) {
	if e.iceTimer > 0 {
		e.iceTimer -= dt
		e.slowFactor = e.cfg.PowerUps.IceSlowFactor
	} else {
		e.slowFactor = 1.0
	}

	if e.shieldTimer > 0 {
		e.shieldTimer -= dt
	}

	if e.magnetTimer > 0 {
		e.magnetTimer -= dt
		if in.HasCentroid {
			e.magnetTarget = in.Centroid
		}
		for _, f := range e.fruits.Fruits() {
			f.Attract(e.magnetTarget, e.cfg.PowerUps.MagnetStrength, e.slowFactor)
		}
	}
}

// activatePowerUp applies a sliced power-up's effect exactly once. The
// entity itself only reported the hit; everything below is the
// orchestrator's responsibility.
func (e *Engine) activatePowerUp(p *entity.PowerUp, in Input) {
	_, glow, _ := p.Style()
	e.particles.EmitBurst(p.Pos(), glow)
	e.pushEvent("powerup")

	switch p.Kind() {
	case entity.Fire:
		// Auto-slice every unsliced fruit near the power-up. Each cut
		// registers with the combo and scores at the multiplier it yields,
		// same as a hand slice.
		radius := e.cfg.PowerUps.FireRadius
		for _, f := range e.fruits.Fruits() {
			if !f.Sliced() && geom.Dist(f.Pos(), p.Pos()) <= radius {
				f.Slice()
				e.awardFruit(f.Pos(), f.Points(), "#ff4500")
			}
		}
		e.setAnnouncement("FIRE - Auto Slice!")

	case entity.Ice:
		e.iceTimer = e.cfg.PowerUps.IceDuration
		e.setAnnouncement("ICE - Slow Motion!")

	case entity.Lightning:
		// Flat bonus, no multiplier: the banner promises a fixed amount.
		e.score += e.cfg.Scoring.LightningBonus
		e.shake.Trigger(8, 0.2)
		e.setAnnouncement(fmt.Sprintf("LIGHTNING - +%d Bonus!", e.cfg.Scoring.LightningBonus))

	case entity.Magnet:
		e.magnetTimer = e.cfg.PowerUps.MagnetDuration
		if in.HasCentroid {
			e.magnetTarget = in.Centroid
		} else {
			e.magnetTarget = geom.Point{
				X: float64(e.cfg.Screen.Width) / 2,
				Y: float64(e.cfg.Screen.Height) / 2,
			}
		}
		e.setAnnouncement("MAGNET - Fruit Pull!")

	case entity.Shield:
		e.shieldTimer = e.cfg.PowerUps.ShieldDuration
		e.setAnnouncement("SHIELD - Bomb Immunity!")
	}
}
