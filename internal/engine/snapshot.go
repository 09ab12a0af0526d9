package engine

import (
	"github.com/ayusman/fruitfrenzy/internal/entity"
	"github.com/ayusman/fruitfrenzy/internal/geom"
)

// Snapshot is the per-frame render state handed to the presentation
// collaborator. It is a value copy: the client can hold it as long as it
// likes without touching live game state.
type Snapshot struct {
	Tick    uint64  `json:"tick"`
	State   State   `json:"state"`
	Score   int     `json:"score"`
	Lives   int     `json:"lives"`
	Elapsed float64 `json:"elapsed"`

	Combo       ComboView `json:"combo"`
	SlowMotion  bool      `json:"slow_motion"`
	ShieldUp    bool      `json:"shield_up"`
	MagnetOn    bool      `json:"magnet_on"`
	Announce    string    `json:"announce,omitempty"`
	AnnounceTTL float64   `json:"announce_ttl,omitempty"`
	MenuPulse   float64   `json:"menu_pulse,omitempty"`

	Fruits    []FruitView    `json:"fruits"`
	Giants    []GiantView    `json:"giants,omitempty"`
	Bombs     []BombView     `json:"bombs"`
	PowerUps  []PowerUpView  `json:"powerups"`
	Particles []ParticleView `json:"particles,omitempty"`

	Trails [][]geom.Point `json:"trails"`
	ShakeX float64        `json:"shake_x,omitempty"`
	ShakeY float64        `json:"shake_y,omitempty"`

	// Events are one-frame triggers (sounds, flashes) fired this frame.
	Events []string `json:"events,omitempty"`

	TopScores []int `json:"top_scores,omitempty"`
}

// ComboView is the HUD projection of the combo tracker.
type ComboView struct {
	Count      int  `json:"count"`
	Multiplier int  `json:"multiplier"`
	Popup      bool `json:"popup"`
}

// FruitView is the render projection of one fruit.
type FruitView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Radius     float64 `json:"radius"`
	Angle      float64 `json:"angle"`
	Color      string  `json:"color"`
	Inner      string  `json:"inner"`
	Sliced     bool    `json:"sliced"`
	HalfOffset float64 `json:"half_offset,omitempty"`
}

// GiantView is the render projection of a giant fruit, including its
// remaining health for the boss bar.
type GiantView struct {
	FruitView
	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
}

// BombView is the render projection of one bomb.
type BombView struct {
	ID         string  `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Radius     float64 `json:"radius"`
	Angle      float64 `json:"angle"`
	Sliced     bool    `json:"sliced"`
	FlashTimer float64 `json:"flash_timer,omitempty"`
	SparkAngle float64 `json:"spark_angle"`
}

// PowerUpView is the render projection of one power-up.
type PowerUpView struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Angle  float64 `json:"angle"`
	Color  string  `json:"color"`
	Glow   string  `json:"glow"`
	Label  string  `json:"label"`
	Pulse  float64 `json:"pulse"`
	Sliced bool    `json:"sliced"`
}

// Snapshot exports the current frame's render state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Tick:    e.tick,
		State:   e.state,
		Score:   e.score,
		Lives:   e.lives,
		Elapsed: e.elapsed,
		Combo: ComboView{
			Count:      e.combo.Count(),
			Multiplier: e.combo.Multiplier(),
			Popup:      e.combo.ShouldShowPopup(),
		},
		SlowMotion: e.iceTimer > 0,
		ShieldUp:   e.shieldTimer > 0,
		MagnetOn:   e.magnetTimer > 0,
		MenuPulse:  e.menuPulse,
		Particles:  e.particles.Views(),
		TopScores:  append([]int(nil), e.topScores...),
	}

	if e.announceTimer > 0 {
		snap.Announce = e.announce
		snap.AnnounceTTL = e.announceTimer
	}

	snap.ShakeX, snap.ShakeY = e.shake.Offset()

	for _, f := range e.fruits.Fruits() {
		snap.Fruits = append(snap.Fruits, FruitView{
			ID:         f.ID(),
			Name:       f.Kind().Name,
			X:          f.Pos().X,
			Y:          f.Pos().Y,
			Radius:     f.Radius(),
			Angle:      f.Angle(),
			Color:      f.Kind().Color,
			Inner:      f.Kind().Inner,
			Sliced:     f.Sliced(),
			HalfOffset: f.HalfOffset(),
		})
	}

	for _, g := range e.fruits.Giants() {
		snap.Giants = append(snap.Giants, GiantView{
			FruitView: FruitView{
				ID:         g.ID(),
				Name:       g.Kind().Name,
				X:          g.Pos().X,
				Y:          g.Pos().Y,
				Radius:     g.Radius(),
				Angle:      g.Angle(),
				Color:      g.Kind().Color,
				Inner:      g.Kind().Inner,
				Sliced:     g.Sliced(),
				HalfOffset: g.HalfOffset(),
			},
			Health:    g.Health(),
			MaxHealth: entity.GiantMaxHealth,
		})
	}

	for _, b := range e.bombs.Bombs() {
		snap.Bombs = append(snap.Bombs, BombView{
			ID:         b.ID(),
			X:          b.Pos().X,
			Y:          b.Pos().Y,
			Radius:     b.Radius(),
			Angle:      b.Angle(),
			Sliced:     b.Sliced(),
			FlashTimer: b.FlashTimer(),
			SparkAngle: b.SparkAngle(),
		})
	}

	for _, p := range e.powerups.PowerUps() {
		color, glow, label := p.Style()
		snap.PowerUps = append(snap.PowerUps, PowerUpView{
			ID:     p.ID(),
			Kind:   string(p.Kind()),
			X:      p.Pos().X,
			Y:      p.Pos().Y,
			Radius: p.Radius(),
			Angle:  p.Angle(),
			Color:  color,
			Glow:   glow,
			Label:  label,
			Pulse:  p.Pulse(),
			Sliced: p.Sliced(),
		})
	}

	for _, trail := range e.lastTrails {
		if len(trail) > 0 {
			snap.Trails = append(snap.Trails, append([]geom.Point(nil), trail...))
		}
	}

	snap.Events = append([]string(nil), e.events...)
	return snap
}
