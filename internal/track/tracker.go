// Package track turns camera frames into pointer input for the game: it
// runs hand detection, smooths the fingertip positions, and maintains the
// swipe trails the engine sweeps against the entities.
package track

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/fruitfrenzy/internal/capture"
	"github.com/ayusman/fruitfrenzy/internal/config"
	"github.com/ayusman/fruitfrenzy/internal/detector"
	"github.com/ayusman/fruitfrenzy/internal/engine"
	"github.com/ayusman/fruitfrenzy/internal/geom"
)

const (
	// MaxHands is how many hands the tracker follows at once.
	MaxHands = 2

	// Camera rates for the two tracking modes. Idle mode runs while the
	// scene is still and no hand is tracked; any motion switches to active.
	IdleFPS   = 5
	ActiveFPS = 30

	// idleTimeout is how long after the last motion (with no tracked hand)
	// the tracker drops back to idle mode.
	idleTimeout = 2 * time.Second

	// idleProbeEvery is how often, in polls, hand detection still runs in
	// idle mode. A perfectly still raised hand produces no frame motion,
	// and holding a hand up is how the player starts a game.
	idleProbeEvery = 15
)

// handState is the tracking state for one followed hand.
type handState struct {
	present bool
	pos     geom.Point
	trail   []geom.Point
	speed   float64
}

// Tracker reads camera frames and produces one engine.Input per poll. It
// implements engine.PointerSource.
type Tracker struct {
	cfg     config.TrackerConfig
	screenW float64
	screenH float64

	camera capture.Camera
	det    detector.Detector
	motion *capture.MotionDetector

	mu         sync.Mutex
	hands      [MaxHands]handState
	activeMode bool
	lastMotion time.Time
	polls      uint64
}

var _ engine.PointerSource = (*Tracker)(nil)

// New creates a Tracker over an open camera and a detector. The screen
// dimensions come from the game config so fingertip positions land in game
// coordinates.
func New(cfg *config.Config, cam capture.Camera, det detector.Detector) *Tracker {
	return &Tracker{
		cfg:     cfg.Tracker,
		screenW: float64(cfg.Screen.Width),
		screenH: float64(cfg.Screen.Height),
		camera:  cam,
		det:     det,
		motion:  capture.NewMotionDetector(cfg.Tracker.MotionThreshold),
	}
}

// Close releases the camera, the detector, and the motion baseline.
func (t *Tracker) Close() error {
	t.motion.Close()
	if err := t.det.Close(); err != nil {
		log.Printf("tracker: close detector: %v", err)
	}
	return t.camera.Close()
}

// Poll reads one frame and returns the current pointer input. ok is false
// when no usable frame was produced this tick; the engine skips that tick.
func (t *Tracker) Poll() (engine.Input, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	probe := t.polls%idleProbeEvery == 0
	t.polls++

	frame, err := t.camera.ReadFrame()
	if err != nil {
		log.Printf("tracker: read frame: %v", err)
		return engine.Input{}, false
	}
	defer frame.Close()

	moving, _ := t.motion.Detect(frame)
	if moving {
		t.lastMotion = time.Now()
		t.setActive(true)
	} else if t.activeMode && !t.anyPresent() && time.Since(t.lastMotion) > idleTimeout {
		t.setActive(false)
	}

	if !t.activeMode && !probe {
		t.clearHands()
		return t.buildInput(), true
	}

	hands, err := t.det.Detect(frame)
	if err != nil {
		log.Printf("tracker: detect hands: %v", err)
		return engine.Input{}, false
	}
	if len(hands) > 0 {
		// A tracked hand keeps the pipeline active even when held still.
		t.lastMotion = time.Now()
		t.setActive(true)
	}

	t.updateHands(hands)
	return t.buildInput(), true
}

// setActive switches between the idle and active camera rates.
func (t *Tracker) setActive(active bool) {
	if active == t.activeMode {
		return
	}
	t.activeMode = active
	if active {
		t.camera.SetFPS(ActiveFPS)
	} else {
		t.camera.SetFPS(IdleFPS)
		t.clearHands()
	}
}

func (t *Tracker) anyPresent() bool {
	for i := range t.hands {
		if t.hands[i].present {
			return true
		}
	}
	return false
}

func (t *Tracker) clearHands() {
	for i := range t.hands {
		t.hands[i] = handState{}
	}
}

// updateHands assigns detections to tracking slots and advances their
// trails. Slots without a detection this frame are dropped immediately:
// stale trails must never slice anything.
func (t *Tracker) updateHands(hands []detector.HandLandmarks) {
	var claimed [MaxHands]bool

	for i := range hands {
		if i >= MaxHands {
			break
		}
		h := &hands[i]
		slot := t.slotFor(h, &claimed)
		if slot < 0 {
			continue
		}
		claimed[slot] = true
		t.advanceHand(slot, h)
	}

	for i := range t.hands {
		if !claimed[i] {
			t.hands[i] = handState{}
		}
	}
}

// slotFor picks a tracking slot for a detection: left hands prefer slot 0,
// right hands slot 1, with a fallback to the first unclaimed slot.
func (t *Tracker) slotFor(h *detector.HandLandmarks, claimed *[MaxHands]bool) int {
	prefer := 1
	if h.Handedness == "Left" {
		prefer = 0
	}
	if !claimed[prefer] {
		return prefer
	}
	for i := range claimed {
		if !claimed[i] {
			return i
		}
	}
	return -1
}

// advanceHand smooths the fingertip into the slot and extends its trail.
func (t *Tracker) advanceHand(slot int, h *detector.HandLandmarks) {
	s := &t.hands[slot]
	raw := t.toScreen(h.Fingertip())

	if s.present {
		sm := t.cfg.SmoothingFactor
		raw = geom.Point{
			X: s.pos.X*sm + raw.X*(1-sm),
			Y: s.pos.Y*sm + raw.Y*(1-sm),
		}
	} else {
		s.trail = s.trail[:0]
	}
	s.present = true
	s.pos = raw

	if len(s.trail) >= t.cfg.TrailLength {
		copy(s.trail, s.trail[1:])
		s.trail = s.trail[:len(s.trail)-1]
	}
	s.trail = append(s.trail, raw)

	s.speed = 0
	if n := len(s.trail); n >= 2 {
		s.speed = geom.Dist(s.trail[n-1], s.trail[n-2])
	}
}

// toScreen maps a normalized landmark into game coordinates, mirroring x so
// the player's movement matches what they see.
func (t *Tracker) toScreen(p detector.Point3D) geom.Point {
	return geom.Point{
		X: (1 - p.X) * t.screenW,
		Y: p.Y * t.screenH,
	}
}

// buildInput snapshots the tracking state into an engine.Input. Trails are
// copied; the engine keeps them past the next poll.
func (t *Tracker) buildInput() engine.Input {
	var in engine.Input
	var sumX, sumY float64

	for i := range t.hands {
		s := &t.hands[i]
		if !s.present {
			continue
		}
		in.Trails[in.Hands] = append([]geom.Point(nil), s.trail...)
		in.Speeds[in.Hands] = s.speed
		sumX += s.pos.X
		sumY += s.pos.Y
		in.Hands++
	}

	if in.Hands > 0 {
		in.Centroid = geom.Point{X: sumX / float64(in.Hands), Y: sumY / float64(in.Hands)}
		in.HasCentroid = true
	}
	return in
}
