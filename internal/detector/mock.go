package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface. It plays
// back a scripted sequence of detection results, one per Detect call, so
// tracking tests can simulate a hand moving across the frame without a
// camera or the Python service.
type MockDetector struct {
	mu     sync.Mutex
	script [][]HandLandmarks
	index  int
	sticky bool
	err    error
}

// NewMockDetector creates a MockDetector that reports no hands.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands makes every Detect call return the same hands.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = [][]HandLandmarks{hands}
	m.index = 0
	m.sticky = true
}

// SetScript queues one detection result per Detect call. After the script
// runs out, further calls report no hands.
func (m *MockDetector) SetScript(script [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = script
	m.index = 0
	m.sticky = false
}

// SetError makes every Detect call fail.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next scripted result.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) == 0 {
		return nil, nil
	}
	if m.sticky {
		return m.script[0], nil
	}
	if m.index >= len(m.script) {
		return nil, nil
	}
	hands := m.script[m.index]
	m.index++
	return hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// HandAt returns a plausible right-hand landmark set whose index fingertip
// sits at the given normalized coordinates. The remaining landmarks are laid
// out below and around the fingertip so PalmCenter lands under it.
func HandAt(x, y float64) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[IndexTip] = Point3D{X: x, Y: y}
	lm.Points[IndexDIP] = Point3D{X: x, Y: y + 0.03}
	lm.Points[IndexPIP] = Point3D{X: x, Y: y + 0.06}
	lm.Points[IndexMCP] = Point3D{X: x, Y: y + 0.10}

	lm.Points[Wrist] = Point3D{X: x, Y: y + 0.25}

	lm.Points[ThumbCMC] = Point3D{X: x + 0.03, Y: y + 0.22}
	lm.Points[ThumbMCP] = Point3D{X: x + 0.05, Y: y + 0.18}
	lm.Points[ThumbIP] = Point3D{X: x + 0.06, Y: y + 0.15}
	lm.Points[ThumbTip] = Point3D{X: x + 0.07, Y: y + 0.12}

	lm.Points[MiddleMCP] = Point3D{X: x - 0.02, Y: y + 0.10}
	lm.Points[MiddlePIP] = Point3D{X: x - 0.02, Y: y + 0.06}
	lm.Points[MiddleDIP] = Point3D{X: x - 0.02, Y: y + 0.03}
	lm.Points[MiddleTip] = Point3D{X: x - 0.02, Y: y + 0.01}

	lm.Points[RingMCP] = Point3D{X: x - 0.05, Y: y + 0.11}
	lm.Points[RingPIP] = Point3D{X: x - 0.05, Y: y + 0.08}
	lm.Points[RingDIP] = Point3D{X: x - 0.05, Y: y + 0.05}
	lm.Points[RingTip] = Point3D{X: x - 0.05, Y: y + 0.03}

	lm.Points[PinkyMCP] = Point3D{X: x - 0.08, Y: y + 0.13}
	lm.Points[PinkyPIP] = Point3D{X: x - 0.08, Y: y + 0.10}
	lm.Points[PinkyDIP] = Point3D{X: x - 0.08, Y: y + 0.08}
	lm.Points[PinkyTip] = Point3D{X: x - 0.08, Y: y + 0.06}

	return lm
}

// LeftHandAt is HandAt with left handedness, for two-hand tests.
func LeftHandAt(x, y float64) HandLandmarks {
	lm := HandAt(x, y)
	lm.Handedness = "Left"
	return lm
}

// SwipeScript returns a per-frame detection script of a single right hand
// moving in a straight line between two normalized positions.
func SwipeScript(fromX, fromY, toX, toY float64, frames int) [][]HandLandmarks {
	if frames < 2 {
		frames = 2
	}
	script := make([][]HandLandmarks, frames)
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		script[i] = []HandLandmarks{HandAt(x, y)}
	}
	return script
}
