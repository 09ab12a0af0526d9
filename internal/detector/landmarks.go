// Package detector provides hand detection for the pointer pipeline. A
// Detector turns camera frames into per-hand landmark sets; the tracker
// reduces those to fingertip positions and swipe trails.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a single landmark in normalized image coordinates: x and y in
// [0,1] with the origin at the top-left, z relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand: the 21 MediaPipe landmarks plus
// handedness and detection confidence.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Fingertip returns the index fingertip, the point the player slices with.
func (h *HandLandmarks) Fingertip() Point3D {
	return h.Points[IndexTip]
}

// PalmCenter returns the centroid of the wrist and the four finger MCP
// knuckles. It moves far less than the fingertip and is what effect
// targeting (the magnet pull) follows.
func (h *HandLandmarks) PalmCenter() Point3D {
	idx := [5]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}
	var c Point3D
	for _, i := range idx {
		c.X += h.Points[i].X
		c.Y += h.Points[i].Y
		c.Z += h.Points[i].Z
	}
	c.X /= float64(len(idx))
	c.Y /= float64(len(idx))
	c.Z /= float64(len(idx))
	return c
}
