package detector

import "gocv.io/x/gocv"

// Detector finds hands in webcam frames for the pointer tracker. The
// tracker only needs fingertip positions, but implementations return full
// landmark sets so palm-based helpers keep working.
type Detector interface {
	// Detect analyzes a video frame and returns the hands found in it.
	// Returns an empty slice when no hands are visible.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds tuning options for hand detection.
type Config struct {
	// MaxHands caps how many hands are reported per frame. The game
	// tracks at most two.
	MaxHands int

	// MinConfidence is the minimum detection confidence (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns the detection settings the game ships with.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
