package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

// solidFrame builds a 640x480 frame filled with one gray level.
func solidFrame(t *testing.T, value float64) *gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { m.Close() })
	if value != 0 {
		m.SetTo(gocv.NewScalar(value, value, value, 0))
	}
	return &m
}

func TestNewMotionDetector(t *testing.T) {
	md := NewMotionDetector(1.0)
	if md == nil {
		t.Fatal("NewMotionDetector returned nil")
	}
	defer md.Close()

	if md.threshold != 1.0 {
		t.Errorf("threshold = %f, want 1.0", md.threshold)
	}
	if md.initialized {
		t.Error("detector should start uninitialized")
	}
}

func TestMotionDetector_StillSceneStaysQuiet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	// The gate must stay quiet on a static scene so the tracker can drop
	// to its idle poll rate.
	first := solidFrame(t, 0)
	detected, changePercent := md.Detect(first)
	if detected {
		t.Error("first frame should never count as motion")
	}
	if changePercent != 0 {
		t.Errorf("first frame changePercent = %f, want 0", changePercent)
	}

	for i := 0; i < 3; i++ {
		if detected, changePercent = md.Detect(solidFrame(t, 0)); detected {
			t.Fatalf("identical frame %d detected motion, changePercent = %f", i, changePercent)
		}
	}
}

func TestMotionDetector_SceneChangeWakesGate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	md.Detect(solidFrame(t, 0))
	detected, changePercent := md.Detect(solidFrame(t, 255))
	if !detected {
		t.Errorf("black to white should detect motion, changePercent = %f", changePercent)
	}
	if changePercent < 50.0 {
		t.Errorf("changePercent = %f, want > 50 when every pixel flips", changePercent)
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	md.Detect(solidFrame(t, 255))
	if !md.initialized {
		t.Fatal("detector should be initialized after first Detect")
	}

	md.Reset()
	if md.initialized {
		t.Error("detector should not be initialized after Reset")
	}
	if !md.prevGray.Empty() {
		t.Error("prevGray should be empty after Reset")
	}

	// The next frame re-initializes instead of diffing against stale state.
	if detected, _ := md.Detect(solidFrame(t, 0)); detected {
		t.Error("first frame after Reset should not detect motion")
	}
}

func TestMotionDetector_SetThreshold(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	md.SetThreshold(5.0)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0", md.threshold)
	}

	// Non-positive values are ignored.
	md.SetThreshold(-1.0)
	if md.threshold != 5.0 {
		t.Errorf("negative threshold should be ignored, got %f", md.threshold)
	}
}

func TestMotionDetector_HighThresholdIgnoresChange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(99.0)
	defer md.Close()

	md.Detect(solidFrame(t, 0))
	detected, changePercent := md.Detect(solidFrame(t, 128))
	t.Logf("changePercent = %f, detected = %v at threshold 99", changePercent, detected)
	if detected && changePercent < 99.0 {
		t.Errorf("detected motion below threshold: changePercent = %f", changePercent)
	}
}

func TestMotionDetector_CloseIsIdempotent(t *testing.T) {
	md := NewMotionDetector(1.0)
	md.Close()
	md.Close()
}

func TestMotionDetector_DetectAfterClose(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	md.Detect(solidFrame(t, 0))
	md.Close()

	if detected, _ := md.Detect(solidFrame(t, 0)); detected {
		t.Error("first frame after Close should re-initialize, not detect motion")
	}
}
