package entity

import (
	"math/rand"
	"testing"
)

func TestNewPowerUp_SpawnState(t *testing.T) {
	p := NewPowerUp(testRNG(), testParams())

	if !p.Alive() || p.Sliced() {
		t.Error("new power-up must be alive and unsliced")
	}
	if p.Radius() < powerUpRadiusMin || p.Radius() > powerUpRadiusMax {
		t.Errorf("radius %v outside [%d,%d]", p.Radius(), powerUpRadiusMin, powerUpRadiusMax)
	}

	found := false
	for _, k := range powerUpKinds {
		if p.Kind() == k {
			found = true
		}
	}
	if !found {
		t.Errorf("unknown power-up kind %q", p.Kind())
	}
}

func TestPowerUp_SlicedSelfRemovesNextFrame(t *testing.T) {
	p := NewPowerUp(testRNG(), testParams())
	p.Slice()

	if !p.Sliced() {
		t.Fatal("Slice() must set sliced")
	}
	// Still alive until its own next update; the orchestrator has this one
	// frame to read the kind and apply the effect.
	if !p.Alive() {
		t.Fatal("power-up must survive until its next update")
	}

	p.Update(frameDT, 1.0)
	if p.Alive() {
		t.Error("sliced power-up must remove itself on the next update")
	}
}

func TestPowerUp_AllKindsReachable(t *testing.T) {
	// With enough spawns every kind in the closed set must appear.
	rng := rand.New(rand.NewSource(3))
	seen := map[PowerUpKind]bool{}
	for i := 0; i < 200; i++ {
		seen[NewPowerUp(rng, testParams()).Kind()] = true
	}
	for _, k := range powerUpKinds {
		if !seen[k] {
			t.Errorf("kind %q never spawned in 200 draws", k)
		}
	}
}

func TestPowerUp_Style(t *testing.T) {
	for _, k := range powerUpKinds {
		s, ok := powerUpStyle[k]
		if !ok {
			t.Errorf("kind %q has no style entry", k)
			continue
		}
		if s.Color == "" || s.Glow == "" || s.Label == "" {
			t.Errorf("kind %q has incomplete style %+v", k, s)
		}
	}
}
