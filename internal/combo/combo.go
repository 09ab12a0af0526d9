// Package combo tracks rapid successive slices and derives the score
// multiplier from them.
package combo

import (
	"sort"
	"time"
)

// popupDuration is how long the combo popup stays on screen once a combo of
// three or more is running. The display timer is UI state only; it never
// feeds back into scoring.
const popupDuration = 1.5

// minPopupCombo is the smallest combo count worth announcing.
const minPopupCombo = 3

// Threshold maps a combo count to the multiplier it unlocks.
type Threshold struct {
	Count      int
	Multiplier int
}

// Tracker counts slices inside a trailing time window and exposes the
// highest multiplier whose threshold the current count satisfies.
type Tracker struct {
	window     time.Duration
	thresholds []Threshold // ascending by Count

	now          func() time.Time
	timestamps   []time.Time
	count        int
	multiplier   int
	displayTimer float64
}

// New creates a tracker with the given window (seconds) and threshold table.
// The table maps combo count to multiplier; lookups select the greatest
// threshold not exceeding the current count, defaulting to 1.
func New(window float64, table map[int]int) *Tracker {
	thresholds := make([]Threshold, 0, len(table))
	for count, mult := range table {
		thresholds = append(thresholds, Threshold{Count: count, Multiplier: mult})
	}
	sort.Slice(thresholds, func(i, j int) bool { return thresholds[i].Count < thresholds[j].Count })

	return &Tracker{
		window:     time.Duration(window * float64(time.Second)),
		thresholds: thresholds,
		now:        time.Now,
		multiplier: 1,
	}
}

// SetClock overrides the time source, for tests.
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// RegisterSlice records a slice at the current time, prunes expired
// timestamps, and recomputes the count and multiplier. Combos of three or
// more rearm the popup timer.
func (t *Tracker) RegisterSlice() {
	now := t.now()
	t.timestamps = append(t.timestamps, now)
	t.prune(now)
	if t.count >= minPopupCombo {
		t.displayTimer = popupDuration
	}
}

// Update decays the combo by wall-clock time, independently of new slices,
// and runs down the popup timer.
func (t *Tracker) Update(dt float64) {
	t.prune(t.now())
	if t.displayTimer > 0 {
		t.displayTimer -= dt
	}
}

// Reset clears all combo state back to its initial values.
func (t *Tracker) Reset() {
	t.timestamps = t.timestamps[:0]
	t.count = 0
	t.multiplier = 1
	t.displayTimer = 0
}

// Count returns the number of slices inside the current window.
func (t *Tracker) Count() int { return t.count }

// Multiplier returns the current score multiplier.
func (t *Tracker) Multiplier() int { return t.multiplier }

// DisplayTimer returns the remaining popup time, for the HUD.
func (t *Tracker) DisplayTimer() float64 { return t.displayTimer }

// ShouldShowPopup reports whether the HUD should render the combo popup.
func (t *Tracker) ShouldShowPopup() bool {
	return t.displayTimer > 0 && t.count >= minPopupCombo
}

// prune drops timestamps older than the window and recomputes the derived
// count and multiplier.
func (t *Tracker) prune(now time.Time) {
	live := t.timestamps[:0]
	for _, ts := range t.timestamps {
		if now.Sub(ts) <= t.window {
			live = append(live, ts)
		}
	}
	t.timestamps = live
	t.count = len(live)

	// Greatest threshold not exceeding the count wins; default 1.
	t.multiplier = 1
	for _, th := range t.thresholds {
		if t.count >= th.Count {
			t.multiplier = th.Multiplier
		}
	}
}
