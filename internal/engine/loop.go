package engine

import (
	"context"
	"time"
)

// Run drives the engine at the configured frame rate until the context is
// cancelled. Each tick it polls the pointer source once, steps the game,
// and hands the resulting snapshot to onFrame (the presentation side).
//
// Real elapsed time between ticks is measured and passed as dt; StepFrame
// clamps it, so a stalled tick cannot launch entities across the screen.
func (e *Engine) Run(ctx context.Context, source PointerSource, onFrame func(Snapshot)) {
	interval := time.Second / time.Duration(e.cfg.Screen.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			in, ok := source.Poll()
			e.StepFrame(dt, in, ok)

			if onFrame != nil {
				onFrame(e.Snapshot())
			}
		}
	}
}
