// Package display implements the display loop that keeps the located frame
// on screen until the window is closed.
package display

import (
	"context"

	"github.com/user/framepeek/pkg/pipeline"
	"github.com/user/framepeek/pkg/ports"
)

// Stage runs the display loop.
type Stage struct {
	logger ports.Logger
}

// New creates a new display stage.
func New(logger ports.Logger) *Stage {
	return &Stage{logger: logger.WithComponent("display")}
}

// Execute polls events and redraws until a quit event arrives or ctx is
// cancelled. Render errors are logged once and do not end the loop.
func (s *Stage) Execute(ctx context.Context, input pipeline.DisplayInput) (pipeline.DisplayResult, error) {
	result := pipeline.DisplayResult{}
	d := input.Display

	quit := false
	warned := false
	warn := func(msg string, err error) {
		if !warned {
			s.logger.Warn(msg, err)
			warned = true
		}
	}

	s.logger.Debug("Display loop started")
	for !quit {
		select {
		case <-ctx.Done():
			result.Interrupted = true
			s.logger.Debug("Display loop interrupted after %d iterations", result.Iterations)
			return result, nil
		default:
		}

		for ev := d.PollEvent(); ev != ports.EventNone; ev = d.PollEvent() {
			if ev == ports.EventQuit {
				quit = true
			}
		}

		if err := d.Clear(); err != nil {
			warn("Render clear failed: %s", err)
		}
		if input.Frame != nil && input.Surface != nil && input.Surface.Texture() != nil {
			if err := input.Surface.Upload(input.Frame); err != nil {
				warn("Texture upload failed: %s", err)
			}
			if err := d.Copy(input.Surface.Texture()); err != nil {
				warn("Render copy failed: %s", err)
			}
		}
		d.Present()
		result.Iterations++

		if input.IdleDelayMs > 0 {
			d.Delay(input.IdleDelayMs)
		}
	}

	s.logger.Debug("Display loop finished after %d iterations", result.Iterations)
	return result, nil
}
