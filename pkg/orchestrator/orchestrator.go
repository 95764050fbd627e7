// Package orchestrator coordinates the frame acquisition pipeline.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/framepeek/pkg/adapters/mp4probe"
	"github.com/user/framepeek/pkg/pipeline"
	"github.com/user/framepeek/pkg/ports"
	"github.com/user/framepeek/pkg/session"
)

// ErrWindowInit is returned when the presentation surface cannot be opened.
var ErrWindowInit = errors.New("orchestrator: window initialisation failed")

// Prober inspects a source file before it is opened for decoding.
type Prober interface {
	Probe(path string) (mp4probe.Report, error)
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	media   ports.MediaProvider
	surface ports.SurfaceProvider
	prober  Prober

	locateStage  pipeline.Stage[pipeline.LocateInput, pipeline.LocateResult]
	presentStage pipeline.Stage[pipeline.PresentInput, pipeline.PresentResult]
	displayStage pipeline.Stage[pipeline.DisplayInput, pipeline.DisplayResult]

	logger ports.Logger
}

// New creates a new orchestrator. prober may be nil to skip the MP4
// pre-flight.
func New(
	media ports.MediaProvider,
	surface ports.SurfaceProvider,
	prober Prober,
	locateStage pipeline.Stage[pipeline.LocateInput, pipeline.LocateResult],
	presentStage pipeline.Stage[pipeline.PresentInput, pipeline.PresentResult],
	displayStage pipeline.Stage[pipeline.DisplayInput, pipeline.DisplayResult],
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		media:        media,
		surface:      surface,
		prober:       prober,
		locateStage:  locateStage,
		presentStage: presentStage,
		displayStage: displayStage,
		logger:       logger,
	}
}

// Config holds the settings for one run.
type Config struct {
	SourcePath  string
	FrameIndex  int64
	Policy      pipeline.Policy
	WarmScan    bool
	Display     ports.DisplayOptions
	IdleDelayMs int
}

// RunResult summarises a completed run.
type RunResult struct {
	Found           bool
	TargetTimestamp int64
	FrameWidth      int
	FrameHeight     int
	FramePts        int64
	PixelFormat     ports.PixelFormat
	SurfaceFormat   ports.SurfaceFormat
	PacketsRead     int
	FramesDecoded   int
	SeekFailed      bool
	Iterations      int
	Interrupted     bool

	Probe *mp4probe.Report // nil when the pre-flight was skipped
}

// Run executes the pipeline: pre-flight probe, session setup, locate, open
// display, present and display loop. Resources are released in reverse
// order of acquisition on every exit path.
func (o *Orchestrator) Run(ctx context.Context, cfg Config) (RunResult, error) {
	o.logger.Info("Starting pipeline")
	result := RunResult{}

	if o.prober != nil {
		result.Probe = o.preflight(cfg)
	}

	sess := session.New(o.media, o.logger)
	if err := sess.Setup(cfg.SourcePath); err != nil {
		o.logger.Error("Failed to set up %s: %s", cfg.SourcePath, err)
		return result, fmt.Errorf("session setup: %w", err)
	}
	defer sess.Close()

	stream := sess.VideoStream()
	loc, err := o.locateStage.Execute(ctx, pipeline.LocateInput{
		Demuxer:     sess.Demuxer(),
		Decoder:     sess.Decoder(),
		Packet:      sess.Packet(),
		Frame:       sess.Frame(),
		StreamIndex: stream.Index,
		TimeBase:    stream.TimeBase,
		FrameRate:   sess.FrameRate(),
		FrameIndex:  cfg.FrameIndex,
		Policy:      cfg.Policy,
		WarmScan:    cfg.WarmScan,
	})
	if err != nil {
		o.logger.Error("Failed to locate frame %d: %s", cfg.FrameIndex, err)
		return result, fmt.Errorf("locate stage: %w", err)
	}
	result.Found = loc.Found
	result.TargetTimestamp = loc.TargetTimestamp
	result.PacketsRead = loc.PacketsRead
	result.FramesDecoded = loc.FramesDecoded
	result.SeekFailed = loc.SeekErr != nil

	display, err := o.surface.OpenDisplay(cfg.Display)
	if err != nil {
		o.logger.Error("Failed to open window: %s", err)
		return result, fmt.Errorf("%w: %w", ErrWindowInit, err)
	}
	defer func() {
		if err := display.Close(); err != nil {
			o.logger.Warn("Failed to close window: %s", err)
		}
	}()

	input := pipeline.DisplayInput{
		Display:     display,
		IdleDelayMs: cfg.IdleDelayMs,
	}
	if loc.Found {
		frame := loc.Frame
		result.FrameWidth = frame.Width()
		result.FrameHeight = frame.Height()
		result.FramePts = frame.Pts()
		result.PixelFormat = frame.PixelFormat()

		pres, err := o.presentStage.Execute(ctx, pipeline.PresentInput{Display: display, Frame: frame})
		if err != nil {
			return result, fmt.Errorf("present stage: %w", err)
		}
		defer func() {
			if err := pres.Surface.Release(); err != nil {
				o.logger.Warn("Failed to destroy texture: %s", err)
			}
		}()
		result.SurfaceFormat = pres.Format
		input.Surface = pres.Surface
		input.Frame = frame
	} else {
		o.logger.Warn("Frame %d is not available, showing an empty window", cfg.FrameIndex)
	}

	disp, err := o.displayStage.Execute(ctx, input)
	if err != nil {
		return result, fmt.Errorf("display stage: %w", err)
	}
	result.Iterations = disp.Iterations
	result.Interrupted = disp.Interrupted

	o.logger.Info("Pipeline completed successfully")
	return result, nil
}

// preflight inspects MP4 sources with mp4ff. Anything else is skipped.
func (o *Orchestrator) preflight(cfg Config) *mp4probe.Report {
	report, err := o.prober.Probe(cfg.SourcePath)
	if errors.Is(err, mp4probe.ErrNotMP4) {
		o.logger.Debug("Not an MP4 file, skipping pre-flight")
		return nil
	}
	if err != nil {
		o.logger.Debug("Pre-flight probe skipped: %s", err)
		return nil
	}

	o.logger.Info("MP4 track: %s %dx%d, %d samples, timescale %d",
		report.Codec, report.Width, report.Height, report.SampleCount, report.Timescale)
	if cfg.FrameIndex >= int64(report.SampleCount) {
		o.logger.Warn("Frame %d is past the last sample (%d samples)", cfg.FrameIndex, report.SampleCount)
	} else if kf, ok := report.KeyframeAtOrBefore(cfg.FrameIndex); ok {
		o.logger.Debug("Nearest keyframe at or before frame %d: %d", cfg.FrameIndex, kf)
	}
	return &report
}
