// Package present adapts decoded frames to presentation textures.
package present

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/framepeek/pkg/pipeline"
	"github.com/user/framepeek/pkg/pixfmt"
	"github.com/user/framepeek/pkg/ports"
)

var (
	ErrUnsupportedPixelFormat = errors.New("present: unsupported pixel format")
	ErrSurfaceCreation        = errors.New("present: cannot create texture")
	ErrUpload                 = errors.New("present: cannot upload frame")
)

// Adapter owns at most one texture on a display.
type Adapter struct {
	display ports.Display
	texture ports.Texture
	logger  ports.Logger
}

// NewAdapter creates an Adapter with no texture.
func NewAdapter(display ports.Display, logger ports.Logger) *Adapter {
	return &Adapter{display: display, logger: logger}
}

// Adapt replaces the current texture with one sized and formatted for frame.
// The old texture is destroyed even when the new one cannot be created.
func (a *Adapter) Adapt(frame ports.Frame) error {
	format := pixfmt.Map(frame.PixelFormat())
	if format == ports.SurfaceFormatUnknown {
		return fmt.Errorf("%w: %s", ErrUnsupportedPixelFormat, frame.PixelFormat())
	}

	if err := a.Release(); err != nil {
		a.logger.Warn("Failed to destroy texture: %s", err)
	}

	tex, err := a.display.CreateTexture(format, frame.Width(), frame.Height())
	if err != nil {
		return fmt.Errorf("%w: %s %dx%d: %w", ErrSurfaceCreation, format, frame.Width(), frame.Height(), err)
	}
	a.texture = tex
	a.logger.Debug("Created %s texture %dx%d", format, frame.Width(), frame.Height())
	return nil
}

// Upload copies the frame's planes into the texture.
func (a *Adapter) Upload(frame ports.Frame) error {
	if a.texture == nil {
		return nil
	}
	planes, err := frame.Planes()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}

	if a.texture.Format().Planar() {
		if len(planes) < 3 {
			return fmt.Errorf("%w: planar texture needs 3 planes, frame has %d", ErrUpload, len(planes))
		}
		err = a.texture.UpdatePlanar(planes[0], planes[1], planes[2])
	} else {
		if len(planes) == 0 {
			return fmt.Errorf("%w: frame has no planes", ErrUpload)
		}
		err = a.texture.Update(planes[0])
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}
	return nil
}

// Texture returns the live texture, or nil.
func (a *Adapter) Texture() ports.Texture {
	return a.texture
}

// Release destroys the texture, if any.
func (a *Adapter) Release() error {
	if a.texture == nil {
		return nil
	}
	tex := a.texture
	a.texture = nil
	return tex.Destroy()
}

var _ pipeline.Surface = (*Adapter)(nil)

// Stage adapts the located frame for a display.
type Stage struct {
	logger ports.Logger
}

// New creates a new present stage.
func New(logger ports.Logger) *Stage {
	return &Stage{logger: logger.WithComponent("present")}
}

// Execute creates an Adapter on input.Display and adapts input.Frame to it.
// On success the caller owns the returned surface and must release it.
func (s *Stage) Execute(ctx context.Context, input pipeline.PresentInput) (pipeline.PresentResult, error) {
	adapter := NewAdapter(input.Display, s.logger)
	if err := adapter.Adapt(input.Frame); err != nil {
		s.logger.Error("Failed to adapt frame: %s", err)
		return pipeline.PresentResult{}, err
	}
	return pipeline.PresentResult{
		Surface: adapter,
		Format:  adapter.Texture().Format(),
	}, nil
}
