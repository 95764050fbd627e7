// Package sdlsurface implements the presentation surface provider with
// go-sdl2. All calls must happen on the thread that opened the display.
package sdlsurface

import (
	"errors"
	"fmt"

	"github.com/user/framepeek/pkg/ports"
	"github.com/veandco/go-sdl2/sdl"
)

// ErrUnsupported is returned for surface formats SDL has no equivalent for.
var ErrUnsupported = errors.New("sdlsurface: unsupported surface format")

var surfaceFormats = map[ports.SurfaceFormat]uint32{
	ports.SurfaceFormatRGB332:   uint32(sdl.PIXELFORMAT_RGB332),
	ports.SurfaceFormatRGB444:   uint32(sdl.PIXELFORMAT_RGB444),
	ports.SurfaceFormatRGB555:   uint32(sdl.PIXELFORMAT_RGB555),
	ports.SurfaceFormatBGR555:   uint32(sdl.PIXELFORMAT_BGR555),
	ports.SurfaceFormatRGB565:   uint32(sdl.PIXELFORMAT_RGB565),
	ports.SurfaceFormatBGR565:   uint32(sdl.PIXELFORMAT_BGR565),
	ports.SurfaceFormatRGB24:    uint32(sdl.PIXELFORMAT_RGB24),
	ports.SurfaceFormatBGR24:    uint32(sdl.PIXELFORMAT_BGR24),
	ports.SurfaceFormatRGB888:   uint32(sdl.PIXELFORMAT_RGB888),
	ports.SurfaceFormatBGR888:   uint32(sdl.PIXELFORMAT_BGR888),
	ports.SurfaceFormatRGBX8888: uint32(sdl.PIXELFORMAT_RGBX8888),
	ports.SurfaceFormatBGRX8888: uint32(sdl.PIXELFORMAT_BGRX8888),
	ports.SurfaceFormatARGB8888: uint32(sdl.PIXELFORMAT_ARGB8888),
	ports.SurfaceFormatRGBA8888: uint32(sdl.PIXELFORMAT_RGBA8888),
	ports.SurfaceFormatABGR8888: uint32(sdl.PIXELFORMAT_ABGR8888),
	ports.SurfaceFormatBGRA8888: uint32(sdl.PIXELFORMAT_BGRA8888),
	ports.SurfaceFormatIYUV:     uint32(sdl.PIXELFORMAT_IYUV),
	ports.SurfaceFormatYUY2:     uint32(sdl.PIXELFORMAT_YUY2),
	ports.SurfaceFormatUYVY:     uint32(sdl.PIXELFORMAT_UYVY),
}

// Provider opens SDL windows.
type Provider struct{}

// New creates a Provider.
func New() *Provider {
	return &Provider{}
}

// OpenDisplay initialises SDL video and opens a window with a renderer.
// On failure everything created so far is destroyed.
func (p *Provider) OpenDisplay(opts ports.DisplayOptions) (ports.Display, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("init video: %w", err)
	}

	window, err := sdl.CreateWindow(opts.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(opts.Width), int32(opts.Height), sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	flags := uint32(sdl.RENDERER_SOFTWARE)
	if opts.Accelerated {
		flags = uint32(sdl.RENDERER_ACCELERATED)
	}
	renderer, err := sdl.CreateRenderer(window, -1, flags)
	if err != nil && opts.Accelerated {
		renderer, err = sdl.CreateRenderer(window, -1, uint32(sdl.RENDERER_SOFTWARE))
	}
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	return &display{window: window, renderer: renderer}, nil
}

var _ ports.SurfaceProvider = (*Provider)(nil)

type display struct {
	window   *sdl.Window
	renderer *sdl.Renderer
}

func (d *display) CreateTexture(format ports.SurfaceFormat, width, height int) (ports.Texture, error) {
	sf, ok := surfaceFormats[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, format)
	}
	tex, err := d.renderer.CreateTexture(sf, sdl.TEXTUREACCESS_STREAMING, int32(width), int32(height))
	if err != nil {
		return nil, err
	}
	return &texture{tex: tex, format: format, width: width, height: height}, nil
}

func (d *display) Clear() error {
	return d.renderer.Clear()
}

func (d *display) Copy(tex ports.Texture) error {
	return d.renderer.Copy(tex.(*texture).tex, nil, nil)
}

func (d *display) Present() {
	d.renderer.Present()
}

func (d *display) PollEvent() ports.Event {
	switch sdl.PollEvent().(type) {
	case nil:
		return ports.EventNone
	case *sdl.QuitEvent:
		return ports.EventQuit
	default:
		return ports.EventOther
	}
}

func (d *display) Delay(ms int) {
	sdl.Delay(uint32(ms))
}

func (d *display) Close() error {
	var errs []error
	if d.renderer != nil {
		errs = append(errs, d.renderer.Destroy())
		d.renderer = nil
	}
	if d.window != nil {
		errs = append(errs, d.window.Destroy())
		d.window = nil
		sdl.Quit()
	}
	return errors.Join(errs...)
}

type texture struct {
	tex    *sdl.Texture
	format ports.SurfaceFormat
	width  int
	height int
}

func (t *texture) Format() ports.SurfaceFormat { return t.format }
func (t *texture) Width() int                  { return t.width }
func (t *texture) Height() int                 { return t.height }

func (t *texture) UpdatePlanar(y, u, v ports.Plane) error {
	return t.tex.UpdateYUV(nil, y.Data, y.Stride, u.Data, u.Stride, v.Data, v.Stride)
}

// Update copies a packed picture row by row into the locked texture. The
// texture pitch may differ from the source stride.
func (t *texture) Update(p ports.Plane) error {
	pixels, pitch, err := t.tex.Lock(nil)
	if err != nil {
		return err
	}
	defer t.tex.Unlock()

	return copyRows(pixels, pitch, p, t.height)
}

func (t *texture) Destroy() error {
	if t.tex == nil {
		return nil
	}
	err := t.tex.Destroy()
	t.tex = nil
	return err
}

// copyRows copies rows lines of src into dst laid out with dstPitch.
func copyRows(dst []byte, dstPitch int, src ports.Plane, rows int) error {
	n := src.Stride
	if dstPitch < n {
		n = dstPitch
	}
	for row := 0; row < rows; row++ {
		s, d := row*src.Stride, row*dstPitch
		if s+n > len(src.Data) || d+n > len(dst) {
			return fmt.Errorf("sdlsurface: row %d out of range", row)
		}
		copy(dst[d:d+n], src.Data[s:s+n])
	}
	return nil
}
