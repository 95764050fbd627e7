package mocks

import "github.com/user/framepeek/pkg/ports"

// SurfaceProvider is a mock implementation of ports.SurfaceProvider.
type SurfaceProvider struct {
	Display *Display
	OpenErr error

	Opened []ports.DisplayOptions
}

func (m *SurfaceProvider) OpenDisplay(opts ports.DisplayOptions) (ports.Display, error) {
	m.Opened = append(m.Opened, opts)
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	if m.Display == nil {
		m.Display = &Display{}
	}
	return m.Display, nil
}

var _ ports.SurfaceProvider = (*SurfaceProvider)(nil)

// Display is a mock implementation of ports.Display.
//
// Events holds one batch per loop iteration. Once the batches run out the
// display delivers a single quit event.
type Display struct {
	Events [][]ports.Event

	CreateErr error
	ClearErr  error
	CopyErr   error

	Textures   []*Texture
	MaxLive    int
	Clears     int
	Copies     int
	Presents   int
	Delays     []int
	Polls      int
	CloseCount int
	ClosedLive int // Live textures at the time Close was called

	nextBatch   int
	pending     []ports.Event
	batchLoaded bool
}

func (m *Display) CreateTexture(format ports.SurfaceFormat, width, height int) (ports.Texture, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	tex := &Texture{format: format, width: width, height: height}
	m.Textures = append(m.Textures, tex)
	if live := m.Live(); live > m.MaxLive {
		m.MaxLive = live
	}
	return tex, nil
}

// Live returns the number of created textures not yet destroyed.
func (m *Display) Live() int {
	n := 0
	for _, t := range m.Textures {
		if !t.Destroyed {
			n++
		}
	}
	return n
}

func (m *Display) Clear() error {
	m.Clears++
	return m.ClearErr
}

func (m *Display) Copy(tex ports.Texture) error {
	m.Copies++
	return m.CopyErr
}

func (m *Display) Present() {
	m.Presents++
}

func (m *Display) PollEvent() ports.Event {
	m.Polls++
	if !m.batchLoaded {
		m.batchLoaded = true
		if m.nextBatch < len(m.Events) {
			m.pending = append(m.pending[:0], m.Events[m.nextBatch]...)
			m.nextBatch++
		} else {
			m.pending = []ports.Event{ports.EventQuit}
		}
	}
	if len(m.pending) == 0 {
		m.batchLoaded = false
		return ports.EventNone
	}
	ev := m.pending[0]
	m.pending = m.pending[1:]
	return ev
}

func (m *Display) Delay(ms int) {
	m.Delays = append(m.Delays, ms)
}

func (m *Display) Close() error {
	m.CloseCount++
	m.ClosedLive = m.Live()
	return nil
}

var _ ports.Display = (*Display)(nil)

// Texture is a mock implementation of ports.Texture.
type Texture struct {
	UpdateErr error

	PlanarUploads int
	PackedUploads int
	LastPlanes    []ports.Plane
	Destroyed     bool
	DestroyCount  int

	format ports.SurfaceFormat
	width  int
	height int
}

func (m *Texture) Format() ports.SurfaceFormat { return m.format }
func (m *Texture) Width() int                  { return m.width }
func (m *Texture) Height() int                 { return m.height }

func (m *Texture) UpdatePlanar(y, u, v ports.Plane) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.PlanarUploads++
	m.LastPlanes = []ports.Plane{y, u, v}
	return nil
}

func (m *Texture) Update(p ports.Plane) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.PackedUploads++
	m.LastPlanes = []ports.Plane{p}
	return nil
}

func (m *Texture) Destroy() error {
	m.DestroyCount++
	m.Destroyed = true
	return nil
}

var _ ports.Texture = (*Texture)(nil)
