package ports

// DisplayOptions configures the window opened by a SurfaceProvider.
type DisplayOptions struct {
	Title       string
	Width       int
	Height      int
	Accelerated bool // Prefer a hardware-accelerated renderer
}

// SurfaceProvider creates the window and render target.
type SurfaceProvider interface {
	// OpenDisplay initialises the video subsystem, opens a window and binds
	// a render target to it.
	OpenDisplay(opts DisplayOptions) (Display, error)
}

// Event is the only input information the display loop acts on.
type Event int

const (
	// EventNone means the event queue is empty.
	EventNone Event = iota
	// EventQuit is a request to close the window.
	EventQuit
	// EventOther is any event the loop ignores.
	EventOther
)

// Display is an open window with its render target.
type Display interface {
	// CreateTexture creates a streaming texture.
	CreateTexture(format SurfaceFormat, width, height int) (Texture, error)

	// Clear clears the render target.
	Clear() error

	// Copy copies tex over the whole render target.
	Copy(tex Texture) error

	// Present shows what was rendered since the last Present.
	Present()

	// PollEvent pops one pending event, or returns EventNone.
	PollEvent() Event

	// Delay blocks for ms milliseconds.
	Delay(ms int)

	// Close destroys the render target and window and shuts the video
	// subsystem down.
	Close() error
}

// Texture is a GPU-side image bound to a Display.
type Texture interface {
	Format() SurfaceFormat
	Width() int
	Height() int

	// UpdatePlanar uploads a three-plane YUV picture.
	UpdatePlanar(y, u, v Plane) error

	// Update uploads a packed picture.
	Update(p Plane) error

	// Destroy releases the texture.
	Destroy() error
}
