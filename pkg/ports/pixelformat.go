package ports

// PixelFormat is a decoder-native pixel layout. Names follow libavutil's
// concrete (fixed byte order) formats.
type PixelFormat int

const (
	PixelFormatNone PixelFormat = iota
	PixelFormatRGB8
	PixelFormatRGB444LE
	PixelFormatRGB444BE
	PixelFormatRGB555LE
	PixelFormatRGB555BE
	PixelFormatBGR555LE
	PixelFormatBGR555BE
	PixelFormatRGB565LE
	PixelFormatRGB565BE
	PixelFormatBGR565LE
	PixelFormatBGR565BE
	PixelFormatRGB24
	PixelFormatBGR24
	PixelFormatARGB
	PixelFormatRGBA
	PixelFormatABGR
	PixelFormatBGRA
	PixelFormat0RGB
	PixelFormatRGB0
	PixelFormat0BGR
	PixelFormatBGR0
	PixelFormatYUV420P
	PixelFormatYUYV422
	PixelFormatUYVY422
	PixelFormatNV12
	PixelFormatYUV422P
	PixelFormatYUV444P
)

var pixelFormatNames = map[PixelFormat]string{
	PixelFormatNone:     "none",
	PixelFormatRGB8:     "rgb8",
	PixelFormatRGB444LE: "rgb444le",
	PixelFormatRGB444BE: "rgb444be",
	PixelFormatRGB555LE: "rgb555le",
	PixelFormatRGB555BE: "rgb555be",
	PixelFormatBGR555LE: "bgr555le",
	PixelFormatBGR555BE: "bgr555be",
	PixelFormatRGB565LE: "rgb565le",
	PixelFormatRGB565BE: "rgb565be",
	PixelFormatBGR565LE: "bgr565le",
	PixelFormatBGR565BE: "bgr565be",
	PixelFormatRGB24:    "rgb24",
	PixelFormatBGR24:    "bgr24",
	PixelFormatARGB:     "argb",
	PixelFormatRGBA:     "rgba",
	PixelFormatABGR:     "abgr",
	PixelFormatBGRA:     "bgra",
	PixelFormat0RGB:     "0rgb",
	PixelFormatRGB0:     "rgb0",
	PixelFormat0BGR:     "0bgr",
	PixelFormatBGR0:     "bgr0",
	PixelFormatYUV420P:  "yuv420p",
	PixelFormatYUYV422:  "yuyv422",
	PixelFormatUYVY422:  "uyvy422",
	PixelFormatNV12:     "nv12",
	PixelFormatYUV422P:  "yuv422p",
	PixelFormatYUV444P:  "yuv444p",
}

func (f PixelFormat) String() string {
	if name, ok := pixelFormatNames[f]; ok {
		return name
	}
	return "unknown"
}

// SurfaceFormat is a pixel format a presentation texture can be created with.
// Names follow SDL's SDL_PIXELFORMAT_* constants.
type SurfaceFormat int

const (
	SurfaceFormatUnknown SurfaceFormat = iota
	SurfaceFormatRGB332
	SurfaceFormatRGB444
	SurfaceFormatRGB555
	SurfaceFormatBGR555
	SurfaceFormatRGB565
	SurfaceFormatBGR565
	SurfaceFormatRGB24
	SurfaceFormatBGR24
	SurfaceFormatRGB888
	SurfaceFormatBGR888
	SurfaceFormatRGBX8888
	SurfaceFormatBGRX8888
	SurfaceFormatARGB8888
	SurfaceFormatRGBA8888
	SurfaceFormatABGR8888
	SurfaceFormatBGRA8888
	SurfaceFormatIYUV
	SurfaceFormatYUY2
	SurfaceFormatUYVY
)

var surfaceFormatNames = map[SurfaceFormat]string{
	SurfaceFormatUnknown:  "UNKNOWN",
	SurfaceFormatRGB332:   "RGB332",
	SurfaceFormatRGB444:   "RGB444",
	SurfaceFormatRGB555:   "RGB555",
	SurfaceFormatBGR555:   "BGR555",
	SurfaceFormatRGB565:   "RGB565",
	SurfaceFormatBGR565:   "BGR565",
	SurfaceFormatRGB24:    "RGB24",
	SurfaceFormatBGR24:    "BGR24",
	SurfaceFormatRGB888:   "RGB888",
	SurfaceFormatBGR888:   "BGR888",
	SurfaceFormatRGBX8888: "RGBX8888",
	SurfaceFormatBGRX8888: "BGRX8888",
	SurfaceFormatARGB8888: "ARGB8888",
	SurfaceFormatRGBA8888: "RGBA8888",
	SurfaceFormatABGR8888: "ABGR8888",
	SurfaceFormatBGRA8888: "BGRA8888",
	SurfaceFormatIYUV:     "IYUV",
	SurfaceFormatYUY2:     "YUY2",
	SurfaceFormatUYVY:     "UYVY",
}

func (f SurfaceFormat) String() string {
	if name, ok := surfaceFormatNames[f]; ok {
		return name
	}
	return "UNKNOWN"
}

// Planar reports whether textures of this format are uploaded as three
// separate planes (luma, then two chroma planes).
func (f SurfaceFormat) Planar() bool {
	return f == SurfaceFormatIYUV
}
