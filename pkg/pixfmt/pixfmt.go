// Package pixfmt maps decoder pixel formats to presentation surface formats.
package pixfmt

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/user/framepeek/pkg/ports"
)

// ErrBufferTooSmall is returned by SplitPlanes when buf cannot hold a
// picture of the given geometry.
var ErrBufferTooSmall = errors.New("pixfmt: buffer too small for picture")

// Entry is one row of the mapping table.
type Entry struct {
	Decoder ports.PixelFormat
	Surface ports.SurfaceFormat
}

var table []Entry

func init() {
	table = buildTable(nativeLittleEndian())
}

func nativeLittleEndian() bool {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	return probe[0] == 1
}

// buildTable resolves the native-endian aliases the same way libavutil's
// AV_PIX_FMT_NE(be, le) does.
func buildTable(littleEndian bool) []Entry {
	ne := func(be, le ports.PixelFormat) ports.PixelFormat {
		if littleEndian {
			return le
		}
		return be
	}

	return []Entry{
		{ports.PixelFormatRGB8, ports.SurfaceFormatRGB332},
		{ne(ports.PixelFormatRGB444BE, ports.PixelFormatRGB444LE), ports.SurfaceFormatRGB444},
		{ne(ports.PixelFormatRGB555BE, ports.PixelFormatRGB555LE), ports.SurfaceFormatRGB555},
		{ne(ports.PixelFormatBGR555BE, ports.PixelFormatBGR555LE), ports.SurfaceFormatBGR555},
		{ne(ports.PixelFormatRGB565BE, ports.PixelFormatRGB565LE), ports.SurfaceFormatRGB565},
		{ne(ports.PixelFormatBGR565BE, ports.PixelFormatBGR565LE), ports.SurfaceFormatBGR565},
		{ports.PixelFormatRGB24, ports.SurfaceFormatRGB24},
		{ports.PixelFormatBGR24, ports.SurfaceFormatBGR24},
		{ne(ports.PixelFormat0RGB, ports.PixelFormatBGR0), ports.SurfaceFormatRGB888},
		{ne(ports.PixelFormat0BGR, ports.PixelFormatRGB0), ports.SurfaceFormatBGR888},
		{ne(ports.PixelFormatRGB0, ports.PixelFormat0BGR), ports.SurfaceFormatRGBX8888},
		{ne(ports.PixelFormatBGR0, ports.PixelFormat0RGB), ports.SurfaceFormatBGRX8888},
		{ne(ports.PixelFormatARGB, ports.PixelFormatBGRA), ports.SurfaceFormatARGB8888},
		{ne(ports.PixelFormatRGBA, ports.PixelFormatABGR), ports.SurfaceFormatRGBA8888},
		{ne(ports.PixelFormatABGR, ports.PixelFormatRGBA), ports.SurfaceFormatABGR8888},
		{ne(ports.PixelFormatBGRA, ports.PixelFormatARGB), ports.SurfaceFormatBGRA8888},
		{ports.PixelFormatYUV420P, ports.SurfaceFormatIYUV},
		{ports.PixelFormatYUYV422, ports.SurfaceFormatYUY2},
		{ports.PixelFormatUYVY422, ports.SurfaceFormatUYVY},
	}
}

// Map returns the surface format for f, or ports.SurfaceFormatUnknown.
func Map(f ports.PixelFormat) ports.SurfaceFormat {
	s, _ := Lookup(f)
	return s
}

// Lookup is Map with an ok flag.
func Lookup(f ports.PixelFormat) (ports.SurfaceFormat, bool) {
	for _, e := range table {
		if e.Decoder == f {
			return e.Surface, true
		}
	}
	return ports.SurfaceFormatUnknown, false
}

// Entries returns a copy of the mapping table.
func Entries() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

// SplitPlanes cuts a tightly packed (alignment 1) picture buffer into its
// planes.
func SplitPlanes(f ports.PixelFormat, width, height int, buf []byte) ([]ports.Plane, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("pixfmt: invalid picture size %dx%d", width, height)
	}

	type geom struct{ stride, rows int }
	var geoms []geom

	switch f {
	case ports.PixelFormatYUV420P:
		cw, ch := (width+1)/2, (height+1)/2
		geoms = []geom{{width, height}, {cw, ch}, {cw, ch}}
	case ports.PixelFormatYUV422P:
		cw := (width + 1) / 2
		geoms = []geom{{width, height}, {cw, height}, {cw, height}}
	case ports.PixelFormatYUV444P:
		geoms = []geom{{width, height}, {width, height}, {width, height}}
	case ports.PixelFormatNV12:
		geoms = []geom{{width, height}, {2 * ((width + 1) / 2), (height + 1) / 2}}
	default:
		if len(buf) < height {
			return nil, fmt.Errorf("%w: %d bytes for %d rows", ErrBufferTooSmall, len(buf), height)
		}
		stride := len(buf) / height
		return []ports.Plane{{Data: buf[:stride*height], Stride: stride}}, nil
	}

	planes := make([]ports.Plane, 0, len(geoms))
	off := 0
	for _, g := range geoms {
		n := g.stride * g.rows
		if off+n > len(buf) {
			return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, off+n, len(buf))
		}
		planes = append(planes, ports.Plane{Data: buf[off : off+n], Stride: g.stride})
		off += n
	}
	return planes, nil
}
