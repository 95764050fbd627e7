package pixfmt

import (
	"errors"
	"testing"

	"github.com/user/framepeek/pkg/ports"
)

func TestBuildTable_LittleEndian(t *testing.T) {
	expected := map[ports.PixelFormat]ports.SurfaceFormat{
		ports.PixelFormatRGB8:     ports.SurfaceFormatRGB332,
		ports.PixelFormatRGB444LE: ports.SurfaceFormatRGB444,
		ports.PixelFormatRGB555LE: ports.SurfaceFormatRGB555,
		ports.PixelFormatBGR555LE: ports.SurfaceFormatBGR555,
		ports.PixelFormatRGB565LE: ports.SurfaceFormatRGB565,
		ports.PixelFormatBGR565LE: ports.SurfaceFormatBGR565,
		ports.PixelFormatRGB24:    ports.SurfaceFormatRGB24,
		ports.PixelFormatBGR24:    ports.SurfaceFormatBGR24,
		ports.PixelFormatBGR0:     ports.SurfaceFormatRGB888,
		ports.PixelFormatRGB0:     ports.SurfaceFormatBGR888,
		ports.PixelFormat0BGR:     ports.SurfaceFormatRGBX8888,
		ports.PixelFormat0RGB:     ports.SurfaceFormatBGRX8888,
		ports.PixelFormatBGRA:     ports.SurfaceFormatARGB8888,
		ports.PixelFormatABGR:     ports.SurfaceFormatRGBA8888,
		ports.PixelFormatRGBA:     ports.SurfaceFormatABGR8888,
		ports.PixelFormatARGB:     ports.SurfaceFormatBGRA8888,
		ports.PixelFormatYUV420P:  ports.SurfaceFormatIYUV,
		ports.PixelFormatYUYV422:  ports.SurfaceFormatYUY2,
		ports.PixelFormatUYVY422:  ports.SurfaceFormatUYVY,
	}

	entries := buildTable(true)
	if len(entries) != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), len(entries))
	}
	for _, e := range entries {
		want, ok := expected[e.Decoder]
		if !ok {
			t.Errorf("unexpected decoder format %s in table", e.Decoder)
			continue
		}
		if e.Surface != want {
			t.Errorf("%s: expected %s, got %s", e.Decoder, want, e.Surface)
		}
	}
}

func TestBuildTable_BigEndian(t *testing.T) {
	expected := map[ports.PixelFormat]ports.SurfaceFormat{
		ports.PixelFormatRGB444BE: ports.SurfaceFormatRGB444,
		ports.PixelFormat0RGB:     ports.SurfaceFormatRGB888,
		ports.PixelFormat0BGR:     ports.SurfaceFormatBGR888,
		ports.PixelFormatRGB0:     ports.SurfaceFormatRGBX8888,
		ports.PixelFormatBGR0:     ports.SurfaceFormatBGRX8888,
		ports.PixelFormatARGB:     ports.SurfaceFormatARGB8888,
		ports.PixelFormatRGBA:     ports.SurfaceFormatRGBA8888,
		ports.PixelFormatABGR:     ports.SurfaceFormatABGR8888,
		ports.PixelFormatBGRA:     ports.SurfaceFormatBGRA8888,
	}

	entries := buildTable(false)
	for _, e := range entries {
		if want, ok := expected[e.Decoder]; ok && e.Surface != want {
			t.Errorf("%s: expected %s, got %s", e.Decoder, want, e.Surface)
		}
	}
}

func TestTable_UniqueKeys(t *testing.T) {
	for _, le := range []bool{true, false} {
		seen := make(map[ports.PixelFormat]bool)
		for _, e := range buildTable(le) {
			if seen[e.Decoder] {
				t.Errorf("littleEndian=%v: duplicate key %s", le, e.Decoder)
			}
			seen[e.Decoder] = true
		}
	}
}

func TestMap(t *testing.T) {
	for _, e := range Entries() {
		if got := Map(e.Decoder); got != e.Surface {
			t.Errorf("Map(%s): expected %s, got %s", e.Decoder, e.Surface, got)
		}
	}

	unmapped := []ports.PixelFormat{
		ports.PixelFormatNone,
		ports.PixelFormatNV12,
		ports.PixelFormatYUV422P,
		ports.PixelFormatYUV444P,
		ports.PixelFormat(9999),
	}
	for _, f := range unmapped {
		if got := Map(f); got != ports.SurfaceFormatUnknown {
			t.Errorf("Map(%s): expected UNKNOWN, got %s", f, got)
		}
		if _, ok := Lookup(f); ok {
			t.Errorf("Lookup(%s): expected ok=false", f)
		}
	}
}

func TestMap_Idempotent(t *testing.T) {
	if Map(ports.PixelFormatYUV420P) != Map(ports.PixelFormatYUV420P) {
		t.Error("Map should return the same value on repeated calls")
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	entries := Entries()
	entries[0].Surface = ports.SurfaceFormatUYVY
	if Map(ports.PixelFormatRGB8) != ports.SurfaceFormatRGB332 {
		t.Error("modifying Entries() result should not affect the table")
	}
}

func TestSplitPlanes(t *testing.T) {
	tests := []struct {
		name    string
		format  ports.PixelFormat
		w, h    int
		bufLen  int
		strides []int
		sizes   []int
	}{
		{"yuv420p even", ports.PixelFormatYUV420P, 4, 2, 12, []int{4, 2, 2}, []int{8, 2, 2}},
		{"yuv420p odd", ports.PixelFormatYUV420P, 3, 3, 17, []int{3, 2, 2}, []int{9, 4, 4}},
		{"yuv422p", ports.PixelFormatYUV422P, 4, 2, 16, []int{4, 2, 2}, []int{8, 4, 4}},
		{"yuv444p", ports.PixelFormatYUV444P, 2, 2, 12, []int{2, 2, 2}, []int{4, 4, 4}},
		{"nv12", ports.PixelFormatNV12, 4, 2, 12, []int{4, 4}, []int{8, 4}},
		{"rgb24 packed", ports.PixelFormatRGB24, 2, 2, 12, []int{6}, []int{12}},
		{"yuyv422 packed", ports.PixelFormatYUYV422, 4, 1, 8, []int{8}, []int{8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planes, err := SplitPlanes(tt.format, tt.w, tt.h, make([]byte, tt.bufLen))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(planes) != len(tt.strides) {
				t.Fatalf("expected %d planes, got %d", len(tt.strides), len(planes))
			}
			for i, p := range planes {
				if p.Stride != tt.strides[i] {
					t.Errorf("plane %d: expected stride %d, got %d", i, tt.strides[i], p.Stride)
				}
				if len(p.Data) != tt.sizes[i] {
					t.Errorf("plane %d: expected %d bytes, got %d", i, tt.sizes[i], len(p.Data))
				}
			}
		})
	}
}

func TestSplitPlanes_Errors(t *testing.T) {
	if _, err := SplitPlanes(ports.PixelFormatYUV420P, 4, 2, make([]byte, 11)); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("expected ErrBufferTooSmall, got %v", err)
	}
	if _, err := SplitPlanes(ports.PixelFormatRGB24, 0, 2, nil); err == nil {
		t.Error("expected error for zero width")
	}
}
