package astiavmedia

import (
	"errors"
	"io"
	"testing"

	"github.com/asticode/go-astiav"
	"github.com/user/framepeek/pkg/pixfmt"
	"github.com/user/framepeek/pkg/ports"
)

func TestStatusError(t *testing.T) {
	if statusError("av_read_frame", nil) != nil {
		t.Error("expected nil for nil error")
	}

	err := statusError("avcodec_receive_frame", astiav.ErrEagain)
	if !errors.Is(err, ports.ErrWouldBlock) {
		t.Errorf("expected ErrWouldBlock, got %v", err)
	}
	var se *ports.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ports.StatusError, got %T", err)
	}
	if se.Code >= 0 {
		t.Errorf("expected negative code, got %d", se.Code)
	}
	if se.Op != "avcodec_receive_frame" {
		t.Errorf("unexpected op %q", se.Op)
	}

	if err := statusError("av_read_frame", astiav.ErrEof); !errors.Is(err, ports.ErrEndOfStream) {
		t.Errorf("expected ErrEndOfStream, got %v", err)
	}
	if err := statusError("av_read_frame", io.EOF); !errors.Is(err, ports.ErrEndOfStream) {
		t.Errorf("expected io.EOF mapped to ErrEndOfStream, got %v", err)
	}

	plain := statusError("avcodec_open2", astiav.ErrInvaliddata)
	if errors.Is(plain, ports.ErrWouldBlock) || errors.Is(plain, ports.ErrEndOfStream) {
		t.Errorf("invalid data should carry no subtype, got %v", plain)
	}
}

func TestStatusText(t *testing.T) {
	p := &Provider{}
	if p.StatusText(int(astiav.ErrEof)) == "" {
		t.Error("expected text for EOF")
	}
}

func TestPixelFormat(t *testing.T) {
	if pixelFormat(astiav.PixelFormatYuv420P) != ports.PixelFormatYUV420P {
		t.Error("expected yuv420p")
	}
	if pixelFormat(astiav.PixelFormatNone) != ports.PixelFormatNone {
		t.Error("expected none for an unmapped format")
	}

	// Every decoder format in the surface table is reachable from libav.
	reachable := make(map[ports.PixelFormat]bool)
	for _, pf := range pixelFormats {
		reachable[pf] = true
	}
	for _, e := range pixfmt.Entries() {
		if !reachable[e.Decoder] {
			t.Errorf("%s has no libav counterpart", e.Decoder)
		}
	}
}

func TestMediaType(t *testing.T) {
	tests := map[astiav.MediaType]ports.MediaType{
		astiav.MediaTypeVideo:    ports.MediaTypeVideo,
		astiav.MediaTypeAudio:    ports.MediaTypeAudio,
		astiav.MediaTypeSubtitle: ports.MediaTypeSubtitle,
		astiav.MediaTypeData:     ports.MediaTypeData,
		astiav.MediaTypeUnknown:  ports.MediaTypeUnknown,
	}
	for in, want := range tests {
		if got := mediaType(in); got != want {
			t.Errorf("mediaType(%v): expected %s, got %s", in, want, got)
		}
	}
}

func TestRational(t *testing.T) {
	got := rational(astiav.NewRational(1001, 30000))
	if got != (ports.Rational{Num: 1001, Den: 30000}) {
		t.Errorf("unexpected rational %s", got)
	}
}

func TestDecoderFlush_BeforeParameters(t *testing.T) {
	d := &decoder{}
	if err := d.Flush(); err != nil {
		t.Errorf("expected nil for a decoder without parameters, got %v", err)
	}
	if d.cc != nil {
		t.Error("expected the codec context left untouched")
	}
}

func TestSeekFlags(t *testing.T) {
	if fs := seekFlags(ports.SeekFlagBackward); !fs.Has(astiav.SeekFlagBackward) {
		t.Error("expected backward flag")
	}
	fs := seekFlags(0)
	for _, f := range []astiav.SeekFlag{astiav.SeekFlagBackward, astiav.SeekFlagByte, astiav.SeekFlagAny, astiav.SeekFlagFrame} {
		if fs.Has(f) {
			t.Errorf("unexpected flag %d", f)
		}
	}
}
