// Package astiavmedia implements the media decoding provider with go-astiav
// (libavformat and libavcodec).
package astiavmedia

import (
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astiav"
	"github.com/user/framepeek/pkg/pixfmt"
	"github.com/user/framepeek/pkg/ports"
)

// Provider opens sources and allocates decoding resources with libav.
type Provider struct{}

// New creates a Provider and lowers libav's own logging to errors only.
func New() *Provider {
	astiav.SetLogLevel(astiav.LogLevelError)
	return &Provider{}
}

// StatusText translates a libav status code.
func (p *Provider) StatusText(code int) string {
	return astiav.Error(code).Error()
}

// OpenInput opens the container at path and recognises its format.
func (p *Provider) OpenInput(path string) (ports.Demuxer, error) {
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, errors.New("astiavmedia: cannot allocate format context")
	}
	if err := fc.OpenInput(path, nil, nil); err != nil {
		fc.Free()
		return nil, statusError("avformat_open_input", err)
	}
	return &demuxer{fc: fc}, nil
}

// AllocDecoder allocates a decoder context not yet bound to a codec.
func (p *Provider) AllocDecoder() ports.Decoder {
	cc := astiav.AllocCodecContext(nil)
	if cc == nil {
		return nil
	}
	return &decoder{cc: cc}
}

// AllocPacket allocates a reusable packet.
func (p *Provider) AllocPacket() ports.Packet {
	pkt := astiav.AllocPacket()
	if pkt == nil {
		return nil
	}
	return &packet{pkt: pkt}
}

// AllocFrame allocates a reusable frame.
func (p *Provider) AllocFrame() ports.Frame {
	f := astiav.AllocFrame()
	if f == nil {
		return nil
	}
	return &frame{f: f}
}

var _ ports.MediaProvider = (*Provider)(nil)

// statusError converts a libav error into a *ports.StatusError, marking
// EAGAIN and EOF so callers can branch with errors.Is.
func statusError(op string, err error) error {
	if err == nil {
		return nil
	}
	se := &ports.StatusError{Op: op, Text: err.Error()}
	var ae astiav.Error
	if errors.As(err, &ae) {
		se.Code = int(ae)
	}
	switch {
	case errors.Is(err, astiav.ErrEagain):
		se.Err = ports.ErrWouldBlock
	case errors.Is(err, astiav.ErrEof), errors.Is(err, io.EOF):
		se.Err = ports.ErrEndOfStream
	}
	return se
}

type demuxer struct {
	fc *astiav.FormatContext
}

func (d *demuxer) FindStreamInfo() error {
	return statusError("avformat_find_stream_info", d.fc.FindStreamInfo(nil))
}

func (d *demuxer) Streams() []ports.StreamInfo {
	streams := d.fc.Streams()
	out := make([]ports.StreamInfo, 0, len(streams))
	for _, s := range streams {
		params := s.CodecParameters()
		out = append(out, ports.StreamInfo{
			Index:        s.Index(),
			MediaType:    mediaType(params.MediaType()),
			CodecName:    params.CodecID().String(),
			TimeBase:     rational(s.TimeBase()),
			RFrameRate:   rational(s.RFrameRate()),
			AvgFrameRate: rational(s.AvgFrameRate()),
			Width:        params.Width(),
			Height:       params.Height(),
		})
	}
	return out
}

func (d *demuxer) ReadPacket(pkt ports.Packet) error {
	return statusError("av_read_frame", d.fc.ReadFrame(pkt.(*packet).pkt))
}

func (d *demuxer) Seek(streamIndex int, timestamp int64, flags ports.SeekFlags) error {
	return statusError("av_seek_frame", d.fc.SeekFrame(streamIndex, timestamp, seekFlags(flags)))
}

func seekFlags(flags ports.SeekFlags) astiav.SeekFlags {
	fs := astiav.NewSeekFlags()
	if flags.Has(ports.SeekFlagBackward) {
		fs = fs.Add(astiav.SeekFlagBackward)
	}
	return fs
}

func (d *demuxer) Close() {
	d.fc.CloseInput()
	d.fc.Free()
}

func (d *demuxer) stream(index int) (*astiav.Stream, error) {
	for _, s := range d.fc.Streams() {
		if s.Index() == index {
			return s, nil
		}
	}
	return nil, fmt.Errorf("astiavmedia: no stream with index %d", index)
}

type decoder struct {
	cc      *astiav.CodecContext
	codecID astiav.CodecID
	codec   *astiav.Codec
	params  *astiav.CodecParameters // Owned by the stream, outlives the decoder
}

func (d *decoder) ApplyParameters(dm ports.Demuxer, streamIndex int) error {
	ad, ok := dm.(*demuxer)
	if !ok {
		return fmt.Errorf("astiavmedia: foreign demuxer %T", dm)
	}
	s, err := ad.stream(streamIndex)
	if err != nil {
		return err
	}
	params := s.CodecParameters()
	if err := params.ToCodecContext(d.cc); err != nil {
		return statusError("avcodec_parameters_to_context", err)
	}
	d.codecID = params.CodecID()
	d.params = params
	return nil
}

func (d *decoder) ResolveCodec() (string, error) {
	d.codec = astiav.FindDecoder(d.codecID)
	if d.codec == nil {
		return "", fmt.Errorf("%w: %s", ports.ErrCodecNotFound, d.codecID)
	}
	return d.codec.Name(), nil
}

func (d *decoder) Open() error {
	if d.codec == nil {
		return ports.ErrCodecNotFound
	}
	return statusError("avcodec_open2", d.cc.Open(d.codec, nil))
}

func (d *decoder) SendPacket(pkt ports.Packet) error {
	if pkt == nil {
		return statusError("avcodec_send_packet", d.cc.SendPacket(nil))
	}
	return statusError("avcodec_send_packet", d.cc.SendPacket(pkt.(*packet).pkt))
}

func (d *decoder) ReceiveFrame(f ports.Frame) error {
	return statusError("avcodec_receive_frame", d.cc.ReceiveFrame(f.(*frame).f))
}

// Flush replaces the codec context with a freshly opened one bound to the
// same stream parameters, dropping everything the old context buffered.
func (d *decoder) Flush() error {
	if d.codec == nil || d.params == nil {
		return nil
	}
	cc := astiav.AllocCodecContext(d.codec)
	if cc == nil {
		return errors.New("astiavmedia: cannot allocate codec context")
	}
	if err := d.params.ToCodecContext(cc); err != nil {
		cc.Free()
		return statusError("avcodec_parameters_to_context", err)
	}
	if err := cc.Open(d.codec, nil); err != nil {
		cc.Free()
		return statusError("avcodec_open2", err)
	}
	d.cc.Free()
	d.cc = cc
	return nil
}

func (d *decoder) Close() {
	d.cc.Free()
}

type packet struct {
	pkt *astiav.Packet
}

func (p *packet) StreamIndex() int { return p.pkt.StreamIndex() }
func (p *packet) Pts() int64       { return p.pkt.Pts() }
func (p *packet) Unref()           { p.pkt.Unref() }
func (p *packet) Free()            { p.pkt.Free() }

type frame struct {
	f   *astiav.Frame
	buf []byte
}

func (f *frame) Width() int                     { return f.f.Width() }
func (f *frame) Height() int                    { return f.f.Height() }
func (f *frame) PixelFormat() ports.PixelFormat { return pixelFormat(f.f.PixelFormat()) }
func (f *frame) Pts() int64                     { return f.f.Pts() }
func (f *frame) Unref()                         { f.f.Unref() }
func (f *frame) Free()                          { f.f.Free() }

// Planes copies the picture into a tightly packed buffer and splits it.
// The buffer is reused across calls.
func (f *frame) Planes() ([]ports.Plane, error) {
	n, err := f.f.ImageBufferSize(1)
	if err != nil {
		return nil, statusError("av_image_get_buffer_size", err)
	}
	if cap(f.buf) < n {
		f.buf = make([]byte, n)
	}
	f.buf = f.buf[:n]
	if _, err := f.f.ImageCopyToBuffer(f.buf, 1); err != nil {
		return nil, statusError("av_image_copy_to_buffer", err)
	}
	return pixfmt.SplitPlanes(f.PixelFormat(), f.Width(), f.Height(), f.buf)
}
