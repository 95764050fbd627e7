package mocks

import (
	"fmt"

	"github.com/user/framepeek/pkg/pixfmt"
	"github.com/user/framepeek/pkg/ports"
)

// Status codes the mock provider reports, matching libavutil's values.
const (
	StatusEagain = -11
	StatusEOF    = -541478725
)

func eagain(op string) error {
	return &ports.StatusError{Op: op, Code: StatusEagain, Text: "Resource temporarily unavailable", Err: ports.ErrWouldBlock}
}

func eof(op string) error {
	return &ports.StatusError{Op: op, Code: StatusEOF, Text: "End of file", Err: ports.ErrEndOfStream}
}

// MediaProvider is a mock implementation of ports.MediaProvider.
type MediaProvider struct {
	Demuxer *Demuxer
	Decoder *Decoder

	OpenErr    error
	NilDecoder bool
	NilPacket  bool
	NilFrame   bool

	Opened  []string
	Packets []*Packet
	Frames  []*Frame
}

func (m *MediaProvider) StatusText(code int) string {
	switch code {
	case StatusEagain:
		return "Resource temporarily unavailable"
	case StatusEOF:
		return "End of file"
	}
	return fmt.Sprintf("Error number %d occurred", code)
}

func (m *MediaProvider) OpenInput(path string) (ports.Demuxer, error) {
	m.Opened = append(m.Opened, path)
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	if m.Demuxer == nil {
		m.Demuxer = &Demuxer{}
	}
	return m.Demuxer, nil
}

func (m *MediaProvider) AllocDecoder() ports.Decoder {
	if m.NilDecoder {
		return nil
	}
	if m.Decoder == nil {
		m.Decoder = &Decoder{}
	}
	return m.Decoder
}

func (m *MediaProvider) AllocPacket() ports.Packet {
	if m.NilPacket {
		return nil
	}
	p := &Packet{}
	m.Packets = append(m.Packets, p)
	return p
}

func (m *MediaProvider) AllocFrame() ports.Frame {
	if m.NilFrame {
		return nil
	}
	f := &Frame{}
	m.Frames = append(m.Frames, f)
	return f
}

var _ ports.MediaProvider = (*MediaProvider)(nil)

// PacketSpec describes one packet in a scripted source.
type PacketSpec struct {
	Stream int
	Pts    int64
}

// SeekCall records one Demuxer.Seek.
type SeekCall struct {
	StreamIndex int
	Timestamp   int64
	Flags       ports.SeekFlags
}

// Demuxer is a mock implementation of ports.Demuxer that plays back a
// scripted packet list.
type Demuxer struct {
	StreamList []ports.StreamInfo
	Packets    []PacketSpec

	FindStreamInfoErr error
	ReadErr           error // Returned instead of the packet at ReadErrAt
	ReadErrAt         int
	SeekErr           error

	// SeekFunc returns the packet position reading resumes at. The default
	// rewinds to the first packet.
	SeekFunc func(streamIndex int, timestamp int64) int

	Reads              int
	Seeks              []SeekCall
	InFlightViolations int // ReadPacket called on a packet still referenced
	CloseCount         int

	pos int
}

// Pos returns the index of the next packet to be read.
func (m *Demuxer) Pos() int {
	return m.pos
}

func (m *Demuxer) FindStreamInfo() error {
	return m.FindStreamInfoErr
}

func (m *Demuxer) Streams() []ports.StreamInfo {
	return m.StreamList
}

func (m *Demuxer) ReadPacket(pkt ports.Packet) error {
	p := pkt.(*Packet)
	if p.Referenced {
		m.InFlightViolations++
	}
	if m.ReadErr != nil && m.pos == m.ReadErrAt {
		return m.ReadErr
	}
	if m.pos >= len(m.Packets) {
		return eof("av_read_frame")
	}
	spec := m.Packets[m.pos]
	m.pos++
	m.Reads++
	p.stream = spec.Stream
	p.pts = spec.Pts
	p.Referenced = true
	return nil
}

func (m *Demuxer) Seek(streamIndex int, timestamp int64, flags ports.SeekFlags) error {
	m.Seeks = append(m.Seeks, SeekCall{StreamIndex: streamIndex, Timestamp: timestamp, Flags: flags})
	if m.SeekErr != nil {
		return m.SeekErr
	}
	if m.SeekFunc != nil {
		m.pos = m.SeekFunc(streamIndex, timestamp)
	} else {
		m.pos = 0
	}
	return nil
}

func (m *Demuxer) Close() {
	m.CloseCount++
}

var _ ports.Demuxer = (*Demuxer)(nil)

// Decoder is a mock implementation of ports.Decoder. It outputs one frame
// per submitted packet, holding back Delay packets until drained.
type Decoder struct {
	Delay     int
	Width     int
	Height    int
	Format    ports.PixelFormat
	CodecName string

	ApplyErr   error
	ResolveErr error
	OpenErr    error
	SendErr    error // Returned by every SendPacket with a packet
	ReceiveErr error // Returned by every ReceiveFrame
	FlushErr   error

	AppliedStream int
	Opened        bool
	Submitted     []int // Stream index of each submitted packet
	SubmittedPts  []int64
	DrainCalls    int
	Received      int
	FlushCount    int
	CloseCount    int

	queue    []PacketSpec
	draining bool
}

func (m *Decoder) ApplyParameters(d ports.Demuxer, streamIndex int) error {
	m.AppliedStream = streamIndex
	return m.ApplyErr
}

func (m *Decoder) ResolveCodec() (string, error) {
	if m.ResolveErr != nil {
		return "", m.ResolveErr
	}
	if m.CodecName == "" {
		return "h264", nil
	}
	return m.CodecName, nil
}

func (m *Decoder) Open() error {
	if m.OpenErr != nil {
		return m.OpenErr
	}
	m.Opened = true
	return nil
}

func (m *Decoder) SendPacket(pkt ports.Packet) error {
	if pkt == nil {
		m.DrainCalls++
		m.draining = true
		return nil
	}
	if m.draining {
		return eof("avcodec_send_packet")
	}
	if m.SendErr != nil {
		return m.SendErr
	}
	p := pkt.(*Packet)
	m.Submitted = append(m.Submitted, p.stream)
	m.SubmittedPts = append(m.SubmittedPts, p.pts)
	m.queue = append(m.queue, PacketSpec{Stream: p.stream, Pts: p.pts})
	return nil
}

func (m *Decoder) ReceiveFrame(frame ports.Frame) error {
	if m.ReceiveErr != nil {
		return m.ReceiveErr
	}
	if len(m.queue) > m.Delay || (m.draining && len(m.queue) > 0) {
		spec := m.queue[0]
		m.queue = m.queue[1:]
		f := frame.(*Frame)
		f.load(m.width(), m.height(), m.format(), spec)
		m.Received++
		return nil
	}
	if m.draining {
		return eof("avcodec_receive_frame")
	}
	return eagain("avcodec_receive_frame")
}

func (m *Decoder) Flush() error {
	m.FlushCount++
	if m.FlushErr != nil {
		return m.FlushErr
	}
	m.queue = nil
	m.draining = false
	return nil
}

func (m *Decoder) Close() {
	m.CloseCount++
}

func (m *Decoder) width() int {
	if m.Width == 0 {
		return 4
	}
	return m.Width
}

func (m *Decoder) height() int {
	if m.Height == 0 {
		return 2
	}
	return m.Height
}

func (m *Decoder) format() ports.PixelFormat {
	if m.Format == ports.PixelFormatNone {
		return ports.PixelFormatYUV420P
	}
	return m.Format
}

var _ ports.Decoder = (*Decoder)(nil)

// Packet is a mock implementation of ports.Packet.
type Packet struct {
	Referenced bool
	UnrefCount int
	FreeCount  int

	stream int
	pts    int64
}

// NewPacket returns a referenced packet.
func NewPacket(stream int, pts int64) *Packet {
	return &Packet{stream: stream, pts: pts, Referenced: true}
}

func (m *Packet) StreamIndex() int { return m.stream }
func (m *Packet) Pts() int64       { return m.pts }

func (m *Packet) Unref() {
	m.UnrefCount++
	m.Referenced = false
}

func (m *Packet) Free() {
	m.FreeCount++
	m.Referenced = false
}

var _ ports.Packet = (*Packet)(nil)

// Frame is a mock implementation of ports.Frame.
type Frame struct {
	W            int
	H            int
	Format       ports.PixelFormat
	PTS          int64
	SourceStream int // Stream of the packet the frame was decoded from
	Referenced   bool
	PlanesErr    error
	UnrefCount   int
	FreeCount    int
}

// NewFrame returns a decoded frame of the given geometry.
func NewFrame(w, h int, format ports.PixelFormat) *Frame {
	return &Frame{W: w, H: h, Format: format, Referenced: true}
}

func (m *Frame) load(w, h int, format ports.PixelFormat, spec PacketSpec) {
	m.W, m.H, m.Format = w, h, format
	m.PTS = spec.Pts
	m.SourceStream = spec.Stream
	m.Referenced = true
}

func (m *Frame) Width() int                     { return m.W }
func (m *Frame) Height() int                    { return m.H }
func (m *Frame) PixelFormat() ports.PixelFormat { return m.Format }
func (m *Frame) Pts() int64                     { return m.PTS }

func (m *Frame) Planes() ([]ports.Plane, error) {
	if m.PlanesErr != nil {
		return nil, m.PlanesErr
	}
	size := m.W * m.H * 4
	switch m.Format {
	case ports.PixelFormatYUV420P:
		size = m.W*m.H + 2*((m.W+1)/2)*((m.H+1)/2)
	case ports.PixelFormatRGB24, ports.PixelFormatBGR24:
		size = m.W * m.H * 3
	case ports.PixelFormatYUYV422, ports.PixelFormatUYVY422:
		size = m.W * m.H * 2
	}
	return pixfmt.SplitPlanes(m.Format, m.W, m.H, make([]byte, size))
}

func (m *Frame) Unref() {
	m.UnrefCount++
	m.Referenced = false
}

func (m *Frame) Free() {
	m.FreeCount++
	m.Referenced = false
}

var _ ports.Frame = (*Frame)(nil)
