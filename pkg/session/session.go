// Package session owns the resources opened for one media source: the demux
// context, the decoder bound to the selected video stream, and the reusable
// packet and frame.
package session

import (
	"errors"
	"fmt"

	"github.com/user/framepeek/pkg/diag"
	"github.com/user/framepeek/pkg/ports"
)

var (
	ErrOpen             = errors.New("session: cannot open source")
	ErrProbe            = errors.New("session: cannot find stream information")
	ErrNoVideoStream    = errors.New("session: no video stream")
	ErrDecoderAlloc     = errors.New("session: cannot allocate decoder context")
	ErrUnsupportedCodec = errors.New("session: unsupported codec")
	ErrDecoderOpen      = errors.New("session: cannot open decoder")
	ErrPacketAlloc      = errors.New("session: cannot allocate packet")
	ErrFrameAlloc       = errors.New("session: cannot allocate frame")
)

// Session is a media source opened for decoding.
type Session struct {
	provider ports.MediaProvider
	report   *diag.Reporter
	logger   ports.Logger

	path    string
	demuxer ports.Demuxer
	decoder ports.Decoder
	packet  ports.Packet
	frame   ports.Frame

	video    ports.StreamInfo
	selected bool
}

// New creates an empty Session.
func New(provider ports.MediaProvider, logger ports.Logger) *Session {
	log := logger.WithComponent("session")
	return &Session{
		provider: provider,
		report:   diag.New(log, provider),
		logger:   log,
	}
}

// Setup opens path and prepares everything needed to decode its first video
// stream. On failure whatever was acquired is released.
func (s *Session) Setup(path string) error {
	steps := []func() error{
		func() error { return s.Open(path) },
		s.ProbeStreams,
		func() error { _, err := s.SelectVideoStream(); return err },
		s.OpenDecoder,
		s.AllocBuffers,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			s.Close()
			return err
		}
	}
	return nil
}

// Open opens and recognises the container at path.
func (s *Session) Open(path string) error {
	s.logger.Debug("Opening %s", path)
	d, err := s.provider.OpenInput(path)
	if s.report.Check(err, "avformat_open_input") != nil {
		return fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
	}
	s.path = path
	s.demuxer = d
	return nil
}

// ProbeStreams reads stream metadata.
func (s *Session) ProbeStreams() error {
	if err := s.report.Check(s.demuxer.FindStreamInfo(), "avformat_find_stream_info"); err != nil {
		return fmt.Errorf("%w: %w", ErrProbe, err)
	}
	return nil
}

// SelectVideoStream selects the first video stream in index order.
func (s *Session) SelectVideoStream() (ports.StreamInfo, error) {
	for _, st := range s.demuxer.Streams() {
		if st.MediaType == ports.MediaTypeVideo {
			s.video = st
			s.selected = true
			s.logger.Debug("Selected video stream %d (%dx%d, time base %s)", st.Index, st.Width, st.Height, st.TimeBase)
			return st, nil
		}
	}
	s.logger.Error("No video stream found in %s", s.path)
	return ports.StreamInfo{}, ErrNoVideoStream
}

// OpenDecoder allocates and opens a decoder for the selected stream.
func (s *Session) OpenDecoder() error {
	if !s.selected {
		return ErrNoVideoStream
	}

	dec := diag.CheckNil(s.report, s.provider.AllocDecoder(), "avcodec_alloc_context3")
	if dec == nil {
		return ErrDecoderAlloc
	}
	s.decoder = dec

	if err := s.report.Check(dec.ApplyParameters(s.demuxer, s.video.Index), "avcodec_parameters_to_context"); err != nil {
		return fmt.Errorf("%w: %w", ErrDecoderOpen, err)
	}

	name, err := dec.ResolveCodec()
	if err != nil {
		s.logger.Error("Unsupported codec %s", s.video.CodecName)
		return fmt.Errorf("%w: %s: %w", ErrUnsupportedCodec, s.video.CodecName, err)
	}

	if err := s.report.Check(dec.Open(), "avcodec_open2"); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecoderOpen, name, err)
	}
	s.logger.Debug("Opened %s decoder", name)
	return nil
}

// AllocBuffers allocates the reusable packet and frame.
func (s *Session) AllocBuffers() error {
	pkt := diag.CheckNil(s.report, s.provider.AllocPacket(), "av_packet_alloc")
	if pkt == nil {
		return ErrPacketAlloc
	}
	s.packet = pkt

	frame := diag.CheckNil(s.report, s.provider.AllocFrame(), "av_frame_alloc")
	if frame == nil {
		return ErrFrameAlloc
	}
	s.frame = frame
	return nil
}

// Close releases everything acquired in reverse order. It is safe to call
// after a partial setup and more than once.
func (s *Session) Close() {
	if s.frame != nil {
		s.frame.Free()
		s.frame = nil
	}
	if s.packet != nil {
		s.packet.Free()
		s.packet = nil
	}
	if s.decoder != nil {
		s.decoder.Close()
		s.decoder = nil
	}
	if s.demuxer != nil {
		s.demuxer.Close()
		s.demuxer = nil
	}
}

// FrameRate returns the nominal frame rate of the selected stream, falling
// back to its average rate when the nominal one is unknown.
func (s *Session) FrameRate() ports.Rational {
	if s.video.RFrameRate.Valid() {
		return s.video.RFrameRate
	}
	return s.video.AvgFrameRate
}

func (s *Session) VideoStream() ports.StreamInfo { return s.video }

// VideoStreamIndex returns the selected stream index, or -1.
func (s *Session) VideoStreamIndex() int {
	if !s.selected {
		return -1
	}
	return s.video.Index
}

func (s *Session) Demuxer() ports.Demuxer { return s.demuxer }
func (s *Session) Decoder() ports.Decoder { return s.decoder }
func (s *Session) Packet() ports.Packet   { return s.packet }
func (s *Session) Frame() ports.Frame     { return s.frame }
func (s *Session) Path() string           { return s.path }
