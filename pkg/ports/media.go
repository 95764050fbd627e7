package ports

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrWouldBlock is wrapped by provider errors that mean "feed more input".
	ErrWouldBlock = errors.New("media: resource temporarily unavailable")

	// ErrEndOfStream is wrapped by provider errors that mean the input or the
	// decoder is exhausted.
	ErrEndOfStream = errors.New("media: end of stream")

	// ErrCodecNotFound is returned by Decoder.ResolveCodec when no decoder
	// implementation is registered for the stream's codec.
	ErrCodecNotFound = errors.New("media: decoder not found")
)

// NoPTS marks a frame or packet without a presentation timestamp.
const NoPTS int64 = math.MinInt64

// StatusError carries a provider status code and its text.
type StatusError struct {
	Op   string // Provider call that failed, e.g. "avcodec_send_packet"
	Code int    // Negative provider status code
	Text string // Human-readable form of Code
	Err  error  // ErrWouldBlock, ErrEndOfStream or nil
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s (%d)", e.Op, e.Text, e.Code)
}

// Unwrap exposes the status subtype to errors.Is.
func (e *StatusError) Unwrap() error {
	return e.Err
}

// MediaType is the kind of data an elementary stream carries.
type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeVideo
	MediaTypeAudio
	MediaTypeSubtitle
	MediaTypeData
)

func (t MediaType) String() string {
	switch t {
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	case MediaTypeSubtitle:
		return "subtitle"
	case MediaTypeData:
		return "data"
	default:
		return "unknown"
	}
}

// Rational is a numerator/denominator pair, used for time bases and frame rates.
type Rational struct {
	Num int
	Den int
}

// Valid reports whether both terms are positive.
func (r Rational) Valid() bool {
	return r.Num > 0 && r.Den > 0
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// StreamInfo is a read-only view of one stream in a demuxed source.
type StreamInfo struct {
	Index        int
	MediaType    MediaType
	CodecName    string
	TimeBase     Rational
	RFrameRate   Rational // Nominal (lowest common) frame rate
	AvgFrameRate Rational
	Width        int
	Height       int
}

// SeekFlags modify how Demuxer.Seek interprets its timestamp.
type SeekFlags int

const (
	// SeekFlagBackward seeks to the nearest keyframe at or before the timestamp.
	SeekFlagBackward SeekFlags = 1 << iota
)

// Has reports whether f contains flag.
func (f SeekFlags) Has(flag SeekFlags) bool {
	return f&flag != 0
}

// StatusTexter translates a provider status code into text.
type StatusTexter interface {
	StatusText(code int) string
}

// MediaProvider opens sources and allocates decoding resources.
// Alloc* methods return nil when the allocation fails.
type MediaProvider interface {
	StatusTexter

	// OpenInput opens and recognises the container at path.
	OpenInput(path string) (Demuxer, error)

	// AllocDecoder allocates an unconfigured decoder context.
	AllocDecoder() Decoder

	// AllocPacket allocates a reusable coded packet.
	AllocPacket() Packet

	// AllocFrame allocates a reusable decoded frame.
	AllocFrame() Frame
}

// Demuxer is an opened container.
type Demuxer interface {
	// FindStreamInfo reads enough of the input to fill in stream metadata.
	FindStreamInfo() error

	// Streams lists the streams in index order.
	Streams() []StreamInfo

	// ReadPacket reads the next packet into pkt. At the end of input it
	// returns an error wrapping ErrEndOfStream.
	ReadPacket(pkt Packet) error

	// Seek moves the read cursor near timestamp, expressed in the time base
	// of streamIndex.
	Seek(streamIndex int, timestamp int64, flags SeekFlags) error

	// Close releases the demux context.
	Close()
}

// Decoder is a decoder context bound to one stream.
type Decoder interface {
	// ApplyParameters copies the codec parameters of a stream of d.
	ApplyParameters(d Demuxer, streamIndex int) error

	// ResolveCodec finds a decoder implementation for the applied
	// parameters and returns its name. It returns an error wrapping
	// ErrCodecNotFound if none is registered.
	ResolveCodec() (string, error)

	// Open negotiates and opens the resolved decoder.
	Open() error

	// SendPacket submits a packet. A nil packet enters draining mode.
	SendPacket(pkt Packet) error

	// ReceiveFrame overwrites frame with the next decoded picture. It
	// returns errors wrapping ErrWouldBlock when more input is needed and
	// ErrEndOfStream once drained.
	ReceiveFrame(frame Frame) error

	// Flush discards buffered input and output, e.g. after a seek.
	Flush() error

	// Close releases the decoder context.
	Close()
}

// Packet is a reusable compressed access unit.
type Packet interface {
	StreamIndex() int
	Pts() int64
	// Unref drops the payload so the packet can be reused.
	Unref()
	// Free releases the packet itself.
	Free()
}

// Plane is one image plane with its line stride in bytes.
type Plane struct {
	Data   []byte
	Stride int
}

// Frame is a reusable decoded picture.
type Frame interface {
	Width() int
	Height() int
	PixelFormat() PixelFormat
	Pts() int64
	// Planes returns the picture's planes in decoder order.
	Planes() ([]Plane, error)
	// Unref drops the picture so the frame can be reused.
	Unref()
	// Free releases the frame itself.
	Free()
}
