package pipeline

import (
	"fmt"

	"github.com/user/framepeek/pkg/ports"
)

// =============================================================================
// Locate Stage Types
// =============================================================================

// Policy decides which decoded frame after the seek is accepted.
type Policy string

const (
	// PolicyFirst accepts the first frame the decoder produces.
	PolicyFirst Policy = "first"
	// PolicyExact accepts the first frame whose pts reaches the target.
	PolicyExact Policy = "exact"
)

// ParsePolicy parses a policy name. The empty string means PolicyFirst.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyFirst:
		return PolicyFirst, nil
	case PolicyExact:
		return PolicyExact, nil
	}
	return "", fmt.Errorf("pipeline: unknown locate policy %q (want first or exact)", s)
}

// LocateInput contains everything the locate stage drives.
type LocateInput struct {
	Demuxer     ports.Demuxer
	Decoder     ports.Decoder
	Packet      ports.Packet // Reusable packet owned by the session
	Frame       ports.Frame  // Reusable frame owned by the session
	StreamIndex int          // Selected video stream
	TimeBase    ports.Rational
	FrameRate   ports.Rational
	FrameIndex  int64 // Requested frame index
	Policy      Policy
	WarmScan    bool // Decode the whole source once before seeking
}

// LocateResult reports the outcome of the search.
type LocateResult struct {
	Found           bool
	Frame           ports.Frame // Session frame holding the picture when Found
	TargetTimestamp int64       // Seek target in the stream's time base
	PacketsRead     int
	PacketsSkipped  int // Packets of other streams, released unsubmitted
	FramesDecoded   int
	WarmPackets     int   // Packets submitted during the warm scan
	SeekErr         error // Non-nil when the seek failed and decoding continued in place
}

// =============================================================================
// Present Stage Types
// =============================================================================

// Surface holds the texture a frame is presented through.
type Surface interface {
	// Texture returns the live texture, or nil.
	Texture() ports.Texture
	// Upload copies the frame's planes into the texture.
	Upload(frame ports.Frame) error
	// Release destroys the texture, if any.
	Release() error
}

// PresentInput contains the frame to adapt and the display it targets.
type PresentInput struct {
	Display ports.Display
	Frame   ports.Frame
}

// PresentResult carries the adapted surface. The caller releases it.
type PresentResult struct {
	Surface Surface
	Format  ports.SurfaceFormat
}

// =============================================================================
// Display Stage Types
// =============================================================================

// DisplayInput contains the state shown by the display loop. Surface and
// Frame may be nil, in which case only a cleared target is presented.
type DisplayInput struct {
	Display     ports.Display
	Surface     Surface
	Frame       ports.Frame
	IdleDelayMs int
}

// DisplayResult reports how the loop ended.
type DisplayResult struct {
	Iterations  int
	Interrupted bool // Ended by context cancellation rather than a quit event
}
