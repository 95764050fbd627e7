// Package locate implements the frame locating stage: an optional warm scan,
// a backward keyframe seek to the requested frame, then sequential decoding
// until a frame is accepted.
package locate

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/user/framepeek/pkg/diag"
	"github.com/user/framepeek/pkg/pipeline"
	"github.com/user/framepeek/pkg/ports"
)

var (
	ErrSendPacket   = errors.New("locate: error sending packet to decoder")
	ErrReceiveFrame = errors.New("locate: error receiving frame from decoder")
	ErrReadPacket   = errors.New("locate: error reading packet")
	ErrSeek         = errors.New("locate: seek failed")
	ErrFlush        = errors.New("locate: cannot flush decoder")
	ErrNotFound     = errors.New("locate: frame not found")
	ErrInvalidRate  = errors.New("locate: invalid time base or frame rate")
	ErrInvalidIndex = errors.New("locate: negative frame index")
)

// Stage locates and decodes the requested frame.
type Stage struct {
	report *diag.Reporter
	logger ports.Logger
}

// New creates a new locate stage. texter translates provider status codes
// in diagnostics.
func New(texter ports.StatusTexter, logger ports.Logger) *Stage {
	log := logger.WithComponent("locate")
	return &Stage{
		report: diag.New(log, texter),
		logger: log,
	}
}

// FrameToTimestamp converts a frame index into a timestamp in the stream's
// time base: index × tb.Den × fr.Den / (tb.Num × fr.Num), truncated.
func FrameToTimestamp(index int64, timeBase, frameRate ports.Rational) (int64, error) {
	if index < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	if !timeBase.Valid() || !frameRate.Valid() {
		return 0, fmt.Errorf("%w: time base %s, frame rate %s", ErrInvalidRate, timeBase, frameRate)
	}

	num := new(big.Int).SetInt64(index)
	num.Mul(num, big.NewInt(int64(timeBase.Den)))
	num.Mul(num, big.NewInt(int64(frameRate.Den)))
	den := big.NewInt(int64(timeBase.Num) * int64(frameRate.Num))
	num.Quo(num, den)
	if !num.IsInt64() {
		return 0, fmt.Errorf("%w: timestamp for frame %d overflows", ErrInvalidRate, index)
	}
	return num.Int64(), nil
}

// Execute runs the warm scan, the seek and the decode loop. A frame that
// cannot be found is reported through Found=false, not as an error.
func (s *Stage) Execute(ctx context.Context, input pipeline.LocateInput) (pipeline.LocateResult, error) {
	result := pipeline.LocateResult{}

	if input.Policy == "" {
		input.Policy = pipeline.PolicyFirst
	}

	target, err := FrameToTimestamp(input.FrameIndex, input.TimeBase, input.FrameRate)
	if err != nil {
		return result, err
	}
	result.TargetTimestamp = target

	if input.WarmScan {
		s.logger.Debug("Warm scan started")
		n, err := s.warmScan(ctx, input)
		result.WarmPackets = n
		if err != nil {
			return result, err
		}
		s.logger.Debug("Warm scan finished after %d packets", n)

		// Frames still buffered from the scan must not survive a failed seek.
		if err := s.flush(input); err != nil {
			return result, err
		}
	}

	s.logger.Info("Seeking to frame %d (timestamp %d)", input.FrameIndex, target)
	if err := s.report.Check(input.Demuxer.Seek(input.StreamIndex, target, ports.SeekFlagBackward), "av_seek_frame"); err != nil {
		result.SeekErr = fmt.Errorf("%w: %w", ErrSeek, err)
		s.logger.Warn("Seek failed, decoding from the current position: %s", err)
	} else if err := s.flush(input); err != nil {
		return result, err
	}

	err = s.decode(ctx, input, &result)
	if errors.Is(err, ErrNotFound) {
		s.logger.Warn("Frame %d not found after %d packets", input.FrameIndex, result.PacketsRead)
		return result, nil
	}
	if err != nil {
		return result, err
	}

	s.logger.Info("Decoded frame %dx%d %s (pts %d)", result.Frame.Width(), result.Frame.Height(), result.Frame.PixelFormat(), result.Frame.Pts())
	return result, nil
}

func (s *Stage) flush(in pipeline.LocateInput) error {
	if err := s.report.Check(in.Decoder.Flush(), "avcodec_flush_buffers"); err != nil {
		return fmt.Errorf("%w: %w", ErrFlush, err)
	}
	return nil
}

// warmScan decodes every packet of the selected stream once, discarding
// the frames.
func (s *Stage) warmScan(ctx context.Context, in pipeline.LocateInput) (int, error) {
	submitted := 0
	for {
		if err := ctx.Err(); err != nil {
			return submitted, err
		}

		err := in.Demuxer.ReadPacket(in.Packet)
		if errors.Is(err, ports.ErrEndOfStream) {
			return submitted, nil
		}
		if err != nil {
			s.report.Check(err, "av_read_frame")
			return submitted, fmt.Errorf("%w: %w", ErrReadPacket, err)
		}

		selected := in.Packet.StreamIndex() == in.StreamIndex
		if selected {
			err = s.warmPacket(in)
			submitted++
		}
		in.Packet.Unref()
		if err != nil {
			return submitted, err
		}
	}
}

func (s *Stage) warmPacket(in pipeline.LocateInput) error {
	if err := s.report.Check(in.Decoder.SendPacket(in.Packet), "avcodec_send_packet"); err != nil {
		return fmt.Errorf("%w: %w", ErrSendPacket, err)
	}
	for {
		err := in.Decoder.ReceiveFrame(in.Frame)
		if errors.Is(err, ports.ErrWouldBlock) || errors.Is(err, ports.ErrEndOfStream) {
			return nil
		}
		if err != nil {
			s.report.Check(err, "avcodec_receive_frame")
			return fmt.Errorf("%w: %w", ErrReceiveFrame, err)
		}
		in.Frame.Unref()
	}
}

func (s *Stage) decode(ctx context.Context, in pipeline.LocateInput, res *pipeline.LocateResult) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := in.Demuxer.ReadPacket(in.Packet)
		if errors.Is(err, ports.ErrEndOfStream) {
			return s.drain(in, res)
		}
		if err != nil {
			s.report.Check(err, "av_read_frame")
			return fmt.Errorf("%w: %w", ErrReadPacket, err)
		}
		res.PacketsRead++

		found, err := s.consume(in, res)
		in.Packet.Unref()
		if err != nil || found {
			return err
		}
	}
}

// consume submits the current packet if it belongs to the selected stream
// and collects whatever the decoder produces.
func (s *Stage) consume(in pipeline.LocateInput, res *pipeline.LocateResult) (bool, error) {
	if in.Packet.StreamIndex() != in.StreamIndex {
		res.PacketsSkipped++
		return false, nil
	}
	if err := s.report.Check(in.Decoder.SendPacket(in.Packet), "avcodec_send_packet"); err != nil {
		return false, fmt.Errorf("%w: %w", ErrSendPacket, err)
	}
	return s.receive(in, res)
}

// drain flushes frames the decoder still holds once the input is exhausted.
func (s *Stage) drain(in pipeline.LocateInput, res *pipeline.LocateResult) error {
	s.logger.Debug("End of input, draining decoder")
	// A decoder already in draining mode answers with end of stream.
	if err := in.Decoder.SendPacket(nil); err != nil && !errors.Is(err, ports.ErrEndOfStream) {
		s.report.Check(err, "avcodec_send_packet")
		return fmt.Errorf("%w: %w", ErrSendPacket, err)
	}
	found, err := s.receive(in, res)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (s *Stage) receive(in pipeline.LocateInput, res *pipeline.LocateResult) (bool, error) {
	for {
		err := in.Decoder.ReceiveFrame(in.Frame)
		switch {
		case err == nil:
			res.FramesDecoded++
			if accept(in.Policy, in.Frame.Pts(), res.TargetTimestamp) {
				res.Found = true
				res.Frame = in.Frame
				return true, nil
			}
			in.Frame.Unref()
		case errors.Is(err, ports.ErrWouldBlock):
			return false, nil
		case errors.Is(err, ports.ErrEndOfStream):
			return false, ErrNotFound
		default:
			s.report.Check(err, "avcodec_receive_frame")
			return false, fmt.Errorf("%w: %w", ErrReceiveFrame, err)
		}
	}
}

func accept(policy pipeline.Policy, pts, target int64) bool {
	if policy != pipeline.PolicyExact {
		return true
	}
	return pts == ports.NoPTS || pts >= target
}
