package locate

import (
	"context"
	"errors"
	"testing"

	"github.com/user/framepeek/pkg/mocks"
	"github.com/user/framepeek/pkg/pipeline"
	"github.com/user/framepeek/pkg/ports"
)

var (
	tb90k  = ports.Rational{Num: 1, Den: 90000}
	fps30  = ports.Rational{Num: 30, Den: 1}
	ntsc   = ports.Rational{Num: 30000, Den: 1001}
	tbMsec = ports.Rational{Num: 1, Den: 1000}
)

type fixture struct {
	demuxer *mocks.Demuxer
	decoder *mocks.Decoder
	packet  *mocks.Packet
	frame   *mocks.Frame
	logger  *mocks.Logger
	stage   *Stage
}

func newFixture(packets ...mocks.PacketSpec) *fixture {
	log := mocks.NewLogger()
	return &fixture{
		demuxer: &mocks.Demuxer{Packets: packets},
		decoder: &mocks.Decoder{},
		packet:  &mocks.Packet{},
		frame:   &mocks.Frame{},
		logger:  log,
		stage:   New(&mocks.MediaProvider{}, log),
	}
}

func (f *fixture) input(index int64) pipeline.LocateInput {
	return pipeline.LocateInput{
		Demuxer:     f.demuxer,
		Decoder:     f.decoder,
		Packet:      f.packet,
		Frame:       f.frame,
		StreamIndex: 0,
		TimeBase:    tb90k,
		FrameRate:   fps30,
		FrameIndex:  index,
		Policy:      pipeline.PolicyFirst,
	}
}

func TestFrameToTimestamp(t *testing.T) {
	tests := []struct {
		index int64
		tb    ports.Rational
		fr    ports.Rational
		want  int64
	}{
		{0, tb90k, fps30, 0},
		{1, tb90k, fps30, 3000},
		{10, tb90k, fps30, 30000},
		{1, tbMsec, ntsc, 33},
		{3, tbMsec, ntsc, 100},
		{1 << 40, tb90k, ports.Rational{Num: 1, Den: 1}, (1 << 40) * 90000},
	}

	for _, tt := range tests {
		got, err := FrameToTimestamp(tt.index, tt.tb, tt.fr)
		if err != nil {
			t.Errorf("FrameToTimestamp(%d, %s, %s): unexpected error %v", tt.index, tt.tb, tt.fr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FrameToTimestamp(%d, %s, %s): expected %d, got %d", tt.index, tt.tb, tt.fr, tt.want, got)
		}
	}
}

func TestFrameToTimestamp_MonotonicAndIdempotent(t *testing.T) {
	var prev int64 = -1
	for i := int64(0); i < 500; i++ {
		a, err := FrameToTimestamp(i, tbMsec, ntsc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, _ := FrameToTimestamp(i, tbMsec, ntsc)
		if a != b {
			t.Fatalf("frame %d: repeated calls differ (%d vs %d)", i, a, b)
		}
		if a <= prev {
			t.Fatalf("frame %d: timestamp %d not above %d", i, a, prev)
		}
		prev = a
	}
}

func TestFrameToTimestamp_Invalid(t *testing.T) {
	bad := []struct {
		tb, fr ports.Rational
	}{
		{ports.Rational{Num: 0, Den: 90000}, fps30},
		{ports.Rational{Num: 1, Den: 0}, fps30},
		{tb90k, ports.Rational{Num: 0, Den: 1}},
		{tb90k, ports.Rational{Num: 30, Den: -1}},
	}
	for _, b := range bad {
		if _, err := FrameToTimestamp(1, b.tb, b.fr); !errors.Is(err, ErrInvalidRate) {
			t.Errorf("tb %s fr %s: expected ErrInvalidRate, got %v", b.tb, b.fr, err)
		}
	}

	if _, err := FrameToTimestamp(-1, tb90k, fps30); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("expected ErrInvalidIndex, got %v", err)
	}
	if _, err := FrameToTimestamp(1<<62, tb90k, ports.Rational{Num: 1, Den: 1000}); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("expected overflow to fail with ErrInvalidRate, got %v", err)
	}
}

func TestExecute_FirstFrame(t *testing.T) {
	f := newFixture(
		mocks.PacketSpec{Stream: 0, Pts: 0},
		mocks.PacketSpec{Stream: 0, Pts: 3000},
	)

	res, err := f.stage.Execute(context.Background(), f.input(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Fatal("expected frame found")
	}
	if res.Frame != ports.Frame(f.frame) {
		t.Error("expected the session frame to be returned")
	}
	if res.FramesDecoded != 1 || f.decoder.Received != 1 {
		t.Errorf("expected exactly one frame decoded, got %d", res.FramesDecoded)
	}
	if res.PacketsRead != 1 {
		t.Errorf("expected 1 packet read, got %d", res.PacketsRead)
	}
	if f.packet.UnrefCount != 1 {
		t.Errorf("expected packet unreferenced once, got %d", f.packet.UnrefCount)
	}
}

func TestExecute_SkipsOtherStreams(t *testing.T) {
	f := newFixture(
		mocks.PacketSpec{Stream: 1, Pts: 0},
		mocks.PacketSpec{Stream: 2, Pts: 0},
		mocks.PacketSpec{Stream: 1, Pts: 1024},
		mocks.PacketSpec{Stream: 0, Pts: 0},
	)

	res, err := f.stage.Execute(context.Background(), f.input(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Fatal("expected frame found")
	}
	if res.PacketsSkipped != 3 {
		t.Errorf("expected 3 packets skipped, got %d", res.PacketsSkipped)
	}
	for _, stream := range f.decoder.Submitted {
		if stream != 0 {
			t.Errorf("packet of stream %d submitted to decoder", stream)
		}
	}
	if f.frame.SourceStream != 0 {
		t.Errorf("expected frame from stream 0, got %d", f.frame.SourceStream)
	}
	if f.packet.UnrefCount != 4 {
		t.Errorf("expected every packet unreferenced, got %d", f.packet.UnrefCount)
	}
	if f.demuxer.InFlightViolations != 0 {
		t.Errorf("expected at most one packet in flight, got %d violations", f.demuxer.InFlightViolations)
	}
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture(
		mocks.PacketSpec{Stream: 1, Pts: 0},
		mocks.PacketSpec{Stream: 1, Pts: 1024},
	)

	res, err := f.stage.Execute(context.Background(), f.input(1000))
	if err != nil {
		t.Fatalf("expected no error for a missing frame, got %v", err)
	}
	if res.Found || res.Frame != nil {
		t.Error("expected Found=false")
	}
	if f.decoder.DrainCalls != 1 {
		t.Errorf("expected decoder drained once, got %d", f.decoder.DrainCalls)
	}
	if !f.logger.Contains(ports.LevelWarn, "not found") {
		t.Error("expected not-found warning")
	}
}

func TestExecute_DrainDeliversDelayedFrame(t *testing.T) {
	f := newFixture(
		mocks.PacketSpec{Stream: 0, Pts: 0},
		mocks.PacketSpec{Stream: 0, Pts: 3000},
	)
	f.decoder.Delay = 4

	res, err := f.stage.Execute(context.Background(), f.input(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Fatal("expected the delayed frame to be found after draining")
	}
	if f.frame.PTS != 0 {
		t.Errorf("expected first delayed frame (pts 0), got %d", f.frame.PTS)
	}
}

func TestExecute_ExactPolicy(t *testing.T) {
	f := newFixture(
		mocks.PacketSpec{Stream: 0, Pts: 0},
		mocks.PacketSpec{Stream: 0, Pts: 3000},
		mocks.PacketSpec{Stream: 0, Pts: 6000},
		mocks.PacketSpec{Stream: 0, Pts: 9000},
	)
	in := f.input(2)
	in.Policy = pipeline.PolicyExact

	res, err := f.stage.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TargetTimestamp != 6000 {
		t.Errorf("expected target 6000, got %d", res.TargetTimestamp)
	}
	if !res.Found || f.frame.PTS != 6000 {
		t.Fatalf("expected frame with pts 6000, got found=%v pts=%d", res.Found, f.frame.PTS)
	}
	if res.FramesDecoded != 3 {
		t.Errorf("expected 3 frames decoded, got %d", res.FramesDecoded)
	}
	if f.frame.UnrefCount != 2 {
		t.Errorf("expected 2 rejected frames unreferenced, got %d", f.frame.UnrefCount)
	}
}

func TestExecute_ExactPolicyAcceptsMissingPts(t *testing.T) {
	f := newFixture(mocks.PacketSpec{Stream: 0, Pts: ports.NoPTS})
	in := f.input(5)
	in.Policy = pipeline.PolicyExact

	res, err := f.stage.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Error("expected a frame without pts to be accepted")
	}
}

func TestExecute_SeekTargetAndFlush(t *testing.T) {
	f := newFixture(mocks.PacketSpec{Stream: 0, Pts: 0})

	if _, err := f.stage.Execute(context.Background(), f.input(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.demuxer.Seeks) != 1 {
		t.Fatalf("expected 1 seek, got %d", len(f.demuxer.Seeks))
	}
	seek := f.demuxer.Seeks[0]
	if seek.Timestamp != 30000 || seek.StreamIndex != 0 || !seek.Flags.Has(ports.SeekFlagBackward) {
		t.Errorf("unexpected seek %+v", seek)
	}
	if f.decoder.FlushCount != 1 {
		t.Errorf("expected decoder flushed after seek, got %d", f.decoder.FlushCount)
	}
}

func TestExecute_SeekFailureContinues(t *testing.T) {
	f := newFixture(mocks.PacketSpec{Stream: 0, Pts: 0})
	f.demuxer.SeekErr = &ports.StatusError{Op: "av_seek_frame", Code: -1, Text: "Operation not permitted"}

	res, err := f.stage.Execute(context.Background(), f.input(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errors.Is(res.SeekErr, ErrSeek) {
		t.Errorf("expected SeekErr wrapping ErrSeek, got %v", res.SeekErr)
	}
	if f.decoder.FlushCount != 0 {
		t.Error("expected no flush after a failed seek")
	}
	if !res.Found {
		t.Error("expected decoding to continue after a failed seek")
	}
	if !f.logger.Contains(ports.LevelWarn, "Seek failed") {
		t.Error("expected seek warning")
	}
}

func TestExecute_WarmScanFramesDroppedWhenSeekFails(t *testing.T) {
	var packets []mocks.PacketSpec
	for i := int64(0); i < 10; i++ {
		packets = append(packets, mocks.PacketSpec{Stream: 0, Pts: i * 3000})
	}
	f := newFixture(packets...)
	f.decoder.Delay = 2
	f.demuxer.SeekErr = &ports.StatusError{Op: "av_seek_frame", Code: -1, Text: "Operation not permitted"}
	in := f.input(3)
	in.WarmScan = true

	res, err := f.stage.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Found {
		t.Errorf("expected no frame, got pts %d left over from the warm scan", f.frame.PTS)
	}
	if f.decoder.FlushCount != 1 {
		t.Errorf("expected one flush after the warm scan, got %d", f.decoder.FlushCount)
	}
	if res.SeekErr == nil {
		t.Error("expected SeekErr to be set")
	}
}

func TestExecute_FlushFailure(t *testing.T) {
	f := newFixture(mocks.PacketSpec{Stream: 0, Pts: 0})
	f.decoder.FlushErr = &ports.StatusError{Op: "avcodec_open2", Code: -12, Text: "Cannot allocate memory"}

	if _, err := f.stage.Execute(context.Background(), f.input(0)); !errors.Is(err, ErrFlush) {
		t.Fatalf("expected ErrFlush, got %v", err)
	}
	if f.demuxer.Reads != 0 {
		t.Errorf("expected no packets read after a failed flush, got %d", f.demuxer.Reads)
	}
}

func TestExecute_WarmScan(t *testing.T) {
	f := newFixture(
		mocks.PacketSpec{Stream: 0, Pts: 0},
		mocks.PacketSpec{Stream: 1, Pts: 0},
		mocks.PacketSpec{Stream: 0, Pts: 3000},
		mocks.PacketSpec{Stream: 0, Pts: 6000},
	)
	in := f.input(0)
	in.WarmScan = true

	res, err := f.stage.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.WarmPackets != 3 {
		t.Errorf("expected 3 warm packets, got %d", res.WarmPackets)
	}
	// 3 during the warm scan plus 1 after the seek.
	if len(f.decoder.Submitted) != 4 {
		t.Errorf("expected 4 submissions, got %d", len(f.decoder.Submitted))
	}
	if f.packet.UnrefCount != 5 {
		t.Errorf("expected 5 packet unrefs, got %d", f.packet.UnrefCount)
	}
	if !res.Found || f.frame.PTS != 0 {
		t.Errorf("expected frame at pts 0 after the seek, got found=%v pts=%d", res.Found, f.frame.PTS)
	}
	// Once after the scan and once after the seek.
	if f.decoder.FlushCount != 2 {
		t.Errorf("expected 2 flushes, got %d", f.decoder.FlushCount)
	}
}

func TestExecute_FatalErrors(t *testing.T) {
	t.Run("send", func(t *testing.T) {
		f := newFixture(mocks.PacketSpec{Stream: 0})
		f.decoder.SendErr = &ports.StatusError{Op: "avcodec_send_packet", Code: -22, Text: "Invalid argument"}
		if _, err := f.stage.Execute(context.Background(), f.input(0)); !errors.Is(err, ErrSendPacket) {
			t.Errorf("expected ErrSendPacket, got %v", err)
		}
		if f.packet.UnrefCount != 1 {
			t.Error("expected packet unreferenced on error")
		}
	})

	t.Run("receive", func(t *testing.T) {
		f := newFixture(mocks.PacketSpec{Stream: 0})
		f.decoder.ReceiveErr = &ports.StatusError{Op: "avcodec_receive_frame", Code: -1094995529, Text: "Invalid data found when processing input"}
		if _, err := f.stage.Execute(context.Background(), f.input(0)); !errors.Is(err, ErrReceiveFrame) {
			t.Errorf("expected ErrReceiveFrame, got %v", err)
		}
	})

	t.Run("read", func(t *testing.T) {
		f := newFixture(mocks.PacketSpec{Stream: 1}, mocks.PacketSpec{Stream: 0})
		f.demuxer.ReadErr = &ports.StatusError{Op: "av_read_frame", Code: -5, Text: "Input/output error"}
		f.demuxer.ReadErrAt = 1
		if _, err := f.stage.Execute(context.Background(), f.input(0)); !errors.Is(err, ErrReadPacket) {
			t.Errorf("expected ErrReadPacket, got %v", err)
		}
	})

	t.Run("invalid rate", func(t *testing.T) {
		f := newFixture(mocks.PacketSpec{Stream: 0})
		in := f.input(1)
		in.FrameRate = ports.Rational{}
		if _, err := f.stage.Execute(context.Background(), in); !errors.Is(err, ErrInvalidRate) {
			t.Errorf("expected ErrInvalidRate, got %v", err)
		}
		if f.demuxer.Reads != 0 {
			t.Error("expected no packets read")
		}
	})
}

func TestExecute_ContextCancelled(t *testing.T) {
	f := newFixture(mocks.PacketSpec{Stream: 0})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.stage.Execute(ctx, f.input(0)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
