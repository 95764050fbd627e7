// Package mp4probe inspects MP4 containers before decoding: the video codec,
// sample count, timescale and sync samples of the first video track.
package mp4probe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Eyevinn/mp4ff/mp4"
)

var (
	ErrNotMP4       = errors.New("mp4probe: not an MP4 file")
	ErrNoVideoTrack = errors.New("mp4probe: no video track found")
)

// Report describes the first video track of an MP4 file.
type Report struct {
	Codec       string
	SampleCount int
	Timescale   uint32
	SyncSamples []int64 // 0-based sample indices, ascending
	Fragmented  bool
	Width       int
	Height      int
}

// KeyframeAtOrBefore returns the last sync sample at or before index.
func (r Report) KeyframeAtOrBefore(index int64) (int64, bool) {
	i := sort.Search(len(r.SyncSamples), func(i int) bool { return r.SyncSamples[i] > index })
	if i == 0 {
		return 0, false
	}
	return r.SyncSamples[i-1], true
}

// Prober probes files on disk.
type Prober struct{}

// New creates a new Prober.
func New() *Prober {
	return &Prober{}
}

// Probe opens path and probes it. Files that do not start with an MP4 box
// fail with ErrNotMP4.
func (p *Prober) Probe(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeReader probes an MP4 stream.
func ProbeReader(reader io.ReadSeeker) (Report, error) {
	var head [8]byte
	if _, err := io.ReadFull(reader, head[:]); err != nil {
		return Report{}, ErrNotMP4
	}
	switch string(head[4:8]) {
	case "ftyp", "moov", "styp":
	default:
		return Report{}, ErrNotMP4
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return Report{}, fmt.Errorf("seek: %w", err)
	}

	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return Report{}, fmt.Errorf("decode mp4: %w", err)
	}

	if mp4File.IsFragmented() {
		return probeFragmented(mp4File)
	}
	return probeProgressive(mp4File)
}

func probeProgressive(mp4File *mp4.File) (Report, error) {
	if mp4File.Moov == nil {
		return Report{}, ErrNoVideoTrack
	}
	trak := videoTrack(mp4File.Moov)
	if trak == nil {
		return Report{}, ErrNoVideoTrack
	}

	report := describeTrack(trak)
	report.SampleCount, report.SyncSamples = samplesFromStbl(trak.Mdia.Minf.Stbl)
	return report, nil
}

func probeFragmented(mp4File *mp4.File) (Report, error) {
	if mp4File.Init == nil || mp4File.Init.Moov == nil {
		return Report{}, ErrNoVideoTrack
	}
	moov := mp4File.Init.Moov
	trak := videoTrack(moov)
	if trak == nil {
		return Report{}, ErrNoVideoTrack
	}

	report := describeTrack(trak)
	report.Fragmented = true

	trackID := trak.Tkhd.TrackID
	var trex *mp4.TrexBox
	if moov.Mvex != nil {
		for _, t := range moov.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil || !hasTraf(frag.Moof, trackID) {
				continue
			}
			samples, err := frag.GetFullSamples(trex)
			if err != nil {
				return Report{}, fmt.Errorf("get samples: %w", err)
			}
			for _, sample := range samples {
				if sample.IsSync() {
					report.SyncSamples = append(report.SyncSamples, int64(report.SampleCount))
				}
				report.SampleCount++
			}
		}
	}
	return report, nil
}

func hasTraf(moof *mp4.MoofBox, trackID uint32) bool {
	for _, traf := range moof.Trafs {
		if traf.Tfhd != nil && traf.Tfhd.TrackID == trackID {
			return true
		}
	}
	return false
}

func videoTrack(moov *mp4.MoovBox) *mp4.TrakBox {
	for _, trak := range moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
			continue
		}
		return trak
	}
	return nil
}

func describeTrack(trak *mp4.TrakBox) Report {
	report := Report{Codec: "unknown"}
	if trak.Mdia.Mdhd != nil {
		report.Timescale = trak.Mdia.Mdhd.Timescale
	}
	stsd := trak.Mdia.Minf.Stbl.Stsd
	if stsd == nil {
		return report
	}
	for _, child := range stsd.Children {
		report.Codec = codecName(child.Type())
		if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
			report.Width = int(vse.Width)
			report.Height = int(vse.Height)
		}
		if report.Codec != "unknown" {
			break
		}
	}
	return report
}

func codecName(sampleEntry string) string {
	switch sampleEntry {
	case "avc1", "avc3":
		return "h264"
	case "hvc1", "hev1":
		return "hevc"
	case "av01":
		return "av1"
	case "vp09":
		return "vp9"
	case "mp4v":
		return "mpeg4"
	}
	return "unknown"
}

// samplesFromStbl reads the sample count and sync samples of a progressive
// track. A missing stss box means every sample is a sync sample.
func samplesFromStbl(stbl *mp4.StblBox) (int, []int64) {
	if stbl.Stsz == nil {
		return 0, nil
	}
	count := int(stbl.Stsz.SampleNumber)

	var sync []int64
	if stbl.Stss == nil {
		sync = make([]int64, count)
		for i := range sync {
			sync[i] = int64(i)
		}
		return count, sync
	}
	for _, n := range stbl.Stss.SampleNumber {
		sync = append(sync, int64(n)-1)
	}
	return count, sync
}
