package track

import (
	"gonum.org/v1/gonum/stat"

	"talktrack/internal/config"
)

// Builder associates detections into tracks using greedy IOU matching.
type Builder struct {
	iouThreshold   float64
	maxGapFrames   int
	minTrackLength int
	minFaceSize    float64
}

// NewBuilder constructs a Builder from tracker configuration.
func NewBuilder(cfg config.Tracker) *Builder {
	return &Builder{
		iouThreshold:   cfg.IOUThreshold,
		maxGapFrames:   cfg.MaxGapFrames,
		minTrackLength: cfg.MinTrackLength,
		minFaceSize:    cfg.MinFaceSize,
	}
}

// Build runs track building over every shot. detections holds one slice per
// absolute frame of the video. Shots too short to ever satisfy the minimum
// track length are skipped outright.
func (b *Builder) Build(shots []Shot, detections [][]Detection) ([]Track, error) {
	var tracks []Track
	for _, shot := range shots {
		if shot.Len() <= b.minTrackLength {
			continue
		}
		end := shot.End + 1
		if end > len(detections) {
			end = len(detections)
		}
		if shot.Start >= end {
			continue
		}
		shotTracks, err := b.BuildShot(detections[shot.Start:end])
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, shotTracks...)
	}
	return tracks, nil
}

// BuildShot associates one shot's detections into zero or more tracks. The
// caller's slices are never mutated; assignment removes detections from a
// private copy of the pool.
func (b *Builder) BuildShot(frames [][]Detection) ([]Track, error) {
	pool := make([][]Detection, len(frames))
	for i, dets := range frames {
		pool[i] = append([]Detection(nil), dets...)
	}

	var tracks []Track
	for {
		candidate := b.collect(pool)
		if len(candidate) == 0 {
			return tracks, nil
		}
		if len(candidate) <= b.minTrackLength {
			continue
		}
		trk, err := interpolate(candidate)
		if err != nil {
			return nil, err
		}
		if b.faceExtent(trk) <= b.minFaceSize {
			continue
		}
		tracks = append(tracks, trk)
	}
}

// collect performs one greedy pass over the pool, consuming the detections it
// adopts. The first detection whose IOU with the track's last box clears the
// threshold wins; better matches later in the same frame are not considered.
func (b *Builder) collect(pool [][]Detection) []Detection {
	var candidate []Detection
	for fi := range pool {
		di := 0
	scan:
		for di < len(pool[fi]) {
			det := pool[fi][di]
			switch {
			case len(candidate) == 0:
				// Seed unconditionally, no confidence or IOU check.
				candidate = append(candidate, det)
				pool[fi] = append(pool[fi][:di], pool[fi][di+1:]...)
			case det.Frame-candidate[len(candidate)-1].Frame <= b.maxGapFrames:
				if IOU(det.Box, candidate[len(candidate)-1].Box) > b.iouThreshold {
					candidate = append(candidate, det)
					pool[fi] = append(pool[fi][:di], pool[fi][di+1:]...)
				} else {
					di++
				}
			default:
				// Gap too large to bridge; give up on this frame.
				break scan
			}
		}
	}
	return candidate
}

// faceExtent returns the larger of the mean width and mean height across the
// interpolated boxes.
func (b *Builder) faceExtent(trk Track) float64 {
	widths := make([]float64, len(trk.Boxes))
	heights := make([]float64, len(trk.Boxes))
	for i, box := range trk.Boxes {
		widths[i] = box.Width()
		heights[i] = box.Height()
	}
	return max(stat.Mean(widths, nil), stat.Mean(heights, nil))
}
