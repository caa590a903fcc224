package score

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DurationWeight weights one window duration's contribution to the ensemble.
type DurationWeight struct {
	Seconds int
	Weight  int
}

// ClassicDurations reproduces the original eleven-pass multiset
// {1,1,1,2,2,2,3,3,4,5,6} as an explicit weight table.
func ClassicDurations() []DurationWeight {
	return []DurationWeight{
		{Seconds: 1, Weight: 3},
		{Seconds: 2, Weight: 3},
		{Seconds: 3, Weight: 2},
		{Seconds: 4, Weight: 1},
		{Seconds: 5, Weight: 1},
		{Seconds: 6, Weight: 1},
	}
}

// Scorer runs the multi-scale ensemble for one track at a time.
type Scorer struct {
	model     Model
	durations []DurationWeight
}

// NewScorer constructs a scorer. A nil or empty duration table falls back to
// the classic multiset.
func NewScorer(model Model, durations []DurationWeight) *Scorer {
	if len(durations) == 0 {
		durations = ClassicDurations()
	}
	return &Scorer{model: model, durations: durations}
}

// ScoreTrack aligns the feature streams, runs one scoring pass per configured
// duration, and fuses the passes into a single per-frame series rounded to
// one decimal place.
func (s *Scorer) ScoreTrack(ctx context.Context, audioFeat [][]float64, videoFeat [][][]float64) ([]float64, error) {
	audioFeat, videoFeat, seconds := Align(audioFeat, videoFeat)
	if len(videoFeat) == 0 {
		return nil, nil
	}

	passes := make([][]float64, 0, len(s.durations))
	weights := make([]float64, 0, len(s.durations))
	for _, dw := range s.durations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		series, err := s.scorePass(ctx, audioFeat, videoFeat, seconds, dw.Seconds)
		if err != nil {
			return nil, fmt.Errorf("duration %ds pass: %w", dw.Seconds, err)
		}
		passes = append(passes, series)
		weights = append(weights, float64(dw.Weight))
	}

	final := make([]float64, len(videoFeat))
	values := make([]float64, len(passes))
	for i := range final {
		for p, series := range passes {
			values[p] = series[i]
		}
		final[i] = math.RoundToEven(stat.Mean(values, weights)*10) / 10
	}
	return final, nil
}

// scorePass partitions the aligned streams into consecutive windows of the
// given duration and concatenates the model's per-frame scores. The final
// window may be shorter than the duration.
func (s *Scorer) scorePass(ctx context.Context, audioFeat [][]float64, videoFeat [][][]float64, seconds float64, duration int) ([]float64, error) {
	numWindows := int(math.Ceil(seconds / float64(duration)))
	series := make([]float64, 0, len(videoFeat))
	for w := 0; w < numWindows; w++ {
		audioWindow := sliceWindow(audioFeat, w, duration*AudioRate)
		videoWindow := sliceWindow(videoFeat, w, duration*VideoRate)
		if len(videoWindow) == 0 {
			break
		}

		audioEmbed, err := s.model.AudioFrontend(ctx, audioWindow)
		if err != nil {
			return nil, fmt.Errorf("audio frontend: %w", err)
		}
		videoEmbed, err := s.model.VideoFrontend(ctx, videoWindow)
		if err != nil {
			return nil, fmt.Errorf("video frontend: %w", err)
		}
		audioEmbed, videoEmbed, err = s.model.CrossAttention(ctx, audioEmbed, videoEmbed)
		if err != nil {
			return nil, fmt.Errorf("cross attention: %w", err)
		}
		scores, err := s.model.ScoreHead(ctx, audioEmbed, videoEmbed)
		if err != nil {
			return nil, fmt.Errorf("score head: %w", err)
		}
		if len(scores) != len(videoWindow) {
			return nil, fmt.Errorf("model returned %d scores for %d frames", len(scores), len(videoWindow))
		}
		series = append(series, scores...)
	}
	if len(series) != len(videoFeat) {
		return nil, fmt.Errorf("pass produced %d scores for %d frames", len(series), len(videoFeat))
	}
	return series, nil
}

func sliceWindow[T any](seq []T, window, size int) []T {
	start := window * size
	if start >= len(seq) {
		return nil
	}
	end := start + size
	if end > len(seq) {
		end = len(seq)
	}
	return seq[start:end]
}
