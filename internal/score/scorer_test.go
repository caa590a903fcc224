package score

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
)

// indexModel scores each frame with its index within the window, so the
// ensemble result has a closed form per duration.
type indexModel struct{}

func (indexModel) AudioFrontend(_ context.Context, window [][]float64) (json.RawMessage, error) {
	return json.Marshal(len(window))
}

func (indexModel) VideoFrontend(_ context.Context, window [][][]float64) (json.RawMessage, error) {
	return json.Marshal(len(window))
}

func (indexModel) CrossAttention(_ context.Context, audio, video json.RawMessage) (json.RawMessage, json.RawMessage, error) {
	return audio, video, nil
}

func (indexModel) ScoreHead(_ context.Context, _, video json.RawMessage) ([]float64, error) {
	var frames int
	if err := json.Unmarshal(video, &frames); err != nil {
		return nil, err
	}
	scores := make([]float64, frames)
	for i := range scores {
		scores[i] = float64(i)
	}
	return scores, nil
}

// constantModel scores every frame with a fixed value.
type constantModel struct{ value float64 }

func (constantModel) AudioFrontend(_ context.Context, window [][]float64) (json.RawMessage, error) {
	return json.Marshal(len(window))
}

func (constantModel) VideoFrontend(_ context.Context, window [][][]float64) (json.RawMessage, error) {
	return json.Marshal(len(window))
}

func (constantModel) CrossAttention(_ context.Context, audio, video json.RawMessage) (json.RawMessage, json.RawMessage, error) {
	return audio, video, nil
}

func (m constantModel) ScoreHead(_ context.Context, _, video json.RawMessage) ([]float64, error) {
	var frames int
	if err := json.Unmarshal(video, &frames); err != nil {
		return nil, err
	}
	scores := make([]float64, frames)
	for i := range scores {
		scores[i] = m.value
	}
	return scores, nil
}

type failingModel struct{ constantModel }

func (failingModel) CrossAttention(context.Context, json.RawMessage, json.RawMessage) (json.RawMessage, json.RawMessage, error) {
	return nil, nil, errors.New("device lost")
}

func TestScoreTrackClosedForm(t *testing.T) {
	// Two seconds with durations 1s (weight 2) and 2s (weight 1). The 1s
	// pass scores i mod 25, the 2s pass scores i, so the fused score is
	// (2*(i mod 25) + i) / 3 rounded to one decimal.
	audioFeat, videoFeat := makeStreams(200, 50)
	scorer := NewScorer(indexModel{}, []DurationWeight{
		{Seconds: 1, Weight: 2},
		{Seconds: 2, Weight: 1},
	})

	scores, err := scorer.ScoreTrack(context.Background(), audioFeat, videoFeat)
	if err != nil {
		t.Fatalf("ScoreTrack returned error: %v", err)
	}
	if len(scores) != 50 {
		t.Fatalf("score count: got %d want 50", len(scores))
	}
	for i, got := range scores {
		want := math.RoundToEven((2*float64(i%25)+float64(i))/3*10) / 10
		if got != want {
			t.Fatalf("frame %d: got %f want %f", i, got, want)
		}
	}
	if scores[30] != 13.3 {
		t.Fatalf("frame 30: got %f want 13.3", scores[30])
	}
	if scores[24] != 24.0 {
		t.Fatalf("frame 24: got %f want 24.0", scores[24])
	}
}

func TestScoreTrackOrderIndependent(t *testing.T) {
	audioFeat, videoFeat := makeStreams(200, 50)
	forward := NewScorer(indexModel{}, []DurationWeight{{Seconds: 1, Weight: 2}, {Seconds: 2, Weight: 1}})
	reversed := NewScorer(indexModel{}, []DurationWeight{{Seconds: 2, Weight: 1}, {Seconds: 1, Weight: 2}})

	a, err := forward.ScoreTrack(context.Background(), audioFeat, videoFeat)
	if err != nil {
		t.Fatal(err)
	}
	b, err := reversed.ScoreTrack(context.Background(), audioFeat, videoFeat)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("frame %d: order changed the result: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestScoreTrackRoundsHalfToEven(t *testing.T) {
	audioFeat, videoFeat := makeStreams(100, 25)

	scores, err := NewScorer(constantModel{value: 0.25}, []DurationWeight{{Seconds: 1, Weight: 1}}).
		ScoreTrack(context.Background(), audioFeat, videoFeat)
	if err != nil {
		t.Fatal(err)
	}
	if scores[0] != 0.2 {
		t.Fatalf("0.25 rounds to %f, want 0.2", scores[0])
	}

	scores, err = NewScorer(constantModel{value: 0.35}, []DurationWeight{{Seconds: 1, Weight: 1}}).
		ScoreTrack(context.Background(), audioFeat, videoFeat)
	if err != nil {
		t.Fatal(err)
	}
	if scores[0] != 0.4 {
		t.Fatalf("0.35 rounds to %f, want 0.4", scores[0])
	}
}

func TestScoreTrackPartialFinalWindow(t *testing.T) {
	// 1.6 s with a 1 s duration: second window covers only 15 frames.
	audioFeat, videoFeat := makeStreams(160, 40)
	scores, err := NewScorer(indexModel{}, []DurationWeight{{Seconds: 1, Weight: 1}}).
		ScoreTrack(context.Background(), audioFeat, videoFeat)
	if err != nil {
		t.Fatalf("ScoreTrack returned error: %v", err)
	}
	if len(scores) != 40 {
		t.Fatalf("score count: got %d want 40", len(scores))
	}
	if scores[25] != 0 || scores[39] != 14 {
		t.Fatalf("partial window scores wrong: %f %f", scores[25], scores[39])
	}
}

func TestScoreTrackEmptyInput(t *testing.T) {
	scores, err := NewScorer(indexModel{}, nil).ScoreTrack(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("ScoreTrack returned error: %v", err)
	}
	if scores != nil {
		t.Fatalf("expected nil scores, got %v", scores)
	}
}

func TestScoreTrackModelFailure(t *testing.T) {
	audioFeat, videoFeat := makeStreams(100, 25)
	_, err := NewScorer(failingModel{}, nil).ScoreTrack(context.Background(), audioFeat, videoFeat)
	if err == nil {
		t.Fatal("expected error from failing model")
	}
}

func TestScoreTrackCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	audioFeat, videoFeat := makeStreams(100, 25)
	if _, err := NewScorer(indexModel{}, nil).ScoreTrack(ctx, audioFeat, videoFeat); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestClassicDurationsTotalWeight(t *testing.T) {
	var total int
	for _, dw := range ClassicDurations() {
		total += dw.Weight
	}
	if total != 11 {
		t.Fatalf("total weight: got %d want 11", total)
	}
}
