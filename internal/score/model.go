package score

import (
	"context"
	"encoding/json"
)

// Model is the four-stage forward path of the speaking classifier. The
// embeddings are opaque payloads owned by the model process; this package
// only routes them between stages.
type Model interface {
	AudioFrontend(ctx context.Context, window [][]float64) (json.RawMessage, error)
	VideoFrontend(ctx context.Context, window [][][]float64) (json.RawMessage, error)
	CrossAttention(ctx context.Context, audio, video json.RawMessage) (json.RawMessage, json.RawMessage, error)
	ScoreHead(ctx context.Context, audio, video json.RawMessage) ([]float64, error)
}
