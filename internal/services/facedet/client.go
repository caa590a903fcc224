package facedet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"talktrack/internal/track"
)

var commandContext = exec.CommandContext

// Face is one detection reported for a still frame.
type Face struct {
	Box        track.Box
	Confidence float64
}

// Detector defines per-frame face detection behaviour.
type Detector interface {
	// DetectFile returns the faces found in the still frame at imagePath.
	// An empty slice means no faces; an error means this frame failed and
	// should be treated as face-free by the caller.
	DetectFile(ctx context.Context, imagePath string) ([]Face, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithMinConfidence sets the confidence floor below which detections are dropped.
func WithMinConfidence(threshold float64) Option {
	return func(c *CLI) {
		c.minConfidence = threshold
	}
}

// CLI wraps the external face detector binary.
type CLI struct {
	binary        string
	minConfidence float64
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "facedet", minConfidence: 0.5}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// detectorOutput is the wire format the detector binary emits: one entry
// per face with a top-left corner, extent, and confidence.
type detectorOutput struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	W          float64 `json:"w"`
	H          float64 `json:"h"`
	Confidence float64 `json:"confidence"`
}

func (c *CLI) DetectFile(ctx context.Context, imagePath string) ([]Face, error) {
	if imagePath == "" {
		return nil, errors.New("image path required")
	}

	cmd := commandContext(ctx, c.binary, "--image", imagePath) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("face detector: %w: %s", err, detail)
		}
		return nil, fmt.Errorf("face detector: %w", err)
	}

	var raw []detectorOutput
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return nil, fmt.Errorf("face detector output: %w", err)
	}

	faces := make([]Face, 0, len(raw))
	for _, det := range raw {
		if det.Confidence < c.minConfidence {
			continue
		}
		// Degenerate boxes must never reach the tracker.
		if det.W <= 0 || det.H <= 0 {
			continue
		}
		faces = append(faces, Face{
			Box: track.Box{
				X0: det.X,
				Y0: det.Y,
				X1: det.X + det.W,
				Y1: det.Y + det.H,
			},
			Confidence: det.Confidence,
		})
	}
	return faces, nil
}

var _ Detector = (*CLI)(nil)
