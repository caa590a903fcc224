package talknet

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

var commandContext = exec.CommandContext

// maxResponseBytes bounds a single runner response line. Video embeddings
// for a six second window dominate; 64 MiB leaves ample headroom.
const maxResponseBytes = 64 << 20

// Option configures the runner.
type Option func(*Runner)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(r *Runner) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// Runner manages the scoring model subprocess.
type Runner struct {
	binary string

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	scanner *bufio.Scanner
}

// NewRunner constructs a runner using defaults. Start must be called before
// any model operation.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{binary: "talknet-runner"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the model subprocess. The context bounds the lifetime of
// the whole process, not individual requests.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd != nil {
		return errors.New("runner already started")
	}

	cmd := commandContext(ctx, r.binary) //nolint:gosec
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start model runner: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 1<<20), maxResponseBytes)

	r.cmd = cmd
	r.stdin = stdin
	r.scanner = scanner
	return nil
}

// Close shuts the subprocess down and waits for it to exit.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd == nil {
		return nil
	}
	_ = r.stdin.Close()
	err := r.cmd.Wait()
	r.cmd = nil
	return err
}

type request struct {
	Op    string          `json:"op"`
	Input json.RawMessage `json:"input,omitempty"`
	Audio json.RawMessage `json:"audio,omitempty"`
	Video json.RawMessage `json:"video,omitempty"`
}

type response struct {
	Output json.RawMessage `json:"output,omitempty"`
	Audio  json.RawMessage `json:"audio,omitempty"`
	Video  json.RawMessage `json:"video,omitempty"`
	Scores []float64       `json:"scores,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// AudioFrontend encodes one window of MFCC features.
func (r *Runner) AudioFrontend(ctx context.Context, window [][]float64) (json.RawMessage, error) {
	input, err := json.Marshal(window)
	if err != nil {
		return nil, fmt.Errorf("marshal audio window: %w", err)
	}
	resp, err := r.call(ctx, request{Op: "audio_frontend", Input: input})
	if err != nil {
		return nil, err
	}
	return resp.Output, nil
}

// VideoFrontend encodes one window of face crop frames.
func (r *Runner) VideoFrontend(ctx context.Context, window [][][]float64) (json.RawMessage, error) {
	input, err := json.Marshal(window)
	if err != nil {
		return nil, fmt.Errorf("marshal video window: %w", err)
	}
	resp, err := r.call(ctx, request{Op: "video_frontend", Input: input})
	if err != nil {
		return nil, err
	}
	return resp.Output, nil
}

// CrossAttention fuses the two embeddings and returns the attended pair.
func (r *Runner) CrossAttention(ctx context.Context, audio, video json.RawMessage) (json.RawMessage, json.RawMessage, error) {
	resp, err := r.call(ctx, request{Op: "cross_attention", Audio: audio, Video: video})
	if err != nil {
		return nil, nil, err
	}
	return resp.Audio, resp.Video, nil
}

// ScoreHead produces one speaking score per video frame of the window.
func (r *Runner) ScoreHead(ctx context.Context, audio, video json.RawMessage) ([]float64, error) {
	resp, err := r.call(ctx, request{Op: "score_head", Audio: audio, Video: video})
	if err != nil {
		return nil, err
	}
	return resp.Scores, nil
}

func (r *Runner) call(ctx context.Context, req request) (*response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd == nil {
		return nil, errors.New("runner not started")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	payload = append(payload, '\n')
	if _, err := r.stdin.Write(payload); err != nil {
		return nil, fmt.Errorf("write %s request: %w", req.Op, err)
	}

	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, fmt.Errorf("read %s response: %w", req.Op, err)
		}
		return nil, fmt.Errorf("model runner closed stream during %s", req.Op)
	}

	var resp response
	if err := json.Unmarshal(r.scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", req.Op, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("model runner %s: %s", req.Op, resp.Error)
	}
	return &resp, nil
}
