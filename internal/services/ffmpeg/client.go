package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// AudioRate is the sample rate every extracted or trimmed audio stream uses.
const AudioRate = 16000

// FrameRate is the working video frame rate.
const FrameRate = 25

// Client defines the media tool behaviour stages depend on.
type Client interface {
	// ExtractVideo re-encodes src to a constant FrameRate working copy.
	ExtractVideo(ctx context.Context, src, dst string) error
	// ExtractAudio pulls a mono AudioRate WAV from src.
	ExtractAudio(ctx context.Context, src, dst string) error
	// ExtractFrames dumps numbered JPEG stills matching pattern (e.g. %06d.jpg).
	ExtractFrames(ctx context.Context, src, pattern string) error
	// TrimAudio writes the [start,end) span of src as PCM WAV.
	TrimAudio(ctx context.Context, src, dst string, start, end float64) error
	// Mux combines a video stream and an audio stream without re-encoding.
	Mux(ctx context.Context, video, audio, dst string) error
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

// WithThreads sets the thread count passed to every invocation.
func WithThreads(threads int) Option {
	return func(c *CLI) {
		if threads > 0 {
			c.threads = threads
		}
	}
}

// CLI wraps the ffmpeg command line tool.
type CLI struct {
	binary  string
	threads int
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", threads: 10}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

func (c *CLI) ExtractVideo(ctx context.Context, src, dst string) error {
	if src == "" || dst == "" {
		return errors.New("source and destination paths required")
	}
	return c.run(ctx, "extract video",
		"-y", "-i", src,
		"-qscale:v", "2",
		"-threads", strconv.Itoa(c.threads),
		"-async", "1",
		"-r", strconv.Itoa(FrameRate),
		dst,
	)
}

func (c *CLI) ExtractAudio(ctx context.Context, src, dst string) error {
	if src == "" || dst == "" {
		return errors.New("source and destination paths required")
	}
	return c.run(ctx, "extract audio",
		"-y", "-i", src,
		"-qscale:a", "0",
		"-ac", "1",
		"-vn",
		"-threads", strconv.Itoa(c.threads),
		"-ar", strconv.Itoa(AudioRate),
		dst,
	)
}

func (c *CLI) ExtractFrames(ctx context.Context, src, pattern string) error {
	if src == "" || pattern == "" {
		return errors.New("source path and frame pattern required")
	}
	return c.run(ctx, "extract frames",
		"-y", "-i", src,
		"-qscale:v", "2",
		"-threads", strconv.Itoa(c.threads),
		"-f", "image2",
		pattern,
	)
}

func (c *CLI) TrimAudio(ctx context.Context, src, dst string, start, end float64) error {
	if src == "" || dst == "" {
		return errors.New("source and destination paths required")
	}
	if end <= start {
		return fmt.Errorf("invalid trim span: %.3f..%.3f", start, end)
	}
	return c.run(ctx, "trim audio",
		"-y", "-i", src,
		"-async", "1",
		"-ac", "1",
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(AudioRate),
		"-threads", strconv.Itoa(c.threads),
		"-ss", fmt.Sprintf("%.3f", start),
		"-to", fmt.Sprintf("%.3f", end),
		dst,
	)
}

func (c *CLI) Mux(ctx context.Context, video, audio, dst string) error {
	if video == "" || audio == "" || dst == "" {
		return errors.New("video, audio, and destination paths required")
	}
	return c.run(ctx, "mux",
		"-y", "-i", video,
		"-i", audio,
		"-threads", strconv.Itoa(c.threads),
		"-c:v", "copy",
		"-c:a", "copy",
		dst,
	)
}

// run executes ffmpeg with the standard log level and surfaces the stderr
// tail on failure. The original pipeline ignored exit codes and silently
// produced corrupt artifacts; here a non-zero exit is always an error.
func (c *CLI) run(ctx context.Context, operation string, args ...string) error {
	full := append([]string{}, args...)
	full = append(full, "-loglevel", "error")

	cmd := commandContext(ctx, c.binary, full...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			detail = tail(detail, 4)
			return fmt.Errorf("ffmpeg %s: %w: %s", operation, err, detail)
		}
		return fmt.Errorf("ffmpeg %s: %w", operation, err)
	}
	return nil
}

func tail(s string, lines int) string {
	parts := strings.Split(s, "\n")
	if len(parts) <= lines {
		return s
	}
	return strings.Join(parts[len(parts)-lines:], "\n")
}

var _ Client = (*CLI)(nil)
