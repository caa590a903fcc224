package scenedetect

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"talktrack/internal/track"
)

var commandContext = exec.CommandContext

// Segmenter defines shot segmentation behaviour.
type Segmenter interface {
	// DetectShots segments videoPath into ordered, non-overlapping shots.
	// totalFrames bounds the result and drives the whole-video fallback.
	DetectShots(ctx context.Context, videoPath string, totalFrames int) ([]track.Shot, error)
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

// CLI wraps the scenedetect command line tool.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "scenedetect"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// DetectShots runs content-based scene detection and parses the CSV scene
// list. Frame numbers in the CSV are 1-based with inclusive ends; the
// returned shots are 0-based with inclusive ends.
func (c *CLI) DetectShots(ctx context.Context, videoPath string, totalFrames int) ([]track.Shot, error) {
	if videoPath == "" {
		return nil, errors.New("video path required")
	}
	if totalFrames <= 0 {
		return nil, fmt.Errorf("invalid frame count %d", totalFrames)
	}

	outDir, err := os.MkdirTemp("", "talktrack-scenes-")
	if err != nil {
		return nil, fmt.Errorf("scene list temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		"--input", videoPath,
		"--output", outDir,
		"detect-content",
		"list-scenes",
		"--quiet",
		"--filename", "scenes.csv",
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("scenedetect: %w: %s", err, detail)
		}
		return nil, fmt.Errorf("scenedetect: %w", err)
	}

	shots, err := parseSceneCSV(filepath.Join(outDir, "scenes.csv"), totalFrames)
	if err != nil {
		return nil, err
	}
	if len(shots) == 0 {
		shots = []track.Shot{{Start: 0, End: totalFrames - 1}}
	}
	return shots, nil
}

func parseSceneCSV(path string, totalFrames int) ([]track.Shot, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open scene list: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	startCol, endCol := -1, -1
	var shots []track.Shot
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		if startCol < 0 {
			for i, field := range record {
				switch strings.TrimSpace(field) {
				case "Start Frame":
					startCol = i
				case "End Frame":
					endCol = i
				}
			}
			continue
		}
		if endCol < 0 || len(record) <= endCol || len(record) <= startCol {
			continue
		}
		start, err1 := strconv.Atoi(strings.TrimSpace(record[startCol]))
		end, err2 := strconv.Atoi(strings.TrimSpace(record[endCol]))
		if err1 != nil || err2 != nil {
			continue
		}
		// CSV frames are 1-based.
		shot := track.Shot{Start: start - 1, End: end - 1}
		if shot.Start < 0 {
			shot.Start = 0
		}
		if shot.End > totalFrames-1 {
			shot.End = totalFrames - 1
		}
		if shot.End < shot.Start {
			continue
		}
		shots = append(shots, shot)
	}
	return shots, nil
}

var _ Segmenter = (*CLI)(nil)
