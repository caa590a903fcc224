package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// writeStub installs a shell script that records its arguments and exits
// with the given status.
func writeStub(t *testing.T, exitCode int) (binary, argsFile string) {
	t.Helper()
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	binary = filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\nexit " + strconv.Itoa(exitCode) + "\n"
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return binary, argsFile
}

func TestExtractVideoArguments(t *testing.T) {
	binary, argsFile := writeStub(t, 0)
	cli := NewCLI(WithBinary(binary), WithThreads(4))

	if err := cli.ExtractVideo(context.Background(), "in.mp4", "out.avi"); err != nil {
		t.Fatalf("ExtractVideo returned error: %v", err)
	}

	raw, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	args := strings.TrimSpace(string(raw))
	for _, want := range []string{"-r 25", "-threads 4", "-async 1", "in.mp4", "out.avi", "-loglevel error"} {
		if !strings.Contains(args, want) {
			t.Fatalf("expected %q in args %q", want, args)
		}
	}
}

func TestTrimAudioArguments(t *testing.T) {
	binary, argsFile := writeStub(t, 0)
	cli := NewCLI(WithBinary(binary))

	if err := cli.TrimAudio(context.Background(), "audio.wav", "slice.wav", 1.2, 3.48); err != nil {
		t.Fatalf("TrimAudio returned error: %v", err)
	}

	raw, _ := os.ReadFile(argsFile)
	args := string(raw)
	for _, want := range []string{"-ss 1.200", "-to 3.480", "-ar 16000", "pcm_s16le"} {
		if !strings.Contains(args, want) {
			t.Fatalf("expected %q in args %q", want, args)
		}
	}
}

func TestTrimAudioRejectsEmptySpan(t *testing.T) {
	cli := NewCLI()
	if err := cli.TrimAudio(context.Background(), "a.wav", "b.wav", 2.0, 2.0); err == nil {
		t.Fatal("expected error for empty trim span")
	}
}

func TestNonZeroExitIsError(t *testing.T) {
	binary, _ := writeStub(t, 1)
	cli := NewCLI(WithBinary(binary))

	err := cli.Mux(context.Background(), "v.avi", "a.wav", "out.avi")
	if err == nil {
		t.Fatal("expected error for non-zero ffmpeg exit")
	}
	if !strings.Contains(err.Error(), "mux") {
		t.Fatalf("expected operation name in error, got %v", err)
	}
}

func TestMuxValidatesPaths(t *testing.T) {
	cli := NewCLI()
	if err := cli.Mux(context.Background(), "", "a.wav", "out.avi"); err == nil {
		t.Fatal("expected error for missing video path")
	}
}
