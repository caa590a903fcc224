package facedet

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func stubDetector(t *testing.T, stdout string, exitCode int) string {
	t.Helper()
	dir := t.TempDir()
	binary := filepath.Join(dir, "facedet")
	script := "#!/bin/sh\ncat <<'EOF'\n" + stdout + "\nEOF\n"
	if exitCode != 0 {
		script = "#!/bin/sh\necho boom >&2\nexit 1\n"
	}
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return binary
}

func TestDetectFileFiltersLowConfidenceAndDegenerate(t *testing.T) {
	out := `[
 {"x": 10, "y": 20, "w": 40, "h": 50, "confidence": 0.9},
 {"x": 5, "y": 5, "w": 10, "h": 10, "confidence": 0.3},
 {"x": 1, "y": 1, "w": 0, "h": 10, "confidence": 0.95}
]`
	cli := NewCLI(WithBinary(stubDetector(t, out, 0)))

	faces, err := cli.DetectFile(context.Background(), "frame.jpg")
	if err != nil {
		t.Fatalf("DetectFile returned error: %v", err)
	}
	if len(faces) != 1 {
		t.Fatalf("expected 1 face after filtering, got %d", len(faces))
	}
	face := faces[0]
	if face.Box.X0 != 10 || face.Box.Y0 != 20 || face.Box.X1 != 50 || face.Box.Y1 != 70 {
		t.Fatalf("unexpected box: %+v", face.Box)
	}
	if face.Confidence != 0.9 {
		t.Fatalf("unexpected confidence: %v", face.Confidence)
	}
}

func TestDetectFileEmptyOutput(t *testing.T) {
	cli := NewCLI(WithBinary(stubDetector(t, "[]", 0)))
	faces, err := cli.DetectFile(context.Background(), "frame.jpg")
	if err != nil {
		t.Fatalf("DetectFile returned error: %v", err)
	}
	if len(faces) != 0 {
		t.Fatalf("expected no faces, got %d", len(faces))
	}
}

func TestDetectFileFailureIsError(t *testing.T) {
	cli := NewCLI(WithBinary(stubDetector(t, "", 1)))
	if _, err := cli.DetectFile(context.Background(), "frame.jpg"); err == nil {
		t.Fatal("expected error for failing detector")
	}
}
