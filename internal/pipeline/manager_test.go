package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"talktrack/internal/runstore"
	"talktrack/internal/services/facedet"
	"talktrack/internal/testsupport"
	"talktrack/internal/track"
	"talktrack/internal/workdir"
)

// stubFFmpeg satisfies ffmpeg.Client by creating empty output files.
type stubFFmpeg struct {
	frames int
}

func (s *stubFFmpeg) ExtractVideo(_ context.Context, _, dst string) error {
	return touch(dst)
}

func (s *stubFFmpeg) ExtractAudio(_ context.Context, _, dst string) error {
	return touch(dst)
}

func (s *stubFFmpeg) ExtractFrames(_ context.Context, _, pattern string) error {
	for i := 1; i <= s.frames; i++ {
		if err := touch(fmt.Sprintf(pattern, i)); err != nil {
			return err
		}
	}
	return nil
}

func (s *stubFFmpeg) TrimAudio(_ context.Context, _, dst string, _, _ float64) error {
	return touch(dst)
}

func (s *stubFFmpeg) Mux(_ context.Context, _, _, dst string) error {
	return touch(dst)
}

func touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("stub"), 0o644)
}

type stubSegmenter struct {
	err error
}

func (s *stubSegmenter) DetectShots(_ context.Context, _ string, totalFrames int) ([]track.Shot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []track.Shot{{Start: 0, End: totalFrames - 1}}, nil
}

type stubDetector struct {
	calls    int
	failCall int // 1-based call index that errors; 0 disables
}

func (d *stubDetector) DetectFile(_ context.Context, _ string) ([]facedet.Face, error) {
	d.calls++
	if d.failCall != 0 && d.calls == d.failCall {
		return nil, errors.New("decoder hiccup")
	}
	return []facedet.Face{{
		Box:        track.Box{X0: 100, Y0: 100, X1: 200, Y1: 200},
		Confidence: 0.9,
	}}, nil
}

type stubModel struct{}

func (stubModel) AudioFrontend(_ context.Context, window [][]float64) (json.RawMessage, error) {
	return json.Marshal(len(window))
}

func (stubModel) VideoFrontend(_ context.Context, window [][][]float64) (json.RawMessage, error) {
	return json.Marshal(len(window))
}

func (stubModel) CrossAttention(_ context.Context, audio, video json.RawMessage) (json.RawMessage, json.RawMessage, error) {
	return audio, video, nil
}

func (stubModel) ScoreHead(_ context.Context, _, video json.RawMessage) ([]float64, error) {
	var frames int
	if err := json.Unmarshal(video, &frames); err != nil {
		return nil, err
	}
	return make([]float64, frames), nil
}

func newTestManager(t *testing.T, deps Deps) (*Manager, *runstore.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	manager := NewManager(cfg, store, nil, deps)
	manager.SetProgressWriter(io.Discard)
	return manager, store
}

func TestProcessRejectsMissingVideo(t *testing.T) {
	manager, _ := newTestManager(t, Deps{
		FFmpeg:    &stubFFmpeg{frames: 5},
		Segmenter: &stubSegmenter{},
		Detector:  &stubDetector{},
		Model:     stubModel{},
	})

	if _, err := manager.Process(context.Background(), "/does/not/exist.mp4"); err == nil {
		t.Fatal("expected error for missing video")
	}
}

func TestProcessFailureMarksRunFailed(t *testing.T) {
	manager, store := newTestManager(t, Deps{
		FFmpeg:    &stubFFmpeg{frames: 5},
		Segmenter: &stubSegmenter{err: errors.New("scenedetect exited with status 2")},
		Detector:  &stubDetector{},
		Model:     stubModel{},
	})

	source := filepath.Join(t.TempDir(), "clip.mp4")
	testsupport.WriteFile(t, source, 64)

	run, err := manager.Process(context.Background(), source)
	if err == nil {
		t.Fatal("expected error from failing segmenter")
	}
	if run == nil {
		t.Fatal("expected run record alongside error")
	}
	if run.Status != runstore.StatusFailed {
		t.Fatalf("status: got %s want %s", run.Status, runstore.StatusFailed)
	}
	if run.ErrorMessage == "" {
		t.Fatal("expected persisted error message")
	}
	if _, statErr := os.Stat(run.Workdir); !os.IsNotExist(statErr) {
		t.Fatalf("working directory survived failure: %v", statErr)
	}

	fetched, err := store.GetByID(context.Background(), run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Status != runstore.StatusFailed {
		t.Fatalf("stored status: got %s", fetched.Status)
	}
}

func newRunState(t *testing.T, manager *Manager, store *runstore.Store, source string) *runState {
	t.Helper()
	layout, err := workdir.New(manager.cfg.Paths.CacheDir, workdir.Stem(source))
	if err != nil {
		t.Fatal(err)
	}
	run := testsupport.NewRun(t, store, source, workdir.Stem(source), layout.Root)
	return &runState{run: run, layout: layout}
}

func TestStagesThroughTracking(t *testing.T) {
	detector := &stubDetector{}
	manager, store := newTestManager(t, Deps{
		FFmpeg:    &stubFFmpeg{frames: 30},
		Segmenter: &stubSegmenter{},
		Detector:  detector,
		Model:     stubModel{},
	})
	if err := manager.cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	source := filepath.Join(t.TempDir(), "talk.mp4")
	testsupport.WriteFile(t, source, 64)
	state := newRunState(t, manager, store, source)
	ctx := context.Background()

	if err := manager.demux(ctx, state); err != nil {
		t.Fatalf("demux returned error: %v", err)
	}
	if len(state.frames) != 30 {
		t.Fatalf("frame count: got %d want 30", len(state.frames))
	}

	if err := manager.detect(ctx, state); err != nil {
		t.Fatalf("detect returned error: %v", err)
	}
	shots, err := workdir.LoadArtifact[[]track.Shot](state.layout, workdir.ShotsArtifact)
	if err != nil {
		t.Fatal(err)
	}
	detections, err := workdir.LoadArtifact[[][]track.Detection](state.layout, workdir.DetectionsArtifact)
	if err != nil {
		t.Fatal(err)
	}
	if len(shots) != 1 || len(detections) != 30 {
		t.Fatalf("shots=%d detections=%d", len(shots), len(detections))
	}

	// A fresh state proves the track stage works from the persisted
	// artifacts alone.
	rehydrated := &runState{run: state.run, layout: state.layout}
	if err := manager.buildTracks(ctx, rehydrated); err != nil {
		t.Fatalf("buildTracks returned error: %v", err)
	}
	if rehydrated.trackCount != 1 {
		t.Fatalf("track count: got %d want 1", rehydrated.trackCount)
	}
	tracks, err := workdir.LoadArtifact[[]track.Track](state.layout, workdir.TracksArtifact)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 {
		t.Fatalf("persisted tracks: got %d want 1", len(tracks))
	}
	if tracks[0].Len() != 30 {
		t.Fatalf("track length: got %d want 30", tracks[0].Len())
	}

	run, err := store.GetByID(ctx, state.run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if run.TrackCount != 1 {
		t.Fatalf("persisted track count: got %d want 1", run.TrackCount)
	}
}

func TestDetectContinuesAfterFrameFailure(t *testing.T) {
	detector := &stubDetector{failCall: 3}
	manager, store := newTestManager(t, Deps{
		FFmpeg:    &stubFFmpeg{frames: 12},
		Segmenter: &stubSegmenter{},
		Detector:  detector,
		Model:     stubModel{},
	})
	if err := manager.cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	source := filepath.Join(t.TempDir(), "talk.mp4")
	testsupport.WriteFile(t, source, 64)
	state := newRunState(t, manager, store, source)
	ctx := context.Background()

	if err := manager.demux(ctx, state); err != nil {
		t.Fatal(err)
	}
	if err := manager.detect(ctx, state); err != nil {
		t.Fatalf("detect returned error: %v", err)
	}

	detections, err := workdir.LoadArtifact[[][]track.Detection](state.layout, workdir.DetectionsArtifact)
	if err != nil {
		t.Fatal(err)
	}
	if len(detections[2]) != 0 {
		t.Fatalf("failed frame should have no detections, got %d", len(detections[2]))
	}
	if len(detections[3]) != 1 {
		t.Fatalf("later frames should still detect, got %d", len(detections[3]))
	}
}
