package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"talktrack/internal/config"
	"talktrack/internal/fileutil"
	"talktrack/internal/logging"
	"talktrack/internal/runstore"
	"talktrack/internal/score"
	"talktrack/internal/services"
	"talktrack/internal/services/facedet"
	"talktrack/internal/services/ffmpeg"
	"talktrack/internal/services/scenedetect"
	"talktrack/internal/services/talknet"
	"talktrack/internal/workdir"
)

// Deps carries the external collaborators. Zero fields are replaced with the
// CLI-backed implementations built from the config.
type Deps struct {
	FFmpeg    ffmpeg.Client
	Segmenter scenedetect.Segmenter
	Detector  facedet.Detector
	Model     score.Model
}

// Manager drives one video through the whole pipeline.
type Manager struct {
	cfg    *config.Config
	store  *runstore.Store
	logger *slog.Logger
	deps   Deps

	// progress receives progress bar output; tests point it at io.Discard.
	progress io.Writer
}

// NewManager builds a manager, filling in any collaborators missing from deps.
func NewManager(cfg *config.Config, store *runstore.Store, logger *slog.Logger, deps Deps) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	if deps.FFmpeg == nil {
		deps.FFmpeg = ffmpeg.NewCLI(
			ffmpeg.WithBinary(cfg.Tools.FFmpeg),
			ffmpeg.WithThreads(cfg.Tools.Threads),
		)
	}
	if deps.Segmenter == nil {
		deps.Segmenter = scenedetect.NewCLI(scenedetect.WithBinary(cfg.Tools.SceneDetect))
	}
	if deps.Detector == nil {
		deps.Detector = facedet.NewCLI(
			facedet.WithBinary(cfg.Tools.FaceDetector),
			facedet.WithMinConfidence(cfg.Detector.MinConfidence),
		)
	}
	if deps.Model == nil {
		deps.Model = talknet.NewRunner(talknet.WithBinary(cfg.Tools.ScoreRunner))
	}
	return &Manager{
		cfg:      cfg,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		deps:     deps,
		progress: os.Stderr,
	}
}

// SetProgressWriter redirects progress bar output.
func (m *Manager) SetProgressWriter(w io.Writer) {
	if w != nil {
		m.progress = w
	}
}

// runState carries the run identity and its on-disk layout between stages.
// Stage outputs are not held in memory: each stage persists its artifact
// under work/ and the next stage reads it back, so any stage sees exactly
// what survives on disk.
type runState struct {
	run        *runstore.Run
	layout     workdir.Layout
	frames     []string
	trackCount int
	output     string
}

type stageDef struct {
	name    string
	status  runstore.Status
	execute func(context.Context, *runState) error
}

func (m *Manager) stages() []stageDef {
	return []stageDef{
		{name: "demux", status: runstore.StatusDemuxing, execute: m.demux},
		{name: "detect", status: runstore.StatusDetecting, execute: m.detect},
		{name: "track", status: runstore.StatusTracking, execute: m.buildTracks},
		{name: "crop", status: runstore.StatusCropping, execute: m.extractCrops},
		{name: "score", status: runstore.StatusScoring, execute: m.scoreTracks},
		{name: "render", status: runstore.StatusRendering, execute: m.renderOutput},
	}
}

// Process runs the pipeline for one source video and returns the final run
// record. Only one run may execute per cache directory at a time.
func (m *Manager) Process(ctx context.Context, videoPath string) (*runstore.Run, error) {
	absPath, err := filepath.Abs(videoPath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "setup", "resolve path", videoPath, err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, services.Wrap(services.ErrValidation, "setup", "stat source video", absPath, err)
	}
	if err := m.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "setup", "ensure directories", "", err)
	}

	lock := flock.New(filepath.Join(m.cfg.Paths.CacheDir, "talktrack.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "setup", "acquire run lock", lock.Path(), err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrTransient, "setup", "acquire run lock", "another run is in progress", nil)
	}
	defer func() { _ = lock.Unlock() }()

	stem := workdir.Stem(absPath)
	layout, err := workdir.New(m.cfg.Paths.CacheDir, stem)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "setup", "create run directory", "", err)
	}

	run, err := m.store.NewRun(ctx, absPath, stem, layout.Root)
	if err != nil {
		_ = layout.Destroy()
		return nil, services.Wrap(services.ErrTransient, "setup", "record run", "", err)
	}

	ctx = services.WithRunID(ctx, run.ID)
	ctx = services.WithVideo(ctx, stem)
	state := &runState{run: run, layout: layout}

	for _, stage := range m.stages() {
		if err := m.runStage(ctx, stage, state); err != nil {
			return m.failRun(ctx, state, err)
		}
	}

	if err := m.finalize(ctx, state); err != nil {
		return m.failRun(ctx, state, err)
	}
	return m.store.GetByID(ctx, run.ID)
}

func (m *Manager) runStage(ctx context.Context, stage stageDef, state *runState) error {
	stageCtx := services.WithStage(ctx, stage.name)
	stageLogger := logging.WithContext(stageCtx, m.logger)

	stageLogger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(stage.status)),
	)

	if err := m.store.SetStatus(stageCtx, state.run.ID, stage.status); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}
	if err := stage.execute(stageCtx, state); err != nil {
		stageLogger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.Error(err),
		)
		return err
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
	)
	return nil
}

// failRun records the failure, tears the working directory down, and returns
// the stage error decorated with the run identity.
func (m *Manager) failRun(ctx context.Context, state *runState, stageErr error) (*runstore.Run, error) {
	if err := m.store.SetFailed(ctx, state.run.ID, stageErr.Error()); err != nil {
		m.logger.Error("failed to persist run failure", logging.Error(err))
	}
	if err := state.layout.Destroy(); err != nil {
		m.logger.Error("failed to remove run directory", logging.Error(err))
	}
	run, err := m.store.GetByID(ctx, state.run.ID)
	if err != nil {
		run = state.run
	}
	return run, fmt.Errorf("run %d (%s): %w", state.run.ID, state.run.Stem, stageErr)
}

// finalize copies the annotated video to the output directory and marks the
// run completed. The working directory is removed once the copy is verified.
func (m *Manager) finalize(ctx context.Context, state *runState) error {
	dst := filepath.Join(m.cfg.Paths.OutputDir, state.run.Stem+".avi")
	if err := fileutil.CopyFileVerified(state.output, dst); err != nil {
		return services.Wrap(services.ErrTransient, "finalize", "copy output", dst, err)
	}
	if err := m.store.SetCompleted(ctx, state.run.ID, dst, state.trackCount); err != nil {
		return fmt.Errorf("persist completion: %w", err)
	}
	if err := state.layout.Destroy(); err != nil {
		m.logger.Warn("failed to remove run directory", logging.Error(err))
	}

	logging.WithContext(ctx, m.logger).Info("run completed",
		logging.String("output", dst),
		logging.Int("tracks", state.trackCount),
	)
	return nil
}
