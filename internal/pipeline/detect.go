package pipeline

import (
	"context"

	"github.com/schollz/progressbar/v3"

	"talktrack/internal/logging"
	"talktrack/internal/services"
	"talktrack/internal/track"
	"talktrack/internal/workdir"
)

// detect finds shot boundaries and runs the face detector over every frame
// still. A detector failure on a single frame logs and leaves that frame
// empty; losing one frame to a decoder hiccup should not sink the run.
func (m *Manager) detect(ctx context.Context, state *runState) error {
	logger := logging.WithContext(ctx, m.logger)

	shots, err := m.deps.Segmenter.DetectShots(ctx, state.layout.VideoPath(), len(state.frames))
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "detect", "detect shots", "", err)
	}
	if err := workdir.SaveArtifact(state.layout, workdir.ShotsArtifact, shots); err != nil {
		return services.Wrap(services.ErrTransient, "detect", "save shots", "", err)
	}

	bar := m.newProgressBar(len(state.frames), "detecting faces")
	detections := make([][]track.Detection, len(state.frames))
	for i, framePath := range state.frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		faces, err := m.deps.Detector.DetectFile(ctx, framePath)
		if err != nil {
			logger.Warn("face detection failed for frame",
				logging.Int("frame", i),
				logging.Error(err),
			)
			_ = bar.Add(1)
			continue
		}
		frameDetections := make([]track.Detection, 0, len(faces))
		for _, face := range faces {
			frameDetections = append(frameDetections, track.Detection{
				Frame:      i,
				Box:        face.Box,
				Confidence: face.Confidence,
			})
		}
		detections[i] = frameDetections
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if err := workdir.SaveArtifact(state.layout, workdir.DetectionsArtifact, detections); err != nil {
		return services.Wrap(services.ErrTransient, "detect", "save detections", "", err)
	}

	logger.Info("detection finished",
		logging.Int("shots", len(shots)),
		logging.Int("frames", len(state.frames)),
	)
	return nil
}

func (m *Manager) newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(m.progress),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
