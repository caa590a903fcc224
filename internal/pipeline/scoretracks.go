package pipeline

import (
	"context"

	"talktrack/internal/config"
	"talktrack/internal/logging"
	"talktrack/internal/score"
	"talktrack/internal/services"
	"talktrack/internal/track"
	"talktrack/internal/workdir"
)

// modelLifecycle is implemented by models backed by a live subprocess.
type modelLifecycle interface {
	Start(ctx context.Context) error
	Close() error
}

// scoreTracks runs the multi-scale ensemble over every track's crop video
// and audio slice. The model subprocess lives only for the duration of this
// stage.
func (m *Manager) scoreTracks(ctx context.Context, state *runState) error {
	logger := logging.WithContext(ctx, m.logger)

	if lifecycle, ok := m.deps.Model.(modelLifecycle); ok {
		if err := lifecycle.Start(ctx); err != nil {
			return services.Wrap(services.ErrExternalTool, "score", "start model runner", "", err)
		}
		defer func() {
			if err := lifecycle.Close(); err != nil {
				logger.Warn("model runner shutdown failed", logging.Error(err))
			}
		}()
	}

	tracks, err := workdir.LoadArtifact[[]track.Track](state.layout, workdir.TracksArtifact)
	if err != nil {
		return services.Wrap(services.ErrTransient, "score", "load tracks", "", err)
	}

	scorer := score.NewScorer(m.deps.Model, durationWeights(m.cfg.Score.DurationWeights))

	bar := m.newProgressBar(len(tracks), "scoring tracks")
	scored := make([]track.ScoredTrack, 0, len(tracks))
	for i, trk := range tracks {
		audioFeat, err := score.AudioFeatures(state.layout.CropAudioPath(i))
		if err != nil {
			return services.Wrap(services.ErrTransient, "score", "extract audio features", "", err)
		}
		videoFeat, err := score.VideoFeatures(state.layout.CropVideoPath(i))
		if err != nil {
			return services.Wrap(services.ErrTransient, "score", "extract video features", "", err)
		}

		scores, err := scorer.ScoreTrack(ctx, audioFeat, videoFeat)
		if err != nil {
			return services.Wrap(services.ErrExternalTool, "score", "score track", "", err)
		}
		scored = append(scored, track.ScoredTrack{Track: trk, Scores: scores})
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if err := workdir.SaveArtifact(state.layout, workdir.ScoresArtifact, scored); err != nil {
		return services.Wrap(services.ErrTransient, "score", "save scores", "", err)
	}
	return nil
}

func durationWeights(configured []config.DurationWeight) []score.DurationWeight {
	weights := make([]score.DurationWeight, 0, len(configured))
	for _, dw := range configured {
		weights = append(weights, score.DurationWeight{Seconds: dw.Seconds, Weight: dw.Weight})
	}
	return weights
}
