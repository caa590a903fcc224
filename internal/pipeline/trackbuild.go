package pipeline

import (
	"context"

	"talktrack/internal/logging"
	"talktrack/internal/services"
	"talktrack/internal/track"
	"talktrack/internal/workdir"
)

// buildTracks associates per-frame detections into face tracks, one shot at
// a time. Zero tracks is a valid outcome; the run still renders, just with
// nothing annotated.
func (m *Manager) buildTracks(ctx context.Context, state *runState) error {
	shots, err := workdir.LoadArtifact[[]track.Shot](state.layout, workdir.ShotsArtifact)
	if err != nil {
		return services.Wrap(services.ErrTransient, "track", "load shots", "", err)
	}
	detections, err := workdir.LoadArtifact[[][]track.Detection](state.layout, workdir.DetectionsArtifact)
	if err != nil {
		return services.Wrap(services.ErrTransient, "track", "load detections", "", err)
	}

	builder := track.NewBuilder(m.cfg.Tracker)
	tracks, err := builder.Build(shots, detections)
	if err != nil {
		return services.Wrap(services.ErrValidation, "track", "associate detections", "", err)
	}
	state.trackCount = len(tracks)

	if err := workdir.SaveArtifact(state.layout, workdir.TracksArtifact, tracks); err != nil {
		return services.Wrap(services.ErrTransient, "track", "save tracks", "", err)
	}
	if err := m.store.SetTrackCount(ctx, state.run.ID, len(tracks)); err != nil {
		return services.Wrap(services.ErrTransient, "track", "record track count", "", err)
	}

	logging.WithContext(ctx, m.logger).Info("tracks built",
		logging.Int("tracks", len(tracks)),
	)
	return nil
}
