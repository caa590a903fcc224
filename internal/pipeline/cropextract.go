package pipeline

import (
	"context"

	"talktrack/internal/crop"
	"talktrack/internal/services"
	"talktrack/internal/track"
	"talktrack/internal/workdir"
)

// extractCrops writes one stabilized 224x224 crop video with its audio slice
// per track.
func (m *Manager) extractCrops(ctx context.Context, state *runState) error {
	tracks, err := workdir.LoadArtifact[[]track.Track](state.layout, workdir.TracksArtifact)
	if err != nil {
		return services.Wrap(services.ErrTransient, "crop", "load tracks", "", err)
	}

	extractor := crop.NewExtractor(m.deps.FFmpeg, m.cfg.Crop.Scale, m.cfg.Crop.MedianKernel)

	bar := m.newProgressBar(len(tracks), "extracting crops")
	descs := make([]crop.Descriptor, 0, len(tracks))
	for i, trk := range tracks {
		desc, err := extractor.Extract(ctx, state.frames, state.layout.AudioPath(), trk, state.layout.CropBase(i))
		if err != nil {
			return services.Wrap(services.ErrExternalTool, "crop", "extract track crop", "", err)
		}
		descs = append(descs, desc)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if err := workdir.SaveArtifact(state.layout, workdir.DescriptorsArtifact, descs); err != nil {
		return services.Wrap(services.ErrTransient, "crop", "save descriptors", "", err)
	}
	return nil
}
