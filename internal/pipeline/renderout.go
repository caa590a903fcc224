package pipeline

import (
	"context"

	"talktrack/internal/crop"
	"talktrack/internal/render"
	"talktrack/internal/services"
	"talktrack/internal/track"
	"talktrack/internal/workdir"
)

// renderOutput draws the smoothed per-face annotations over the frame stills
// and muxes the original audio back in.
func (m *Manager) renderOutput(ctx context.Context, state *runState) error {
	scored, err := workdir.LoadArtifact[[]track.ScoredTrack](state.layout, workdir.ScoresArtifact)
	if err != nil {
		return services.Wrap(services.ErrTransient, "render", "load scores", "", err)
	}
	descs, err := workdir.LoadArtifact[[]crop.Descriptor](state.layout, workdir.DescriptorsArtifact)
	if err != nil {
		return services.Wrap(services.ErrTransient, "render", "load descriptors", "", err)
	}

	marks := render.BuildFrameMarks(scored, descs, len(state.frames))

	renderer := render.NewRenderer(m.deps.FFmpeg)
	dest := state.layout.OutputPath()
	if err := renderer.Render(ctx, state.frames, marks, state.layout.AudioPath(), state.layout.RenderTmpPath(), dest); err != nil {
		return services.Wrap(services.ErrExternalTool, "render", "render output", "", err)
	}
	state.output = dest
	return nil
}
