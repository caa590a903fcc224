package pipeline

import (
	"context"

	"talktrack/internal/services"
)

// demux re-encodes the source to the constant frame rate working copy, pulls
// the mono audio track, and dumps one JPEG still per frame.
func (m *Manager) demux(ctx context.Context, state *runState) error {
	layout := state.layout

	if err := m.deps.FFmpeg.ExtractVideo(ctx, state.run.VideoPath, layout.VideoPath()); err != nil {
		return services.Wrap(services.ErrExternalTool, "demux", "extract video", "", err)
	}
	if err := m.deps.FFmpeg.ExtractAudio(ctx, layout.VideoPath(), layout.AudioPath()); err != nil {
		return services.Wrap(services.ErrExternalTool, "demux", "extract audio", "", err)
	}
	if err := m.deps.FFmpeg.ExtractFrames(ctx, layout.VideoPath(), layout.FramePattern()); err != nil {
		return services.Wrap(services.ErrExternalTool, "demux", "extract frames", "", err)
	}

	frames, err := layout.FrameList()
	if err != nil {
		return services.Wrap(services.ErrTransient, "demux", "list frames", "", err)
	}
	if len(frames) == 0 {
		return services.Wrap(services.ErrExternalTool, "demux", "extract frames", "no frames produced", nil)
	}
	state.frames = frames
	return nil
}
