package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"

	"gocv.io/x/gocv"

	"talktrack/internal/crop"
	"talktrack/internal/services/ffmpeg"
	"talktrack/internal/track"
)

// FaceMark is one annotated face on one output frame, in source frame
// coordinates from the stabilized crop geometry.
type FaceMark struct {
	Track int
	Score float64
	S     float64
	X     float64
	Y     float64
}

// BuildFrameMarks flattens per-track score series into per-frame face marks.
// Each mark carries the smoothed display score for its frame.
func BuildFrameMarks(tracks []track.ScoredTrack, descs []crop.Descriptor, totalFrames int) [][]FaceMark {
	marks := make([][]FaceMark, totalFrames)
	for t, st := range tracks {
		for i, frame := range st.Track.Frames {
			if frame < 0 || frame >= totalFrames {
				continue
			}
			marks[frame] = append(marks[frame], FaceMark{
				Track: t,
				Score: Smooth(st.Scores, i),
				S:     descs[t].S[i],
				X:     descs[t].X[i],
				Y:     descs[t].Y[i],
			})
		}
	}
	return marks
}

const (
	rectThickness = 10
	labelScale    = 1.5
	labelWeight   = 5
)

// Renderer writes the annotated output video.
type Renderer struct {
	ffmpeg ffmpeg.Client
}

// NewRenderer constructs a renderer.
func NewRenderer(client ffmpeg.Client) *Renderer {
	return &Renderer{ffmpeg: client}
}

// Render draws marks over the frame stills, writes a video-only AVI beside
// dest, muxes the original audio in, and removes the intermediate.
func (r *Renderer) Render(ctx context.Context, framePaths []string, marks [][]FaceMark, audioPath, videoTmp, dest string) error {
	if len(framePaths) == 0 {
		return fmt.Errorf("no frames to render")
	}

	first := gocv.IMRead(framePaths[0], gocv.IMReadColor)
	if first.Empty() {
		return fmt.Errorf("read frame still %s", framePaths[0])
	}
	width, height := first.Cols(), first.Rows()
	first.Close()

	writer, err := gocv.VideoWriterFile(videoTmp, "XVID", crop.FrameRate, width, height, true)
	if err != nil {
		return fmt.Errorf("open render writer %s: %w", videoTmp, err)
	}

	if err := drawFrames(ctx, writer, framePaths, marks); err != nil {
		writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close render writer %s: %w", videoTmp, err)
	}

	if err := r.ffmpeg.Mux(ctx, videoTmp, audioPath, dest); err != nil {
		return err
	}
	if err := os.Remove(videoTmp); err != nil {
		return fmt.Errorf("remove video-only intermediate: %w", err)
	}
	return nil
}

func drawFrames(ctx context.Context, writer *gocv.VideoWriter, framePaths []string, marks [][]FaceMark) error {
	for idx, path := range framePaths {
		if err := ctx.Err(); err != nil {
			return err
		}
		img := gocv.IMRead(path, gocv.IMReadColor)
		if img.Empty() {
			return fmt.Errorf("read frame still %s", path)
		}
		if idx < len(marks) {
			for _, mark := range marks[idx] {
				drawMark(&img, mark)
			}
		}
		if err := writer.Write(img); err != nil {
			img.Close()
			return fmt.Errorf("write rendered frame %d: %w", idx, err)
		}
		img.Close()
	}
	return nil
}

// drawMark draws a green box for a non-negative smoothed score and a red box
// otherwise, with the score printed at the top-left corner.
func drawMark(img *gocv.Mat, mark FaceMark) {
	clr := color.RGBA{R: 255}
	if mark.Score >= 0 {
		clr = color.RGBA{G: 255}
	}
	x0 := int(mark.X - mark.S)
	y0 := int(mark.Y - mark.S)
	x1 := int(mark.X + mark.S)
	y1 := int(mark.Y + mark.S)
	gocv.Rectangle(img, image.Rect(x0, y0, x1, y1), clr, rectThickness)
	gocv.PutText(img, fmt.Sprintf("%.1f", mark.Score), image.Pt(x0, y0), gocv.FontHersheySimplex, labelScale, clr, labelWeight)
}
