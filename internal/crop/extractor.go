package crop

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"

	"gocv.io/x/gocv"

	"talktrack/internal/services/ffmpeg"
	"talktrack/internal/track"
)

// padFill is the constant mid-gray used when padding frames before cropping.
const padFill = 110

// Extractor writes one stabilized 224x224 crop video plus audio slice per
// track. Frames come from the demux stage's numbered JPEG stills.
type Extractor struct {
	ffmpeg ffmpeg.Client
	scale  float64
	kernel int
}

// NewExtractor constructs an extractor. scale widens the crop window and
// kernel is the median filter width for stabilization.
func NewExtractor(client ffmpeg.Client, scale float64, kernel int) *Extractor {
	return &Extractor{ffmpeg: client, scale: scale, kernel: kernel}
}

// Extract stabilizes trk, crops every frame, and muxes the result with the
// track's audio span into dest+".avi". framePaths is the full frame list of
// the working video, indexed by frame number. The returned descriptor carries
// the smoothed geometry the render stage needs.
func (e *Extractor) Extract(ctx context.Context, framePaths []string, audioPath string, trk track.Track, dest string) (Descriptor, error) {
	desc := NewDescriptor(trk, e.kernel)

	videoTmp := dest + "t.avi"
	writer, err := gocv.VideoWriterFile(videoTmp, "XVID", FrameRate, CropSize, CropSize, true)
	if err != nil {
		return Descriptor{}, fmt.Errorf("open crop writer %s: %w", videoTmp, err)
	}

	if err := e.writeCrops(ctx, writer, framePaths, trk, desc); err != nil {
		writer.Close()
		return Descriptor{}, err
	}
	if err := writer.Close(); err != nil {
		return Descriptor{}, fmt.Errorf("close crop writer %s: %w", videoTmp, err)
	}

	start, end := AudioSpan(trk)
	audioTmp := dest + ".wav"
	if err := e.ffmpeg.TrimAudio(ctx, audioPath, audioTmp, start, end); err != nil {
		return Descriptor{}, err
	}
	if err := e.ffmpeg.Mux(ctx, videoTmp, audioTmp, dest+".avi"); err != nil {
		return Descriptor{}, err
	}
	if err := os.Remove(videoTmp); err != nil {
		return Descriptor{}, fmt.Errorf("remove temp crop video: %w", err)
	}
	return desc, nil
}

func (e *Extractor) writeCrops(ctx context.Context, writer *gocv.VideoWriter, framePaths []string, trk track.Track, desc Descriptor) error {
	padded := gocv.NewMat()
	defer padded.Close()
	resized := gocv.NewMat()
	defer resized.Close()
	fill := color.RGBA{R: padFill, G: padFill, B: padFill}

	for i, frame := range trk.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if frame < 0 || frame >= len(framePaths) {
			return fmt.Errorf("track frame %d outside extracted range of %d frames", frame, len(framePaths))
		}

		img := gocv.IMRead(framePaths[frame], gocv.IMReadColor)
		if img.Empty() {
			return fmt.Errorf("read frame still %s", framePaths[frame])
		}

		win := desc.Window(i, e.scale)
		gocv.CopyMakeBorder(img, &padded, win.Pad, win.Pad, win.Pad, win.Pad, gocv.BorderConstant, fill)
		img.Close()

		rect := clampRect(image.Rect(win.X0, win.Y0, win.X1, win.Y1), padded.Cols(), padded.Rows())
		if rect.Empty() {
			return fmt.Errorf("degenerate crop window at track frame %d", i)
		}
		face := padded.Region(rect)
		gocv.Resize(face, &resized, image.Pt(CropSize, CropSize), 0, 0, gocv.InterpolationLinear)
		face.Close()

		if err := writer.Write(resized); err != nil {
			return fmt.Errorf("write crop frame %d: %w", i, err)
		}
	}
	return nil
}

func clampRect(r image.Rectangle, width, height int) image.Rectangle {
	return r.Intersect(image.Rect(0, 0, width, height))
}
