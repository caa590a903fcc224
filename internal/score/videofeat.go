package score

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Video feature geometry: crops arrive at 224x224 and the model consumes the
// central 112x112 grayscale region.
const (
	cropSize    = 224
	featureSize = 112
)

// VideoFeatures reads a track's crop video and returns one grayscale,
// center-cropped 112x112 frame per video frame, as raw 0..255 intensities.
func VideoFeatures(videoPath string) ([][][]float64, error) {
	capture, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return nil, fmt.Errorf("open crop video %s: %w", videoPath, err)
	}
	defer capture.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	gray := gocv.NewMat()
	defer gray.Close()
	resized := gocv.NewMat()
	defer resized.Close()

	margin := (cropSize - featureSize) / 2
	roi := image.Rect(margin, margin, margin+featureSize, margin+featureSize)

	var features [][][]float64
	for {
		if ok := capture.Read(&frame); !ok || frame.Empty() {
			break
		}
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
		gocv.Resize(gray, &resized, image.Pt(cropSize, cropSize), 0, 0, gocv.InterpolationLinear)

		center := resized.Region(roi)
		rows, cols := center.Rows(), center.Cols()
		pixels := make([][]float64, rows)
		for y := 0; y < rows; y++ {
			row := make([]float64, cols)
			for x := 0; x < cols; x++ {
				row[x] = float64(center.GetUCharAt(y, x))
			}
			pixels[y] = row
		}
		center.Close()
		features = append(features, pixels)
	}
	return features, nil
}
