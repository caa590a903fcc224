package track

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// interpolate fills a candidate track so it covers every frame between its
// first and last detection. Each box coordinate and the confidence are
// interpolated independently; values at original sample points are exact.
func interpolate(dets []Detection) (Track, error) {
	xs := make([]float64, 0, len(dets))
	cols := make([][]float64, 5)
	for i := range cols {
		cols[i] = make([]float64, 0, len(dets))
	}
	for _, det := range dets {
		// The greedy scan can adopt two detections on the same frame;
		// interpolation keeps the first, matching first-match association.
		if len(xs) > 0 && float64(det.Frame) <= xs[len(xs)-1] {
			continue
		}
		xs = append(xs, float64(det.Frame))
		cols[0] = append(cols[0], det.Box.X0)
		cols[1] = append(cols[1], det.Box.Y0)
		cols[2] = append(cols[2], det.Box.X1)
		cols[3] = append(cols[3], det.Box.Y1)
		cols[4] = append(cols[4], det.Confidence)
	}
	if len(xs) < 2 {
		return Track{}, fmt.Errorf("interpolate: need at least 2 distinct frames, got %d", len(xs))
	}

	first := int(xs[0])
	last := int(xs[len(xs)-1])
	n := last - first + 1

	fitted := make([]interp.PiecewiseLinear, len(cols))
	for i, col := range cols {
		if err := fitted[i].Fit(xs, col); err != nil {
			return Track{}, fmt.Errorf("interpolate: fit column %d: %w", i, err)
		}
	}

	out := Track{
		Frames:      make([]int, n),
		Boxes:       make([]Box, n),
		Confidences: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		frame := float64(first + i)
		out.Frames[i] = first + i
		out.Boxes[i] = Box{
			X0: fitted[0].Predict(frame),
			Y0: fitted[1].Predict(frame),
			X1: fitted[2].Predict(frame),
			Y1: fitted[3].Predict(frame),
		}
		out.Confidences[i] = fitted[4].Predict(frame)
	}
	return out, nil
}
