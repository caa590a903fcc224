package crop

import "sort"

// medianFilter applies a centered median filter of odd kernel width to xs.
// Positions beyond either end of the input are treated as zero, which pulls
// the filtered value toward zero near the edges of short tracks.
func medianFilter(xs []float64, kernel int) []float64 {
	if kernel <= 1 || len(xs) == 0 {
		return append([]float64(nil), xs...)
	}
	half := kernel / 2
	out := make([]float64, len(xs))
	window := make([]float64, kernel)
	for i := range xs {
		for j := 0; j < kernel; j++ {
			idx := i - half + j
			if idx < 0 || idx >= len(xs) {
				window[j] = 0
			} else {
				window[j] = xs[idx]
			}
		}
		sort.Float64s(window)
		out[i] = window[kernel/2]
	}
	return out
}
