package render

import "gonum.org/v1/gonum/stat"

// Smooth returns the display score for local frame index i of a track's
// score series: the mean of scores[max(i-2,0):min(i+3,len(scores)-1)]. The
// slice is half open and its upper bound is clamped to len-1, so the final
// element of the series never participates. Downstream consumers threshold
// the result at zero, so changing this window shape shifts speaking onsets
// and offsets; keep it as is.
func Smooth(scores []float64, i int) float64 {
	lo := i - 2
	if lo < 0 {
		lo = 0
	}
	hi := i + 3
	if limit := len(scores) - 1; hi > limit {
		hi = limit
	}
	if lo >= hi {
		return 0
	}
	return stat.Mean(scores[lo:hi], nil)
}
