package score

import "math"

// Feature stream rates in samples per second.
const (
	AudioRate = 100
	VideoRate = 25
)

// Align truncates the two independently extracted feature streams to the same
// covered duration. Rounding uses banker's rounding so that alignment agrees
// with the classic implementation bit for bit.
func Align(audioFeat [][]float64, videoFeat [][][]float64) ([][]float64, [][][]float64, float64) {
	seconds := math.Min(float64(len(audioFeat))/AudioRate, float64(len(videoFeat))/VideoRate)
	audioLen := int(math.RoundToEven(seconds * AudioRate))
	videoLen := int(math.RoundToEven(seconds * VideoRate))
	if audioLen > len(audioFeat) {
		audioLen = len(audioFeat)
	}
	if videoLen > len(videoFeat) {
		videoLen = len(videoFeat)
	}
	return audioFeat[:audioLen], videoFeat[:videoLen], seconds
}
