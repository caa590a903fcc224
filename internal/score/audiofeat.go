package score

import (
	"fmt"

	"talktrack/internal/audio"
)

// AudioFeatures reads a track's audio slice and returns its MFCC sequence at
// 100 frames per second.
func AudioFeatures(wavPath string) ([][]float64, error) {
	samples, rate, err := audio.ReadFile(wavPath)
	if err != nil {
		return nil, fmt.Errorf("read track audio %s: %w", wavPath, err)
	}
	if rate != mfccSampleRate {
		return nil, fmt.Errorf("track audio %s has sample rate %d, want %d", wavPath, rate, mfccSampleRate)
	}
	return MFCC(SamplesToFloat(samples)), nil
}
