package score

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// MFCC parameters for 16 kHz speech: 25 ms frames every 10 ms, so the
// feature stream runs at 100 frames per second.
const (
	mfccSampleRate = 16000
	mfccFrameLen   = 400
	mfccFrameStep  = 160
	mfccNFFT       = 512
	mfccNumFilters = 26
	mfccNumCeps    = 13
	mfccPreEmph    = 0.97
	mfccLifter     = 22
	mfccLowFreq    = 0
	mfccHighFreq   = 8000
)

var mfccEps = math.Nextafter(1, 2) - 1

// MFCC computes 13 mel-frequency cepstral coefficients per frame. The first
// coefficient is replaced with the log of the total frame energy. Frames are
// rectangular windowed; the tail of the signal is zero padded so the final
// partial frame still contributes.
func MFCC(signal []float64) [][]float64 {
	emphasized := preEmphasize(signal, mfccPreEmph)
	frames := frameSignal(emphasized, mfccFrameLen, mfccFrameStep)
	bank := melFilterbank(mfccNumFilters, mfccNFFT, mfccSampleRate, mfccLowFreq, mfccHighFreq)
	fft := fourier.NewFFT(mfccNFFT)

	features := make([][]float64, len(frames))
	padded := make([]float64, mfccNFFT)
	for i, frame := range frames {
		copy(padded, frame)
		for j := len(frame); j < mfccNFFT; j++ {
			padded[j] = 0
		}
		spectrum := powerSpectrum(fft, padded)

		energy := 0.0
		for _, p := range spectrum {
			energy += p
		}
		if energy == 0 {
			energy = mfccEps
		}

		banked := make([]float64, mfccNumFilters)
		for m, filter := range bank {
			var sum float64
			for k, w := range filter {
				sum += spectrum[k] * w
			}
			if sum == 0 {
				sum = mfccEps
			}
			banked[m] = math.Log(sum)
		}

		ceps := dctOrtho(banked, mfccNumCeps)
		lifter(ceps, mfccLifter)
		ceps[0] = math.Log(energy)
		features[i] = ceps
	}
	return features
}

func preEmphasize(signal []float64, coeff float64) []float64 {
	if len(signal) == 0 {
		return nil
	}
	out := make([]float64, len(signal))
	out[0] = signal[0]
	for i := 1; i < len(signal); i++ {
		out[i] = signal[i] - coeff*signal[i-1]
	}
	return out
}

func frameSignal(signal []float64, frameLen, frameStep int) [][]float64 {
	numFrames := 1
	if len(signal) > frameLen {
		numFrames = 1 + int(math.Ceil(float64(len(signal)-frameLen)/float64(frameStep)))
	}
	padLen := (numFrames-1)*frameStep + frameLen
	padded := make([]float64, padLen)
	copy(padded, signal)

	frames := make([][]float64, numFrames)
	for i := range frames {
		start := i * frameStep
		frames[i] = padded[start : start+frameLen]
	}
	return frames
}

func powerSpectrum(fft *fourier.FFT, frame []float64) []float64 {
	coeffs := fft.Coefficients(nil, frame)
	spectrum := make([]float64, len(coeffs))
	for i, c := range coeffs {
		re, im := real(c), imag(c)
		spectrum[i] = (re*re + im*im) / float64(mfccNFFT)
	}
	return spectrum
}

func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

func melFilterbank(numFilters, nfft, sampleRate int, lowFreq, highFreq float64) [][]float64 {
	lowMel := hzToMel(lowFreq)
	highMel := hzToMel(highFreq)

	bins := make([]int, numFilters+2)
	for i := range bins {
		mel := lowMel + (highMel-lowMel)*float64(i)/float64(numFilters+1)
		bins[i] = int(math.Floor(float64(nfft+1) * melToHz(mel) / float64(sampleRate)))
	}

	bank := make([][]float64, numFilters)
	for m := range bank {
		filter := make([]float64, nfft/2+1)
		for k := bins[m]; k < bins[m+1]; k++ {
			filter[k] = float64(k-bins[m]) / float64(bins[m+1]-bins[m])
		}
		for k := bins[m+1]; k < bins[m+2]; k++ {
			filter[k] = float64(bins[m+2]-k) / float64(bins[m+2]-bins[m+1])
		}
		bank[m] = filter
	}
	return bank
}

// dctOrtho is an orthonormal DCT-II truncated to numCeps coefficients.
func dctOrtho(input []float64, numCeps int) []float64 {
	n := len(input)
	out := make([]float64, numCeps)
	for k := 0; k < numCeps; k++ {
		var sum float64
		for i, x := range input {
			sum += x * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(n)))
		}
		scale := math.Sqrt(2 / float64(n))
		if k == 0 {
			scale = math.Sqrt(1 / float64(n))
		}
		out[k] = sum * scale
	}
	return out
}

func lifter(ceps []float64, l int) {
	if l <= 0 {
		return
	}
	for i := range ceps {
		ceps[i] *= 1 + float64(l)/2*math.Sin(math.Pi*float64(i)/float64(l))
	}
}

// SamplesToFloat widens PCM-16 samples for feature extraction.
func SamplesToFloat(samples []int16) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}
	return out
}
