package crop

import (
	"talktrack/internal/track"
)

// CropSize is the canonical edge length of extracted face crops.
const CropSize = 224

// FrameRate is the working video frame rate every stage assumes.
const FrameRate = 25

// Descriptor holds the smoothed per-frame crop geometry of one track:
// half box size and center coordinates, aligned 1:1 with the track's frames.
// Descriptors are owned by the track they describe and recomputed rather
// than cached.
type Descriptor struct {
	S []float64 `json:"s"`
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// NewDescriptor derives the smoothed crop geometry for a track. kernel is
// the median filter width and must be odd.
func NewDescriptor(trk track.Track, kernel int) Descriptor {
	n := trk.Len()
	s := make([]float64, n)
	x := make([]float64, n)
	y := make([]float64, n)
	for i, box := range trk.Boxes {
		s[i] = max(box.Width(), box.Height()) / 2
		x[i] = box.CenterX()
		y[i] = box.CenterY()
	}
	return Descriptor{
		S: medianFilter(s, kernel),
		X: medianFilter(x, kernel),
		Y: medianFilter(y, kernel),
	}
}

// Window is a crop rectangle in the coordinates of a frame that has been
// padded by Pad pixels on every side.
type Window struct {
	Pad int
	X0  int
	Y0  int
	X1  int
	Y1  int
}

// Window computes the padded crop rectangle for frame index i of the track.
// scale widens the crop horizontally and extends it downward, keeping more
// of the chin and cheeks in view.
func (d Descriptor) Window(i int, scale float64) Window {
	bs := d.S[i]
	pad := int(bs * (1 + 2*scale))
	my := d.Y[i] + float64(pad)
	mx := d.X[i] + float64(pad)
	return Window{
		Pad: pad,
		Y0:  int(my - bs),
		Y1:  int(my + bs*(1+2*scale)),
		X0:  int(mx - bs*(1+scale)),
		X1:  int(mx + bs*(1+scale)),
	}
}

// AudioSpan returns the start and end of the track's audio slice in seconds.
// The end lands one frame past the last track frame so the slice covers the
// full duration of the final frame.
func AudioSpan(trk track.Track) (start, end float64) {
	return float64(trk.FirstFrame()) / FrameRate, float64(trk.LastFrame()+1) / FrameRate
}
