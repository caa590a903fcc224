package track

// Box is an axis-aligned bounding box in pixel coordinates.
type Box struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.Y1 - b.Y0 }

// Area returns the box area. Degenerate boxes yield non-positive values.
func (b Box) Area() float64 { return b.Width() * b.Height() }

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return (b.X0 + b.X1) / 2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return (b.Y0 + b.Y1) / 2 }

// Detection is a single face observation on one frame. Detections are
// immutable once produced by the detector; the builder removes them from its
// candidate pool as they are assigned to tracks.
type Detection struct {
	Frame      int     `json:"frame"`
	Box        Box     `json:"box"`
	Confidence float64 `json:"confidence"`
}

// Shot is a contiguous frame range between two scene cuts. Both bounds are
// inclusive.
type Shot struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of frames covered by the shot.
func (s Shot) Len() int { return s.End - s.Start + 1 }

// Track is a temporally contiguous sequence of associated detections
// believed to be the same face. After interpolation Frames increases
// strictly by one and Boxes/Confidences align 1:1 with Frames. Tracks never
// span a shot boundary and are immutable once emitted.
type Track struct {
	Frames      []int     `json:"frames"`
	Boxes       []Box     `json:"boxes"`
	Confidences []float64 `json:"confidences"`
}

// Len returns the number of frames in the track.
func (t Track) Len() int { return len(t.Frames) }

// FirstFrame returns the absolute index of the track's first frame.
func (t Track) FirstFrame() int { return t.Frames[0] }

// LastFrame returns the absolute index of the track's last frame.
func (t Track) LastFrame() int { return t.Frames[len(t.Frames)-1] }

// ScoredTrack pairs a track with its per-frame speaking scores.
// Scores[i] corresponds to Track.Frames[i].
type ScoredTrack struct {
	Track  Track     `json:"track"`
	Scores []float64 `json:"scores"`
}
