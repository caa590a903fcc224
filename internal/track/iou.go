package track

// IOU computes the intersection-over-union of two boxes. Non-overlapping
// boxes yield 0; identical boxes yield 1.
func IOU(a, b Box) float64 {
	inter := intersectionArea(a, b)
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// IntersectionOverFirst computes the intersection area relative to the first
// box's area alone. Used when measuring how much of box a is covered by b
// rather than mutual overlap.
func IntersectionOverFirst(a, b Box) float64 {
	area := a.Area()
	if area <= 0 {
		return 0
	}
	return intersectionArea(a, b) / area
}

func intersectionArea(a, b Box) float64 {
	x0 := max(a.X0, b.X0)
	y0 := max(a.Y0, b.Y0)
	x1 := min(a.X1, b.X1)
	y1 := min(a.Y1, b.Y1)
	return max(0, x1-x0) * max(0, y1-y0)
}
