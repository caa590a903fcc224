package track_test

import (
	"math"
	"testing"

	"talktrack/internal/track"
)

func TestIOUIdentity(t *testing.T) {
	box := track.Box{X0: 10, Y0: 20, X1: 50, Y1: 60}
	if got := track.IOU(box, box); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("IOU(A,A) = %v, want 1.0", got)
	}
}

func TestIOUSymmetry(t *testing.T) {
	a := track.Box{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := track.Box{X0: 5, Y0: 5, X1: 15, Y1: 15}
	if track.IOU(a, b) != track.IOU(b, a) {
		t.Fatalf("IOU not symmetric: %v vs %v", track.IOU(a, b), track.IOU(b, a))
	}
	// 25 overlap over 200-25 union.
	want := 25.0 / 175.0
	if got := track.IOU(a, b); math.Abs(got-want) > 1e-12 {
		t.Fatalf("IOU = %v, want %v", got, want)
	}
}

func TestIOUDisjoint(t *testing.T) {
	a := track.Box{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := track.Box{X0: 20, Y0: 20, X1: 30, Y1: 30}
	if got := track.IOU(a, b); got != 0 {
		t.Fatalf("IOU of disjoint boxes = %v, want 0", got)
	}
}

func TestIntersectionOverFirst(t *testing.T) {
	a := track.Box{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := track.Box{X0: 0, Y0: 0, X1: 20, Y1: 20}
	if got := track.IntersectionOverFirst(a, b); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("a fully covered by b: got %v, want 1.0", got)
	}
	if got := track.IntersectionOverFirst(b, a); math.Abs(got-0.25) > 1e-12 {
		t.Fatalf("quarter of b covered by a: got %v, want 0.25", got)
	}
}
