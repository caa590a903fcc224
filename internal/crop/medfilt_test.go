package crop

import "testing"

func TestMedianFilterKernelOnePassthrough(t *testing.T) {
	in := []float64{3, 1, 4, 1, 5}
	out := medianFilter(in, 1)
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("index %d: got %f want %f", i, out[i], in[i])
		}
	}
}

func TestMedianFilterRemovesSpike(t *testing.T) {
	out := medianFilter([]float64{10, 10, 50, 10, 10}, 3)
	want := []float64{10, 10, 10, 10, 10}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: got %f want %f", i, out[i], want[i])
		}
	}
}

func TestMedianFilterMonotoneSequence(t *testing.T) {
	out := medianFilter([]float64{1, 2, 3, 4, 5}, 3)
	want := []float64{1, 2, 3, 4, 4}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: got %f want %f", i, out[i], want[i])
		}
	}
}

func TestMedianFilterZeroPadsEdges(t *testing.T) {
	// A single sample against two virtual zeros medians to zero.
	out := medianFilter([]float64{7}, 3)
	if out[0] != 0 {
		t.Fatalf("got %f want 0", out[0])
	}
}

func TestMedianFilterDoesNotMutateInput(t *testing.T) {
	in := []float64{10, 10, 50, 10, 10}
	_ = medianFilter(in, 3)
	if in[2] != 50 {
		t.Fatalf("input was mutated: %v", in)
	}
}
