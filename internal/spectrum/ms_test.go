package spectrum

import (
	"math"
	"testing"
)

func TestMidSide_RoundTrip(t *testing.T) {
	left := []float32{1, -0.5, 0.25, 0, 0.75}
	right := []float32{1, 0.5, -0.25, 0.3, 0.25}
	wantL := append([]float32(nil), left...)
	wantR := append([]float32(nil), right...)

	ToMidSide(left, right)
	ToLeftRight(left, right)

	for i := range left {
		if math.Abs(float64(left[i]-wantL[i])) > 1e-6 {
			t.Errorf("left[%d] = %v, want %v", i, left[i], wantL[i])
		}
		if math.Abs(float64(right[i]-wantR[i])) > 1e-6 {
			t.Errorf("right[%d] = %v, want %v", i, right[i], wantR[i])
		}
	}
}

func TestMidSide_IdenticalChannels(t *testing.T) {
	left := []float32{0.1, -0.2, 0.3, -0.4}
	right := append([]float32(nil), left...)
	in := append([]float32(nil), left...)

	ToMidSide(left, right)

	for i := range left {
		if left[i] != in[i] {
			t.Errorf("mid[%d] = %v, want %v", i, left[i], in[i])
		}
		if right[i] != 0 {
			t.Errorf("side[%d] = %v, want 0", i, right[i])
		}
	}
}
