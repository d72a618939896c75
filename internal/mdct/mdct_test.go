package mdct

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNewTables_Window(t *testing.T) {
	for _, n := range []int{16, 256, 512} {
		tab := NewTables(n)
		if tab.N != n {
			t.Errorf("N = %d, want %d", tab.N, n)
		}
		// Princen-Bradley condition: w[i]^2 + w[i+N]^2 = 1.
		for i := 0; i < n; i++ {
			s := tab.Window(i)*tab.Window(i) + tab.Window(i+n)*tab.Window(i+n)
			if math.Abs(s-1) > 1e-12 {
				t.Fatalf("N=%d: w[%d]^2 + w[%d]^2 = %v, want 1", n, i, i+n, s)
			}
		}
	}
}

// kernel is cos(pi/N * (i + 0.5 + N/2) * (k + 0.5)).
func kernel(n, i, k int) float64 {
	return math.Cos((math.Pi / float64(n)) * (float64(i) + 0.5 + float64(n)/2) * (float64(k) + 0.5))
}

// directForward evaluates the windowed MDCT sum term by term.
func directForward(n int, x []float32) []float64 {
	out := make([]float64, n)
	for k := range out {
		for i := 0; i < 2*n; i++ {
			w := math.Sin((float64(i) + 0.5) / float64(2*n) * math.Pi)
			out[k] += w * float64(x[i]) * kernel(n, i, k)
		}
	}
	return out
}

func closeTo(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol*(1+math.Abs(want))
}

func TestTables_Twiddle(t *testing.T) {
	const n = 48
	tab := NewTables(n)
	for k := 0; k < n/2; k++ {
		angle := -math.Pi * (float64(k) + 0.125) / n
		got := tab.Twiddle(k)
		if !closeTo(real(got), math.Cos(angle), 1e-12) || !closeTo(imag(got), math.Sin(angle), 1e-12) {
			t.Errorf("Twiddle(%d) = %v, want angle %v", k, got, angle)
		}
	}
}

func TestTables_DCT4(t *testing.T) {
	for _, n := range []int{8, 16, 48, 272} {
		tab := NewTables(n)
		rng := rand.New(rand.NewSource(int64(n)))
		in := make([]float64, n)
		for i := range in {
			in[i] = rng.Float64()*2 - 1
		}
		out := make([]float64, n)
		tab.dct4(in, out, make([]complex128, n/2))

		for k := 0; k < n; k++ {
			var want float64
			for i := 0; i < n; i++ {
				want += in[i] * math.Cos(math.Pi/float64(n)*(float64(i)+0.5)*(float64(k)+0.5))
			}
			if !closeTo(out[k], want, 1e-9) {
				t.Fatalf("N=%d: dct4[%d] = %v, want %v", n, k, out[k], want)
			}
		}
	}
}

func TestTransform_ForwardMatchesDefinition(t *testing.T) {
	for _, n := range []int{16, 32, 48, 272} {
		tab := NewTables(n)
		tr := New(tab)
		rng := rand.New(rand.NewSource(1))

		blockA := randomBlock(rng, n)
		blockB := randomBlock(rng, n)
		_ = tr.SubmitSamples(blockA)
		_ = tr.SubmitSamples(blockB)

		out := make([]float32, n)
		if err := tr.Forward(out); err != nil {
			t.Fatalf("Forward: %v", err)
		}

		want := directForward(n, append(append([]float32{}, blockA...), blockB...))
		for k := range want {
			if !closeTo(float64(out[k]), want[k], 1e-4) {
				t.Fatalf("N=%d: coeff[%d] = %v, want %v", n, k, out[k], want[k])
			}
		}
	}
}

func TestTransform_InverseMatchesDefinition(t *testing.T) {
	for _, n := range []int{16, 48, 240} {
		tab := NewTables(n)
		tr := New(tab)
		rng := rand.New(rand.NewSource(3))

		prev := randomBlock(rng, n)
		cur := randomBlock(rng, n)
		_ = tr.SubmitCoefficients(prev)
		_ = tr.SubmitCoefficients(cur)

		out := make([]float32, n)
		if err := tr.Inverse(out); err != nil {
			t.Fatalf("Inverse: %v", err)
		}

		for i := 0; i < n; i++ {
			var t1, t2 float64
			for k := 0; k < n; k++ {
				t1 += float64(cur[k]) * kernel(n, i, k)
				t2 += float64(prev[k]) * kernel(n, n+i, k)
			}
			want := 2 / float64(n) * (tab.Window(i)*t1 + tab.Window(n+i)*t2)
			if !closeTo(float64(out[i]), want, 1e-4) {
				t.Fatalf("N=%d: sample %d = %v, want %v", n, i, out[i], want)
			}
		}
	}
}

func TestTransform_PerfectReconstruction(t *testing.T) {
	for _, n := range []int{16, 48, 256, 4080} {
		t.Run("", func(t *testing.T) {
			tab := NewTables(n)
			tr := New(tab)
			rng := rand.New(rand.NewSource(int64(n)))

			blocks := [][]float32{
				randomBlock(rng, n),
				randomBlock(rng, n),
				randomBlock(rng, n),
			}

			coeffs := make([]float32, n)
			out := make([]float32, n)
			var outputs [][]float32
			for _, b := range blocks {
				_ = tr.SubmitSamples(b)
				_ = tr.Forward(coeffs)
				_ = tr.SubmitCoefficients(coeffs)
				_ = tr.Inverse(out)
				outputs = append(outputs, append([]float32{}, out...))
			}

			// One block of delay: cycle c reconstructs input block c-1.
			for c := 1; c < len(blocks); c++ {
				for i := 0; i < n; i++ {
					if d := math.Abs(float64(outputs[c][i] - blocks[c-1][i])); d > 1e-4 {
						t.Fatalf("N=%d cycle %d sample %d: got %v, want %v", n, c, i, outputs[c][i], blocks[c-1][i])
					}
				}
			}
		})
	}
}

func TestTransform_SharedTables(t *testing.T) {
	tab := NewTables(32)
	a := New(tab)
	b := New(tab)
	rng := rand.New(rand.NewSource(7))
	block := randomBlock(rng, 32)

	_ = a.SubmitSamples(block)
	outA := make([]float32, 32)
	_ = a.Forward(outA)

	// b has not seen any samples; its output must not depend on a.
	outB := make([]float32, 32)
	_ = b.Forward(outB)
	for i, v := range outB {
		if v != 0 {
			t.Fatalf("outB[%d] = %v, want 0", i, v)
		}
	}
}

func TestTransform_BlockSize(t *testing.T) {
	tr := New(NewTables(16))
	short := make([]float32, 8)

	if err := tr.SubmitSamples(short); !errors.Is(err, ErrBlockSize) {
		t.Errorf("SubmitSamples err = %v, want ErrBlockSize", err)
	}
	if err := tr.SubmitCoefficients(short); !errors.Is(err, ErrBlockSize) {
		t.Errorf("SubmitCoefficients err = %v, want ErrBlockSize", err)
	}
	if err := tr.Forward(short); !errors.Is(err, ErrBlockSize) {
		t.Errorf("Forward err = %v, want ErrBlockSize", err)
	}
	if err := tr.Inverse(short); !errors.Is(err, ErrBlockSize) {
		t.Errorf("Inverse err = %v, want ErrBlockSize", err)
	}
}

func randomBlock(rng *rand.Rand, n int) []float32 {
	b := make([]float32, n)
	for i := range b {
		b[i] = float32(rng.Float64()*2 - 1)
	}
	return b
}

func benchmarkForward(b *testing.B, n int) {
	tr := New(NewTables(n))
	rng := rand.New(rand.NewSource(1))
	_ = tr.SubmitSamples(randomBlock(rng, n))
	_ = tr.SubmitSamples(randomBlock(rng, n))
	out := make([]float32, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tr.Forward(out)
	}
}

func BenchmarkForward256(b *testing.B)  { benchmarkForward(b, 256) }
func BenchmarkForward4080(b *testing.B) { benchmarkForward(b, 4080) }
