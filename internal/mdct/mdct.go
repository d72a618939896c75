// Package mdct implements the windowed lapped transform (MDCT/IMDCT) with
// a sine window and one block of algorithmic delay.
//
// Both directions fold the 2N-sample lapped transform into a DCT-IV of N
// lines, which is computed as an N/2 point complex FFT between a pre- and
// a post-rotation.
package mdct

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// ErrBlockSize indicates a block whose length differs from the transform size.
var ErrBlockSize = errors.New("mdct: block length does not match transform size")

// Tables holds the window and twiddle tables for one transform size N.
// A Tables value is immutable after NewTables returns and may be shared by
// any number of Transforms.
type Tables struct {
	N       int          // Lines per block
	window  []float64    // 2N sine window
	twiddle []complex128 // N/2 pre/post rotations
}

// NewTables builds the tables for transform size n. n must be positive
// and even.
func NewTables(n int) *Tables {
	if n <= 0 || n%2 != 0 {
		panic("mdct: size must be positive and even")
	}

	t := &Tables{
		N:       n,
		window:  make([]float64, 2*n),
		twiddle: make([]complex128, n/2),
	}

	// window[n] = sin((n + 0.5) / 2N * pi)
	for i := range t.window {
		t.window[i] = math.Sin((float64(i) + 0.5) / float64(2*n) * math.Pi)
	}

	// twiddle[k] = exp(-i * pi * (k + 1/8) / N)
	for k := range t.twiddle {
		t.twiddle[k] = cmplx.Exp(complex(0, -math.Pi*(float64(k)+0.125)/float64(n)))
	}

	return t
}

// Window returns the window coefficient at position i (0 <= i < 2N).
func (t *Tables) Window(i int) float64 {
	return t.window[i]
}

// Twiddle returns the rotation applied to FFT bin k (0 <= k < N/2).
func (t *Tables) Twiddle(k int) complex128 {
	return t.twiddle[k]
}

// dct4 computes
//
//	out[k] = sum_{n<N} in[n] * cos(pi/N * (n + 0.5) * (k + 0.5))
//
// Even inputs form the real and reversed odd inputs the imaginary part of
// an N/2 point sequence. After rotating, transforming and rotating again,
// bin k holds out[2k] in its real part and -out[N-1-2k] in its imaginary
// part. buf must hold N/2 values.
func (t *Tables) dct4(in, out []float64, buf []complex128) {
	n := t.N
	half := n / 2
	for m := 0; m < half; m++ {
		buf[m] = complex(in[2*m], in[n-1-2*m]) * t.twiddle[m]
	}
	bins := fft.FFT(buf)
	for k := 0; k < half; k++ {
		y := bins[k] * t.twiddle[k]
		out[2*k] = real(y)
		out[n-1-2*k] = -imag(y)
	}
}

// Transform holds the per-channel history of one MDCT/IMDCT pair.
//
// The sample history keeps the previous and the current input block. The
// coefficient history keeps the DCT-IV of the previous and the current
// coefficient block, which is all the overlap-add needs.
type Transform struct {
	tab     *Tables
	samples []float32    // 2N: previous block, current block
	spectra []float64    // 2N: DCT-IV of previous block, current block
	fold    []float64    // N
	lines   []float64    // N
	buf     []complex128 // N/2
}

// New creates a Transform that uses the shared tables tab.
func New(tab *Tables) *Transform {
	n := tab.N
	return &Transform{
		tab:     tab,
		samples: make([]float32, 2*n),
		spectra: make([]float64, 2*n),
		fold:    make([]float64, n),
		lines:   make([]float64, n),
		buf:     make([]complex128, n/2),
	}
}

// Size returns the number of lines per block.
func (t *Transform) Size() int {
	return t.tab.N
}

// SubmitSamples shifts the sample history by one block and appends block.
func (t *Transform) SubmitSamples(block []float32) error {
	n := t.tab.N
	if len(block) != n {
		return ErrBlockSize
	}
	copy(t.samples[:n], t.samples[n:])
	copy(t.samples[n:], block)
	return nil
}

// SubmitCoefficients shifts the coefficient history by one block and
// appends block.
func (t *Transform) SubmitCoefficients(block []float32) error {
	n := t.tab.N
	if len(block) != n {
		return ErrBlockSize
	}
	copy(t.spectra[:n], t.spectra[n:])
	for i, v := range block {
		t.fold[i] = float64(v)
	}
	t.tab.dct4(t.fold, t.spectra[n:], t.buf)
	return nil
}

// Forward computes the N coefficients of the windowed 2N sample history:
//
//	out[k] = sum_{i<2N} window[i] * x[i] * cos(pi/N * (i + 0.5 + N/2) * (k + 0.5))
//
// With the windowed history split into quarters (a, b, c, d), this equals
// the DCT-IV of (-c reversed - d, a - b reversed).
func (t *Transform) Forward(out []float32) error {
	n := t.tab.N
	if len(out) != n {
		return ErrBlockSize
	}

	half := n / 2
	w := t.tab.window
	x := t.samples
	for j := 0; j < half; j++ {
		c := n + half - 1 - j
		d := n + half + j
		b := n - 1 - j
		t.fold[j] = -w[c]*float64(x[c]) - w[d]*float64(x[d])
		t.fold[half+j] = w[j]*float64(x[j]) - w[b]*float64(x[b])
	}

	t.tab.dct4(t.fold, t.lines, t.buf)
	for k, v := range t.lines {
		out[k] = float32(v)
	}
	return nil
}

// Inverse reconstructs the N samples covered by the previous and the
// current coefficient block by overlap-adding their windowed inverse
// transforms:
//
//	out[i] = 2/N * (window[i] * sum_k cur[k]*cos(i,k) + window[N+i] * sum_k prev[k]*cos(N+i,k))
//
// Each inverse transform is its block's DCT-IV, unfolded with the kernel's
// odd symmetries.
func (t *Transform) Inverse(out []float32) error {
	n := t.tab.N
	if len(out) != n {
		return ErrBlockSize
	}

	half := n / 2
	w := t.tab.window
	prev := t.spectra[:n]
	cur := t.spectra[n:]
	scale := 2 / float64(n)

	for i := 0; i < half; i++ {
		out[i] = float32(scale * (w[i]*cur[half+i] - w[n+i]*prev[half-1-i]))
	}
	for i := half; i < n; i++ {
		out[i] = float32(-scale * (w[i]*cur[3*half-1-i] + w[n+i]*prev[i-half]))
	}
	return nil
}

// Reset clears both histories.
func (t *Transform) Reset() {
	clear(t.samples)
	clear(t.spectra)
}
