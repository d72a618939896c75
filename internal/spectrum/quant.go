package spectrum

import (
	"errors"
	"math"

	"github.com/llehouerou/go-toycodec/internal/tables"
)

// Quantizer errors.
var (
	// ErrStepTable indicates a step-size table of the wrong length or with
	// a zero entry.
	ErrStepTable = errors.New("spectrum: invalid quantizer step table")

	// ErrLengthMismatch indicates input and output slice lengths don't match.
	ErrLengthMismatch = errors.New("spectrum: input and output length mismatch")
)

// Quantizer converts transform coefficients to integers and back using a
// per-band step size.
type Quantizer struct {
	scale float64
	steps []float64 // NumQuantizers entries; the mute index has none
	bands *BandMap
}

// NewQuantizer creates a Quantizer over bands with normalization scale and
// the given step-size table.
func NewQuantizer(scale int, steps []uint16, bands *BandMap) (*Quantizer, error) {
	if len(steps) != tables.NumQuantizers || scale <= 0 {
		return nil, ErrStepTable
	}

	q := &Quantizer{
		scale: float64(scale),
		steps: make([]float64, len(steps)),
		bands: bands,
	}
	for i, s := range steps {
		if s == 0 {
			return nil, ErrStepTable
		}
		q.steps[i] = float64(s)
	}
	return q, nil
}

// Bands returns the band mapping the quantizer was built with.
func (q *Quantizer) Bands() *BandMap {
	return q.bands
}

// Quantize computes out[i] = round(coeffs[i] * scale / step[band(i)]),
// rounding half away from zero. Lines in a band at the mute index and
// skipped lines become 0.
func (q *Quantizer) Quantize(coeffs []float32, qidx []uint8, out []int32) error {
	if len(coeffs) != q.bands.Width() || len(out) != len(coeffs) {
		return ErrLengthMismatch
	}

	for i, c := range coeffs {
		idx := int(qidx[q.bands.band[i]])
		if idx >= tables.MuteIndex || q.bands.skip[i] {
			out[i] = 0
			continue
		}

		scaled := float64(c) * q.scale / q.steps[idx]
		out[i] = int32(clampInt32(math.Round(scaled)))
	}
	return nil
}

// Unquantize computes out[i] = ints[i] * step[band(i)] / scale.
func (q *Quantizer) Unquantize(ints []int32, qidx []uint8, out []float32) error {
	if len(ints) != q.bands.Width() || len(out) != len(ints) {
		return ErrLengthMismatch
	}

	for i, v := range ints {
		idx := int(qidx[q.bands.band[i]])
		if idx >= tables.MuteIndex || v == 0 {
			out[i] = 0
			continue
		}
		out[i] = float32(float64(v) * q.steps[idx] / q.scale)
	}
	return nil
}

func clampInt32(v float64) float64 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return v
}
