package ratectl

import (
	"errors"

	"github.com/llehouerou/go-toycodec/internal/spectrum"
	"github.com/llehouerou/go-toycodec/internal/syntax"
	"github.com/llehouerou/go-toycodec/internal/tables"
)

// Search limits.
const (
	// MaxABRIterations caps the budget search.
	MaxABRIterations = 200

	// vbrCeiling is the coarsest index the quality search moves a band to.
	vbrCeiling = tables.NumQuantizers - 1

	// maxVBRIterations caps the quality search. Every pass moves at least
	// one band by one step, so it never takes more than vbrCeiling+1
	// passes.
	maxVBRIterations = vbrCeiling + 1
)

// ErrUnrepresentable indicates a band that overflows 16 bits even at its
// coarsest index.
var ErrUnrepresentable = errors.New("ratectl: coefficients exceed 16 bits at coarsest quantizer")

// Result describes one channel's search.
type Result struct {
	Iterations int  // quantize/estimate passes
	Converged  bool // budget or noise targets met before the cap
	Bits       int  // estimated payload bits for the chosen indices
}

// Searcher finds per-band quantizer indices for one channel's coefficient
// block.
//
// A non-negative quality selects the VBR search, which coarsens each band
// until its noise-to-peak ratio reaches its target scaled by quality. A
// negative quality selects the ABR search, which coarsens all bands
// together until the estimated payload fits the budget.
type Searcher struct {
	quant   *spectrum.Quantizer
	coeffs  *syntax.CoeffCoder
	quality float64

	restored []float32
	noise    []float64
}

// NewSearcher creates a Searcher. cc is only used to estimate sizes.
func NewSearcher(quant *spectrum.Quantizer, cc *syntax.CoeffCoder, quality float64) *Searcher {
	return &Searcher{
		quant:    quant,
		coeffs:   cc,
		quality:  quality,
		restored: make([]float32, quant.Bands().Width()),
		noise:    make([]float64, tables.NumBands),
	}
}

// VBR reports whether the searcher targets quality rather than a budget.
func (s *Searcher) VBR() bool {
	return s.quality >= 0
}

// Search picks indices for coeffs into qidx and leaves the matching
// quantized block in ints. budget is the channel's bit budget (ABR) and
// adjust its stereo factor, which scales the budget or the noise targets.
func (s *Searcher) Search(coeffs []float32, budget int, adjust float64, qidx []uint8, ints []int32) (Result, error) {
	var (
		res Result
		err error
	)
	if s.VBR() {
		res, err = s.searchVBR(coeffs, adjust, qidx, ints)
	} else {
		res, err = s.searchABR(coeffs, int(float64(budget)*adjust), qidx, ints)
	}
	if err != nil {
		return res, err
	}

	s.markSilentBands(qidx, ints)
	return res, nil
}

// InRange reports whether coeffs quantized with qidx fit 16 bits. ints
// receives the quantized block.
func (s *Searcher) InRange(coeffs []float32, qidx []uint8, ints []int32) (bool, error) {
	if err := s.quant.Quantize(coeffs, qidx, ints); err != nil {
		return false, err
	}
	return syntax.InRange(ints), nil
}

// coarsen moves band one step towards its maximum index and reports
// whether it moved.
func coarsen(qidx []uint8, band int) bool {
	if qidx[band] >= tables.MaxQuantIndex[band] {
		return false
	}
	qidx[band]++
	return true
}

// ensureInRange coarsens the band of the first overflowing line until the
// whole block fits 16 bits.
func (s *Searcher) ensureInRange(coeffs []float32, qidx []uint8, ints []int32) error {
	bands := s.quant.Bands()
	for {
		if err := s.quant.Quantize(coeffs, qidx, ints); err != nil {
			return err
		}
		line := syntax.FirstOutOfRange(ints)
		if line < 0 {
			return nil
		}
		if !coarsen(qidx, bands.Band(line)) {
			return ErrUnrepresentable
		}
	}
}

func (s *Searcher) searchABR(coeffs []float32, budget int, qidx []uint8, ints []int32) (Result, error) {
	copy(qidx, tables.DefaultQuantIndex[:])
	if err := s.ensureInRange(coeffs, qidx, ints); err != nil {
		return Result{}, err
	}

	var res Result
	for {
		if res.Iterations > 0 {
			moved := false
			for b := range qidx {
				if coarsen(qidx, b) {
					moved = true
				}
			}
			if !moved {
				return res, nil
			}
			if err := s.quant.Quantize(coeffs, qidx, ints); err != nil {
				return res, err
			}
		}

		bits, err := s.coeffs.EstimateBits(ints)
		if err != nil {
			return res, err
		}
		res.Iterations++
		res.Bits = bits

		if bits <= budget {
			res.Converged = true
			return res, nil
		}
		if res.Iterations >= MaxABRIterations {
			return res, nil
		}
	}
}

func (s *Searcher) searchVBR(coeffs []float32, adjust float64, qidx []uint8, ints []int32) (Result, error) {
	clear(qidx)
	if err := s.ensureInRange(coeffs, qidx, ints); err != nil {
		return Result{}, err
	}

	bands := s.quant.Bands()
	var res Result
	for res.Iterations < maxVBRIterations {
		res.Iterations++
		if err := s.quant.Quantize(coeffs, qidx, ints); err != nil {
			return res, err
		}
		if err := s.quant.Unquantize(ints, qidx, s.restored); err != nil {
			return res, err
		}
		spectrum.NoiseToPeak(bands, coeffs, s.restored, s.noise)

		changed := false
		for b := range qidx {
			target := tables.NoiseTargets[b] * s.quality * adjust
			if s.noise[b] < target && qidx[b] < vbrCeiling && coarsen(qidx, b) {
				changed = true
			}
		}
		if !changed {
			res.Converged = true
			break
		}
	}

	if err := s.quant.Quantize(coeffs, qidx, ints); err != nil {
		return res, err
	}
	bits, err := s.coeffs.EstimateBits(ints)
	if err != nil {
		return res, err
	}
	res.Bits = bits
	return res, nil
}

// markSilentBands moves every band without a non-zero line to its maximum
// index. The quantized lines stay zero.
func (s *Searcher) markSilentBands(qidx []uint8, ints []int32) {
	bands := s.quant.Bands()

	var audible [tables.NumBands]bool
	for i, v := range ints {
		if v != 0 {
			audible[bands.Band(i)] = true
		}
	}
	for b := range qidx {
		if !audible[b] {
			qidx[b] = tables.MaxQuantIndex[b]
		}
	}
}
