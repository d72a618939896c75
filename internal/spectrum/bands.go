package spectrum

import (
	"errors"

	"github.com/llehouerou/go-toycodec/internal/tables"
)

// Band mapping errors.
var (
	// ErrBandWidth indicates a frame width that is not a positive multiple of 16.
	ErrBandWidth = errors.New("spectrum: frame width must be a positive multiple of 16")

	// ErrBandCount indicates a band-width table with the wrong number of entries.
	ErrBandCount = errors.New("spectrum: wrong number of bands")

	// ErrBandTable indicates a band-width table with a negative or empty total.
	ErrBandTable = errors.New("spectrum: invalid band width table")
)

// BandMap assigns every transform line to one of the critical bands.
//
// The encoder builds it from the band edge frequencies, the decoder from the
// transmitted per-band line counts. Both paths yield the same line-to-band
// array for the same widths.
type BandMap struct {
	band []uint8 // line -> band, non-decreasing
	skip []bool  // line above the lowpass cutoff; encoder only
}

// NewBandMap maps width lines covering 0..sampleRate/2 onto the critical
// bands. Lines whose start frequency is above cutoff are marked as skipped.
func NewBandMap(width, sampleRate int, cutoff float64) (*BandMap, error) {
	if width <= 0 || width%16 != 0 {
		return nil, ErrBandWidth
	}

	m := &BandMap{
		band: make([]uint8, width),
		skip: make([]bool, width),
	}

	nyquist := float64(sampleRate) / 2
	step := nyquist / float64(width)

	band := 0
	for i := range m.band {
		freq := float64(i) * step
		for band+1 < tables.NumBands && tables.BandEdges[band+1] <= freq {
			band++
		}
		m.band[i] = uint8(band)
		m.skip[i] = freq > cutoff
	}
	return m, nil
}

// BandMapFromWidths rebuilds a mapping from per-band line counts. The skip
// mask of the result is all false.
func BandMapFromWidths(widths []int) (*BandMap, error) {
	if len(widths) != tables.NumBands {
		return nil, ErrBandCount
	}

	total := 0
	for _, w := range widths {
		if w < 0 {
			return nil, ErrBandTable
		}
		total += w
	}
	if total == 0 {
		return nil, ErrBandTable
	}

	m := &BandMap{
		band: make([]uint8, 0, total),
		skip: make([]bool, total),
	}
	for b, w := range widths {
		for i := 0; i < w; i++ {
			m.band = append(m.band, uint8(b))
		}
	}
	return m, nil
}

// Width returns the number of lines covered by the mapping.
func (m *BandMap) Width() int {
	return len(m.band)
}

// Band returns the band of line i.
func (m *BandMap) Band(i int) int {
	return int(m.band[i])
}

// Skip reports whether line i lies above the lowpass cutoff.
func (m *BandMap) Skip(i int) bool {
	return m.skip[i]
}

// Widths returns the number of lines in each band.
func (m *BandMap) Widths() []int {
	widths := make([]int, tables.NumBands)
	for _, b := range m.band {
		widths[b]++
	}
	return widths
}
