package tables

import "math"

// Quantizer table constants.
const (
	// NumQuantizers is the number of transmitted step sizes.
	NumQuantizers = 63

	// MuteIndex is the quantizer index that forces a band to zero.
	MuteIndex = NumQuantizers

	// MaxIndex is the largest value a 6-bit quantizer index can hold.
	MaxIndex = 63

	// GlobalScale normalizes transform coefficients before division by
	// the step size.
	GlobalScale = 512

	// stepOctaves is the span of the step-size table in octaves.
	stepOctaves = 10
)

// StepSizes returns the default step-size table: 2^(i*10/62) rounded,
// bumped where needed so that the table is strictly increasing.
func StepSizes() [NumQuantizers]uint16 {
	var steps [NumQuantizers]uint16
	exp := float64(stepOctaves) / float64(NumQuantizers-1)
	for i := range steps {
		q := uint16(math.Round(math.Pow(2, float64(i)*exp)))
		if i > 0 && q <= steps[i-1] {
			q = steps[i-1] + 1
		}
		steps[i] = q
	}
	return steps
}

// DefaultQuantIndex is the starting profile of the ABR search.
var DefaultQuantIndex = [NumBands]uint8{
	5, 4, 3, 2, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 5,
}

// MaxQuantIndex caps the search per band. The lowest bands are never
// muted.
var MaxQuantIndex = [NumBands]uint8{
	62, 62, 62, 62, 62, 62, 62, 63, 63, 63, 63, 63, 63, 63, 63, 63,
}

// NoiseTargets is the per-band noise-to-peak target of the VBR search
// before scaling by the quality setting.
var NoiseTargets = [NumBands]float64{
	.002, .0001, .0002, .0005, .001, .001, .001, .001,
	.001, .001, .001, .001, .002, .003, .003, .02,
}
