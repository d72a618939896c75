// Package output provides the decoder output stage: pre-roll and length
// trimming, and conversion between float samples and 16-bit PCM.
package output

import "math"

// PCMScale maps the float range [-1.0, 1.0] onto 16-bit PCM.
const PCMScale = float32(32767.0)

// FloatScale is the inverse of PCMScale.
const FloatScale = float32(1.0 / 32767.0)

// clip16 clips and rounds a float32 to int16 range.
func clip16(sample float32) int16 {
	if sample >= 32767.0 {
		return 32767
	}
	if sample <= -32768.0 {
		return -32768
	}
	return int16(math.RoundToEven(float64(sample)))
}

// Sample16 converts one float sample in [-1.0, 1.0] to 16-bit PCM.
// Out-of-range input is clipped.
func Sample16(sample float32) int16 {
	return clip16(sample * PCMScale)
}

// ToPCM16 interleaves frames samples of every channel of input into
// output as 16-bit PCM. output must hold frames*len(input) values.
func ToPCM16(input [][]float32, frames int, output []int16) {
	channels := len(input)
	switch channels {
	case 1:
		ch := input[0]
		for i := 0; i < frames; i++ {
			output[i] = Sample16(ch[i])
		}
	case 2:
		l, r := input[0], input[1]
		for i := 0; i < frames; i++ {
			output[i*2+0] = Sample16(l[i])
			output[i*2+1] = Sample16(r[i])
		}
	default:
		for c := 0; c < channels; c++ {
			for i := 0; i < frames; i++ {
				output[i*channels+c] = Sample16(input[c][i])
			}
		}
	}
}

// FromPCM16 de-interleaves frames samples of 16-bit PCM into per-channel
// float blocks.
func FromPCM16(input []int, output [][]float32, frames int) {
	channels := len(output)
	for c := 0; c < channels; c++ {
		ch := output[c]
		for i := 0; i < frames; i++ {
			ch[i] = float32(input[i*channels+c]) * FloatScale
		}
	}
}
