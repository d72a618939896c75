package spectrum

import "github.com/llehouerou/go-toycodec/internal/tables"

// NoiseToPeak returns, for every band, the quantization error energy
// divided by the band's peak squared magnitude and by the number of lines
// that contributed. Only non-skipped lines with a non-zero original
// coefficient take part. A band without such lines reports 0.
func NoiseToPeak(bands *BandMap, original, restored []float32, out []float64) {
	var (
		sum   [tables.NumBands]float64
		peak  [tables.NumBands]float64
		count [tables.NumBands]int
	)

	for i, o := range original {
		if o == 0 || bands.skip[i] {
			continue
		}
		b := bands.band[i]
		o2 := float64(o) * float64(o)
		if o2 > peak[b] {
			peak[b] = o2
		}
		err := float64(o) - float64(restored[i])
		sum[b] += err * err
		count[b]++
	}

	for b := range out {
		if count[b] == 0 || peak[b] == 0 {
			out[b] = 0
			continue
		}
		out[b] = sum[b] / peak[b] / float64(count[b])
	}
}
