package ratectl

// Budget skew applied to mid and side when mid/side is used.
var (
	vbrSkew = [2]float64{0.9, 1.1}
	abrSkew = [2]float64{11.0 / 8, 5.0 / 8}
)

// DecideMidSide reports whether the frame is coded as mid/side and fills
// adjust with each channel's budget factor. A channel pair always uses
// mid/side; any other layout codes channels independently with factor 1.
func DecideMidSide(channels int, vbr bool, adjust []float64) bool {
	if channels == 2 {
		skew := abrSkew
		if vbr {
			skew = vbrSkew
		}
		copy(adjust, skew[:])
		return true
	}

	for c := range adjust {
		adjust[c] = 1
	}
	return false
}
