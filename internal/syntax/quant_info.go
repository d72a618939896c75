package syntax

import "github.com/llehouerou/go-toycodec/internal/tables"

// QuantInfoBytes is the packed size of one quantizer index vector.
const QuantInfoBytes = tables.NumBands * 6 / 8

// PackQuantInfo packs 16 six-bit indices MSB-first into dst.
func PackQuantInfo(qidx []uint8, dst []byte) error {
	if len(qidx) != tables.NumBands {
		return ErrQuantCount
	}
	var acc uint32
	n := uint(0)
	j := 0
	for _, q := range qidx {
		if q > tables.MaxIndex {
			return ErrQuantIndex
		}
		acc = acc<<6 | uint32(q)
		n += 6
		for n >= 8 {
			n -= 8
			dst[j] = byte(acc >> n)
			j++
		}
	}
	return nil
}

// UnpackQuantInfo unpacks 16 six-bit indices from src.
func UnpackQuantInfo(src []byte, qidx []uint8) {
	var acc uint32
	n := uint(0)
	j := 0
	for _, b := range src[:QuantInfoBytes] {
		acc = acc<<8 | uint32(b)
		n += 8
		for n >= 6 {
			n -= 6
			qidx[j] = uint8(acc>>n) & 0x3F
			j++
		}
	}
}
