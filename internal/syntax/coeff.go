package syntax

import (
	"github.com/llehouerou/go-toycodec/internal/bits"
	"github.com/llehouerou/go-toycodec/internal/huffman"
	"github.com/llehouerou/go-toycodec/internal/spectrum"
)

// Byte plane contexts.
const (
	lowPlane  = 0
	highPlane = 1
)

// FirstOutOfRange returns the index of the first coefficient whose zig-zag
// value needs more than 16 bits, or -1.
func FirstOutOfRange(coeffs []int32) int {
	for i, c := range coeffs {
		if spectrum.ZigZag(c)&0xFFFF0000 != 0 {
			return i
		}
	}
	return -1
}

// InRange reports whether every coefficient fits the two byte planes.
func InRange(coeffs []int32) bool {
	return FirstOutOfRange(coeffs) < 0
}

// CoeffCoder splits coefficient blocks into a low and a high byte plane of
// their zig-zag values and codes each plane in its own Huffman context.
type CoeffCoder struct {
	huff   *huffman.Coder
	planes [huffman.NumContexts][]byte
}

// NewCoeffCoder creates a CoeffCoder for blocks of width lines.
func NewCoeffCoder(huff *huffman.Coder, width int) *CoeffCoder {
	c := &CoeffCoder{huff: huff}
	for i := range c.planes {
		c.planes[i] = make([]byte, width)
	}
	return c
}

// Huffman returns the underlying entropy coder.
func (c *CoeffCoder) Huffman() *huffman.Coder {
	return c.huff
}

func (c *CoeffCoder) split(coeffs []int32) error {
	if len(coeffs) != len(c.planes[0]) {
		return ErrCoeffCount
	}
	lo, hi := c.planes[lowPlane], c.planes[highPlane]
	for i, v := range coeffs {
		z := spectrum.ZigZag(v)
		if z&0xFFFF0000 != 0 {
			return ErrCoeffRange
		}
		lo[i] = byte(z)
		hi[i] = byte(z >> 8)
	}
	return nil
}

// EstimateBits returns the payload size of coeffs in bits without writing
// anything.
func (c *CoeffCoder) EstimateBits(coeffs []int32) (int, error) {
	if err := c.split(coeffs); err != nil {
		return 0, err
	}
	return c.huff.EstimatePlane(lowPlane, c.planes[lowPlane]) +
		c.huff.EstimatePlane(highPlane, c.planes[highPlane]), nil
}

// Encode writes both planes of coeffs and returns the number of bits
// written.
func (c *CoeffCoder) Encode(w *bits.Writer, coeffs []int32) (int, error) {
	if err := c.split(coeffs); err != nil {
		return 0, err
	}
	n := c.huff.EncodePlane(w, lowPlane, c.planes[lowPlane])
	n += c.huff.EncodePlane(w, highPlane, c.planes[highPlane])
	return n, nil
}

// Decode reads both planes and recombines them into coeffs.
func (c *CoeffCoder) Decode(r *bits.Reader, coeffs []int32) error {
	if len(coeffs) != len(c.planes[0]) {
		return ErrCoeffCount
	}
	for ctx := range c.planes {
		if _, err := c.huff.DecodePlane(r, ctx, c.planes[ctx]); err != nil {
			return err
		}
	}

	lo, hi := c.planes[lowPlane], c.planes[highPlane]
	for i := range coeffs {
		coeffs[i] = spectrum.UnZigZag(uint32(hi[i])<<8 | uint32(lo[i]))
	}
	return nil
}
