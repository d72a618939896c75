package syntax

import (
	"github.com/llehouerou/go-toycodec/internal/bits"
	"github.com/llehouerou/go-toycodec/internal/tables"
)

// Frame holds one frame's header, quantizer indices and quantized
// coefficients.
//
// Quant has Header.Mode.Vectors(channels) entries: none when the previous
// indices are reused, one when shared, one per channel otherwise. Coeffs
// has one block per channel.
type Frame struct {
	Header FrameHeader
	Quant  [][]uint8
	Coeffs [][]int32
}

// FrameCoder writes and reads whole frames.
type FrameCoder struct {
	coeffs   *CoeffCoder
	channels int
	buf      [QuantInfoBytes]byte
}

// NewFrameCoder creates a FrameCoder for the given channel count.
func NewFrameCoder(coeffs *CoeffCoder, channels int) *FrameCoder {
	return &FrameCoder{coeffs: coeffs, channels: channels}
}

// Coeffs returns the coefficient coder.
func (fc *FrameCoder) Coeffs() *CoeffCoder {
	return fc.coeffs
}

// Write appends f to w starting at a byte boundary and pads the end to the
// next byte. It returns the number of payload bits before padding.
func (fc *FrameCoder) Write(w *bits.Writer, f *Frame) (int, error) {
	if len(f.Quant) != f.Header.Mode.Vectors(fc.channels) {
		return 0, ErrQuantCount
	}
	if len(f.Coeffs) != fc.channels {
		return 0, ErrCoeffCount
	}

	w.Align()
	w.WriteBytes([]byte{f.Header.Byte()})
	for _, q := range f.Quant {
		if err := PackQuantInfo(q, fc.buf[:]); err != nil {
			return 0, err
		}
		w.WriteBytes(fc.buf[:])
	}

	n := 0
	for _, block := range f.Coeffs {
		bitsUsed, err := fc.coeffs.Encode(w, block)
		if err != nil {
			return 0, err
		}
		n += bitsUsed
	}
	w.Align()
	return n, nil
}

// Read parses the next frame from r into f. f.Coeffs must hold one block
// per channel; f.Quant is resized to the frame's mode.
func (fc *FrameCoder) Read(r *bits.Reader, f *Frame) error {
	if len(f.Coeffs) != fc.channels {
		return ErrCoeffCount
	}

	b, err := r.ReadByte()
	if err != nil {
		return err
	}
	f.Header, err = ParseFrameHeader(b)
	if err != nil {
		return err
	}

	nq := f.Header.Mode.Vectors(fc.channels)
	for len(f.Quant) < nq {
		f.Quant = append(f.Quant, make([]uint8, tables.NumBands))
	}
	f.Quant = f.Quant[:nq]
	for _, q := range f.Quant {
		if _, err := r.Read(fc.buf[:]); err != nil {
			return err
		}
		UnpackQuantInfo(fc.buf[:], q)
	}

	for _, block := range f.Coeffs {
		if err := fc.coeffs.Decode(r, block); err != nil {
			return err
		}
	}
	return nil
}
