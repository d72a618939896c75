package syntax

import "errors"

// Stream header errors.
var (
	// ErrMagic indicates a stream that does not start with the TOY1 magic.
	ErrMagic = errors.New("syntax: bad stream magic")

	// ErrSampleRate indicates a sample rate that is not a positive
	// multiple of 25 or does not fit the 16-bit field.
	ErrSampleRate = errors.New("syntax: invalid sample rate")

	// ErrPreRoll indicates a pre-roll that does not fit 16 bits.
	ErrPreRoll = errors.New("syntax: invalid pre-roll")

	// ErrChannels indicates a channel or mid/side channel count outside
	// the header's range.
	ErrChannels = errors.New("syntax: invalid channel count")

	// ErrFrameWidth indicates a frame width that is not a positive
	// multiple of 16 up to 4080.
	ErrFrameWidth = errors.New("syntax: invalid frame width")

	// ErrBandWidths indicates band widths that do not add up to the
	// frame width.
	ErrBandWidths = errors.New("syntax: band widths do not match frame width")

	// ErrScale indicates a zero quantizer normalization scale.
	ErrScale = errors.New("syntax: invalid quantizer scale")

	// ErrHuffmanLength indicates a code length outside [1, 16].
	ErrHuffmanLength = errors.New("syntax: Huffman code length out of range")
)

// Frame errors.
var (
	// ErrSync indicates a frame header without the sync pattern.
	ErrSync = errors.New("syntax: frame sync mismatch")

	// ErrQuantMode indicates the unassigned quant-info mode 01.
	ErrQuantMode = errors.New("syntax: invalid quant-info mode")

	// ErrQuantIndex indicates a quantizer index above 63.
	ErrQuantIndex = errors.New("syntax: quantizer index out of range")

	// ErrQuantCount indicates a frame with the wrong number of quantizer
	// index vectors for its mode.
	ErrQuantCount = errors.New("syntax: quant-info count does not match mode")

	// ErrCoeffRange indicates a coefficient whose zig-zag value needs more
	// than 16 bits.
	ErrCoeffRange = errors.New("syntax: coefficient exceeds 16 bits")

	// ErrCoeffCount indicates a coefficient block of the wrong length.
	ErrCoeffCount = errors.New("syntax: coefficient block length mismatch")
)
