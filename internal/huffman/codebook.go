package huffman

import (
	"errors"

	"github.com/llehouerou/go-toycodec/internal/bits"
)

// Alphabet constants.
const (
	// NumSymbols is the alphabet size: 256 byte values plus STOP.
	NumSymbols = 257

	// Stop ends a plane early; the rest of the plane is zero.
	Stop = 256

	// MaxCodeLength is the longest code a 4-bit length field can describe.
	MaxCodeLength = 16
)

// Codebook errors.
var (
	// ErrLengthRange indicates a code length outside [1, MaxCodeLength].
	ErrLengthRange = errors.New("huffman: code length out of range")

	// ErrSymbolCount indicates a length table that does not cover the alphabet.
	ErrSymbolCount = errors.New("huffman: length table size mismatch")

	// ErrOversubscribed indicates lengths that cannot form a prefix code.
	ErrOversubscribed = errors.New("huffman: code lengths oversubscribed")

	// ErrInvalidCode indicates a bit sequence that matches no code within
	// MaxCodeLength bits.
	ErrInvalidCode = errors.New("huffman: invalid code in bitstream")
)

// Lengths holds one code length per symbol.
type Lengths [NumSymbols]uint8

// Codebook is a canonical prefix code built from a length table.
//
// Symbols are ordered by (length, symbol value); each code is the previous
// code plus one, shifted left by the length difference.
type Codebook struct {
	lengths Lengths
	codes   [NumSymbols]uint16

	// Decoding tables: number of codes per length and the symbols in
	// canonical order.
	count   [MaxCodeLength + 1]uint16
	symbols [NumSymbols]uint16
}

// NewCodebook builds the canonical code for lengths. Every length must be in
// [1, MaxCodeLength] and the table must not be oversubscribed. An incomplete
// table is accepted; its unused codes fail to decode.
func NewCodebook(lengths []uint8) (*Codebook, error) {
	if len(lengths) != NumSymbols {
		return nil, ErrSymbolCount
	}

	cb := &Codebook{}
	copy(cb.lengths[:], lengths)

	for _, l := range lengths {
		if l < 1 || l > MaxCodeLength {
			return nil, ErrLengthRange
		}
		cb.count[l]++
	}

	// Kraft inequality.
	left := 1
	for l := 1; l <= MaxCodeLength; l++ {
		left <<= 1
		left -= int(cb.count[l])
		if left < 0 {
			return nil, ErrOversubscribed
		}
	}

	// Offsets of each length in the canonical symbol order.
	var offs [MaxCodeLength + 2]uint16
	for l := 1; l <= MaxCodeLength; l++ {
		offs[l+1] = offs[l] + cb.count[l]
	}
	for sym, l := range lengths {
		cb.symbols[offs[l]] = uint16(sym)
		offs[l]++
	}

	code := uint32(0)
	prevLen := uint8(0)
	for _, sym := range cb.symbols {
		l := cb.lengths[sym]
		code <<= l - prevLen
		prevLen = l
		cb.codes[sym] = uint16(code)
		code++
	}

	return cb, nil
}

// Lengths returns the length table the codebook was built from.
func (cb *Codebook) Lengths() Lengths {
	return cb.lengths
}

// Len returns the code length of sym.
func (cb *Codebook) Len(sym int) int {
	return int(cb.lengths[sym])
}

// Code returns the code of sym, right-aligned in Len(sym) bits.
func (cb *Codebook) Code(sym int) uint32 {
	return uint32(cb.codes[sym])
}

// WriteSymbol writes the code of sym and returns its length.
func (cb *Codebook) WriteSymbol(w *bits.Writer, sym int) int {
	l := cb.lengths[sym]
	w.WriteBits(uint32(cb.codes[sym]), uint(l))
	return int(l)
}

// ReadSymbol reads one code bit by bit and returns its symbol.
func (cb *Codebook) ReadSymbol(r *bits.Reader) (int, error) {
	code := 0  // bits read so far
	first := 0 // first code of the current length
	index := 0 // index of the first code of the current length in symbols

	for l := 1; l <= MaxCodeLength; l++ {
		code |= int(r.Get1Bit())
		if err := r.Err(); err != nil {
			return 0, err
		}

		count := int(cb.count[l])
		if code-first < count {
			return int(cb.symbols[index+code-first]), nil
		}
		index += count
		first += count
		first <<= 1
		code <<= 1
	}
	return 0, ErrInvalidCode
}
