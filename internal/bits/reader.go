// Package bits provides MSB-first bit-level reading and writing for the
// compressed stream.
package bits

import (
	"bufio"
	"errors"
	"io"
)

// ErrShortRead indicates the stream ended in the middle of a field.
var ErrShortRead = errors.New("bits: unexpected end of stream")

// Reader reads bits MSB-first from a sequential byte stream.
//
// Bit reads consume the current byte from its most significant bit down;
// byte-oriented reads (Read, ReadByte) always start at the next byte
// boundary and discard any unread bits of a partially consumed byte.
// The first error is sticky and reported by Err.
type Reader struct {
	src      *bufio.Reader
	cur      uint8 // Partially consumed byte
	bitsLeft uint  // Unread bits in cur (0-8)
	consumed int64 // Whole bytes pulled from src
	err      error
}

// NewReader creates a Reader over r. r is wrapped in a bufio.Reader unless
// it already is one.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{src: br}
}

// Err returns the first error encountered while reading.
func (r *Reader) Err() error {
	return r.err
}

// BitsLeft returns the number of unread bits in the current byte.
func (r *Reader) BitsLeft() uint {
	return r.bitsLeft
}

// Consumed returns the number of bytes taken from the underlying stream.
func (r *Reader) Consumed() int64 {
	return r.consumed
}

func (r *Reader) fail(err error) {
	if r.err != nil {
		return
	}
	if err == io.EOF {
		err = ErrShortRead
	}
	r.err = err
}

func (r *Reader) load() bool {
	b, err := r.src.ReadByte()
	if err != nil {
		r.fail(err)
		return false
	}
	r.consumed++
	r.cur = b
	r.bitsLeft = 8
	return true
}

// Get1Bit reads and returns a single bit. It returns 0 once an error
// has occurred.
func (r *Reader) Get1Bit() uint8 {
	if r.err != nil {
		return 0
	}
	if r.bitsLeft == 0 && !r.load() {
		return 0
	}
	r.bitsLeft--
	return (r.cur >> r.bitsLeft) & 1
}

// GetBits reads n bits (0-32) and returns them right-aligned.
func (r *Reader) GetBits(n uint) uint32 {
	var v uint32
	for n > 0 {
		if r.err != nil {
			return 0
		}
		if r.bitsLeft == 0 && !r.load() {
			return 0
		}
		take := n
		if take > r.bitsLeft {
			take = r.bitsLeft
		}
		shift := r.bitsLeft - take
		chunk := uint32(r.cur>>shift) & (1<<take - 1)
		v = v<<take | chunk
		r.bitsLeft -= take
		n -= take
	}
	return v
}

// ByteAlign discards the unread bits of the current byte.
func (r *Reader) ByteAlign() {
	r.bitsLeft = 0
	r.cur = 0
}

// ReadByte aligns to the next byte boundary and reads one byte.
func (r *Reader) ReadByte() (byte, error) {
	r.ByteAlign()
	if r.err != nil {
		return 0, r.err
	}
	b, err := r.src.ReadByte()
	if err != nil {
		r.fail(err)
		return 0, r.err
	}
	r.consumed++
	return b, nil
}

// Read aligns to the next byte boundary and fills p completely, so it
// never returns a short read without an error.
func (r *Reader) Read(p []byte) (int, error) {
	r.ByteAlign()
	if r.err != nil {
		return 0, r.err
	}
	n, err := io.ReadFull(r.src, p)
	r.consumed += int64(n)
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			err = ErrShortRead
		}
		r.fail(err)
		return n, r.err
	}
	return n, nil
}

// More aligns to the next byte boundary and reports whether at least one
// more byte is available. A clean end of stream is not an error.
func (r *Reader) More() bool {
	r.ByteAlign()
	if r.err != nil {
		return false
	}
	_, err := r.src.Peek(1)
	if err != nil {
		if err != io.EOF {
			r.fail(err)
		}
		return false
	}
	return true
}
