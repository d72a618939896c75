package huffman

import "github.com/llehouerou/go-toycodec/internal/bits"

// NumContexts is the number of independent coding contexts: one for the
// low byte plane and one for the high byte plane.
const NumContexts = 2

// Coder codes byte planes with one codebook per context and counts the
// symbols it emits.
type Coder struct {
	books [NumContexts]*Codebook
	freqs [NumContexts][NumSymbols]uint64
}

// NewCoder builds a Coder from one length table per context.
func NewCoder(lengths [NumContexts]Lengths) (*Coder, error) {
	c := &Coder{}
	for ctx := range lengths {
		cb, err := NewCodebook(lengths[ctx][:])
		if err != nil {
			return nil, err
		}
		c.books[ctx] = cb
	}
	return c, nil
}

// Codebook returns the codebook of context ctx.
func (c *Coder) Codebook(ctx int) *Codebook {
	return c.books[ctx]
}

// Lengths returns the length tables of both contexts.
func (c *Coder) Lengths() [NumContexts]Lengths {
	var l [NumContexts]Lengths
	for ctx, cb := range c.books {
		l[ctx] = cb.lengths
	}
	return l
}

// lastNonZero returns the index of the last non-zero byte, or -1.
func lastNonZero(plane []byte) int {
	for i := len(plane) - 1; i >= 0; i-- {
		if plane[i] != 0 {
			return i
		}
	}
	return -1
}

// EncodePlane writes plane up to its last non-zero byte, followed by STOP
// unless that byte is the final one. It returns the number of bits written.
func (c *Coder) EncodePlane(w *bits.Writer, ctx int, plane []byte) int {
	cb := c.books[ctx]
	freqs := &c.freqs[ctx]

	last := lastNonZero(plane)
	n := 0
	for _, b := range plane[:last+1] {
		n += cb.WriteSymbol(w, int(b))
		freqs[b]++
	}
	if last < len(plane)-1 {
		n += cb.WriteSymbol(w, Stop)
		freqs[Stop]++
	}
	return n
}

// EstimatePlane returns the number of bits EncodePlane would write for plane
// without writing or counting anything.
func (c *Coder) EstimatePlane(ctx int, plane []byte) int {
	cb := c.books[ctx]

	last := lastNonZero(plane)
	n := 0
	for _, b := range plane[:last+1] {
		n += int(cb.lengths[b])
	}
	if last < len(plane)-1 {
		n += int(cb.lengths[Stop])
	}
	return n
}

// DecodePlane fills plane from r. Decoding ends at STOP, after which the
// rest of the plane is zeroed, or once the plane is full. It returns the
// number of bytes decoded before STOP.
func (c *Coder) DecodePlane(r *bits.Reader, ctx int, plane []byte) (int, error) {
	cb := c.books[ctx]

	i := 0
	for i < len(plane) {
		sym, err := cb.ReadSymbol(r)
		if err != nil {
			return i, err
		}
		if sym == Stop {
			break
		}
		plane[i] = byte(sym)
		i++
	}
	clear(plane[i:])
	return i, nil
}

// Frequencies returns the number of times each symbol was written in
// context ctx.
func (c *Coder) Frequencies(ctx int) []uint64 {
	f := make([]uint64, NumSymbols)
	copy(f, c.freqs[ctx][:])
	return f
}

// TunedLengths derives length tables from the symbols written so far.
//
// Frequencies are smoothed first so that every byte value is strictly more
// frequent than the next higher one and STOP is never absent; the tables
// therefore still code unseen values.
func (c *Coder) TunedLengths() ([NumContexts]Lengths, error) {
	var out [NumContexts]Lengths
	for ctx := range c.freqs {
		freqs := c.Frequencies(ctx)
		smooth(freqs)

		lengths, err := DeriveLengths(freqs)
		if err != nil {
			return out, err
		}
		copy(out[ctx][:], lengths)
	}
	return out, nil
}

func smooth(freqs []uint64) {
	if freqs[255] == 0 {
		freqs[255] = 1
	}
	for i := 254; i >= 0; i-- {
		if freqs[i] <= freqs[i+1] {
			freqs[i] = freqs[i+1] + 1
		}
	}
	if freqs[Stop] == 0 {
		freqs[Stop] = 1
	}
}
