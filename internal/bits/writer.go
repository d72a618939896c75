package bits

// Writer accumulates bits MSB-first into an in-memory byte slice.
//
// The encoder builds one frame at a time in a Writer, hands Bytes to the
// byte sink and then calls Reset.
type Writer struct {
	buf      []byte
	cur      uint8 // Bits not yet committed to buf
	bitsUsed uint  // Bits used in cur (0-7)
}

// NewWriter creates a Writer with room for sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// WriteBits writes the low n bits (0-32) of v, most significant first.
func (w *Writer) WriteBits(v uint32, n uint) {
	for n > 0 {
		free := 8 - w.bitsUsed
		take := n
		if take > free {
			take = free
		}
		chunk := uint8(v>>(n-take)) & (1<<take - 1)
		w.cur |= chunk << (free - take)
		w.bitsUsed += take
		n -= take
		if w.bitsUsed == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur = 0
			w.bitsUsed = 0
		}
	}
}

// WriteBit writes a single bit.
func (w *Writer) WriteBit(b uint8) {
	w.WriteBits(uint32(b&1), 1)
}

// WriteBytes writes p starting at the next byte boundary.
func (w *Writer) WriteBytes(p []byte) {
	w.Align()
	w.buf = append(w.buf, p...)
}

// Align pads the current byte with zero bits.
func (w *Writer) Align() {
	if w.bitsUsed == 0 {
		return
	}
	w.buf = append(w.buf, w.cur)
	w.cur = 0
	w.bitsUsed = 0
}

// BitLen returns the number of bits written since the last Reset.
func (w *Writer) BitLen() int {
	return len(w.buf)*8 + int(w.bitsUsed)
}

// Bytes aligns the writer and returns the written bytes. The slice is
// only valid until the next write or Reset.
func (w *Writer) Bytes() []byte {
	w.Align()
	return w.buf
}

// Reset discards all written data and keeps the allocated buffer.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.cur = 0
	w.bitsUsed = 0
}
