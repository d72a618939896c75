package output

// Trimmer drops the decoder's leading pre-roll samples and stops output
// once the stream's total sample count has been reached.
type Trimmer struct {
	skip    int
	total   uint64
	emitted uint64
}

// NewTrimmer creates a Trimmer that skips preRoll samples and emits at
// most total samples per channel. A total of math.MaxUint64 never binds.
func NewTrimmer(preRoll int, total uint64) *Trimmer {
	if preRoll < 0 {
		preRoll = 0
	}
	return &Trimmer{skip: preRoll, total: total}
}

// Trim consumes a decoded block of n samples per channel and returns the
// half-open range [start, end) of it that should be emitted.
func (t *Trimmer) Trim(n int) (start, end int) {
	if t.skip > 0 {
		start = min(t.skip, n)
		t.skip -= start
	}
	end = n
	if left := t.total - t.emitted; uint64(end-start) > left {
		end = start + int(left)
	}
	t.emitted += uint64(end - start)
	return start, end
}

// Emitted returns the number of samples per channel emitted so far.
func (t *Trimmer) Emitted() uint64 {
	return t.emitted
}

// Done reports whether the total sample cap has been reached.
func (t *Trimmer) Done() bool {
	return t.emitted >= t.total
}
