package ratectl

// Reuse tolerances and the forced refresh interval.
const (
	// coarsenTolerance is how far a band may get coarser than the sent
	// index before a refresh.
	coarsenTolerance = 30

	// sharpenTolerance is how far a band may get finer than the sent index
	// before a refresh.
	sharpenTolerance = 12

	// MaxReused is the number of consecutive frames that may reuse the
	// previous indices.
	MaxReused = 16
)

// Similar reports whether next is close enough to prev to keep sending
// prev.
func Similar(next, prev []uint8) bool {
	for b := range next {
		n, p := int(next[b]), int(prev[b])
		switch {
		case n > p && n-p > coarsenTolerance:
			return false
		case n < p && p-n > sharpenTolerance:
			return false
		}
	}
	return true
}

// Reuse decides per frame whether the decoder gets new quantizer indices
// or keeps the previous ones.
type Reuse struct {
	prev   [][]uint8
	reused int
	primed bool
}

// NewReuse creates a Reuse for vectors of bands entries.
func NewReuse(channels, bands int) *Reuse {
	r := &Reuse{prev: make([][]uint8, channels)}
	for c := range r.prev {
		r.prev[c] = make([]uint8, bands)
	}
	return r
}

// Prev returns the indices the decoder currently holds for channel c.
func (r *Reuse) Prev(c int) []uint8 {
	return r.prev[c]
}

// Primed reports whether indices have been sent at least once.
func (r *Reuse) Primed() bool {
	return r.primed
}

// Decide compares the searched vectors with the ones last sent.
// prevInRange[c] says whether channel c's coefficients still fit when
// quantized with the previous indices.
//
// On refresh the new vectors become the reference. Otherwise next is
// overwritten with the previous vectors. The first frame, any channel out
// of tolerance and MaxReused reused frames in a row force a refresh.
func (r *Reuse) Decide(next [][]uint8, prevInRange []bool) bool {
	refresh := !r.primed || r.reused >= MaxReused
	for c := range next {
		if !prevInRange[c] || !Similar(next[c], r.prev[c]) {
			refresh = true
		}
	}

	if refresh {
		for c := range next {
			copy(r.prev[c], next[c])
		}
		r.reused = 0
		r.primed = true
		return true
	}

	for c := range next {
		copy(next[c], r.prev[c])
	}
	r.reused++
	return false
}
