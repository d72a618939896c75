package toycodec

import "io"

// PCMSource yields per-channel float blocks with samples in [-1, 1].
type PCMSource interface {
	SampleRate() int
	Channels() int

	// ReadBlock fills dst[c][:n] for every channel and returns n, which
	// may be less than len(dst[0]). It returns 0, io.EOF at the end.
	ReadBlock(dst [][]float32) (int, error)
}

// PCMSink accepts per-channel float blocks with samples in [-1, 1].
type PCMSink interface {
	WriteBlock(block [][]float32) error
}

// MemoryPCM is an in-memory PCMSource and PCMSink.
type MemoryPCM struct {
	Rate    int
	Samples [][]float32 // one slice per channel
	pos     int
}

// NewMemoryPCM wraps samples, one slice per channel. To collect decoded
// output pass empty slices.
func NewMemoryPCM(sampleRate int, samples [][]float32) *MemoryPCM {
	return &MemoryPCM{Rate: sampleRate, Samples: samples}
}

// SampleRate returns Rate.
func (m *MemoryPCM) SampleRate() int { return m.Rate }

// Channels returns the number of sample slices.
func (m *MemoryPCM) Channels() int { return len(m.Samples) }

// Len returns the number of samples per channel.
func (m *MemoryPCM) Len() int {
	if len(m.Samples) == 0 {
		return 0
	}
	return len(m.Samples[0])
}

// ReadBlock implements PCMSource.
func (m *MemoryPCM) ReadBlock(dst [][]float32) (int, error) {
	if len(dst) != len(m.Samples) {
		return 0, ErrBlockSize
	}
	left := m.Len() - m.pos
	if left <= 0 {
		return 0, io.EOF
	}
	n := min(len(dst[0]), left)
	for c := range dst {
		copy(dst[c][:n], m.Samples[c][m.pos:])
	}
	m.pos += n
	return n, nil
}

// WriteBlock implements PCMSink by appending block.
func (m *MemoryPCM) WriteBlock(block [][]float32) error {
	if len(block) != len(m.Samples) {
		return ErrBlockSize
	}
	for c := range block {
		m.Samples[c] = append(m.Samples[c], block[c]...)
	}
	return nil
}

// Rewind restarts reading at the first sample.
func (m *MemoryPCM) Rewind() {
	m.pos = 0
}
