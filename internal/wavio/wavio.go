// Package wavio adapts 16-bit PCM WAV files to the codec's block-based
// PCM source and sink contracts.
package wavio

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/llehouerou/go-toycodec/internal/output"
)

var (
	ErrInvalidFile = errors.New("wavio: not a valid WAV file")
	ErrBitDepth    = errors.New("wavio: only 16-bit PCM is supported")
	ErrChannels    = errors.New("wavio: block channel count mismatch")
)

const bitDepth = 16

// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
const wavFormatPCM = 1

// Source reads per-channel float blocks from a WAV file.
type Source struct {
	dec        *wav.Decoder
	buf        *audio.IntBuffer
	sampleRate int
	channels   int
}

// NewSource parses the WAV header from r.
func NewSource(r io.ReadSeeker) (*Source, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("wavio: reading header: %w", err)
	}
	if dec.BitDepth != bitDepth {
		return nil, fmt.Errorf("%w: got %d bits", ErrBitDepth, dec.BitDepth)
	}
	s := &Source{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
	}
	s.buf = &audio.IntBuffer{
		Format: &audio.Format{NumChannels: s.channels, SampleRate: s.sampleRate},
	}
	return s, nil
}

// SampleRate returns the file's sample rate in Hz.
func (s *Source) SampleRate() int { return s.sampleRate }

// Channels returns the file's channel count.
func (s *Source) Channels() int { return s.channels }

// ReadBlock fills dst with up to len(dst[0]) samples per channel and
// returns how many were read. It returns 0, io.EOF at the end of the data.
func (s *Source) ReadBlock(dst [][]float32) (int, error) {
	if len(dst) != s.channels {
		return 0, ErrChannels
	}
	frames := len(dst[0])
	want := frames * s.channels
	if cap(s.buf.Data) < want {
		s.buf.Data = make([]int, want)
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("wavio: reading samples: %w", err)
	}
	got := n / s.channels
	if got == 0 {
		return 0, io.EOF
	}
	output.FromPCM16(s.buf.Data[:got*s.channels], dst, got)
	return got, nil
}

// Sink writes per-channel float blocks to a 16-bit WAV file. The RIFF
// sizes are patched by Close.
type Sink struct {
	enc      *wav.Encoder
	buf      *audio.IntBuffer
	pcm      []int16
	channels int
}

// NewSink starts a 16-bit PCM WAV file on w.
func NewSink(w io.WriteSeeker, sampleRate, channels int) *Sink {
	return &Sink{
		enc: wav.NewEncoder(w, sampleRate, bitDepth, channels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
		channels: channels,
	}
}

// WriteBlock writes len(block[0]) samples of every channel.
func (s *Sink) WriteBlock(block [][]float32) error {
	if len(block) != s.channels {
		return ErrChannels
	}
	frames := len(block[0])
	if frames == 0 {
		return nil
	}
	n := frames * s.channels
	if cap(s.pcm) < n {
		s.pcm = make([]int16, n)
		s.buf.Data = make([]int, n)
	}
	s.pcm = s.pcm[:n]
	s.buf.Data = s.buf.Data[:n]
	output.ToPCM16(block, frames, s.pcm)
	for i, v := range s.pcm {
		s.buf.Data[i] = int(v)
	}
	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("wavio: writing samples: %w", err)
	}
	return nil
}

// Close finalizes the WAV header. It does not close the underlying writer.
func (s *Sink) Close() error {
	if err := s.enc.Close(); err != nil {
		return fmt.Errorf("wavio: finalizing: %w", err)
	}
	return nil
}
