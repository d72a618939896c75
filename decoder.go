package toycodec

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/llehouerou/go-toycodec/internal/bits"
	"github.com/llehouerou/go-toycodec/internal/huffman"
	"github.com/llehouerou/go-toycodec/internal/logger"
	"github.com/llehouerou/go-toycodec/internal/mdct"
	"github.com/llehouerou/go-toycodec/internal/output"
	"github.com/llehouerou/go-toycodec/internal/spectrum"
	"github.com/llehouerou/go-toycodec/internal/syntax"
)

var errNoQuantInfo = errors.New("toycodec: frame reuses quantizer indices before any were sent")

// DecoderConfig holds optional decoder settings.
type DecoderConfig struct {
	// LogLevel is the decoder log level (DEBUG, INFO, WARN, ERROR).
	LogLevel string

	// LogOutput receives log lines. nil means os.Stderr.
	LogOutput io.Writer
}

// Decoder reads a TOY1 stream and produces PCM blocks.
//
// Output starts after the stream's pre-roll and stops at its total
// sample count. When the count is UnknownTotalSamples, every decoded
// sample is returned.
type Decoder struct {
	r      *bits.Reader
	log    *logger.Logger
	header *syntax.StreamHeader
	info   StreamInfo

	quant      *spectrum.Quantizer
	frames     *syntax.FrameCoder
	transforms []*mdct.Transform
	trim       *output.Trimmer

	frame     syntax.Frame
	qidx      [][]uint8 // indices in effect per channel
	haveQuant bool
	midSide   bool // flag of the last stream frame
	coeffs    []float32

	out      [][]float32 // last decoded block
	pos, end int         // unread range of out

	flushed bool
	eof     bool
	err     error
	stats   DecodeStats
}

// NewDecoder parses the stream header from r with default settings.
func NewDecoder(r io.Reader) (*Decoder, error) {
	return NewDecoderConfig(r, DecoderConfig{})
}

// NewDecoderConfig parses the stream header from r.
func NewDecoderConfig(r io.Reader, cfg DecoderConfig) (*Decoder, error) {
	out := cfg.LogOutput
	if out == nil {
		out = os.Stderr
	}
	level := cfg.LogLevel
	if level == "" {
		level = DefaultLogLevel
	}

	d := &Decoder{
		r:   bits.NewReader(r),
		log: logger.NewLogger("Decoder", level, out),
	}

	h, err := syntax.ReadStreamHeader(d.r)
	if err != nil {
		return nil, d.readError(err)
	}
	d.header = h

	huff, err := huffman.NewCoder(h.Lengths)
	if err != nil {
		return nil, wrap(ErrFormat, err)
	}
	bands, err := spectrum.BandMapFromWidths(h.BandWidths)
	if err != nil {
		return nil, wrap(ErrFormat, err)
	}
	d.quant, err = spectrum.NewQuantizer(h.Scale, h.Steps[:], bands)
	if err != nil {
		return nil, wrap(ErrFormat, err)
	}

	width := h.FrameWidth
	d.frames = syntax.NewFrameCoder(syntax.NewCoeffCoder(huff, width), h.Channels)
	d.trim = output.NewTrimmer(h.PreRoll, h.TotalSamples)
	d.coeffs = make([]float32, width)

	tab := mdct.NewTables(width)
	d.transforms = make([]*mdct.Transform, h.Channels)
	d.qidx = make([][]uint8, h.Channels)
	d.out = make([][]float32, h.Channels)
	d.frame.Coeffs = make([][]int32, h.Channels)
	for c := range d.transforms {
		d.transforms[c] = mdct.New(tab)
		d.qidx[c] = make([]uint8, len(h.BandWidths))
		d.out[c] = make([]float32, width)
		d.frame.Coeffs[c] = make([]int32, width)
	}

	d.info = StreamInfo{
		SampleRate:      h.SampleRate,
		Channels:        h.Channels,
		MidSideChannels: h.MidSideChannels,
		FrameWidth:      width,
		PreRoll:         h.PreRoll,
		TotalSamples:    h.TotalSamples,
		BandWidths:      append([]int(nil), h.BandWidths...),
		HeaderBytes:     h.Size(),
	}
	d.log.Infof("sample rate: %d, channels: %d, width: %d, bands: %d",
		h.SampleRate, h.Channels, width, len(h.BandWidths))
	return d, nil
}

// Info returns the stream parameters.
func (d *Decoder) Info() StreamInfo {
	return d.info
}

// SampleRate returns the stream's sample rate in Hz.
func (d *Decoder) SampleRate() int { return d.info.SampleRate }

// Channels returns the stream's channel count.
func (d *Decoder) Channels() int { return d.info.Channels }

// Stats returns the statistics collected so far.
func (d *Decoder) Stats() DecodeStats {
	return d.stats
}

// readError classifies an error from reading the stream. Failures of the
// underlying reader are I/O errors; everything else, a truncated stream
// included, is a format error.
func (d *Decoder) readError(err error) error {
	if rerr := d.r.Err(); rerr != nil && !errors.Is(rerr, bits.ErrShortRead) {
		return wrap(ErrIO, rerr)
	}
	return wrap(ErrFormat, err)
}

// ReadBlock implements PCMSource. It fills up to len(dst[0]) samples per
// channel and returns 0, io.EOF once the stream is exhausted. An empty dst
// reads nothing and returns 0, nil.
func (d *Decoder) ReadBlock(dst [][]float32) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	if len(dst) != d.info.Channels {
		return 0, wrap(ErrBlockSize, fmt.Errorf("got %d channels, want %d", len(dst), d.info.Channels))
	}

	want := len(dst[0])
	if want == 0 {
		return 0, nil
	}
	n := 0
	for n < want {
		if d.pos == d.end {
			if d.eof || d.trim.Done() {
				d.eof = true
				break
			}
			if err := d.decodeFrame(); err != nil {
				if err == io.EOF {
					d.eof = true
					break
				}
				d.err = err
				if n > 0 {
					break
				}
				return 0, err
			}
			continue
		}

		k := min(want-n, d.end-d.pos)
		for c := range dst {
			copy(dst[c][n:n+k], d.out[c][d.pos:d.pos+k])
		}
		d.pos += k
		n += k
	}

	d.stats.Samples += uint64(n)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// WriteTo decodes the whole stream into sink.
func (d *Decoder) WriteTo(sink PCMSink) (DecodeStats, error) {
	buf := make([][]float32, d.info.Channels)
	view := make([][]float32, len(buf))
	for c := range buf {
		buf[c] = make([]float32, d.info.FrameWidth)
	}

	for {
		n, err := d.ReadBlock(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return d.stats, err
		}
		for c := range buf {
			view[c] = buf[c][:n]
		}
		if err := sink.WriteBlock(view); err != nil {
			d.err = wrap(ErrIO, err)
			return d.stats, d.err
		}
	}

	q := d.stats.QuantInfo
	d.log.Infof("decoded %d frames (%d flush), %d samples", d.stats.Frames, d.stats.FlushFrames, d.stats.Samples)
	d.log.Infof("quant info shared: %d, per channel: %d, none: %d", q.Shared, q.PerChannel, q.None)
	return d.stats, nil
}

// decodeFrame decodes the next frame into d.out and sets the range to
// emit. After the last stream frame it decodes one silent frame to drain
// the transform overlap, then returns io.EOF.
func (d *Decoder) decodeFrame() error {
	if d.r.More() {
		if err := d.readFrame(); err != nil {
			return err
		}
	} else {
		if err := d.r.Err(); err != nil {
			return wrap(ErrIO, err)
		}
		if d.flushed {
			return io.EOF
		}
		d.flushed = true
		clear(d.coeffs)
		for c, t := range d.transforms {
			if err := d.synthesize(t, d.out[c]); err != nil {
				return err
			}
		}
		d.stats.FlushFrames++
	}

	if d.midSide {
		for c := 0; c+1 < d.info.Channels && c+1 < d.info.MidSideChannels; c += 2 {
			spectrum.ToLeftRight(d.out[c], d.out[c+1])
		}
	}

	d.pos, d.end = d.trim.Trim(d.info.FrameWidth)
	return nil
}

// readFrame parses one stream frame and inverse-transforms it.
func (d *Decoder) readFrame() error {
	f := &d.frame
	if err := d.frames.Read(d.r, f); err != nil {
		return d.readError(err)
	}

	switch f.Header.Mode {
	case syntax.QuantShared:
		for c := range d.qidx {
			copy(d.qidx[c], f.Quant[0])
		}
		d.haveQuant = true
		d.stats.QuantInfo.Shared++
	case syntax.QuantPerChannel:
		for c := range d.qidx {
			copy(d.qidx[c], f.Quant[c])
		}
		d.haveQuant = true
		d.stats.QuantInfo.PerChannel++
	default:
		if !d.haveQuant {
			return wrap(ErrFormat, errNoQuantInfo)
		}
		d.stats.QuantInfo.None++
	}

	for c, t := range d.transforms {
		if err := d.quant.Unquantize(f.Coeffs[c], d.qidx[c], d.coeffs); err != nil {
			return wrap(ErrFormat, err)
		}
		if err := d.synthesize(t, d.out[c]); err != nil {
			return err
		}
	}
	d.midSide = f.Header.MidSide
	d.stats.Frames++
	d.log.Debugf("frame %d: %s, midside %v", d.stats.Frames, f.Header.Mode, f.Header.MidSide)
	return nil
}

// synthesize feeds d.coeffs to t and writes the reconstructed block to out.
func (d *Decoder) synthesize(t *mdct.Transform, out []float32) error {
	if err := t.SubmitCoefficients(d.coeffs); err != nil {
		return wrap(ErrFormat, err)
	}
	if err := t.Inverse(out); err != nil {
		return wrap(ErrFormat, err)
	}
	return nil
}
