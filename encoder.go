package toycodec

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/llehouerou/go-toycodec/internal/bits"
	"github.com/llehouerou/go-toycodec/internal/huffman"
	"github.com/llehouerou/go-toycodec/internal/logger"
	"github.com/llehouerou/go-toycodec/internal/mdct"
	"github.com/llehouerou/go-toycodec/internal/ratectl"
	"github.com/llehouerou/go-toycodec/internal/spectrum"
	"github.com/llehouerou/go-toycodec/internal/syntax"
	"github.com/llehouerou/go-toycodec/internal/tables"
)

// MaxChannels is the largest channel count the encoder accepts.
const MaxChannels = 2

var (
	errChannels   = errors.New("toycodec: channel count must be 1 or 2")
	errRatio      = errors.New("toycodec: compression ratio must be positive")
	errLowpass    = errors.New("toycodec: lowpass must be positive")
	errBudget     = errors.New("toycodec: compression ratio leaves no room for coefficients")
	errShortBlock = errors.New("toycodec: block after a short block")
)

// Encoder compresses PCM blocks into a TOY1 stream.
type Encoder struct {
	w             io.Writer
	log           *logger.Logger
	header        *syntax.StreamHeader
	headerAtStart bool
	channels      int
	width         int

	transforms []*mdct.Transform
	huff       *huffman.Coder
	frames     *syntax.FrameCoder
	search     *ratectl.Searcher
	rate       *ratectl.Controller
	reuse      *ratectl.Reuse
	bw         *bits.Writer

	// Per-channel scratch.
	block       [][]float32
	coeffs      [][]float32
	qidx        [][]uint8
	ints        [][]int32
	prevInts    [][]int32
	prevInRange []bool
	adjust      []float64
	frame       syntax.Frame

	ended      bool
	closed     bool
	err        error
	quantSum   uint64
	quantCount uint64
	stats      EncodeStats
}

// NewEncoder validates cfg, writes the stream header to w and returns an
// Encoder for PCM with the given sample rate and channel count.
//
// If w is an io.WriteSeeker positioned at offset 0, Close rewrites the
// header's total sample count.
func NewEncoder(w io.Writer, sampleRate, channels int, cfg EncoderConfig) (*Encoder, error) {
	if channels < 1 || channels > MaxChannels {
		return nil, wrap(ErrConfig, errChannels)
	}
	if cfg.Quality < 0 && !(cfg.Ratio > 0) {
		return nil, wrap(ErrConfig, errRatio)
	}
	if !(cfg.Lowpass > 0) {
		return nil, wrap(ErrConfig, errLowpass)
	}
	if cfg.FrameWidth <= 0 || cfg.FrameWidth > syntax.MaxFrameWidth {
		return nil, wrap(ErrConfig, syntax.ErrFrameWidth)
	}

	out := cfg.LogOutput
	if out == nil {
		out = os.Stderr
	}
	level := cfg.LogLevel
	if level == "" {
		level = DefaultLogLevel
	}

	lengths := huffman.DefaultLengths()
	if cfg.HuffmanLengths != nil {
		lengths = cfg.HuffmanLengths.lengths()
	}
	huff, err := huffman.NewCoder(lengths)
	if err != nil {
		return nil, wrap(ErrConfig, err)
	}

	bands, err := spectrum.NewBandMap(cfg.FrameWidth, sampleRate, cfg.Lowpass)
	if err != nil {
		return nil, wrap(ErrConfig, err)
	}
	steps := tables.StepSizes()
	quant, err := spectrum.NewQuantizer(tables.GlobalScale, steps[:], bands)
	if err != nil {
		return nil, wrap(ErrConfig, err)
	}

	h := &syntax.StreamHeader{
		SampleRate:      sampleRate,
		PreRoll:         cfg.FrameWidth,
		TotalSamples:    syntax.UnknownTotal,
		Channels:        channels,
		MidSideChannels: channels,
		FrameWidth:      cfg.FrameWidth,
		BandWidths:      bands.Widths(),
		Scale:           tables.GlobalScale,
		Steps:           steps,
		Lengths:         lengths,
	}
	hdr, err := h.MarshalBinary()
	if err != nil {
		return nil, wrap(ErrConfig, err)
	}

	ratio := cfg.Ratio
	if !(ratio > 0) {
		ratio = DefaultRatio
	}

	e := &Encoder{
		w:        w,
		log:      logger.NewLogger("Encoder", level, out),
		header:   h,
		channels: channels,
		width:    cfg.FrameWidth,
		huff:     huff,
		rate:     ratectl.NewController(cfg.FrameWidth, channels, ratio),
		reuse:    ratectl.NewReuse(channels, tables.NumBands),
		bw:       bits.NewWriter(cfg.FrameWidth * channels * 4),
	}
	if cfg.Quality < 0 && e.rate.ChannelBudget() <= 0 {
		return nil, wrap(ErrConfig, errBudget)
	}

	cc := syntax.NewCoeffCoder(huff, cfg.FrameWidth)
	e.frames = syntax.NewFrameCoder(cc, channels)
	e.search = ratectl.NewSearcher(quant, cc, cfg.Quality)

	tab := mdct.NewTables(cfg.FrameWidth)
	e.transforms = make([]*mdct.Transform, channels)
	e.block = make([][]float32, channels)
	e.coeffs = make([][]float32, channels)
	e.qidx = make([][]uint8, channels)
	e.ints = make([][]int32, channels)
	e.prevInts = make([][]int32, channels)
	e.prevInRange = make([]bool, channels)
	e.adjust = make([]float64, channels)
	for c := 0; c < channels; c++ {
		e.transforms[c] = mdct.New(tab)
		e.block[c] = make([]float32, cfg.FrameWidth)
		e.coeffs[c] = make([]float32, cfg.FrameWidth)
		e.qidx[c] = make([]uint8, tables.NumBands)
		e.ints[c] = make([]int32, cfg.FrameWidth)
		e.prevInts[c] = make([]int32, cfg.FrameWidth)
	}
	e.frame.Coeffs = make([][]int32, channels)
	e.frame.Quant = make([][]uint8, 0, channels)

	if ws, ok := w.(io.WriteSeeker); ok {
		pos, err := ws.Seek(0, io.SeekCurrent)
		e.headerAtStart = err == nil && pos == 0
	}
	if _, err := w.Write(hdr); err != nil {
		return nil, wrap(ErrIO, err)
	}
	e.stats.Bytes = int64(len(hdr))

	mode := "ABR"
	if e.search.VBR() {
		mode = "VBR"
	}
	e.log.Infof("%d Hz, %d channels, width %d, %s, bands %v",
		sampleRate, channels, cfg.FrameWidth, mode, h.BandWidths)
	return e, nil
}

// FrameWidth returns the number of samples per channel in one block.
func (e *Encoder) FrameWidth() int {
	return e.width
}

// WriteBlock encodes one block of up to FrameWidth samples per channel.
// A block shorter than FrameWidth is padded with silence and ends the
// input; only Close may follow it.
func (e *Encoder) WriteBlock(block [][]float32) error {
	if e.closed {
		return ErrClosed
	}
	if e.err != nil {
		return e.err
	}
	if len(block) != e.channels {
		return wrap(ErrBlockSize, fmt.Errorf("got %d channels, want %d", len(block), e.channels))
	}
	n := len(block[0])
	for c := range block {
		if len(block[c]) != n || n > e.width {
			return wrap(ErrBlockSize, fmt.Errorf("channel %d has %d samples, frame width %d", c, len(block[c]), e.width))
		}
	}
	if n == 0 {
		return nil
	}
	if e.ended {
		return wrap(ErrBlockSize, errShortBlock)
	}

	for c := range block {
		copy(e.block[c], block[c])
		clear(e.block[c][n:])
	}
	if n < e.width {
		e.ended = true
	}
	e.stats.TotalSamples += uint64(n)

	if err := e.encodeFrame(); err != nil {
		e.err = err
		return err
	}
	return nil
}

// Close encodes the final silent frame that drains the transform,
// derives tuned Huffman tables and patches the header's total sample
// count when the writer allows it.
func (e *Encoder) Close() (EncodeStats, error) {
	if e.closed {
		return e.stats, ErrClosed
	}
	e.closed = true
	if e.err != nil {
		return e.stats, e.err
	}

	for c := range e.block {
		clear(e.block[c])
	}
	if err := e.encodeFrame(); err != nil {
		e.err = err
		return e.stats, err
	}

	if e.quantCount > 0 {
		e.stats.AverageQuantIndex = float64(e.quantSum) / float64(e.quantCount)
	}
	if tuned, err := e.huff.TunedLengths(); err != nil {
		e.log.Warnf("could not derive tuned Huffman tables: %v", err)
	} else {
		t := tablesFromLengths(tuned)
		e.stats.TunedLengths = &t
	}

	if ws, ok := e.w.(io.WriteSeeker); ok && e.headerAtStart {
		if err := syntax.PatchTotalSamples(ws, e.stats.TotalSamples); err != nil {
			e.err = wrap(ErrIO, err)
			return e.stats, e.err
		}
	} else {
		e.log.Warnf("output is not seekable from the stream start, total sample count stays unknown")
	}

	q := e.stats.QuantInfo
	e.log.Infof("frames: %d, total samples: %d, bytes: %d", e.stats.Frames, e.stats.TotalSamples, e.stats.Bytes)
	e.log.Infof("average quantizer index: %.3f", e.stats.AverageQuantIndex)
	e.log.Infof("quant info shared: %d, per channel: %d, none: %d", q.Shared, q.PerChannel, q.None)
	return e.stats, nil
}

// encodeFrame codes the samples in e.block as the next frame.
func (e *Encoder) encodeFrame() error {
	midSide := ratectl.DecideMidSide(e.channels, e.search.VBR(), e.adjust)
	if midSide {
		spectrum.ToMidSide(e.block[0], e.block[1])
	}

	for c, t := range e.transforms {
		if err := t.SubmitSamples(e.block[c]); err != nil {
			return wrap(ErrBlockSize, err)
		}
		if err := t.Forward(e.coeffs[c]); err != nil {
			return wrap(ErrBlockSize, err)
		}
	}

	budget := e.rate.ChannelBudget()
	for c := range e.coeffs {
		e.prevInRange[c] = false
		if e.reuse.Primed() {
			ok, err := e.search.InRange(e.coeffs[c], e.reuse.Prev(c), e.prevInts[c])
			if err != nil {
				return wrap(ErrRange, err)
			}
			e.prevInRange[c] = ok
		}

		res, err := e.search.Search(e.coeffs[c], budget, e.adjust[c], e.qidx[c], e.ints[c])
		if err != nil {
			return wrap(ErrRange, err)
		}
		if !res.Converged {
			e.stats.SearchCapHits++
			e.log.Warnf("frame %d channel %d: quantizer search stopped after %d iterations at %d bits (budget %d)",
				e.stats.Frames, c, res.Iterations, res.Bits, int(float64(budget)*e.adjust[c]))
		}
	}

	refresh := e.reuse.Decide(e.qidx, e.prevInRange)
	ints := e.ints
	if !refresh {
		ints = e.prevInts
	}

	f := &e.frame
	f.Header.MidSide = midSide
	f.Quant = f.Quant[:0]
	switch {
	case !refresh:
		f.Header.Mode = syntax.QuantNone
		e.stats.QuantInfo.None++
	case e.channels == 1 || sameVectors(e.qidx):
		f.Header.Mode = syntax.QuantShared
		f.Quant = append(f.Quant, e.qidx[0])
		e.stats.QuantInfo.Shared++
	default:
		f.Header.Mode = syntax.QuantPerChannel
		f.Quant = append(f.Quant, e.qidx...)
		e.stats.QuantInfo.PerChannel++
	}
	copy(f.Coeffs, ints)

	e.bw.Reset()
	payload, err := e.frames.Write(e.bw, f)
	if err != nil {
		if errors.Is(err, syntax.ErrCoeffRange) {
			return wrap(ErrRange, err)
		}
		return wrap(ErrConfig, err)
	}
	buf := e.bw.Bytes()
	if _, err := e.w.Write(buf); err != nil {
		return wrap(ErrIO, err)
	}
	frameBits := len(buf) * 8
	e.rate.Submit(frameBits)

	for _, q := range e.qidx {
		for _, v := range q {
			e.quantSum += uint64(v)
		}
		e.quantCount += uint64(len(q))
	}
	e.stats.Frames++
	e.stats.Bytes += int64(len(buf))
	if midSide {
		e.stats.MidSideFrames++
	}

	if e.log.Enabled(logger.LevelDebug) {
		seconds := float64(e.stats.Frames*e.width) / float64(e.header.SampleRate)
		e.log.Debugf("frame %d: %s, midside %v, %d bits (%d payload), unspent %d, %.1f kbps",
			e.stats.Frames, f.Header.Mode, midSide, frameBits, payload, e.rate.Unspent(),
			float64(e.stats.Bytes*8)/math.Max(seconds, 1e-9)/1000)
	}
	return nil
}

func sameVectors(v [][]uint8) bool {
	for _, q := range v[1:] {
		if !slices.Equal(q, v[0]) {
			return false
		}
	}
	return true
}

// Encode reads src to the end and writes the compressed stream to w.
func Encode(src PCMSource, w io.Writer, cfg EncoderConfig) (EncodeStats, error) {
	enc, err := NewEncoder(w, src.SampleRate(), src.Channels(), cfg)
	if err != nil {
		return EncodeStats{}, err
	}

	width := enc.FrameWidth()
	buf := make([][]float32, src.Channels())
	view := make([][]float32, len(buf))
	for c := range buf {
		buf[c] = make([]float32, width)
	}

	for {
		n, err := readFull(src, buf, view)
		if n > 0 {
			for c := range buf {
				view[c] = buf[c][:n]
			}
			if werr := enc.WriteBlock(view); werr != nil {
				return enc.stats, werr
			}
		}
		if err != nil && err != io.EOF {
			return enc.stats, wrap(ErrIO, err)
		}
		if err == io.EOF || n < width {
			break
		}
	}
	return enc.Close()
}

// readFull reads until buf is full or src ends. view is scratch space of
// len(buf). A nil error means buf is full.
func readFull(src PCMSource, buf, view [][]float32) (int, error) {
	width := len(buf[0])
	filled := 0
	for filled < width {
		for c := range buf {
			view[c] = buf[c][filled:]
		}
		n, err := src.ReadBlock(view)
		filled += n
		if err != nil {
			return filled, err
		}
		if n == 0 {
			return filled, io.ErrNoProgress
		}
	}
	return filled, nil
}
