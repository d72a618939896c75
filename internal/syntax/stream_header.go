package syntax

import (
	"encoding/binary"
	"io"

	"github.com/llehouerou/go-toycodec/internal/bits"
	"github.com/llehouerou/go-toycodec/internal/huffman"
	"github.com/llehouerou/go-toycodec/internal/tables"
)

// Magic identifies a compressed stream.
const Magic = "TOY1"

// TotalSamplesOffset is the byte offset of the 64-bit total-sample field,
// rewritten once encoding has finished.
const TotalSamplesOffset = 8

// UnknownTotal is the total-sample placeholder written before the count is
// known. A stream whose header was never patched keeps it.
const UnknownTotal uint64 = 1<<64 - 1

// Field limits of the stream header.
const (
	sampleRateUnit = 25
	widthUnit      = 16
	MaxFrameWidth  = 255 * widthUnit
	maxCount       = 256 // channels and bands are sent minus one in a byte
)

// StreamHeader describes a compressed stream. It is written once at the
// start; only TotalSamples is patched afterwards.
//
// Layout:
//
//	magic            4 bytes "TOY1"
//	sampleRate/25    16 bits
//	preRoll          16 bits
//	totalSamples     64 bits
//	channels-1       8 bits
//	midSide-1        8 bits
//	frameWidth/16    8 bits
//	bands-1          8 bits
//	bandWidths       16 bits each, last band omitted
//	scale            16 bits
//	steps            63 x 16 bits
//	huffman lengths  257 bytes, (len0-1)<<4 | (len1-1)
type StreamHeader struct {
	SampleRate      int
	PreRoll         int
	TotalSamples    uint64
	Channels        int
	MidSideChannels int
	FrameWidth      int
	BandWidths      []int // one entry per band
	Scale           int
	Steps           [tables.NumQuantizers]uint16
	Lengths         [huffman.NumContexts]huffman.Lengths
}

// Validate checks every field against the ranges the layout can carry.
func (h *StreamHeader) Validate() error {
	if h.SampleRate <= 0 || h.SampleRate%sampleRateUnit != 0 ||
		h.SampleRate/sampleRateUnit > 0xFFFF {
		return ErrSampleRate
	}
	if h.PreRoll < 0 || h.PreRoll > 0xFFFF {
		return ErrPreRoll
	}
	if h.Channels < 1 || h.Channels > maxCount ||
		h.MidSideChannels < 1 || h.MidSideChannels > h.Channels {
		return ErrChannels
	}
	if h.FrameWidth <= 0 || h.FrameWidth%widthUnit != 0 || h.FrameWidth > MaxFrameWidth {
		return ErrFrameWidth
	}
	if len(h.BandWidths) < 1 || len(h.BandWidths) > maxCount {
		return ErrBandWidths
	}
	sum := 0
	for i, w := range h.BandWidths {
		if w < 0 || (i < len(h.BandWidths)-1 && w > 0xFFFF) {
			return ErrBandWidths
		}
		sum += w
	}
	if sum != h.FrameWidth {
		return ErrBandWidths
	}
	if h.Scale <= 0 || h.Scale > 0xFFFF {
		return ErrScale
	}
	for ctx := range h.Lengths {
		for _, l := range h.Lengths[ctx] {
			if l < 1 || l > huffman.MaxCodeLength {
				return ErrHuffmanLength
			}
		}
	}
	return nil
}

// Size returns the encoded header length in bytes.
func (h *StreamHeader) Size() int {
	return 4 + 2 + 2 + 8 + 4 + 2*(len(h.BandWidths)-1) + 2 +
		2*tables.NumQuantizers + huffman.NumSymbols
}

// MarshalBinary validates the header and encodes it.
func (h *StreamHeader) MarshalBinary() ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, h.Size())
	buf = append(buf, Magic...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(h.SampleRate/sampleRateUnit))
	buf = binary.BigEndian.AppendUint16(buf, uint16(h.PreRoll))
	buf = binary.BigEndian.AppendUint64(buf, h.TotalSamples)
	buf = append(buf,
		byte(h.Channels-1),
		byte(h.MidSideChannels-1),
		byte(h.FrameWidth/widthUnit),
		byte(len(h.BandWidths)-1),
	)
	for _, w := range h.BandWidths[:len(h.BandWidths)-1] {
		buf = binary.BigEndian.AppendUint16(buf, uint16(w))
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(h.Scale))
	for _, s := range h.Steps {
		buf = binary.BigEndian.AppendUint16(buf, s)
	}

	packed, err := PackLengths(h.Lengths)
	if err != nil {
		return nil, err
	}
	buf = append(buf, packed[:]...)
	return buf, nil
}

// WriteTo writes the encoded header to w.
func (h *StreamHeader) WriteTo(w io.Writer) (int64, error) {
	buf, err := h.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadStreamHeader parses a stream header from r. The last band width is
// inferred from the frame width.
func ReadStreamHeader(r *bits.Reader) (*StreamHeader, error) {
	var fixed [20]byte
	if _, err := r.Read(fixed[:]); err != nil {
		return nil, err
	}
	if string(fixed[:4]) != Magic {
		return nil, ErrMagic
	}

	be := binary.BigEndian
	h := &StreamHeader{
		SampleRate:      int(be.Uint16(fixed[4:])) * sampleRateUnit,
		PreRoll:         int(be.Uint16(fixed[6:])),
		TotalSamples:    be.Uint64(fixed[8:]),
		Channels:        int(fixed[16]) + 1,
		MidSideChannels: int(fixed[17]) + 1,
		FrameWidth:      int(fixed[18]) * widthUnit,
	}
	bands := int(fixed[19]) + 1

	// Band widths but the last, scale and steps.
	rest := make([]byte, 2*(bands-1)+2+2*tables.NumQuantizers)
	if _, err := r.Read(rest); err != nil {
		return nil, err
	}

	h.BandWidths = make([]int, bands)
	sum := 0
	for i := 0; i < bands-1; i++ {
		h.BandWidths[i] = int(be.Uint16(rest[2*i:]))
		sum += h.BandWidths[i]
	}
	if sum > h.FrameWidth {
		return nil, ErrBandWidths
	}
	h.BandWidths[bands-1] = h.FrameWidth - sum

	off := 2 * (bands - 1)
	h.Scale = int(be.Uint16(rest[off:]))
	off += 2
	for i := range h.Steps {
		h.Steps[i] = be.Uint16(rest[off+2*i:])
	}

	var packed [huffman.NumSymbols]byte
	if _, err := r.Read(packed[:]); err != nil {
		return nil, err
	}
	h.Lengths = UnpackLengths(packed)

	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// PatchTotalSamples rewrites the total-sample field of a header previously
// written at offset 0 of ws and restores the write position.
func PatchTotalSamples(ws io.WriteSeeker, total uint64) error {
	end, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := ws.Seek(TotalSamplesOffset, io.SeekStart); err != nil {
		return err
	}

	var field [8]byte
	binary.BigEndian.PutUint64(field[:], total)
	if _, err := ws.Write(field[:]); err != nil {
		return err
	}

	_, err = ws.Seek(end, io.SeekStart)
	return err
}

// PackLengths packs both contexts' code lengths into one byte per symbol.
func PackLengths(l [huffman.NumContexts]huffman.Lengths) ([huffman.NumSymbols]byte, error) {
	var packed [huffman.NumSymbols]byte
	for i := range packed {
		l0, l1 := l[0][i], l[1][i]
		if l0 < 1 || l0 > huffman.MaxCodeLength || l1 < 1 || l1 > huffman.MaxCodeLength {
			return packed, ErrHuffmanLength
		}
		packed[i] = (l0-1)<<4 | (l1 - 1)
	}
	return packed, nil
}

// UnpackLengths inverts PackLengths. Every byte value is a valid pair.
func UnpackLengths(packed [huffman.NumSymbols]byte) [huffman.NumContexts]huffman.Lengths {
	var l [huffman.NumContexts]huffman.Lengths
	for i, b := range packed {
		l[0][i] = b>>4 + 1
		l[1][i] = b&0x0F + 1
	}
	return l
}
