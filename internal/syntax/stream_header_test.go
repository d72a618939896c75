package syntax

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/llehouerou/go-toycodec/internal/bits"
	"github.com/llehouerou/go-toycodec/internal/huffman"
	"github.com/llehouerou/go-toycodec/internal/tables"
)

func testHeader() *StreamHeader {
	h := &StreamHeader{
		SampleRate:      44100,
		PreRoll:         512,
		TotalSamples:    123456789012,
		Channels:        2,
		MidSideChannels: 2,
		FrameWidth:      512,
		BandWidths:      []int{2, 3, 6, 7, 7, 9, 12, 11, 14, 19, 35, 42, 50, 58, 93, 144},
		Scale:           tables.GlobalScale,
		Steps:           tables.StepSizes(),
		Lengths:         huffman.DefaultLengths(),
	}
	return h
}

func TestStreamHeader_RoundTrip(t *testing.T) {
	h := testHeader()

	data, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(data) != h.Size() {
		t.Errorf("len = %d, Size() = %d", len(data), h.Size())
	}

	got, err := ReadStreamHeader(bits.NewReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("ReadStreamHeader: %v", err)
	}

	if got.SampleRate != h.SampleRate || got.PreRoll != h.PreRoll ||
		got.TotalSamples != h.TotalSamples || got.Channels != h.Channels ||
		got.MidSideChannels != h.MidSideChannels || got.FrameWidth != h.FrameWidth ||
		got.Scale != h.Scale {
		t.Errorf("scalar fields differ:\n got %+v\nwant %+v", got, h)
	}
	if len(got.BandWidths) != len(h.BandWidths) {
		t.Fatalf("band count = %d, want %d", len(got.BandWidths), len(h.BandWidths))
	}
	for i := range h.BandWidths {
		if got.BandWidths[i] != h.BandWidths[i] {
			t.Errorf("BandWidths[%d] = %d, want %d", i, got.BandWidths[i], h.BandWidths[i])
		}
	}
	if got.Steps != h.Steps {
		t.Errorf("Steps differ")
	}
	if got.Lengths != h.Lengths {
		t.Errorf("Lengths differ")
	}
}

func TestStreamHeader_Layout(t *testing.T) {
	h := testHeader()
	data, err := h.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	if string(data[:4]) != Magic {
		t.Errorf("magic = %q", data[:4])
	}
	// 44100 / 25 = 1764 = 0x06E4
	if data[4] != 0x06 || data[5] != 0xE4 {
		t.Errorf("sample rate bytes = %#x %#x", data[4], data[5])
	}
	if data[6] != 0x02 || data[7] != 0x00 {
		t.Errorf("pre-roll bytes = %#x %#x", data[6], data[7])
	}
	wantFields := []byte{1, 1, 512 / 16, 15}
	if !bytes.Equal(data[16:20], wantFields) {
		t.Errorf("count bytes = %v, want %v", data[16:20], wantFields)
	}
	// First band width, big-endian.
	if data[20] != 0 || data[21] != 2 {
		t.Errorf("first band width bytes = %#x %#x", data[20], data[21])
	}
}

func TestStreamHeader_ArbitraryFields(t *testing.T) {
	lengths := huffman.DefaultLengths()
	lengths[0][7] = 16
	lengths[1][0] = 1

	h := &StreamHeader{
		SampleRate:      8000,
		PreRoll:         65535,
		TotalSamples:    0,
		Channels:        1,
		MidSideChannels: 1,
		FrameWidth:      4080,
		BandWidths:      []int{4000, 0, 80},
		Scale:           1,
		Lengths:         lengths,
	}
	for i := range h.Steps {
		h.Steps[i] = uint16(65535 - i)
	}

	data, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	got, err := ReadStreamHeader(bits.NewReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("ReadStreamHeader: %v", err)
	}
	if got.BandWidths[2] != 80 {
		t.Errorf("inferred last band = %d, want 80", got.BandWidths[2])
	}
	if got.PreRoll != 65535 || got.FrameWidth != 4080 || got.Steps != h.Steps || got.Lengths != lengths {
		t.Errorf("fields differ after round trip: %+v", got)
	}
}

func TestStreamHeader_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(h *StreamHeader)
		want   error
	}{
		{"sample rate not multiple of 25", func(h *StreamHeader) { h.SampleRate = 44101 }, ErrSampleRate},
		{"sample rate too high", func(h *StreamHeader) { h.SampleRate = 25 * 70000 }, ErrSampleRate},
		{"pre-roll", func(h *StreamHeader) { h.PreRoll = 70000 }, ErrPreRoll},
		{"no channels", func(h *StreamHeader) { h.Channels = 0 }, ErrChannels},
		{"mid/side above channels", func(h *StreamHeader) { h.MidSideChannels = 3 }, ErrChannels},
		{"width not multiple of 16", func(h *StreamHeader) { h.FrameWidth = 500 }, ErrFrameWidth},
		{"width too large", func(h *StreamHeader) { h.FrameWidth = 4096 }, ErrFrameWidth},
		{"band sum", func(h *StreamHeader) { h.BandWidths[0]++ }, ErrBandWidths},
		{"no bands", func(h *StreamHeader) { h.BandWidths = nil }, ErrBandWidths},
		{"scale", func(h *StreamHeader) { h.Scale = 0 }, ErrScale},
		{"length zero", func(h *StreamHeader) { h.Lengths[1][3] = 0 }, ErrHuffmanLength},
		{"length 17", func(h *StreamHeader) { h.Lengths[0][256] = 17 }, ErrHuffmanLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testHeader()
			tt.mutate(h)
			if err := h.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate = %v, want %v", err, tt.want)
			}
			if _, err := h.MarshalBinary(); !errors.Is(err, tt.want) {
				t.Errorf("MarshalBinary = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadStreamHeader_Errors(t *testing.T) {
	valid, err := testHeader().MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	badMagic := append([]byte(nil), valid...)
	copy(badMagic, "TOY2")

	badBands := append([]byte(nil), valid...)
	badBands[20] = 0xFF // first band wider than the frame

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", badMagic, ErrMagic},
		{"band overflow", badBands, ErrBandWidths},
		{"truncated fixed part", valid[:10], bits.ErrShortRead},
		{"truncated lengths", valid[:len(valid)-1], bits.ErrShortRead},
		{"empty", nil, bits.ErrShortRead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadStreamHeader(bits.NewReader(bytes.NewReader(tt.data)))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

// seekBuffer is an in-memory io.WriteSeeker.
type seekBuffer struct {
	data []byte
	pos  int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if end := b.pos + len(p); end > len(b.data) {
		b.data = append(b.data, make([]byte, end-len(b.data))...)
	}
	copy(b.data[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		b.pos = int(offset)
	case io.SeekCurrent:
		b.pos += int(offset)
	case io.SeekEnd:
		b.pos = len(b.data) + int(offset)
	}
	return int64(b.pos), nil
}

func TestPatchTotalSamples(t *testing.T) {
	h := testHeader()
	h.TotalSamples = 0

	buf := &seekBuffer{}
	if _, err := h.WriteTo(buf); err != nil {
		t.Fatal(err)
	}
	if _, err := buf.Write([]byte{0xF8, 0x01}); err != nil {
		t.Fatal(err)
	}

	if err := PatchTotalSamples(buf, 987654); err != nil {
		t.Fatalf("PatchTotalSamples: %v", err)
	}
	if buf.pos != len(buf.data) {
		t.Errorf("position = %d, want end %d", buf.pos, len(buf.data))
	}

	got, err := ReadStreamHeader(bits.NewReader(bytes.NewReader(buf.data)))
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalSamples != 987654 {
		t.Errorf("TotalSamples = %d, want 987654", got.TotalSamples)
	}
}

func TestPackLengths(t *testing.T) {
	var l [huffman.NumContexts]huffman.Lengths
	for i := 0; i < huffman.NumSymbols; i++ {
		l[0][i] = uint8(i%16 + 1)
		l[1][i] = uint8(16 - i%16)
	}

	packed, err := PackLengths(l)
	if err != nil {
		t.Fatal(err)
	}
	if packed[0] != 0x0F {
		t.Errorf("packed[0] = %#x, want 0x0f", packed[0])
	}
	if packed[15] != 0xF0 {
		t.Errorf("packed[15] = %#x, want 0xf0", packed[15])
	}
	if UnpackLengths(packed) != l {
		t.Errorf("UnpackLengths(PackLengths(l)) != l")
	}

	l[0][4] = 0
	if _, err := PackLengths(l); !errors.Is(err, ErrHuffmanLength) {
		t.Errorf("err = %v, want ErrHuffmanLength", err)
	}
}
