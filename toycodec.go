package toycodec

import (
	"io"

	"github.com/llehouerou/go-toycodec/internal/huffman"
	"github.com/llehouerou/go-toycodec/internal/syntax"
)

// UnknownTotalSamples is the header's total sample count for a stream
// whose encoder could not seek back to record it. Such a stream decodes to
// every sample it holds.
const UnknownTotalSamples uint64 = syntax.UnknownTotal

// Encoder defaults.
const (
	DefaultFrameWidth = 256
	DefaultRatio      = 6
	DefaultQuality    = -1
	DefaultLowpass    = 20000
	DefaultLogLevel   = "WARN"
)

// HuffmanTables holds the code length of every symbol (256 byte values
// and STOP) for the low-byte and the high-byte context.
type HuffmanTables [huffman.NumContexts][huffman.NumSymbols]uint8

// DefaultHuffmanTables returns the built-in code lengths.
func DefaultHuffmanTables() HuffmanTables {
	return tablesFromLengths(huffman.DefaultLengths())
}

func tablesFromLengths(l [huffman.NumContexts]huffman.Lengths) HuffmanTables {
	var t HuffmanTables
	for ctx := range l {
		t[ctx] = l[ctx]
	}
	return t
}

func (t *HuffmanTables) lengths() [huffman.NumContexts]huffman.Lengths {
	var l [huffman.NumContexts]huffman.Lengths
	for ctx := range t {
		l[ctx] = t[ctx]
	}
	return l
}

// EncoderConfig holds encoder parameters.
type EncoderConfig struct {
	// FrameWidth is the number of samples per channel in one frame. It
	// must be a positive multiple of 16 up to 4080.
	FrameWidth int

	// Ratio is the target compression ratio against 16-bit PCM. Only
	// used when Quality is negative.
	Ratio float64

	// Quality selects the rate control: negative for average bit rate,
	// zero or more for variable bit rate with noise targets scaled by
	// Quality.
	Quality float64

	// Lowpass is the frequency in Hz above which lines are not coded.
	Lowpass float64

	// HuffmanLengths replaces the built-in code lengths when not nil.
	HuffmanLengths *HuffmanTables

	// LogLevel is the encoder log level (DEBUG, INFO, WARN, ERROR).
	LogLevel string

	// LogOutput receives log lines. nil means os.Stderr.
	LogOutput io.Writer
}

// DefaultEncoderConfig returns the default configuration: 256-sample
// frames at a compression ratio of 6 in average bit rate mode with a
// 20 kHz lowpass and the built-in Huffman tables.
func DefaultEncoderConfig() EncoderConfig {
	return EncoderConfig{
		FrameWidth: DefaultFrameWidth,
		Ratio:      DefaultRatio,
		Quality:    DefaultQuality,
		Lowpass:    DefaultLowpass,
		LogLevel:   DefaultLogLevel,
	}
}

// StreamInfo describes a stream as read from its header.
type StreamInfo struct {
	SampleRate      int
	Channels        int
	MidSideChannels int
	FrameWidth      int
	PreRoll         int
	TotalSamples    uint64 // UnknownTotalSamples when the encoder could not patch it
	BandWidths      []int
	HeaderBytes     int
}

// QuantInfoCounts counts frames by the way they carry quantizer indices.
type QuantInfoCounts struct {
	None       int `json:"none"`
	Shared     int `json:"shared"`
	PerChannel int `json:"per_channel"`
}

// Total returns the number of counted frames.
func (q QuantInfoCounts) Total() int {
	return q.None + q.Shared + q.PerChannel
}

// EncodeStats summarizes an encoder run.
type EncodeStats struct {
	Frames        int             `json:"frames"`
	TotalSamples  uint64          `json:"total_samples"`
	Bytes         int64           `json:"bytes"`
	MidSideFrames int             `json:"mid_side_frames"`
	QuantInfo     QuantInfoCounts `json:"quant_info"`

	// AverageQuantIndex is the mean quantizer index over all bands,
	// channels and frames.
	AverageQuantIndex float64 `json:"average_quant_index"`

	// SearchCapHits counts channel searches that stopped at their
	// iteration cap without meeting the budget.
	SearchCapHits int `json:"search_cap_hits"`

	// TunedLengths are code lengths derived from the symbols this run
	// emitted. nil if they could not be derived.
	TunedLengths *HuffmanTables `json:"-"`
}

// DecodeStats summarizes a decoder run.
type DecodeStats struct {
	Frames      int             `json:"frames"`
	FlushFrames int             `json:"flush_frames"`
	Samples     uint64          `json:"samples"`
	QuantInfo   QuantInfoCounts `json:"quant_info"`
}
