package syntax

// Frame header bits.
const (
	SyncPattern = 0xF0
	syncMask    = 0xF0
	modeShift   = 2
	modeMask    = 0x03
	midSideBit  = 0x02
)

// QuantMode says which quantizer indices follow the frame header.
type QuantMode uint8

// Quant-info modes.
const (
	// QuantNone reuses the previous frame's indices.
	QuantNone QuantMode = 0
	// QuantShared sends one vector used by every channel.
	QuantShared QuantMode = 2
	// QuantPerChannel sends one vector per channel.
	QuantPerChannel QuantMode = 3
)

// String returns a short name for the mode.
func (m QuantMode) String() string {
	switch m {
	case QuantNone:
		return "none"
	case QuantShared:
		return "shared"
	case QuantPerChannel:
		return "per-channel"
	default:
		return "invalid"
	}
}

// Vectors returns how many index vectors a frame in this mode carries.
func (m QuantMode) Vectors(channels int) int {
	switch m {
	case QuantShared:
		return 1
	case QuantPerChannel:
		return channels
	default:
		return 0
	}
}

// FrameHeader is the one-byte header in front of every frame:
//
//	bits 7-4  sync pattern 1111
//	bits 3-2  quant-info mode
//	bit  1    mid/side
//	bit  0    reserved, zero
type FrameHeader struct {
	Mode    QuantMode
	MidSide bool
}

// Byte encodes the header.
func (h FrameHeader) Byte() byte {
	b := byte(SyncPattern) | byte(h.Mode&modeMask)<<modeShift
	if h.MidSide {
		b |= midSideBit
	}
	return b
}

// ParseFrameHeader decodes a header byte. The reserved bit is ignored.
func ParseFrameHeader(b byte) (FrameHeader, error) {
	if b&syncMask != SyncPattern {
		return FrameHeader{}, ErrSync
	}
	h := FrameHeader{
		Mode:    QuantMode(b>>modeShift) & modeMask,
		MidSide: b&midSideBit != 0,
	}
	if h.Mode == 1 {
		return FrameHeader{}, ErrQuantMode
	}
	return h, nil
}
