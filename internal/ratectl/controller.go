package ratectl

import "github.com/llehouerou/go-toycodec/internal/syntax"

// Budget constants.
const (
	// BitsPerSample is the PCM sample size the compression ratio refers to.
	BitsPerSample = 16

	// MaxUnspentBits bounds the carry-over in both directions.
	MaxUnspentBits = 128 * 1024 * 8

	frameHeaderBits = 8
	quantInfoBits   = syntax.QuantInfoBytes * 8
)

// Controller tracks the bit budget of an ABR stream.
//
// The frame budget is the compressed size of one frame's PCM at the target
// ratio minus the frame header. The difference between budget and actual
// frame size accumulates in a signed carry-over; an eighth of it is handed
// out on top of every frame's budget.
type Controller struct {
	channels    int
	frameBudget int
	unspent     int
}

// NewController creates a Controller for frames of width samples per
// channel compressed by ratio.
func NewController(width, channels int, ratio float64) *Controller {
	budget := int(float64(width) * (BitsPerSample / ratio) * float64(channels))
	return &Controller{
		channels:    channels,
		frameBudget: budget - frameHeaderBits,
	}
}

// FrameBudget returns the fixed per-frame budget in bits.
func (c *Controller) FrameBudget() int {
	return c.frameBudget
}

// Unspent returns the current carry-over in bits.
func (c *Controller) Unspent() int {
	return c.unspent
}

// ChannelBudget returns the coefficient budget of one channel for the next
// frame: its share of the frame budget plus its share of the carry-over,
// minus room for a quant-info vector.
func (c *Controller) ChannelBudget() int {
	share := c.frameBudget / c.channels
	boost := c.unspent / c.channels / 8
	return share + boost - quantInfoBits
}

// Submit records the size of a written frame in bits.
func (c *Controller) Submit(frameBits int) {
	c.unspent += c.frameBudget - frameBits
	if c.unspent > MaxUnspentBits {
		c.unspent = MaxUnspentBits
	}
	if c.unspent < -MaxUnspentBits {
		c.unspent = -MaxUnspentBits
	}
}
