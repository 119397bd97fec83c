package ais

import (
	"io"

	"hz.tools/ais/internal/demod"
)

// channelDepth is the output queue depth between a channel's PLL sampler
// and whatever external code calls Read; it is sized generously since,
// unlike the bridge's FIFO, decided symbols arrive at roughly 1/5th the
// sample rate and a slow reader should not force samples to be dropped.
const channelDepth = 1 << 16

// Channel is one sideband's output: the terminal stage of its chain,
// delivering decided FLOAT32 soft-bit symbols to an external consumer (an
// AIS HDLC/bit decoder) through a Read([]float32) (int, error) boundary.
type Channel struct {
	out chan float32
	pll *demod.PLL
}

func newChannel(pll *demod.PLL) *Channel {
	return &Channel{out: make(chan float32, channelDepth), pll: pll}
}

// Receive implements stream.Receiver[float32].
func (c *Channel) Receive(data []float32) error {
	for _, x := range data {
		c.out <- x
	}
	return nil
}

// Read fills p with decided symbols. It blocks for at least one sample,
// then drains whatever else is immediately available without blocking
// further. It returns io.EOF once the channel has been closed and fully
// drained.
func (c *Channel) Read(p []float32) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	x, ok := <-c.out
	if !ok {
		return 0, io.EOF
	}
	p[0] = x
	n := 1

	for n < len(p) {
		select {
		case x, ok := <-c.out:
			if !ok {
				return n, nil
			}
			p[n] = x
			n++
		default:
			return n, nil
		}
	}
	return n, nil
}

// Message forwards a low-rate control message upstream to this channel's
// PLL sampler only — the decoder holds a direct handle on the sampler,
// wired at graph-build time, rather than a broadcast channel.
func (c *Channel) Message(msg demod.DecoderMessage) {
	c.pll.Message(msg)
}

func (c *Channel) close() {
	close(c.out)
}
