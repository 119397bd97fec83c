package ais

import (
	"fmt"

	"hz.tools/ais/internal/dsp"
	"hz.tools/ais/internal/stream"
)

// newDecimationChain builds the stage sequence that brings one channel's
// complex baseband stream down from rate to referenceSampleRate: one
// CIC5Decimate2 per factor of two, then a trailing Polyphase /3 or /5 for
// whatever single non-power-of-two factor remains. Every supported raw
// capture rate ({48000, 288000, 384000, 768000, 1536000, 1920000}) factors
// this way.
//
// When rate already equals referenceSampleRate, a CIC5Filter (the same
// recurrence with no rate change) stands in as the chain's anti-imaging
// stage rather than leaving the chain empty.
//
// It returns the chain's head (to connect a producer to) and its tail
// output port (for the caller to connect the next stage to).
func newDecimationChain(rate uint) (stream.Receiver[complex64], *stream.Sink[complex64], error) {
	if rate%referenceSampleRate != 0 {
		return nil, nil, fmt.Errorf("%w: sample rate %d Hz is not a multiple of %d Hz", ErrUnsupportedFormat, rate, referenceSampleRate)
	}
	factor := rate / referenceSampleRate

	var head stream.Receiver[complex64]
	var tail *stream.Sink[complex64]

	link := func(r stream.Receiver[complex64], out *stream.Sink[complex64]) {
		if head == nil {
			head = r
		} else {
			tail.Connect(r)
		}
		tail = out
	}

	for factor%2 == 0 {
		st := &dsp.CIC5Decimate2{}
		link(st, &st.Out)
		factor /= 2
	}

	switch factor {
	case 1:
	case 3:
		st := dsp.NewPolyphase(3, dsp.Kernel3())
		link(st, &st.Out)
	case 5:
		st := dsp.NewPolyphase(5, dsp.Kernel5())
		link(st, &st.Out)
	default:
		return nil, nil, fmt.Errorf("%w: residual decimation factor %d is not 1, 3 or 5", ErrUnsupportedFormat, factor)
	}

	if head == nil {
		st := &dsp.CIC5Filter{}
		link(st, &st.Out)
	}

	return head, tail, nil
}
