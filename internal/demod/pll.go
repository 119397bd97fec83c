package demod

import "hz.tools/ais/internal/stream"

// DecoderMessage is the low-rate upstream control channel: the
// downstream HDLC/bit decoder may ask the PLL sampler to toggle fast
// acquisition.
type DecoderMessage int

const (
	// StartTraining requests fast PLL acquisition (large correction gain).
	StartTraining DecoderMessage = iota
	// StopTraining requests the PLL settle back into steady tracking.
	StopTraining
)

const (
	pllStep      = 0.2
	pllFastGain  = 0.6
	pllTrackGain = 0.05
	pllMidpoint  = 0.5
)

// PLL is the zero-crossing-driven symbol-timing sampler. It runs a
// free-running phase accumulator nominally stepping 1/5 per sample (5
// samples/symbol); on every zero crossing it snaps the phase toward the
// 0.5 midpoint, strongly while FastPLL (training) is set and weakly once
// locked.
type PLL struct {
	stream.Stage[float32]

	pll     float32
	prev    bool
	FastPLL bool

	out [1]float32
}

// Receive implements stream.Receiver[float32].
func (s *PLL) Receive(data []float32) error {
	for _, x := range data {
		bit := x > 0

		if bit != s.prev {
			gain := float32(pllTrackGain)
			if s.FastPLL {
				gain = pllFastGain
			}
			s.pll += (pllMidpoint - s.pll) * gain
		}

		s.pll += pllStep

		if s.pll >= 1.0 {
			s.out[0] = x
			if err := s.SendOut(s.out[:]); err != nil {
				return err
			}
			s.pll -= float32(int(s.pll))
		}

		s.prev = bit
	}
	return nil
}

// Message implements the upstream control channel: StartTraining sets
// FastPLL, StopTraining clears it.
func (s *PLL) Message(msg DecoderMessage) {
	switch msg {
	case StartTraining:
		s.FastPLL = true
	case StopTraining:
		s.FastPLL = false
	}
}
