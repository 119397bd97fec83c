// Package demod implements the GMSK/FM demodulator family and the symbol
// sampling stages downstream of them: the differential-phase FM
// demodulator, the coherent (and "challenger") multi-phase GMSK
// classifier, the N-way parallel sampler fan-out, and the PLL-driven
// symbol-timing sampler.
package demod

import (
	"math"

	"hz.tools/ais/internal/stream"
)

// FM is the differential-phase FM demodulator: each output sample is the
// normalised phase angle between consecutive input samples.
type FM struct {
	stream.Stage[float32]

	// DCShift is added to the phase angle before normalising by π,
	// compensating a known audio DC bias.
	DCShift float32

	prev   complex64
	output []float32
}

// Receive implements stream.Receiver[complex64]. Output length equals
// input length.
func (f *FM) Receive(data []complex64) error {
	if cap(f.output) < len(data) {
		f.output = make([]float32, len(data))
	}
	f.output = f.output[:len(data)]

	prev := f.prev
	for i, x := range data {
		p := x * complex64(complex(real(prev), -imag(prev)))
		f.output[i] = (float32(math.Atan2(float64(imag(p)), float64(real(p)))) + f.DCShift) / math.Pi
		prev = x
	}
	f.prev = prev

	return f.SendOut(f.output)
}
