package dsp

import (
	"math"
	"math/cmplx"

	"hz.tools/ais/internal/stream"
	"hz.tools/rf"
)

// Rotator is the dual-output frequency translator: it mixes the input
// down (or up) by ±Δf simultaneously, producing the two ±25kHz AIS
// channel baseband streams from one capture centred near the carrier.
type Rotator struct {
	Up, Down stream.Sink[complex64]

	multUp, multDown complex64
	rotUp, rotDown   complex64

	outUp, outDown []complex64
}

// NewRotator builds a Rotator stepping the two phasors by ±delta each
// sample at the given sample rate.
func NewRotator(sampleRate uint, delta rf.Hz) *Rotator {
	step := 2 * math.Pi * float64(delta) / float64(sampleRate)
	return &Rotator{
		multUp:   complex64(cmplx.Exp(complex(0, step))),
		multDown: complex64(cmplx.Exp(complex(0, -step))),
		rotUp:    1,
		rotDown:  1,
	}
}

// Receive implements stream.Receiver[complex64]. Output batches have the
// same length as the input; both phasors are renormalised to unit
// magnitude at the end of every batch to cancel accumulated drift.
func (r *Rotator) Receive(data []complex64) error {
	if cap(r.outUp) < len(data) {
		r.outUp = make([]complex64, len(data))
		r.outDown = make([]complex64, len(data))
	}
	r.outUp = r.outUp[:len(data)]
	r.outDown = r.outDown[:len(data)]

	rotUp, rotDown := r.rotUp, r.rotDown
	for i, x := range data {
		r.outUp[i] = rotUp * x
		rotUp *= r.multUp

		r.outDown[i] = rotDown * x
		rotDown *= r.multDown
	}

	r.rotUp = complex64(complex128(rotUp) / complex(cmplx.Abs(complex128(rotUp)), 0))
	r.rotDown = complex64(complex128(rotDown) / complex(cmplx.Abs(complex128(rotDown)), 0))

	if err := r.Up.Send(r.outUp); err != nil {
		return err
	}
	return r.Down.Send(r.outDown)
}
