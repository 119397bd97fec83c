// Package dsp implements the sample-rate conversion and frequency-domain
// stages of the AIS receive graph: CIC5 decimation, polyphase FIR
// decimators, a generic FIR, a dual-output frequency rotator and the
// square-law frequency-offset corrector.
//
// Each type embeds stream.Stage[S] and implements stream.Receiver[T],
// following a config-struct-plus-constructor pattern generalised to the
// push-graph dataflow shape internal/stream defines.
package dsp

import (
	"strconv"

	"hz.tools/ais/internal/stream"
)

// cic5Gain is the gain of a 5-stage integrator/comb cascade run over two
// phases (2^5 = 32); dividing by it restores unity DC gain.
const cic5Gain = 1.0 / 32.0

// CIC5Decimate2 is a 5-stage cascaded integrator-comb decimator with rate
// change 2. All registers are zero at construction.
type CIC5Decimate2 struct {
	stream.Stage[complex64]

	r0, r1, r2, r3, r4 complex64
	h0, h1, h2, h3, h4 complex64

	output []complex64
}

// InvalidBatchLengthError reports a stage contract violation: an input
// batch whose length is not a multiple of the stage's required rate
// change. This is a fatal, non-recoverable programming error and is
// always returned immediately rather than logged and swallowed.
type InvalidBatchLengthError struct {
	Stage    string
	Length   int
	Multiple int
}

func (e InvalidBatchLengthError) Error() string {
	return "ais/dsp: " + e.Stage + ": input length must be a multiple of " +
		strconv.Itoa(e.Multiple) + ", got " + strconv.Itoa(e.Length)
}

// Receive implements stream.Receiver[complex64]. len(data) must be even.
func (c *CIC5Decimate2) Receive(data []complex64) error {
	if len(data)%2 != 0 {
		return InvalidBatchLengthError{Stage: "CIC5Decimate2", Length: len(data), Multiple: 2}
	}

	outLen := len(data) / 2
	if cap(c.output) < outLen {
		c.output = make([]complex64, outLen)
	}
	c.output = c.output[:outLen]

	r0, r1, r2, r3, r4 := c.r0, c.r1, c.r2, c.r3, c.r4
	h0, h1, h2, h3, h4 := c.h0, c.h1, c.h2, c.h3, c.h4

	for i, j := 0, 0; i < len(data); i, j = i+2, j+1 {
		z := data[i]
		r0 = z
		z += h0
		r1 = z
		z += h1
		r2 = z
		z += h2
		r3 = z
		z += h3
		r4 = z
		z += h4
		c.output[j] = z * complex64(complex(cic5Gain, 0))

		z = data[i+1]
		h0 = z
		z += r0
		h1 = z
		z += r1
		h2 = z
		z += r2
		h3 = z
		z += r3
		h4 = z
		z += r4
	}

	c.r0, c.r1, c.r2, c.r3, c.r4 = r0, r1, r2, r3, r4
	c.h0, c.h1, c.h2, c.h3, c.h4 = h0, h1, h2, h3, h4

	return c.SendOut(c.output)
}

// CIC5Filter runs the same 5-stage integrator-comb recurrence as
// CIC5Decimate2 but with no rate change: it is used as an anti-imaging
// filter when only the filtering, not the decimation, is wanted.
type CIC5Filter struct {
	stream.Stage[complex64]

	r0, r1, r2, r3, r4 complex64
	h0, h1, h2, h3, h4 complex64

	output []complex64
}

// Receive implements stream.Receiver[complex64]. len(data) must be even.
func (c *CIC5Filter) Receive(data []complex64) error {
	if len(data)%2 != 0 {
		return InvalidBatchLengthError{Stage: "CIC5Filter", Length: len(data), Multiple: 2}
	}

	if cap(c.output) < len(data) {
		c.output = make([]complex64, len(data))
	}
	c.output = c.output[:len(data)]

	r0, r1, r2, r3, r4 := c.r0, c.r1, c.r2, c.r3, c.r4
	h0, h1, h2, h3, h4 := c.h0, c.h1, c.h2, c.h3, c.h4

	for i := 0; i < len(data); i += 2 {
		z := data[i]
		r0 = z
		z += h0
		r1 = z
		z += h1
		r2 = z
		z += h2
		r3 = z
		z += h3
		r4 = z
		z += h4
		c.output[i] = z * complex64(complex(cic5Gain, 0))

		z = data[i+1]
		h0 = z
		z += r0
		h1 = z
		z += r1
		h2 = z
		z += r2
		h3 = z
		z += r3
		h4 = z
		z += r4
		c.output[i+1] = z * complex64(complex(cic5Gain, 0))
	}

	c.r0, c.r1, c.r2, c.r3, c.r4 = r0, r1, r2, r3, r4
	c.h0, c.h1, c.h2, c.h3, c.h4 = h0, h1, h2, h3, h4

	return c.SendOut(c.output)
}

// CIC5DecimateCS32 runs the integer-domain CIC5 recurrence in place over a
// slice of complex32-style samples represented as (I, Q int32) pairs,
// without the 1/32 output scale — scaling is deferred to the caller,
// since fixed-point front ends typically fold it into a later gain
// stage.
type CIC5DecimateCS32 struct {
	r0, r1, r2, r3, r4 [2]int32
	h0, h1, h2, h3, h4 [2]int32
}

// Run decimates data (interleaved I,Q int32 pairs, len(data) samples) by 2
// in place and returns the new sample count.
func (c *CIC5DecimateCS32) Run(data [][2]int32) int {
	r0, r1, r2, r3, r4 := c.r0, c.r1, c.r2, c.r3, c.r4
	h0, h1, h2, h3, h4 := c.h0, c.h1, c.h2, c.h3, c.h4

	j := 0
	for i := 0; i < len(data); i, j = i+2, j+1 {
		z := data[i]
		r0 = z
		z = add(z, h0)
		r1 = z
		z = add(z, h1)
		r2 = z
		z = add(z, h2)
		r3 = z
		z = add(z, h3)
		r4 = z
		z = add(z, h4)
		data[j] = z

		z = data[i+1]
		h0 = z
		z = add(z, r0)
		h1 = z
		z = add(z, r1)
		h2 = z
		z = add(z, r2)
		h3 = z
		z = add(z, r3)
		h4 = z
		z = add(z, r4)
	}

	c.r0, c.r1, c.r2, c.r3, c.r4 = r0, r1, r2, r3, r4
	c.h0, c.h1, c.h2, c.h3, c.h4 = h0, h1, h2, h3, h4

	return j
}

func add(a, b [2]int32) [2]int32 {
	return [2]int32{a[0] + b[0], a[1] + b[1]}
}
