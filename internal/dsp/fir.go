package dsp

import (
	"errors"

	"hz.tools/ais/internal/stream"
)

// ErrBatchTooShort is returned by the FIR and polyphase-decimator stages
// when a batch shorter than L-1 samples (L = tap count) would otherwise
// make the prefix loop's buffer and input indices alias before the
// steady-state loop begins. Rather than let an undersized batch read out
// of bounds, such batches are rejected explicitly.
var ErrBatchTooShort = errors.New("ais/dsp: batch shorter than filter order")

// FIRReal is a direct-form FIR over real float32 samples, with no rate
// change. Its delay line has length 2*len(taps)-1: after processing a
// batch, the final len(taps)-1 inputs are copied to the head of the
// delay line so the next batch convolves without a discontinuity.
type FIRReal struct {
	stream.Stage[float32]

	taps   []float32
	buffer []float32
	output []float32
}

// NewFIRReal constructs a FIRReal with the given symmetric or asymmetric
// tap set. Taps are applied in the natural (non-reversed) convolution
// order.
func NewFIRReal(taps []float32) *FIRReal {
	f := &FIRReal{taps: append([]float32(nil), taps...)}
	f.buffer = make([]float32, 2*len(taps)-1)
	return f
}

func (f *FIRReal) apply(window []float32) float32 {
	var acc float32
	for k, h := range f.taps {
		acc += h * window[k]
	}
	return acc
}

// Receive implements stream.Receiver[float32].
func (f *FIRReal) Receive(data []float32) error {
	L := len(f.taps)
	if len(data) < L-1 {
		return ErrBatchTooShort
	}
	if cap(f.output) < len(data) {
		f.output = make([]float32, len(data))
	}
	f.output = f.output[:len(data)]

	i, j, ptr := 0, 0, L-1
	for ; i < L-1; i, ptr, j = i+1, ptr+1, j+1 {
		f.buffer[ptr] = data[i]
		f.output[j] = f.apply(f.buffer[i:])
	}

	for ; i < len(data); i, j = i+1, j+1 {
		f.output[j] = f.apply(data[i-L+1:])
	}

	for i, ptr = len(data)-L+1, 0; i < len(data); i, ptr = i+1, ptr+1 {
		f.buffer[ptr] = data[i]
	}

	return f.SendOut(f.output)
}

// FIRComplex is the complex-sample counterpart of FIRReal: real-valued
// taps convolved against complex64 samples.
type FIRComplex struct {
	stream.Stage[complex64]

	taps   []float32
	buffer []complex64
	output []complex64
}

// NewFIRComplex constructs a FIRComplex with the given real tap set.
func NewFIRComplex(taps []float32) *FIRComplex {
	f := &FIRComplex{taps: append([]float32(nil), taps...)}
	f.buffer = make([]complex64, 2*len(taps)-1)
	return f
}

func (f *FIRComplex) apply(window []complex64) complex64 {
	var acc complex64
	for k, h := range f.taps {
		acc += complex64(complex(h, 0)) * window[k]
	}
	return acc
}

// Receive implements stream.Receiver[complex64].
func (f *FIRComplex) Receive(data []complex64) error {
	L := len(f.taps)
	if len(data) < L-1 {
		return ErrBatchTooShort
	}
	if cap(f.output) < len(data) {
		f.output = make([]complex64, len(data))
	}
	f.output = f.output[:len(data)]

	i, j, ptr := 0, 0, L-1
	for ; i < L-1; i, ptr, j = i+1, ptr+1, j+1 {
		f.buffer[ptr] = data[i]
		f.output[j] = f.apply(f.buffer[i:])
	}

	for ; i < len(data); i, j = i+1, j+1 {
		f.output[j] = f.apply(data[i-L+1:])
	}

	for i, ptr = len(data)-L+1, 0; i < len(data); i, ptr = i+1, ptr+1 {
		f.buffer[ptr] = data[i]
	}

	return f.SendOut(f.output)
}
