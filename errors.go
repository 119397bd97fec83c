package ais

import "errors"

// Sentinel errors. Buffer overruns and device timeouts are deliberately
// not part of this set: they are counted, not propagated — see the
// bridge package's Overruns/Timeouts counters.
var (
	// ErrUnsupportedFormat is returned at open time for a WAV header
	// mismatch, an unknown raw sample format, or a sample rate that
	// cannot be decimated down to the square-law corrector's 48kHz
	// reference rate.
	ErrUnsupportedFormat = errors.New("ais: unsupported format")

	// ErrDeviceError wraps a collaborator-reported open/rate/frequency/AGC
	// rejection.
	ErrDeviceError = errors.New("ais: device error")

	// ErrInvalidBatchLength is a fatal contract violation raised by the
	// root package's own checks (as opposed to a stage-internal one,
	// which surfaces as a dsp.InvalidBatchLengthError).
	ErrInvalidBatchLength = errors.New("ais: invalid batch length")
)
