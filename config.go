package ais

import (
	"hz.tools/ais/internal/demod"
	"hz.tools/rf"
)

const (
	// referenceSampleRate is the rate the square-law corrector and the
	// demodulator family operate at.
	referenceSampleRate uint = 48000

	defaultSquareLawBlock  = 2048
	defaultSquareLawWindow = 32
)

// DemodulatorKind selects which demodulator family terminates a channel's
// chain: the coherent multi-phase classifier (the primary GMSK
// demodulator) or the differential-phase FM demodulator (a fallback).
type DemodulatorKind int

const (
	// DemodulatorCoherent is the multi-phase GMSK classifier.
	DemodulatorCoherent DemodulatorKind = iota
	// DemodulatorFM is the differential-phase fallback.
	DemodulatorFM
)

// Config configures a Pipeline's frequency plan and demodulator choice: a
// plain struct of value fields passed to a constructor that validates
// them and wires the stage chain.
type Config struct {
	// SampleRate is the input IQ sample rate in Hz. Must be an integer
	// multiple of 48000, factorable into powers of two and at most one
	// remaining factor of 3 or 5 ({48000, 288000, 384000, 768000,
	// 1536000, 1920000} are the supported raw-file rates, all of which
	// satisfy this).
	SampleRate uint

	// CenterFrequency is the nominal tuned center. It is not consumed by
	// any DSP stage directly; it is carried here so a Device built from
	// this Config has a single source of truth for tuning.
	CenterFrequency rf.Hz

	// ChannelSeparation is Δf for the dual rotator. Channel A is fed from
	// the rotator's Up output, which brings the signal at
	// -ChannelSeparation to baseband; channel B is fed from its Down
	// output, which brings the signal at +ChannelSeparation to baseband.
	// Defaults to 25kHz.
	ChannelSeparation rf.Hz

	// Demodulator selects the demodulator family. Defaults to
	// DemodulatorCoherent.
	Demodulator DemodulatorKind

	// DemodMode selects the coherent demodulator's sign convention
	// ("Challenger" is an alternative classifier variant). Ignored when
	// Demodulator is DemodulatorFM.
	DemodMode demod.Mode

	// SquareLawBlock is the square-law corrector's FFT block size N (must
	// be a power of two). Defaults to 2048.
	SquareLawBlock int

	// SquareLawWindow is the count of edge bins excluded from the
	// corrector's bin-pair search. Defaults to 32.
	SquareLawWindow int

	// AGC requests the attached Device's automatic gain control be
	// enabled. Consumed only by Pipeline.Configure.
	AGC bool

	// FrequencyCorrectionPPM is a parts-per-million tuner correction
	// applied to the attached Device. Zero is a no-op. Consumed only by
	// Pipeline.Configure.
	FrequencyCorrectionPPM int
}

func (c Config) withDefaults() Config {
	if c.ChannelSeparation == 0 {
		c.ChannelSeparation = 25 * rf.KHz
	}
	if c.SquareLawBlock == 0 {
		c.SquareLawBlock = defaultSquareLawBlock
	}
	if c.SquareLawWindow == 0 {
		c.SquareLawWindow = defaultSquareLawWindow
	}
	return c
}
