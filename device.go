package ais

import (
	"fmt"

	"hz.tools/rf"
)

// DeviceDescription names one piece of attached hardware. Optional:
// drivers with nothing to enumerate return a nil slice from
// Device.Descriptions.
type DeviceDescription struct {
	Name   string
	Serial string
}

// Device is the external hardware collaborator a Pipeline is built on top
// of: a concrete driver for RTL-SDR, AirspyHF, or similar hardware. It is
// not implemented by this module; a driver feeds a Pipeline by calling
// Push from its own callback thread.
type Device interface {
	// SupportedSampleRates lists the rates, in Hz, the device can stream
	// at.
	SupportedSampleRates() []uint

	// Descriptions optionally enumerates attached hardware.
	Descriptions() []DeviceDescription

	SetSampleRate(rate uint) error
	SetFrequency(freq rf.Hz) error
	SetAGC(auto bool) error

	// SetFrequencyCorrection applies a parts-per-million tuner
	// correction. ppm == 0 is a no-op.
	SetFrequencyCorrection(ppm int) error

	Play() error
	Pause() error
	IsStreaming() bool
}

// Configure applies a Pipeline's frequency plan to an attached Device, in
// open-time order: sample rate, center frequency, AGC, then tuner
// correction. Any rejection is wrapped in ErrDeviceError and stops at the
// first failure. On success the Device is remembered so a later
// Pipeline.Pause also pauses it; Configure does not itself start
// streaming, so call d.Play and Pipeline.Play once it returns nil.
func (p *Pipeline) Configure(d Device) error {
	if err := d.SetSampleRate(p.cfg.SampleRate); err != nil {
		return fmt.Errorf("%w: set sample rate: %v", ErrDeviceError, err)
	}
	if err := d.SetFrequency(p.cfg.CenterFrequency); err != nil {
		return fmt.Errorf("%w: set frequency: %v", ErrDeviceError, err)
	}
	if err := d.SetAGC(p.cfg.AGC); err != nil {
		return fmt.Errorf("%w: set AGC: %v", ErrDeviceError, err)
	}
	if err := d.SetFrequencyCorrection(p.cfg.FrequencyCorrectionPPM); err != nil {
		return fmt.Errorf("%w: set frequency correction: %v", ErrDeviceError, err)
	}
	p.device = d
	return nil
}
