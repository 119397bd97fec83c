// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

// Package ais assembles the AIS SDR receive graph: sample-format
// conversion, the dual ±25kHz rotator at the full input rate, and two
// independent per-channel chains of decimation, square-law frequency
// correction, GMSK/FM demodulation and PLL symbol timing, bridged to an
// external device or file producer through a bounded FIFO. No decimation
// stage is shared by the two channels.
//
// A Config value plus a validating NewPipeline constructor wire the
// internal stage chain; output is exposed through two Channel values
// shaped like a plain Reader.
package ais

import (
	"io"

	"hz.tools/ais/internal/bridge"
	"hz.tools/ais/internal/demod"
	"hz.tools/ais/internal/dsp"
	"hz.tools/ais/internal/sampleio"
	"hz.tools/ais/internal/stream"
)

// formatAdapter is the graph's sample-format entry point: it decodes raw
// device/file bytes into normalised complex64 baseband samples and pushes
// them to the rotator.
type formatAdapter struct {
	format sampleio.Format
	out    stream.Sink[complex64]
	buf    []complex64
}

func (a *formatAdapter) Receive(data []byte) error {
	bps := a.format.BytesPerSample()
	if len(data)%bps != 0 {
		return ErrInvalidBatchLength
	}

	n := len(data) / bps
	if cap(a.buf) < n {
		a.buf = make([]complex64, n)
	}
	a.buf = a.buf[:n]

	if _, err := sampleio.Convert(a.buf, data, a.format); err != nil {
		return err
	}
	return a.out.Send(a.buf)
}

// Pipeline is one fully wired AIS receive graph, from raw device/file
// bytes in to two Channel soft-bit outputs.
type Pipeline struct {
	cfg     Config
	format  sampleio.Format
	bridge  *bridge.Bridge
	rotator *dsp.Rotator
	device  Device

	A, B *Channel
}

// NewPipeline builds and wires a Pipeline for a source at cfg.SampleRate,
// encoded in the given wire format. bufferLen is the producer's native
// batch size, in samples, used only to size the bridge's consumer
// timeout.
func NewPipeline(cfg Config, format sampleio.Format, bufferLen int) (*Pipeline, error) {
	cfg = cfg.withDefaults()

	rotator := dsp.NewRotator(cfg.SampleRate, cfg.ChannelSeparation)

	a, err := buildChannel(&rotator.Up, cfg)
	if err != nil {
		return nil, err
	}
	b, err := buildChannel(&rotator.Down, cfg)
	if err != nil {
		return nil, err
	}

	adapter := &formatAdapter{format: format}
	adapter.out.Connect(rotator)

	p := &Pipeline{
		cfg:     cfg,
		format:  format,
		rotator: rotator,
		A:       a,
		B:       b,
	}
	p.bridge = bridge.New(bufferLen, cfg.SampleRate, adapter.Receive)

	return p, nil
}

// buildChannel wires one sideband: rotator output -> decimation to the
// 48kHz reference rate -> square-law correction -> demodulation -> PLL
// symbol sampler -> Channel.
func buildChannel(rotatorOut *stream.Sink[complex64], cfg Config) (*Channel, error) {
	head, tail, err := newDecimationChain(cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	rotatorOut.Connect(head)

	corrector := dsp.NewSquareLawCorrector(cfg.SquareLawBlock, cfg.SquareLawWindow)
	tail.Connect(corrector)

	var demodulator stream.Receiver[complex64]
	var demodOut *stream.Sink[float32]

	switch cfg.Demodulator {
	case DemodulatorFM:
		st := &demod.FM{}
		demodulator, demodOut = st, &st.Out
	default:
		st := demod.NewCoherent(cfg.DemodMode)
		demodulator, demodOut = st, &st.Out
	}
	corrector.Out.Connect(demodulator)

	sampler := &demod.PLL{}
	demodOut.Connect(sampler)

	ch := newChannel(sampler)
	sampler.Out.Connect(ch)

	return ch, nil
}

// Push delivers one buffer of raw device/file bytes to the pipeline, from
// whatever thread the producer runs on (a device's own callback thread,
// or the goroutine driving PumpReader). It never blocks past a FIFO-full
// overrun check.
func (p *Pipeline) Push(buf []byte) {
	p.bridge.Push(buf)
}

// Play starts the consumer goroutine that drains the bridge and runs the
// graph.
func (p *Pipeline) Play() {
	p.bridge.Play()
}

// Pause stops the consumer goroutine, joins it, and closes both output
// channels so readers blocked in Channel.Read observe io.EOF. If the
// Pipeline was wired to a Device via Configure, its I/O is paused too.
func (p *Pipeline) Pause() {
	p.bridge.Pause()
	if p.device != nil {
		p.device.Pause()
	}
	p.A.close()
	p.B.close()
}

// Overruns reports the count of batches dropped because the bridge's FIFO
// was full.
func (p *Pipeline) Overruns() int64 {
	return p.bridge.Overruns()
}

// Timeouts reports the count of consumer waits that timed out; never
// fatal.
func (p *Pipeline) Timeouts() int64 {
	return p.bridge.Timeouts()
}

// PumpReader is a convenience producer for file-based sources (as opposed
// to a Device, which calls Push from its own callback): it reads
// bufLen-sample chunks from r and pushes them until r returns io.EOF,
// which this maps to a graceful stop rather than propagating it.
func (p *Pipeline) PumpReader(r io.Reader, bufLen int) error {
	buf := make([]byte, bufLen*p.format.BytesPerSample())
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			p.Push(buf[:n])
		}
		switch err {
		case nil:
		case io.EOF, io.ErrUnexpectedEOF:
			return nil
		default:
			return err
		}
	}
}
