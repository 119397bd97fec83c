package ais

import (
	"fmt"
	"io"

	"hz.tools/sdr"
)

// PumpSDR drains r, an hz.tools/sdr.Reader tuned to the Pipeline's
// configured SampleRate and producing sdr.SampleFormatC64 samples, feeding
// the rotator directly as complex64 baseband. Unlike Push/PumpReader, which
// go through the byte-oriented bridge for device-callback or raw-file
// producers, this is a synchronous pull loop: it checks reader.SampleFormat()
// once and then calls sdr.ReadFull(reader, buf) in a loop, the same shape
// any sdr.Reader consumer uses.
//
// It returns once r is exhausted, mapping io.EOF to a nil return like
// PumpReader does.
func (p *Pipeline) PumpSDR(r sdr.Reader, bufLen int) error {
	if format := r.SampleFormat(); format != sdr.SampleFormatC64 {
		return fmt.Errorf("%w: sdr reader format %v, want complex64", ErrUnsupportedFormat, format)
	}
	if rate := r.SampleRate(); rate != p.cfg.SampleRate {
		return fmt.Errorf("%w: sdr reader sample rate %d Hz, pipeline configured for %d Hz", ErrUnsupportedFormat, rate, p.cfg.SampleRate)
	}

	buf := make(sdr.SamplesC64, bufLen)
	for {
		n, err := sdr.ReadFull(r, buf)
		if n > 0 {
			if rerr := p.rotator.Receive([]complex64(buf[:n])); rerr != nil {
				return rerr
			}
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
