package dsp

import (
	"math"
	"math/cmplx"

	"hz.tools/ais/internal/fft"
	"hz.tools/ais/internal/stream"
)

// SquareLawCorrector estimates and removes the residual carrier offset of
// a binary-FSK signal by squaring the signal (which produces two spectral
// peaks toneSeparationHz apart, centred on twice the residual carrier)
// and locating the bin pair, delta bins apart, with the largest combined
// magnitude.
type SquareLawCorrector struct {
	stream.Stage[complex64]

	n      int
	logN   int
	window int
	delta  int

	planner fft.Planner

	fftData []complex64
	output  []complex64
	count   int
	rot     complex64
}

// toneSeparationHz and the reference sample rate the delta bin-spacing is
// derived from: delta = round(9600/48000 * N).
const (
	toneSeparationHz = 9600.0
	referenceRateHz  = 48000.0
)

// NewSquareLawCorrector builds a corrector operating on blocks of n
// complex samples (n must be a power of two), excluding the outer window
// bins from the search.
func NewSquareLawCorrector(n, window int) *SquareLawCorrector {
	s := &SquareLawCorrector{
		n:       n,
		logN:    fft.Log2(n),
		window:  window,
		delta:   int(math.Round(toneSeparationHz / referenceRateHz * float64(n))),
		fftData: make([]complex64, n),
		output:  make([]complex64, n),
		rot:     1,
	}
	return s
}

// Receive implements stream.Receiver[complex64].
func (s *SquareLawCorrector) Receive(data []complex64) error {
	for _, x := range data {
		s.fftData[fft.BitReverse(s.count, s.logN)] = x * x
		s.output[s.count] = x
		s.count++

		if s.count == s.n {
			s.correctFrequency()
			if err := s.SendOut(s.output); err != nil {
				return err
			}
			s.count = 0
		}
	}
	return nil
}

func (s *SquareLawCorrector) correctFrequency() {
	s.planner.FFT(s.fftData)

	var maxVal float32
	fz := float32(-1)
	n := s.n

	for i := s.window; i < n-s.window-s.delta; i++ {
		h := cmplxAbs(s.fftData[(i+n/2)%n]) + cmplxAbs(s.fftData[(i+s.delta+n/2)%n])
		if h > maxVal {
			maxVal = h
			fz = float32(n/2) - (float32(i) + float32(s.delta)/2)
		}
	}

	angle := float64(fz) / 2.0 / float64(n) * 2 * math.Pi
	rotStep := complex64(cmplx.Exp(complex(0, angle)))

	rot := s.rot
	for i := 0; i < n; i++ {
		rot *= rotStep
		s.output[i] *= rot
	}
	s.rot = complex64(complex128(rot) / complex(cmplx.Abs(complex128(rot)), 0))
}

func cmplxAbs(x complex64) float32 {
	return float32(cmplx.Abs(complex128(x)))
}
