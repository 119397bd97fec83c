package dsp

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func Test_SquareLawCorrector_onlyEmitsOnceBlockIsFull(t *testing.T) {
	const n = 64
	s := NewSquareLawCorrector(n, 4)
	var sink complexSink
	s.Out.Connect(&sink)

	require.NoError(t, s.Receive(make([]complex64, n-1)))
	assert.Empty(t, sink.batches, "no output before the block is full")

	require.NoError(t, s.Receive(make([]complex64, 1)))
	require.Len(t, sink.batches, 1)
	assert.Len(t, sink.batches[0], n)
}

func Test_SquareLawCorrector_emitsOneBatchPerBlockAcrossMultipleBlocks(t *testing.T) {
	const n = 32
	s := NewSquareLawCorrector(n, 2)
	var sink complexSink
	s.Out.Connect(&sink)

	require.NoError(t, s.Receive(make([]complex64, 3*n)))
	assert.Len(t, sink.batches, 3)
}

// Test_SquareLawCorrector_preservesMagnitude exercises the correction path
// (FFT, bin-pair search, phasor derotation) without pinning down its exact
// frequency estimate: correctFrequency only ever multiplies each sample by
// a unit-magnitude phasor, so per-sample magnitude must survive untouched
// regardless of what offset it estimates.
func Test_SquareLawCorrector_preservesMagnitude(t *testing.T) {
	const n = 64
	rapid.Check(t, func(t *rapid.T) {
		s := NewSquareLawCorrector(n, 4)
		var sink complexSink
		s.Out.Connect(&sink)

		in := make([]complex64, n)
		for i := range in {
			re := rapid.Float32Range(-5, 5).Draw(t, "re")
			im := rapid.Float32Range(-5, 5).Draw(t, "im")
			in[i] = complex(re, im)
		}

		require.NoError(t, s.Receive(in))
		out := sink.batches[0]
		require.Len(t, out, n)

		for i := range in {
			assert.InDelta(t, cmplx.Abs(complex128(in[i])), cmplx.Abs(complex128(out[i])), 1e-3)
		}
	})
}

func Test_SquareLawCorrector_deltaBinSpacing(t *testing.T) {
	// delta = round(9600/48000 * n), the fixed tone-separation/
	// reference-rate ratio.
	s := NewSquareLawCorrector(2048, 32)
	assert.Equal(t, 410, s.delta)
}
