package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func Test_Kernel3_hasOddSymmetricLength(t *testing.T) {
	k := Kernel3()
	assert.Len(t, k, 21)
	assertSymmetric(t, k)
}

func Test_Kernel5_hasOddSymmetricLength(t *testing.T) {
	k := Kernel5()
	assert.Len(t, k, 19)
	assertSymmetric(t, k)
}

func assertSymmetric(t *testing.T, taps []float32) {
	t.Helper()
	n := len(taps)
	for i := 0; i < n/2; i++ {
		assert.InDelta(t, taps[i], taps[n-1-i], 1e-9)
	}
}

func Test_Polyphase_rejectsBatchNotMultipleOfFactor(t *testing.T) {
	p := NewPolyphase(3, Kernel3())
	err := p.Receive(make([]complex64, 100))
	var target InvalidBatchLengthError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, 3, target.Multiple)
}

func Test_Polyphase_rejectsShortBatch(t *testing.T) {
	p := NewPolyphase(3, Kernel3())
	err := p.Receive(make([]complex64, 3))
	assert.ErrorIs(t, err, ErrBatchTooShort)
}

func Test_Polyphase_decimatesByFactor(t *testing.T) {
	for _, tc := range []struct {
		factor int
		taps   []float32
	}{
		{3, Kernel3()},
		{5, Kernel5()},
	} {
		p := NewPolyphase(tc.factor, tc.taps)
		var sink complexSink
		p.Out.Connect(&sink)

		L := len(tc.taps)
		n := L - 1
		for n%tc.factor != 0 {
			n++
		}
		require.NoError(t, p.Receive(make([]complex64, n)))
		assert.Len(t, sink.batches[0], n/tc.factor)
	}
}

// Test_Polyphase_factor5DoesNotOverrunOutputBuffer checks that the /5
// decimator emits exactly n/5 outputs, with no write past them, for
// several valid input lengths.
func Test_Polyphase_factor5DoesNotOverrunOutputBuffer(t *testing.T) {
	for _, n := range []int{20, 40, 60} {
		p := NewPolyphase(5, Kernel5())
		var sink complexSink
		p.Out.Connect(&sink)

		require.NoError(t, p.Receive(make([]complex64, n)))
		assert.Len(t, sink.batches[0], n/5)
	}
}

// Test_Polyphase_wholeVsSplitBatchesAgree is the same delay-line
// continuity property as FIRComplex's, adapted for a decimating stage:
// splitting the input into several decimation-factor-aligned batches must
// not change the output versus one call.
func Test_Polyphase_wholeVsSplitBatchesAgree(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		factor := rapid.SampledFrom([]int{3, 5}).Draw(t, "factor")
		taps := Kernel3()
		if factor == 5 {
			taps = Kernel5()
		}
		L := len(taps)

		minChunk := L - 1
		for minChunk%factor != 0 {
			minChunk++
		}
		chunkMultiplier := rapid.IntRange(1, 3).Draw(t, "chunkMultiplier")
		chunkLen := minChunk * chunkMultiplier
		numChunks := rapid.IntRange(1, 5).Draw(t, "numChunks")
		total := chunkLen * numChunks

		in := make([]complex64, total)
		for i := range in {
			re := rapid.Float32Range(-5, 5).Draw(t, "re")
			im := rapid.Float32Range(-5, 5).Draw(t, "im")
			in[i] = complex(re, im)
		}

		whole := NewPolyphase(factor, taps)
		var wholeSink complexSink
		whole.Out.Connect(&wholeSink)
		require.NoError(t, whole.Receive(in))
		wholeOut := flattenComplex(wholeSink.batches)

		split := NewPolyphase(factor, taps)
		var splitSink complexSink
		split.Out.Connect(&splitSink)
		for off := 0; off < total; off += chunkLen {
			require.NoError(t, split.Receive(in[off:off+chunkLen]))
		}
		splitOut := flattenComplex(splitSink.batches)

		assert.Equal(t, wholeOut, splitOut)
		assert.Len(t, wholeOut, total/factor)
	})
}
