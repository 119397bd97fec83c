package demod

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Test_Coherent_outputIsBinarySoftBit: Coherent.Receive only ever assigns
// its per-sample output the literal -1 or 1 (see the `var bit float32 =
// -1` / `bit = 1` pair in coherent.go), for any input whatsoever.
func Test_Coherent_outputIsBinarySoftBit(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(t, "n")
		in := make([]complex64, n)
		for i := range in {
			re := rapid.Float32Range(-2, 2).Draw(t, "re")
			im := rapid.Float32Range(-2, 2).Draw(t, "im")
			in[i] = complex(re, im)
		}

		c := NewCoherent(ModeCoherent)
		var sink floatSink
		c.Out.Connect(&sink)
		require.NoError(t, c.Receive(in))

		require.Len(t, sink.out, n)
		for _, x := range sink.out {
			assert.True(t, x == -1 || x == 1, "got %v, want -1 or 1", x)
		}
	})
}

func Test_Coherent_outputLengthMatchesInput(t *testing.T) {
	c := NewCoherent(ModeChallenger)
	var sink floatSink
	c.Out.Connect(&sink)

	require.NoError(t, c.Receive(make([]complex64, 37)))
	assert.Len(t, sink.out, 37)
}

// Test_Coherent_recoversKnownBitStringWithZeroErrors constructs a
// synthetic GMSK-equivalent input: a sequence of per-sample hard
// decisions (+-1, carrying no quadrature component of its own) rotated by
// the same quarter-turn-per-sample convention coherent.go's internal rot
// field undoes, so that after de-rotation every phase bucket sees the
// identical real-valued decision regardless of classifier phase. Because
// Receive's final output bit is the XOR of the current and immediately
// preceding sample's decision, a target bit string can be laid down
// exactly by choosing each decision as the running XOR of the previous
// decision with the next target bit - recovery is then provably exact,
// not merely likely.
func Test_Coherent_recoversKnownBitStringWithZeroErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n = 400
	target := make([]int, n)
	for i := range target {
		target[i] = rng.Intn(2)
	}

	decisions := make([]int, n)
	decisions[0] = 1
	for i := 1; i < n; i++ {
		decisions[i] = decisions[i-1] ^ target[i]
	}

	// quarterTurn[k] is (-j)^k, the per-sample de-rotation coherent.go's
	// rot field cycles through; pre-multiplying by it here cancels out
	// once Receive applies its own +j^n undo, leaving a pure real value.
	quarterTurn := [4]complex64{
		complex(1, 0),
		complex(0, -1),
		complex(-1, 0),
		complex(0, 1),
	}

	in := make([]complex64, n)
	for i, d := range decisions {
		var sign float32 = -1
		if d == 1 {
			sign = 1
		}
		in[i] = complex64(complex(sign, 0)) * quarterTurn[i%4]
	}

	c := NewCoherent(ModeCoherent)
	var sink floatSink
	c.Out.Connect(&sink)
	require.NoError(t, c.Receive(in))

	require.Len(t, sink.out, n)
	for i := 1; i < n; i++ {
		want := -1
		if target[i] == 1 {
			want = 1
		}
		assert.Equalf(t, float32(want), sink.out[i], "sample %d", i)
	}
}

// Test_Coherent_modeAffectsClassification: ModeCoherent and ModeChallenger
// flip the sign of the imaginary term in the linear classifier (a+b with
// b = +im*sin vs b = -im*sin), so a signal with a large enough imaginary
// component must eventually produce a different bit sequence between the
// two modes.
func Test_Coherent_modeAffectsClassification(t *testing.T) {
	const n = 256
	in := make([]complex64, n)
	for i := range in {
		// A fixed, strongly asymmetric real/imaginary signal: im exceeds re
		// by more than cot(pi/32) ~ 10.2, so at the outermost phase the sign
		// of the im term decides the bit.
		if i%2 == 0 {
			in[i] = complex(0.01, 1.0)
		} else {
			in[i] = complex(0.01, -1.0)
		}
	}

	coh := NewCoherent(ModeCoherent)
	var cohSink floatSink
	coh.Out.Connect(&cohSink)
	require.NoError(t, coh.Receive(in))

	chal := NewCoherent(ModeChallenger)
	var chalSink floatSink
	chal.Out.Connect(&chalSink)
	require.NoError(t, chal.Receive(in))

	differs := false
	for i := range cohSink.out {
		if cohSink.out[i] != chalSink.out[i] {
			differs = true
			break
		}
	}
	assert.True(t, differs, "ModeCoherent and ModeChallenger produced identical output for an imaginary-dominant signal")
}
