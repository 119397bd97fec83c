package dsp

import "hz.tools/ais/internal/stream"

// kernel3 is the 21-tap /3 decimator kernel, expanded from the centre +
// 10 mirrored-pair literal constants.
var kernel3 = expandSymmetric(
	0.33292088503,
	[]float32{-0.00101073661, 0, 0.00616649466, 0.01130778123, 0, -0.03044260089, -0.04750748661, 0, 0.12579695977, 0.26922914593},
)

// kernel5 is the 19-tap /5 decimator kernel.
var kernel5 = expandSymmetric(
	0.31070225733,
	[]float32{-0.02029180052, -0.03693692581, -0.04221362949, -0.03043770079, 0, 0.04565655118, 0.09849846882, 0.14774770323, 0.18262620471},
)

// expandSymmetric builds a (2*len(pairs)+1)-tap symmetric kernel from a
// centre tap and the pairs mirrored around it, pairs[0] being the
// tap nearest the edges.
func expandSymmetric(centre float32, pairs []float32) []float32 {
	n := len(pairs)
	taps := make([]float32, 2*n+1)
	taps[n] = centre
	for i, v := range pairs {
		taps[i] = v
		taps[2*n-i] = v
	}
	return taps
}

// Kernel3 returns a copy of the 21-tap /3 decimator kernel.
func Kernel3() []float32 { return append([]float32(nil), kernel3...) }

// Kernel5 returns a copy of the 19-tap /5 decimator kernel.
func Kernel5() []float32 { return append([]float32(nil), kernel5...) }

// Polyphase is a symmetric, linear-phase FIR decimator by an integer
// factor. It carries the previous call's tail of L-1 samples as a delay
// buffer: a prefix loop consumes the carried-over tail together with
// freshly arriving input, a steady-state loop convolves directly against
// the input slice, and a final copy seeds the next call's tail.
//
// The steady-state loop continues with the window that follows the prefix
// loop's last one, so outputs stay spaced by the decimation factor across
// the prefix/steady-state boundary and across calls.
type Polyphase struct {
	stream.Stage[complex64]

	factor int
	taps   []float32
	buffer []complex64
	output []complex64
}

// NewPolyphase constructs a decimate-by-factor polyphase FIR with the
// given (odd-length, normally symmetric) tap set.
func NewPolyphase(factor int, taps []float32) *Polyphase {
	L := len(taps)
	prefixIters := 0
	for i := 0; i < L-1; i += factor {
		prefixIters++
	}
	bufLen := (L - 1) + prefixIters*factor
	return &Polyphase{
		factor: factor,
		taps:   append([]float32(nil), taps...),
		buffer: make([]complex64, bufLen),
	}
}

func (p *Polyphase) apply(window []complex64) complex64 {
	var acc complex64
	for k, h := range p.taps {
		acc += complex64(complex(h, 0)) * window[k]
	}
	return acc
}

// Receive implements stream.Receiver[complex64]. len(data) must be a
// multiple of the decimation factor and at least L-1 samples long.
func (p *Polyphase) Receive(data []complex64) error {
	L := len(p.taps)
	D := p.factor

	if len(data)%D != 0 {
		return InvalidBatchLengthError{Stage: "Polyphase", Length: len(data), Multiple: D}
	}
	if len(data) < L-1 {
		return ErrBatchTooShort
	}

	outLen := len(data) / D
	if cap(p.output) < outLen {
		p.output = make([]complex64, outLen)
	}
	p.output = p.output[:outLen]

	i, j, ptr := 0, 0, L-1
	for ; i < L-1; i, j = i+D, j+1 {
		for k := 0; k < D; k++ {
			p.buffer[ptr] = data[i+k]
			ptr++
		}
		p.output[j] = p.apply(p.buffer[i:])
	}

	// The prefix loop's last window ended at data[i-D]; the next one ends
	// at data[i] and so starts at i-(L-1): 1 for the /3 kernel, 2 for /5.
	for i -= L - 1; i < len(data)-L+1; i, j = i+D, j+1 {
		p.output[j] = p.apply(data[i:])
	}

	for i, ptr = len(data)-(L-1), 0; i < len(data); i, ptr = i+1, ptr+1 {
		p.buffer[ptr] = data[i]
	}

	return p.SendOut(p.output)
}
