package demod

import (
	"math"

	"hz.tools/ais/internal/stream"
)

// Fixed GMSK coherent-demodulator parameters.
const (
	nPhases  = 16
	nHistory = 8
	nUpdate  = 2 * nPhases
	nSearch  = 2
)

// Mode selects between the "coherent" classifier and its "challenger"
// sibling, which differ only in the sign of b in the linear
// classification step. Both are kept here as the two values of one enum
// fed to a single constructor, rather than as independent stage types.
type Mode int

const (
	// ModeCoherent uses b = +im*sin(α) against a = re*cos(α).
	ModeCoherent Mode = iota
	// ModeChallenger uses b = -im*sin(α) against a = re*cos(α).
	ModeChallenger
)

// Coherent is the multi-phase linear-classifier GMSK demodulator. It
// searches nPhases candidate bit phases and, every nUpdate samples,
// rescans a small window around the current best phase using a min-max
// criterion: the chosen phase is the one whose worst recent decision was
// strongest.
type Coherent struct {
	stream.Stage[float32]

	mode Mode

	phase []complex64 // length nPhases/2, precomputed on first Receive

	rot    int
	bits   [nPhases]uint32
	memory [nPhases][nHistory]float32
	last   int
	update int
	maxIdx int

	out [1]float32
}

// NewCoherent constructs a Coherent demodulator in the given mode.
func NewCoherent(mode Mode) *Coherent {
	return &Coherent{mode: mode}
}

func (c *Coherent) setPhases() {
	np2 := nPhases / 2
	c.phase = make([]complex64, np2)
	for i := 0; i < np2; i++ {
		alpha := math.Pi/2.0/float64(np2)*float64(i) + math.Pi/2.0/(2.0*float64(np2))
		c.phase[i] = complex64(complex(math.Cos(alpha), math.Sin(alpha)))
	}
}

// Receive implements stream.Receiver[complex64]; it emits one float32
// soft bit per input sample.
func (c *Coherent) Receive(data []complex64) error {
	if c.phase == nil {
		c.setPhases()
	}

	for _, x := range data {
		var re, im float32

		switch c.rot {
		case 0:
			re, im = real(x), imag(x)
		case 1:
			re, im = -imag(x), real(x)
		case 2:
			re, im = -real(x), -imag(x)
		case 3:
			re, im = imag(x), -real(x)
		}
		c.rot = (c.rot + 1) & 3

		np2 := nPhases / 2
		for j := 0; j < np2; j++ {
			a := re * real(c.phase[j])
			var b float32
			if c.mode == ModeCoherent {
				b = im * imag(c.phase[j])
			} else {
				b = -im * imag(c.phase[j])
			}

			c.bits[j] <<= 1
			c.bits[nPhases-1-j] <<= 1

			t := a + b
			if t > 0 {
				c.bits[j] |= 1
			}
			c.memory[j][c.last] = absf32(t)

			t = a - b
			if t > 0 {
				c.bits[nPhases-1-j] |= 1
			}
			c.memory[nPhases-1-j][c.last] = absf32(t)
		}
		c.last = (c.last + 1) % nHistory

		c.update = (c.update + 1) % nUpdate
		if c.update == 0 {
			c.rescan()
		}

		b2 := (c.bits[c.maxIdx] & 2) >> 1
		b1 := c.bits[c.maxIdx] & 1
		var bit float32 = -1
		if (b1 ^ b2) != 0 {
			bit = 1
		}

		c.out[0] = bit
		if err := c.SendOut(c.out[:]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Coherent) rescan() {
	var maxVal float32
	prevMax := c.maxIdx

	for p := nPhases - nSearch; p <= nPhases+nSearch; p++ {
		j := (p + prevMax) % nPhases
		minAbs := c.memory[j][0]
		for l := 1; l < nHistory; l++ {
			if c.memory[j][l] < minAbs {
				minAbs = c.memory[j][l]
			}
		}
		if minAbs > maxVal {
			maxVal = minAbs
			c.maxIdx = j
		}
	}
}

func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
