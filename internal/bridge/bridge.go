// Package bridge implements the device → pipeline FIFO bridge: a bounded
// queue between the hardware callback thread (the producer) and the
// consumer thread that drains it into the DSP graph, with an
// overrun-drop policy and a timed wait with logged, non-fatal timeouts.
//
// The queue is a buffered channel rather than a hand-rolled mutex +
// condition-variable ring, since Go's channels already provide exactly
// this semantics cheaply: a channel of capacity SizeFIFO, a non-blocking
// send that counts an overrun on failure, and a timed receive that
// counts (but does not fail on) a timeout.
package bridge

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// SizeFIFO is the bounded queue depth.
const SizeFIFO = 16

// Bridge couples one producer (fed by Push, called from the device's own
// callback thread) to one consumer goroutine that drains batches into
// consume, in order, until Pause is called or consume returns an error.
type Bridge struct {
	fifo       chan []byte
	bufferLen  int
	sampleRate uint
	consume    func([]byte) error

	streaming atomic.Bool
	overruns  atomic.Int64
	timeouts  atomic.Int64

	mu   sync.Mutex
	done chan struct{}
}

// New builds a Bridge. bufferLen and sampleRate size the consumer's wait
// timeout: 1.1 * bufferLen/sampleRate seconds.
// consume is invoked once per delivered batch, synchronously, on the
// consumer goroutine — it is expected to run the DSP graph to completion
// for that batch before returning.
func New(bufferLen int, sampleRate uint, consume func([]byte) error) *Bridge {
	return &Bridge{
		fifo:       make(chan []byte, SizeFIFO),
		bufferLen:  bufferLen,
		sampleRate: sampleRate,
		consume:    consume,
	}
}

// Push delivers one buffer from the producer side. If the FIFO is full
// the newest batch is dropped and the overrun counter is incremented;
// older, in-flight samples are never dropped. Push copies buf, since the
// caller (a device callback) typically reuses its buffer immediately
// after the call returns.
func (b *Bridge) Push(buf []byte) {
	if !b.streaming.Load() {
		return
	}
	cp := make([]byte, len(buf))
	copy(cp, buf)

	select {
	case b.fifo <- cp:
	default:
		b.overruns.Add(1)
		log.Printf("ais/bridge: buffer overrun, dropped batch of %d bytes", len(buf))
	}
}

// Play transitions the bridge to streaming and starts the consumer
// goroutine.
func (b *Bridge) Play() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.streaming.Store(true)
	b.done = make(chan struct{})
	go b.consumeLoop(b.done)
}

func (b *Bridge) consumeLoop(done chan struct{}) {
	defer close(done)

	timeout := time.Duration(1.1 * float64(b.bufferLen) / float64(b.sampleRate) * float64(time.Second))

	for b.streaming.Load() {
		select {
		case buf := <-b.fifo:
			if err := b.consume(buf); err != nil {
				log.Printf("ais/bridge: consumer stage error: %v", err)
				b.streaming.Store(false)
				return
			}
		case <-time.After(timeout):
			b.timeouts.Add(1)
			log.Printf("ais/bridge: device timeout")
		}
	}
}

// Pause clears the streaming flag and joins the consumer goroutine. It is
// idempotent and safe to call even if Play was never called.
func (b *Bridge) Pause() {
	b.streaming.Store(false)

	b.mu.Lock()
	done := b.done
	b.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Streaming reports whether the bridge is currently accepting and
// draining batches.
func (b *Bridge) Streaming() bool {
	return b.streaming.Load()
}

// Overruns returns the count of batches dropped because the FIFO was
// full.
func (b *Bridge) Overruns() int64 {
	return b.overruns.Load()
}

// Timeouts returns the count of consumer waits that timed out waiting
// for a batch. A timeout is never fatal.
func (b *Bridge) Timeouts() int64 {
	return b.timeouts.Load()
}
