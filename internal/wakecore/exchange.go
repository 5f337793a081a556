package wakecore

import (
	"sync/atomic"

	"github.com/tphakala/marvin-go/internal/errors"
)

// exchangeFrames is the fixed pool size of a FrameExchange: one frame being
// filled by the producer, one published, one potentially held by the consumer
// mid-copy, and one spare.
const exchangeFrames = 4

// FrameExchange is the lock-free handoff between the capture context and the
// processing task. The producer publishes completed frames into a single
// slot; the consumer takes the latest one. When the consumer falls behind,
// the unread frame is displaced by the newer one (overwrite-oldest policy)
// and counted as an overrun.
//
// Publish must only be called from one producer context, ReadLatest only from
// one consumer context. Neither ever blocks.
type FrameExchange struct {
	slot      atomic.Pointer[Frame] // latest completed, unread frame
	free      chan *Frame           // recycled frames awaiting reuse
	back      *Frame                // producer-owned fill target
	overruns  atomic.Uint64
	published atomic.Uint64
	frameCap  int
	channel   Channel
}

// NewFrameExchange creates an exchange with a fixed pool of frames holding
// frameSamples samples each.
func NewFrameExchange(frameSamples int, channel Channel) (*FrameExchange, error) {
	if frameSamples <= 0 {
		return nil, errors.Newf("invalid frame size: %d samples", frameSamples).
			Component("wakecore").
			Category(errors.CategoryValidation).
			Build()
	}

	x := &FrameExchange{
		free:     make(chan *Frame, exchangeFrames),
		frameCap: frameSamples,
		channel:  channel,
	}
	for i := 0; i < exchangeFrames-1; i++ {
		f, err := NewFrame(frameSamples, channel)
		if err != nil {
			return nil, err
		}
		x.free <- f
	}
	back, err := NewFrame(frameSamples, channel)
	if err != nil {
		return nil, err
	}
	x.back = back
	return x, nil
}

// Publish copies src into the producer's fill frame and makes it the latest
// readable frame. If the previous frame was never read it is displaced,
// counted as an overrun and recycled as the next fill target. Safe to call
// from the capture callback; never blocks and never allocates on the steady
// path.
func (x *FrameExchange) Publish(src []int32) {
	x.back.CopyFrom(src)
	prev := x.slot.Swap(x.back)
	x.published.Add(1)

	if prev != nil {
		// consumer missed this frame; keep-latest policy drops it
		x.overruns.Add(1)
		x.back = prev
		return
	}

	select {
	case f := <-x.free:
		x.back = f
	default:
		// unreachable while the consumer returns frames before its next
		// read; allocate a spare rather than stall the capture path.
		// frameCap was validated at construction, so build it directly.
		x.back = &Frame{
			samples: make([]int32, x.frameCap),
			channel: x.channel,
		}
	}
}

// ReadLatest copies the most recent unread frame into dst and recycles it.
// Returns 0 when no frame has completed since the previous call.
func (x *FrameExchange) ReadLatest(dst []int32) int {
	f := x.slot.Swap(nil)
	if f == nil {
		return 0
	}
	n := copy(dst, f.Samples())
	f.Reset()
	select {
	case x.free <- f:
	default:
	}
	return n
}

// Overruns returns how many completed frames were displaced unread.
func (x *FrameExchange) Overruns() uint64 {
	return x.overruns.Load()
}

// Published returns how many frames the producer has completed.
func (x *FrameExchange) Published() uint64 {
	return x.published.Load()
}

// FrameSamples returns the fixed per-frame sample count.
func (x *FrameExchange) FrameSamples() int {
	return x.frameCap
}
