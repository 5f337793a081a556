package wakecore

import (
	"sync/atomic"
	"time"
)

// maxPending bounds the coalesced signal count; further signals saturate
// instead of growing the counter without bound.
const maxPending = 1<<16 - 1

// Notifier is the coalescing wakeup primitive bridging the capture context
// and the processing task. Signals issued while the consumer is busy coalesce
// into a single pending count that the next Await collects in one wakeup.
type Notifier struct {
	pending atomic.Uint32
	wake    chan struct{}
}

// NewNotifier creates a Notifier ready for use. It lives for the process
// lifetime and needs no teardown.
func NewNotifier() *Notifier {
	return &Notifier{wake: make(chan struct{}, 1)}
}

// Signal records one pending notification and wakes a parked waiter. It never
// blocks and is safe to call from the capture callback, concurrently with
// Await.
func (n *Notifier) Signal() {
	for {
		cur := n.pending.Load()
		if cur >= maxPending {
			break
		}
		if n.pending.CompareAndSwap(cur, cur+1) {
			break
		}
	}
	select {
	case n.wake <- struct{}{}:
	default:
	}
}

// Await blocks the calling goroutine until a signal arrives or timeout
// elapses, then atomically resets the pending count and returns how many
// signals had coalesced. A return of 0 means the timeout path was taken.
//
// A signal landing in the window between the pending check and the park still
// wakes the waiter: Signal deposits a wake token before Await parks on the
// channel, so the classic lost-wakeup race cannot occur.
func (n *Notifier) Await(timeout time.Duration) uint32 {
	if count := n.pending.Swap(0); count > 0 {
		// consume a stale wake token so the next Await does not wake early
		select {
		case <-n.wake:
		default:
		}
		return count
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-n.wake:
	case <-timer.C:
	}
	return n.pending.Swap(0)
}
