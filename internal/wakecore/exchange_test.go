package wakecore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExchange(t *testing.T, frameSamples int) *FrameExchange {
	t.Helper()
	x, err := NewFrameExchange(frameSamples, ChannelLeft)
	require.NoError(t, err)
	return x
}

func TestFrameExchangeValidation(t *testing.T) {
	t.Parallel()

	_, err := NewFrameExchange(0, ChannelLeft)
	assert.Error(t, err)
}

func TestFrameExchangeSingleHandoff(t *testing.T) {
	t.Parallel()

	x := newTestExchange(t, 4)
	x.Publish([]int32{1, 2, 3, 4})

	dst := make([]int32, 4)
	n := x.ReadLatest(dst)
	assert.Equal(t, 4, n)
	assert.Equal(t, []int32{1, 2, 3, 4}, dst)

	// no new frame since the last read
	assert.Equal(t, 0, x.ReadLatest(dst))
	assert.Equal(t, uint64(0), x.Overruns())
	assert.Equal(t, uint64(1), x.Published())
}

func TestFrameExchangeOverwriteOldestPolicy(t *testing.T) {
	t.Parallel()

	x := newTestExchange(t, 1)

	// consumer stalled for three frame periods
	x.Publish([]int32{1})
	x.Publish([]int32{2})
	x.Publish([]int32{3})

	// keep-latest: two frames displaced, the newest survives
	assert.Equal(t, uint64(2), x.Overruns())

	dst := make([]int32, 1)
	n := x.ReadLatest(dst)
	assert.Equal(t, 1, n)
	assert.Equal(t, int32(3), dst[0])

	assert.Equal(t, 0, x.ReadLatest(dst))
}

func TestFrameExchangeDeliversInCompletionOrder(t *testing.T) {
	t.Parallel()

	x := newTestExchange(t, 1)
	dst := make([]int32, 1)

	for i := int32(1); i <= 100; i++ {
		x.Publish([]int32{i})
		n := x.ReadLatest(dst)
		require.Equal(t, 1, n)
		require.Equal(t, i, dst[0])
	}
	assert.Equal(t, uint64(0), x.Overruns())
	assert.Equal(t, uint64(100), x.Published())
}

func TestFrameExchangeConcurrentProducerConsumer(t *testing.T) {
	t.Parallel()

	const frames = 5000
	x := newTestExchange(t, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := int32(1); i <= frames; i++ {
			x.Publish([]int32{i})
		}
	}()

	var delivered uint64
	var last int32
	dst := make([]int32, 1)
	for {
		if n := x.ReadLatest(dst); n > 0 {
			// keep-latest policy still delivers in completion order
			require.Greater(t, dst[0], last)
			last = dst[0]
			delivered++
		}
		select {
		case <-done:
			// drain the final frame if one is still published
			if n := x.ReadLatest(dst); n > 0 {
				require.Greater(t, dst[0], last)
				delivered++
			}
			// every completed frame is either delivered or counted as
			// a deterministic overrun, never both and never neither
			assert.Equal(t, uint64(frames), delivered+x.Overruns())
			return
		default:
		}
	}
}

func TestFrameExchangeStalledConsumerScenario(t *testing.T) {
	t.Parallel()

	// virtual production of 10 frames per second with the consumer
	// stalled for three frame periods, then resuming
	x := newTestExchange(t, 2)
	dst := make([]int32, 2)

	x.Publish([]int32{1, 1})
	n := x.ReadLatest(dst)
	require.Equal(t, 2, n)

	// stall: three frames complete unread
	for i := int32(2); i <= 4; i++ {
		x.Publish([]int32{i, i})
		time.Sleep(time.Millisecond)
	}

	// resume: exactly two frames were dropped, the latest is delivered
	assert.Equal(t, uint64(2), x.Overruns())
	n = x.ReadLatest(dst)
	require.Equal(t, 2, n)
	assert.Equal(t, int32(4), dst[0])
}

func TestFrameExchangeAllocatesSpareWhenPoolDrained(t *testing.T) {
	t.Parallel()

	x, err := NewFrameExchange(4, ChannelLeft)
	require.NoError(t, err)

	// empty the free list so Publish must fall back to allocating a spare
	for len(x.free) > 0 {
		<-x.free
	}

	x.Publish([]int32{1, 2, 3, 4})

	require.NotNil(t, x.back)
	assert.Equal(t, 4, x.back.Cap())

	dst := make([]int32, 4)
	assert.Equal(t, 4, x.ReadLatest(dst))
	assert.Equal(t, []int32{1, 2, 3, 4}, dst)
}
