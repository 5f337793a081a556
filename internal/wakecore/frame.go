package wakecore

import (
	"github.com/tphakala/marvin-go/internal/errors"
)

// Channel identifies which microphone channel a frame was captured from.
type Channel uint8

const (
	ChannelLeft Channel = iota
	ChannelRight
	ChannelMono
)

// String returns a human-readable channel name.
func (c Channel) String() string {
	switch c {
	case ChannelLeft:
		return "left"
	case ChannelRight:
		return "right"
	case ChannelMono:
		return "mono"
	default:
		return "unknown"
	}
}

// Format describes the sample format a Source produces.
type Format struct {
	SampleRate int     // Samples per second (e.g. 16000)
	BitDepth   int     // Bits per sample (e.g. 32)
	Channel    Channel // Which channel the samples come from
}

// Frame holds one batch of raw audio samples captured in a single acquisition
// cycle. Its capacity is fixed at construction and never changes; the capture
// side overwrites the same frames repeatedly and the consumer only ever sees
// copies.
type Frame struct {
	samples []int32
	n       int
	channel Channel
}

// NewFrame allocates a frame holding up to capacity samples.
func NewFrame(capacity int, channel Channel) (*Frame, error) {
	if capacity <= 0 {
		return nil, errors.Newf("invalid frame capacity: %d", capacity).
			Component("wakecore").
			Category(errors.CategoryValidation).
			Build()
	}
	return &Frame{
		samples: make([]int32, capacity),
		channel: channel,
	}, nil
}

// CopyFrom overwrites the frame contents with src, truncating at the frame
// capacity. It returns the number of samples stored.
func (f *Frame) CopyFrom(src []int32) int {
	f.n = copy(f.samples, src)
	return f.n
}

// Samples returns the valid samples of the frame. The returned slice aliases
// frame memory; callers copy it before the frame is recycled.
func (f *Frame) Samples() []int32 {
	return f.samples[:f.n]
}

// Len returns the number of valid samples.
func (f *Frame) Len() int {
	return f.n
}

// Cap returns the fixed sample capacity.
func (f *Frame) Cap() int {
	return len(f.samples)
}

// Channel returns the channel tag of the frame.
func (f *Frame) Channel() Channel {
	return f.channel
}

// Reset marks the frame empty without releasing its storage.
func (f *Frame) Reset() {
	f.n = 0
}
