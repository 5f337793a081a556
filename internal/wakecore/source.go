package wakecore

import "context"

// Source abstracts the hardware-driven audio capture mechanism. Acquisition
// runs autonomously once started and is never paced by the consumer: the
// implementation publishes each completed frame and signals the Notifier,
// applying the overwrite-oldest policy when the consumer falls behind.
type Source interface {
	// Start begins continuous acquisition and signals notifier on every
	// completed frame. It returns an error with category hardware-init if
	// the capture peripheral cannot be configured.
	Start(ctx context.Context, notifier *Notifier) error

	// Stop halts acquisition.
	Stop() error

	// ReadFrame copies the most recently completed frame into dst and
	// returns the number of samples copied, or 0 when no new frame has
	// completed since the last read.
	ReadFrame(dst []int32) (int, error)

	// Format returns the sample format of the source.
	Format() Format

	// FrameSamples returns the fixed sample count of one frame.
	FrameSamples() int
}
