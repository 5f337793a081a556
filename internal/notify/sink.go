package notify

import (
	"context"

	"github.com/tphakala/marvin-go/internal/errors"
)

// Sink receives wake events.
type Sink interface {
	// Publish delivers one wake event.
	Publish(ctx context.Context, event WakeEvent) error

	// Close releases sink resources.
	Close() error
}

// MultiSink fans one event out to several sinks. A failing sink does not stop
// delivery to the others.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines sinks into one.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Publish delivers the event to every sink and joins any errors.
func (m *MultiSink) Publish(ctx context.Context, event WakeEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink and joins any errors.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
