package notify

import (
	"context"
	"log/slog"

	"github.com/tphakala/marvin-go/internal/logging"
)

// LogSink writes wake events to the structured log.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a log sink.
func NewLogSink() *LogSink {
	logger := logging.ForService("notify")
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Publish logs the wake event.
func (s *LogSink) Publish(_ context.Context, event WakeEvent) error {
	s.logger.Info("wake word detected",
		"event_id", event.ID,
		"detector", event.Detector,
		"confidence", event.Confidence,
		"clip_path", event.ClipPath)
	return nil
}

// Close implements Sink; the log sink holds no resources.
func (s *LogSink) Close() error {
	return nil
}
