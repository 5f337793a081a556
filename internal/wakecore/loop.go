package wakecore

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/tphakala/marvin-go/internal/errors"
	"github.com/tphakala/marvin-go/internal/logging"
	"github.com/tphakala/marvin-go/internal/observability/metrics"
)

// DefaultAwaitTimeout bounds how long the processing task parks between
// wakeups, matching the capture task's housekeeping cadence.
const DefaultAwaitTimeout = 100 * time.Millisecond

// TaskLoop is the single consumer execution context. It alternates between
// waiting on the Notifier and delivering exactly one Application tick per
// wakeup. Coalescing is intentional: a burst of signals produces a single
// tick, which bounds worst-case catch-up latency instead of queueing stale
// work.
//
// A failure escaping a tick is recovered at this boundary and the loop keeps
// running; a processing task that died silently would mean total loss of
// wake-word detection.
type TaskLoop struct {
	app      *Application
	notifier *Notifier
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metrics.WakeCoreMetrics

	ticks        atomic.Uint64
	tickFailures atomic.Uint64
}

// TaskLoopConfig holds configuration for creating a TaskLoop.
type TaskLoopConfig struct {
	App      *Application
	Notifier *Notifier
	Timeout  time.Duration            // Await timeout; DefaultAwaitTimeout if zero
	Metrics  *metrics.WakeCoreMetrics // optional
}

// NewTaskLoop creates a processing task loop.
func NewTaskLoop(cfg *TaskLoopConfig) (*TaskLoop, error) {
	if cfg == nil || cfg.App == nil {
		return nil, errors.ValidationError("application is required")
	}
	if cfg.Notifier == nil {
		return nil, errors.ValidationError("notifier is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultAwaitTimeout
	}

	logger := logging.ForService("wakecore")
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskLoop{
		app:      cfg.App,
		notifier: cfg.Notifier,
		timeout:  timeout,
		logger:   logger.With("component", "task_loop"),
		metrics:  cfg.Metrics,
	}, nil
}

// Run drives the waiting/processing cycle until ctx is cancelled. Production
// deployments run it for the process lifetime; the context exists for tests
// and orderly shutdown. Cancellation is observed within one Await timeout.
func (l *TaskLoop) Run(ctx context.Context) {
	l.logger.Info("processing task started", "await_timeout", l.timeout)

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("processing task stopped",
				"ticks", l.ticks.Load(),
				"tick_failures", l.tickFailures.Load())
			return
		default:
		}

		count := l.notifier.Await(l.timeout)
		if count == 0 {
			if l.metrics != nil {
				l.metrics.IncAwaitTimeouts()
			}
			continue
		}

		if l.metrics != nil {
			l.metrics.ObserveCoalescedSignals(count)
		}
		l.tick(count)
	}
}

// tick delivers one application tick, recovering any failure that escapes it.
func (l *TaskLoop) tick(coalesced uint32) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			l.tickFailures.Add(1)
			if l.metrics != nil {
				l.metrics.IncTickFailures()
			}
			l.logger.Error("processing tick failed, loop continues",
				"panic", r,
				"coalesced_signals", coalesced,
				"state", l.app.CurrentName())
			return
		}
		l.ticks.Add(1)
		if l.metrics != nil {
			l.metrics.IncTicks()
			l.metrics.ObserveTickDuration(time.Since(start).Seconds())
		}
	}()

	l.app.Run()
}

// Ticks returns how many ticks completed successfully.
func (l *TaskLoop) Ticks() uint64 {
	return l.ticks.Load()
}

// TickFailures returns how many ticks failed and were recovered.
func (l *TaskLoop) TickFailures() uint64 {
	return l.tickFailures.Load()
}
