// Package metrics provides Prometheus metrics for the wake-word acquisition
// core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WakeCoreMetrics contains Prometheus metrics for frame capture, the
// notification channel and the processing task loop.
type WakeCoreMetrics struct {
	registry *prometheus.Registry

	// Capture path
	framesCapturedTotal *prometheus.CounterVec
	frameOverrunsTotal  *prometheus.CounterVec

	// Notification channel
	coalescedSignals prometheus.Histogram
	awaitTimeouts    prometheus.Counter

	// Processing task loop
	ticksTotal        prometheus.Counter
	tickFailuresTotal prometheus.Counter
	tickDuration      prometheus.Histogram

	// Detection
	wakeEventsTotal *prometheus.CounterVec
}

// NewWakeCoreMetrics creates and registers the wakecore metrics with the
// given registry.
func NewWakeCoreMetrics(registry *prometheus.Registry) (*WakeCoreMetrics, error) {
	m := &WakeCoreMetrics{registry: registry}

	m.framesCapturedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wakecore_frames_captured_total",
			Help: "Total number of completed audio frames published by a source",
		},
		[]string{"source"},
	)

	m.frameOverrunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wakecore_frame_overruns_total",
			Help: "Total number of frames displaced unread (overwrite-oldest policy)",
		},
		[]string{"source"},
	)

	m.coalescedSignals = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wakecore_coalesced_signals",
			Help:    "Number of signals coalesced into a single processing wakeup",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)

	m.awaitTimeouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wakecore_await_timeouts_total",
			Help: "Total number of notification waits that returned on the timeout path",
		},
	)

	m.ticksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wakecore_ticks_total",
			Help: "Total number of application processing ticks delivered",
		},
	)

	m.tickFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wakecore_tick_failures_total",
			Help: "Total number of processing ticks that failed and were recovered",
		},
	)

	m.tickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wakecore_tick_duration_seconds",
			Help:    "Duration of application processing ticks",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	m.wakeEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wakecore_wake_events_total",
			Help: "Total number of wake-word detections emitted",
		},
		[]string{"detector"},
	)

	collectors := []prometheus.Collector{
		m.framesCapturedTotal,
		m.frameOverrunsTotal,
		m.coalescedSignals,
		m.awaitTimeouts,
		m.ticksTotal,
		m.tickFailuresTotal,
		m.tickDuration,
		m.wakeEventsTotal,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// IncFramesCaptured increments the captured frame counter for a source.
func (m *WakeCoreMetrics) IncFramesCaptured(source string) {
	m.framesCapturedTotal.WithLabelValues(source).Inc()
}

// IncFrameOverruns increments the overrun counter for a source.
func (m *WakeCoreMetrics) IncFrameOverruns(source string) {
	m.frameOverrunsTotal.WithLabelValues(source).Inc()
}

// ObserveCoalescedSignals records the coalesced signal count of one wakeup.
func (m *WakeCoreMetrics) ObserveCoalescedSignals(count uint32) {
	m.coalescedSignals.Observe(float64(count))
}

// IncAwaitTimeouts increments the timeout-path counter.
func (m *WakeCoreMetrics) IncAwaitTimeouts() {
	m.awaitTimeouts.Inc()
}

// IncTicks increments the delivered tick counter.
func (m *WakeCoreMetrics) IncTicks() {
	m.ticksTotal.Inc()
}

// IncTickFailures increments the recovered tick failure counter.
func (m *WakeCoreMetrics) IncTickFailures() {
	m.tickFailuresTotal.Inc()
}

// ObserveTickDuration records one tick's duration in seconds.
func (m *WakeCoreMetrics) ObserveTickDuration(seconds float64) {
	m.tickDuration.Observe(seconds)
}

// IncWakeEvents increments the detection counter for a detector.
func (m *WakeCoreMetrics) IncWakeEvents(detector string) {
	m.wakeEventsTotal.WithLabelValues(detector).Inc()
}
