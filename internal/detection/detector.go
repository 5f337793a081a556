// Package detection implements the application states driving wake-word
// detection: listening on the audio source, scoring analysis windows through
// a pluggable detector, and the refractory period after a trigger.
package detection

import (
	"math"
)

// Detector decides whether an analysis window of samples contains the wake
// word. Implementations run synchronously within one processing tick; the ML
// inference collaborator plugs in here.
type Detector interface {
	// Name returns a short identifier for events and metrics.
	Name() string

	// Detect scores one window of samples and reports whether the wake
	// word is present, with a confidence in [0, 1].
	Detect(window []int32) (hit bool, confidence float32)
}

// EnergyDetector is the reference detector: it triggers on sustained signal
// energy above a threshold. It exists to exercise the full pipeline and as a
// stand-in until a trained model is wired in.
type EnergyDetector struct {
	// Threshold is the normalized RMS level in (0, 1) that counts as a hit.
	Threshold float64
}

// Name implements Detector.
func (d *EnergyDetector) Name() string {
	return "energy"
}

// Detect computes the normalized RMS energy of the window.
func (d *EnergyDetector) Detect(window []int32) (bool, float32) {
	if len(window) == 0 {
		return false, 0
	}

	var sum float64
	for _, s := range window {
		v := float64(s) / float64(math.MaxInt32)
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(window)))

	if rms < d.Threshold {
		return false, float32(rms / d.Threshold)
	}

	confidence := rms / (d.Threshold * 2)
	if confidence > 1 {
		confidence = 1
	}
	return true, float32(confidence)
}
