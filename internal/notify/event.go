// Package notify delivers wake-word detection events to output sinks: the
// structured log always, an MQTT broker optionally. Sinks are collaborators
// invoked from inside the detection state, not part of the acquisition core.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// WakeEvent describes a single wake-word detection.
type WakeEvent struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Detector   string    `json:"detector"`
	Confidence float32   `json:"confidence"`
	ClipPath   string    `json:"clip_path,omitempty"`
}

// NewWakeEvent creates a WakeEvent with a fresh ID and the current time.
func NewWakeEvent(detector string, confidence float32) WakeEvent {
	return WakeEvent{
		ID:         uuid.New().String(),
		Timestamp:  time.Now(),
		Detector:   detector,
		Confidence: confidence,
	}
}
