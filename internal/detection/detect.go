package detection

import (
	"context"
	"log/slog"
	"time"

	"github.com/smallnest/ringbuffer"
	"github.com/tphakala/marvin-go/internal/conf"
	"github.com/tphakala/marvin-go/internal/errors"
	"github.com/tphakala/marvin-go/internal/logging"
	"github.com/tphakala/marvin-go/internal/notify"
	"github.com/tphakala/marvin-go/internal/observability/metrics"
	"github.com/tphakala/marvin-go/internal/wakecore"
)

const publishTimeout = 5 * time.Second

// DetectConfig configures a DetectState.
type DetectConfig struct {
	Source   wakecore.Source
	Detector Detector
	Sink     notify.Sink

	WindowSeconds  float64 // analysis window length
	OverlapSeconds float64 // overlap between consecutive windows

	SaveClips bool   // write a WAV clip of the trigger window
	ClipPath  string // directory for clips

	Metrics *metrics.WakeCoreMetrics // optional
}

// DetectState listens for the wake word. Each tick pulls the latest frame
// from the source into a rolling analysis buffer; once a full window of audio
// has accumulated it is scored by the detector. Consecutive windows overlap
// so a wake word straddling a window boundary is still seen whole.
//
// On a hit the state emits a WakeEvent and requests a transition (to the
// cooldown state); otherwise it stays active indefinitely.
type DetectState struct {
	config DetectConfig

	sampleRate  int
	windowBytes int
	readBytes   int

	window  *ringbuffer.RingBuffer // rolling PCM accumulating toward a window
	clip    *ringbuffer.RingBuffer // pre-roll audio for clip export
	prev    []byte                 // overlap carry between windows
	scratch []int32                // frame read buffer
	pcm     []byte                 // frame sample encoding buffer
	chunk   []byte                 // window read buffer

	logger  *slog.Logger
	windows uint64
}

// NewDetectState creates the wake-word listening state.
func NewDetectState(config *DetectConfig) (*DetectState, error) {
	if config == nil || config.Source == nil {
		return nil, errors.ValidationError("source is required")
	}
	if config.Detector == nil {
		return nil, errors.ValidationError("detector is required")
	}
	if config.Sink == nil {
		return nil, errors.ValidationError("sink is required")
	}
	if config.WindowSeconds <= 0 {
		return nil, errors.ValidationError("window length must be positive")
	}
	if config.OverlapSeconds < 0 || config.OverlapSeconds >= config.WindowSeconds {
		return nil, errors.ValidationError("overlap must be shorter than the window")
	}

	sampleRate := config.Source.Format().SampleRate
	windowBytes := secondsToBytes(config.WindowSeconds, sampleRate)
	overlapBytes := secondsToBytes(config.OverlapSeconds, sampleRate)
	readBytes := windowBytes - overlapBytes

	logger := logging.ForService("detection")
	if logger == nil {
		logger = slog.Default()
	}

	frameBytes := config.Source.FrameSamples() * bytesPerSample

	return &DetectState{
		config:      *config,
		sampleRate:  sampleRate,
		windowBytes: windowBytes,
		readBytes:   readBytes,
		window:      ringbuffer.New(2 * windowBytes),
		clip:        ringbuffer.New(2 * windowBytes),
		scratch:     make([]int32, config.Source.FrameSamples()),
		pcm:         make([]byte, 0, frameBytes),
		chunk:       make([]byte, readBytes),
		logger:      logger.With("component", "detect_state", "detector", config.Detector.Name()),
	}, nil
}

// Name implements wakecore.State.
func (s *DetectState) Name() string {
	return "detect"
}

// Enter resets the analysis buffers; stale audio from a previous activation
// must not trigger a detection.
func (s *DetectState) Enter() {
	s.window.Reset()
	s.clip.Reset()
	s.prev = s.prev[:0]
	s.logger.Info("listening for wake word",
		"window_seconds", s.config.WindowSeconds,
		"overlap_seconds", s.config.OverlapSeconds)
}

// Run performs one detection tick. Returns false only after a wake event has
// been emitted.
func (s *DetectState) Run() bool {
	n, err := s.config.Source.ReadFrame(s.scratch)
	if err != nil {
		s.logger.Warn("frame read failed", "error", err)
		return true
	}
	if n == 0 {
		return true
	}

	s.pcm = samplesToBytes(s.scratch[:n], s.pcm)
	writeRolling(s.window, s.pcm)
	writeRolling(s.clip, s.pcm)

	if s.window.Length() < s.readBytes {
		return true
	}

	if _, err := s.window.Read(s.chunk); err != nil {
		s.logger.Warn("window read failed", "error", err)
		return true
	}
	s.prev = append(s.prev, s.chunk...)
	if len(s.prev) < s.windowBytes {
		return true
	}

	full := s.prev[:s.windowBytes]
	samples := bytesToSamples(full)
	s.prev = s.prev[s.readBytes:]
	s.windows++

	hit, confidence := s.config.Detector.Detect(samples)
	if !hit {
		return true
	}

	event := notify.NewWakeEvent(s.config.Detector.Name(), confidence)
	if s.config.SaveClips {
		path, err := s.saveClip(event.ID)
		if err != nil {
			s.logger.Error("clip save failed", "error", err, "event_id", event.ID)
		} else {
			event.ClipPath = path
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.config.Sink.Publish(ctx, event); err != nil {
		s.logger.Error("wake event publish failed", "error", err, "event_id", event.ID)
	}
	if s.config.Metrics != nil {
		s.config.Metrics.IncWakeEvents(s.config.Detector.Name())
	}

	s.logger.Info("wake word detected",
		"event_id", event.ID,
		"confidence", confidence,
		"windows_scored", s.windows)
	return false
}

// Exit implements wakecore.State.
func (s *DetectState) Exit() {
	s.logger.Debug("detect state exited", "windows_scored", s.windows)
}

// saveClip writes the pre-roll buffer contents as a WAV file.
func (s *DetectState) saveClip(eventID string) (string, error) {
	data := make([]byte, s.clip.Length())
	if _, err := s.clip.Read(data); err != nil {
		return "", errors.New(err).
			Component("detection").
			Category(errors.CategoryBuffer).
			Context("operation", "clip_read").
			Build()
	}
	return SaveClipWAV(s.config.ClipPath, eventID, bytesToSamples(data), s.sampleRate)
}

// writeRolling appends data to rb, discarding the oldest bytes when the
// buffer is full. Keeps the buffer a sliding view of the latest audio.
func writeRolling(rb *ringbuffer.RingBuffer, data []byte) {
	if len(data) > rb.Capacity() {
		data = data[len(data)-rb.Capacity():]
	}
	if need := len(data) - rb.Free(); need > 0 {
		discard := make([]byte, need)
		_, _ = rb.Read(discard)
	}
	_, _ = rb.Write(data)
}

// secondsToBytes converts a duration in seconds to a PCM byte count.
func secondsToBytes(seconds float64, sampleRate int) int {
	return int(seconds*float64(sampleRate)) * bytesPerSample * conf.NumChannels
}
