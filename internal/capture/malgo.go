// Package capture provides the malgo-backed soundcard implementation of the
// wakecore audio source contract.
package capture

import (
	"context"
	"encoding/binary"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"github.com/tphakala/marvin-go/internal/conf"
	"github.com/tphakala/marvin-go/internal/errors"
	"github.com/tphakala/marvin-go/internal/logging"
	"github.com/tphakala/marvin-go/internal/observability/metrics"
	"github.com/tphakala/marvin-go/internal/wakecore"
)

const sourceLabel = "soundcard"

// Config contains configuration for the malgo audio source.
type Config struct {
	Device       string // device name substring; empty selects the default device
	SampleRate   int
	FrameSamples int
	Channel      wakecore.Channel
}

// MalgoSource implements wakecore.Source using malgo for cross-platform
// soundcard capture. The malgo data callback is the producer context: it
// accumulates samples into full frames, publishes them through a
// FrameExchange and signals the notifier. It never blocks.
type MalgoSource struct {
	config   Config
	exchange *wakecore.FrameExchange
	notifier *wakecore.Notifier

	ctx    *malgo.AllocatedContext
	device *malgo.Device

	// accum collects callback samples until a full frame is ready.
	// Only the malgo callback goroutine touches it.
	accum []int32

	// reportedOverruns tracks how many exchange overruns were already
	// forwarded to prometheus. Only the callback goroutine touches it.
	reportedOverruns uint64

	mu      sync.Mutex
	running atomic.Bool

	logger  *slog.Logger
	metrics *metrics.WakeCoreMetrics
}

// NewMalgoSource creates a soundcard source. Zero config fields fall back to
// the package defaults (16 kHz, 512-sample frames, left channel).
func NewMalgoSource(config Config, m *metrics.WakeCoreMetrics) (*MalgoSource, error) {
	if config.SampleRate == 0 {
		config.SampleRate = conf.SampleRate
	}
	if config.FrameSamples == 0 {
		config.FrameSamples = conf.DefaultFrameSamples
	}
	if config.SampleRate < 0 || config.FrameSamples < 0 {
		return nil, errors.Newf("invalid capture config: rate=%d frame=%d",
			config.SampleRate, config.FrameSamples).
			Component("capture").
			Category(errors.CategoryValidation).
			Build()
	}

	exchange, err := wakecore.NewFrameExchange(config.FrameSamples, config.Channel)
	if err != nil {
		return nil, err
	}

	logger := logging.ForService("capture")
	if logger == nil {
		logger = slog.Default()
	}

	return &MalgoSource{
		config:   config,
		exchange: exchange,
		accum:    make([]int32, 0, config.FrameSamples),
		logger:   logger,
		metrics:  m,
	}, nil
}

// Start configures the capture device and begins autonomous acquisition.
// Failures are reported with the hardware-init category; startup treats them
// as fatal.
func (s *MalgoSource) Start(ctx context.Context, notifier *wakecore.Notifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return errors.NewStd("capture already running")
	}
	if notifier == nil {
		return errors.ValidationError("notifier is required")
	}
	s.notifier = notifier

	malgoCtx, err := malgo.InitContext([]malgo.Backend{s.backend()}, malgo.ContextConfig{},
		func(message string) {
			s.logger.Debug("malgo", "message", message)
		})
	if err != nil {
		return errors.HardwareInitError(err, s.config.Device)
	}
	s.ctx = malgoCtx

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS32
	deviceConfig.Capture.Channels = conf.NumChannels
	deviceConfig.SampleRate = uint32(s.config.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	if s.config.Device != "" {
		info, err := findCaptureDevice(malgoCtx, s.config.Device)
		if err != nil {
			_ = malgoCtx.Uninit()
			return err
		}
		deviceConfig.Capture.DeviceID = info.ID.Pointer()
	}

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: s.onReceiveFrames,
		Stop: func() {
			s.logger.Warn("capture device stopped")
		},
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		_ = malgoCtx.Uninit()
		return errors.HardwareInitError(err, s.config.Device)
	}
	s.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = malgoCtx.Uninit()
		return errors.HardwareInitError(err, s.config.Device)
	}

	s.running.Store(true)
	s.logger.Info("audio capture started",
		"device", s.config.Device,
		"sample_rate", s.config.SampleRate,
		"frame_samples", s.config.FrameSamples,
		"channel", s.config.Channel.String())
	return nil
}

// onReceiveFrames is the malgo data callback, the hardware-paced producer
// context. framecount is in device frames, one 32-bit sample each (mono).
func (s *MalgoSource) onReceiveFrames(_, pSamples []byte, framecount uint32) {
	const bytesPerSample = conf.BitDepth / 8

	for i := uint32(0); i < framecount; i++ {
		sample := int32(binary.LittleEndian.Uint32(pSamples[i*bytesPerSample:]))
		s.accum = append(s.accum, sample)
		if len(s.accum) == s.config.FrameSamples {
			s.exchange.Publish(s.accum)
			s.accum = s.accum[:0]
			s.notifier.Signal()
			if s.metrics != nil {
				s.metrics.IncFramesCaptured(sourceLabel)
				s.reportOverruns()
			}
		}
	}
}

// reportOverruns mirrors the exchange's monotonic drop counter into
// prometheus, forwarding only the overruns not yet reported.
func (s *MalgoSource) reportOverruns() {
	current := s.exchange.Overruns()
	for ; s.reportedOverruns < current; s.reportedOverruns++ {
		s.metrics.IncFrameOverruns(sourceLabel)
	}
}

// Stop halts acquisition and releases the device.
func (s *MalgoSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Load() {
		return nil
	}
	s.running.Store(false)

	if s.device != nil {
		s.device.Uninit()
		s.device = nil
	}
	if s.ctx != nil {
		_ = s.ctx.Uninit()
		s.ctx = nil
	}
	s.logger.Info("audio capture stopped",
		"frames", s.exchange.Published(),
		"overruns", s.exchange.Overruns())
	return nil
}

// ReadFrame copies the most recently completed frame into dst. Returns 0 when
// no new frame has completed since the last read.
func (s *MalgoSource) ReadFrame(dst []int32) (int, error) {
	if !s.running.Load() {
		return 0, errors.New(errors.NewStd("capture not running")).
			Component("capture").
			Category(errors.CategoryAudioSource).
			Build()
	}
	return s.exchange.ReadLatest(dst), nil
}

// Format returns the sample format of the source.
func (s *MalgoSource) Format() wakecore.Format {
	return wakecore.Format{
		SampleRate: s.config.SampleRate,
		BitDepth:   conf.BitDepth,
		Channel:    s.config.Channel,
	}
}

// FrameSamples returns the fixed per-frame sample count.
func (s *MalgoSource) FrameSamples() int {
	return s.config.FrameSamples
}

// Overruns exposes the drop counter for diagnostics.
func (s *MalgoSource) Overruns() uint64 {
	return s.exchange.Overruns()
}

// backend selects the platform audio backend the way the capture stack
// expects: ALSA on Linux, WASAPI on Windows, CoreAudio on macOS.
func (s *MalgoSource) backend() malgo.Backend {
	switch runtime.GOOS {
	case "linux":
		return malgo.BackendAlsa
	case "windows":
		return malgo.BackendWasapi
	case "darwin":
		return malgo.BackendCoreaudio
	default:
		return malgo.BackendNull
	}
}
