// Package realtime implements the always-listening realtime detection command.
package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tphakala/marvin-go/internal/capture"
	"github.com/tphakala/marvin-go/internal/conf"
	"github.com/tphakala/marvin-go/internal/detection"
	"github.com/tphakala/marvin-go/internal/errors"
	"github.com/tphakala/marvin-go/internal/logging"
	"github.com/tphakala/marvin-go/internal/notify"
	"github.com/tphakala/marvin-go/internal/observability/metrics"
	"github.com/tphakala/marvin-go/internal/wakecore"
)

// Command creates the realtime detection command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "realtime",
		Short: "Listen for the wake word in realtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunDetector(settings)
		},
	}
}

// RunDetector wires the acquisition core together and runs it until the
// process receives an interrupt: soundcard source feeding a frame exchange,
// a coalescing notifier waking the processing task, and the detect/cooldown
// state machine consuming frames.
func RunDetector(settings *conf.Settings) error {
	logger := logging.ForService("realtime")
	if logger == nil {
		logger = slog.Default()
	}

	if settings.Log.File != "" {
		level := slog.LevelInfo
		if settings.Debug {
			level = slog.LevelDebug
		}
		fileLogger, closeLog, err := logging.NewFileLogger(
			settings.Log.File, "realtime", level,
			logging.FileLoggerOptions{
				MaxSizeMB:  settings.Log.MaxSizeMB,
				MaxBackups: settings.Log.MaxBackups,
				MaxAgeDays: settings.Log.MaxAgeDays,
			})
		if err != nil {
			logger.Warn("file logging unavailable, continuing on stdout",
				"path", settings.Log.File, "error", err)
		} else {
			logger = fileLogger
			defer func() { _ = closeLog() }()
		}
	}

	registry := prometheus.NewRegistry()
	m, err := metrics.NewWakeCoreMetrics(registry)
	if err != nil {
		return err
	}
	if settings.Metrics.Enabled {
		startMetricsServer(settings.Metrics.Listen, registry, logger)
	}

	source, err := capture.NewMalgoSource(capture.Config{
		Device:       settings.Audio.Device,
		SampleRate:   conf.SampleRate,
		FrameSamples: settings.Audio.FrameSamples,
		Channel:      wakecore.ChannelLeft,
	}, m)
	if err != nil {
		return err
	}

	sink := buildSink(settings, logger)
	defer func() { _ = sink.Close() }()

	detect, err := detection.NewDetectState(&detection.DetectConfig{
		Source:         source,
		Detector:       &detection.EnergyDetector{Threshold: settings.Detection.Threshold},
		Sink:           sink,
		WindowSeconds:  settings.Detection.WindowSeconds,
		OverlapSeconds: settings.Detection.OverlapSeconds,
		SaveClips:      settings.Detection.SaveClips,
		ClipPath:       settings.Detection.ClipPath,
		Metrics:        m,
	})
	if err != nil {
		return err
	}
	cooldown := detection.NewCooldownState(
		time.Duration(settings.Detection.CooldownSeconds * float64(time.Second)))

	app, err := wakecore.NewApplication(detect, detection.NewTransitions(detect, cooldown))
	if err != nil {
		return err
	}

	notifier := wakecore.NewNotifier()
	loop, err := wakecore.NewTaskLoop(&wakecore.TaskLoopConfig{
		App:      app,
		Notifier: notifier,
		Timeout:  time.Duration(settings.Realtime.AwaitTimeoutMs) * time.Millisecond,
		Metrics:  m,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := source.Start(ctx, notifier); err != nil {
		if errors.IsCategory(err, errors.CategoryHardwareInit) {
			logger.Error("cannot start audio capture, check device configuration",
				"device", settings.Audio.Device, "error", err)
		}
		return err
	}
	defer func() { _ = source.Stop() }()

	loop.Run(ctx)
	return nil
}

// buildSink assembles the wake-event sinks: structured log always, MQTT when
// configured. An unreachable broker degrades to log-only rather than keeping
// the detector from listening.
func buildSink(settings *conf.Settings, logger *slog.Logger) notify.Sink {
	sinks := []notify.Sink{notify.NewLogSink()}

	if settings.MQTT.Enabled {
		mqttSink, err := notify.NewMQTTSink(notify.MQTTConfig{
			Broker:   settings.MQTT.Broker,
			Topic:    settings.MQTT.Topic,
			ClientID: settings.MQTT.ClientID,
			Username: settings.MQTT.Username,
			Password: settings.MQTT.Password,
		})
		if err != nil {
			logger.Warn("MQTT sink unavailable, wake events will only be logged",
				"broker", settings.MQTT.Broker, "error", err)
		} else {
			sinks = append(sinks, mqttSink)
		}
	}

	return notify.NewMultiSink(sinks...)
}

// startMetricsServer exposes the prometheus registry over HTTP.
func startMetricsServer(listen string, registry *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics listener started", "addr", listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener failed", "error", err)
		}
	}()
}
