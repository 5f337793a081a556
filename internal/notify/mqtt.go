package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/tphakala/marvin-go/internal/errors"
	"github.com/tphakala/marvin-go/internal/logging"
)

const (
	defaultConnectTimeout = 30 * time.Second
	defaultPublishTimeout = 10 * time.Second
)

// MQTTConfig configures the MQTT wake-event sink.
type MQTTConfig struct {
	Broker   string // e.g. "tcp://localhost:1883"
	Topic    string
	ClientID string
	Username string
	Password string

	ConnectTimeout time.Duration
	PublishTimeout time.Duration
}

// MQTTSink publishes wake events as JSON to an MQTT topic. This replaces the
// serial trigger line the host-side assistant used to listen on.
type MQTTSink struct {
	config MQTTConfig
	client mqtt.Client
	logger *slog.Logger
	mu     sync.Mutex
}

// NewMQTTSink creates an MQTT sink and connects it to the broker.
func NewMQTTSink(config MQTTConfig) (*MQTTSink, error) {
	if config.Broker == "" {
		return nil, errors.ValidationError("mqtt broker is required")
	}
	if config.Topic == "" {
		return nil, errors.ValidationError("mqtt topic is required")
	}
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = defaultConnectTimeout
	}
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = defaultPublishTimeout
	}

	logger := logging.ForService("notify")
	if logger == nil {
		logger = slog.Default()
	}

	s := &MQTTSink{
		config: config,
		logger: logger.With("component", "mqtt_sink", "broker", config.Broker),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		s.logger.Info("connected to MQTT broker")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.logger.Warn("MQTT connection lost", "error", err)
	})

	s.client = mqtt.NewClient(opts)

	token := s.client.Connect()
	if !token.WaitTimeout(config.ConnectTimeout) {
		return nil, errors.New(errors.NewStd("connection timeout")).
			Component("notify").
			Category(errors.CategoryMQTTConn).
			Context("broker", config.Broker).
			Build()
	}
	if err := token.Error(); err != nil {
		return nil, errors.New(err).
			Component("notify").
			Category(errors.CategoryMQTTConn).
			Context("broker", config.Broker).
			Build()
	}

	return s, nil
}

// Publish sends the wake event as JSON to the configured topic.
func (s *MQTTSink) Publish(ctx context.Context, event WakeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.client.IsConnected() {
		return errors.New(errors.NewStd("not connected to MQTT broker")).
			Component("notify").
			Category(errors.CategoryMQTTPublish).
			Context("event_id", event.ID).
			Build()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.New(err).
			Component("notify").
			Category(errors.CategoryMQTTPublish).
			Context("event_id", event.ID).
			Build()
	}

	timeout := s.config.PublishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	token := s.client.Publish(s.config.Topic, 1, false, payload)
	if !token.WaitTimeout(timeout) {
		return errors.New(errors.NewStd("publish timeout")).
			Component("notify").
			Category(errors.CategoryMQTTPublish).
			Context("topic", s.config.Topic).
			Context("event_id", event.ID).
			Build()
	}
	if err := token.Error(); err != nil {
		return errors.New(err).
			Component("notify").
			Category(errors.CategoryMQTTPublish).
			Context("topic", s.config.Topic).
			Context("event_id", event.ID).
			Build()
	}

	s.logger.Debug("wake event published", "topic", s.config.Topic, "event_id", event.ID)
	return nil
}

// Close disconnects from the broker.
func (s *MQTTSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(250)
	}
	return nil
}
