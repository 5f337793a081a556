package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() *Settings {
	return &Settings{
		Audio: AudioSettings{FrameSamples: DefaultFrameSamples},
		Detection: DetectionSettings{
			Threshold:       0.1,
			WindowSeconds:   1.0,
			OverlapSeconds:  0.5,
			CooldownSeconds: 2.0,
		},
		Realtime: RealtimeSettings{AwaitTimeoutMs: 100},
	}
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateSettings(validSettings()))

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero frame samples", func(s *Settings) { s.Audio.FrameSamples = 0 }},
		{"negative frame samples", func(s *Settings) { s.Audio.FrameSamples = -1 }},
		{"zero threshold", func(s *Settings) { s.Detection.Threshold = 0 }},
		{"threshold at one", func(s *Settings) { s.Detection.Threshold = 1 }},
		{"zero window", func(s *Settings) { s.Detection.WindowSeconds = 0 }},
		{"negative overlap", func(s *Settings) { s.Detection.OverlapSeconds = -0.1 }},
		{"overlap equals window", func(s *Settings) { s.Detection.OverlapSeconds = 1.0 }},
		{"negative cooldown", func(s *Settings) { s.Detection.CooldownSeconds = -1 }},
		{"zero await timeout", func(s *Settings) { s.Realtime.AwaitTimeoutMs = 0 }},
		{"negative log rotation size", func(s *Settings) { s.Log.MaxSizeMB = -1 }},
		{"mqtt enabled without broker", func(s *Settings) { s.MQTT.Enabled = true; s.MQTT.Topic = "t" }},
		{"mqtt enabled without topic", func(s *Settings) { s.MQTT.Enabled = true; s.MQTT.Broker = "tcp://b" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := validSettings()
			tt.mutate(s)
			assert.Error(t, ValidateSettings(s))
		})
	}
}

func TestValidateSettingsMQTTComplete(t *testing.T) {
	t.Parallel()

	s := validSettings()
	s.MQTT.Enabled = true
	s.MQTT.Broker = "tcp://localhost:1883"
	s.MQTT.Topic = "marvin/wake"
	assert.NoError(t, ValidateSettings(s))
}

func TestLoadAppliesDefaults(t *testing.T) {
	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultFrameSamples, settings.Audio.FrameSamples)
	assert.InDelta(t, 0.1, settings.Detection.Threshold, 1e-9)
	assert.InDelta(t, 1.0, settings.Detection.WindowSeconds, 1e-9)
	assert.InDelta(t, 0.5, settings.Detection.OverlapSeconds, 1e-9)
	assert.Equal(t, 100, settings.Realtime.AwaitTimeoutMs)
	assert.Equal(t, "marvin/wake", settings.MQTT.Topic)
	assert.False(t, settings.MQTT.Enabled)
	assert.Empty(t, settings.Log.File)
	assert.Equal(t, 100, settings.Log.MaxSizeMB)

	assert.Same(t, settings, Setting())
}
