// Package conf loads and validates the application configuration from YAML
// files and environment variables via viper.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// AudioSettings configures the capture source.
type AudioSettings struct {
	Device       string // device name substring; empty selects the default
	FrameSamples int    // samples per acquisition frame
}

// DetectionSettings configures the wake-word detection state.
type DetectionSettings struct {
	Threshold       float64 // detector trigger threshold
	WindowSeconds   float64 // analysis window length
	OverlapSeconds  float64 // overlap between consecutive windows
	CooldownSeconds float64 // refractory period after a detection
	SaveClips       bool    // save a WAV clip of each trigger window
	ClipPath        string  // directory for saved clips
}

// MQTTSettings configures the optional wake-event publisher.
type MQTTSettings struct {
	Enabled  bool
	Broker   string
	Topic    string
	ClientID string
	Username string
	Password string
}

// MetricsSettings configures the Prometheus exposition endpoint.
type MetricsSettings struct {
	Enabled bool
	Listen  string // host:port for the /metrics listener
}

// RealtimeSettings configures the processing task loop.
type RealtimeSettings struct {
	AwaitTimeoutMs int // bounded wait between processing wakeups
}

// LogSettings configures optional rotating file logging.
type LogSettings struct {
	File       string // log file path; empty keeps logging on stdout/stderr only
	MaxSizeMB  int    // rotate after this many megabytes
	MaxBackups int    // number of rotated files to keep
	MaxAgeDays int    // days to retain rotated files
}

// Settings is the root configuration structure.
type Settings struct {
	Debug     bool
	Audio     AudioSettings
	Detection DetectionSettings
	MQTT      MQTTSettings
	Metrics   MetricsSettings
	Realtime  RealtimeSettings
	Log       LogSettings
}

var (
	settingsInstance *Settings
	settingsMutex    sync.Mutex
)

// Load reads the configuration, applying defaults, config file and
// environment overrides in that order.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// Setting returns the loaded settings instance, or nil before Load.
func Setting() *Settings {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()
	return settingsInstance
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := getDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	viper.SetEnvPrefix("MARVIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// no config file is fine, defaults and env cover everything
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// getDefaultConfigPaths returns the config file search paths in priority order.
func getDefaultConfigPaths() ([]string, error) {
	paths := []string{"."}
	home, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths, filepath.Join(home, ".config", "marvin-go"))
	}
	paths = append(paths, "/etc/marvin-go")
	return paths, nil
}

// ValidateSettings checks configured values for consistency.
func ValidateSettings(s *Settings) error {
	if s.Audio.FrameSamples <= 0 {
		return fmt.Errorf("audio.framesamples must be positive, got %d", s.Audio.FrameSamples)
	}
	if s.Detection.Threshold <= 0 || s.Detection.Threshold >= 1 {
		return fmt.Errorf("detection.threshold must be in (0, 1), got %f", s.Detection.Threshold)
	}
	if s.Detection.WindowSeconds <= 0 {
		return fmt.Errorf("detection.windowseconds must be positive, got %f", s.Detection.WindowSeconds)
	}
	if s.Detection.OverlapSeconds < 0 || s.Detection.OverlapSeconds >= s.Detection.WindowSeconds {
		return fmt.Errorf("detection.overlapseconds must be in [0, windowseconds), got %f", s.Detection.OverlapSeconds)
	}
	if s.Detection.CooldownSeconds < 0 {
		return fmt.Errorf("detection.cooldownseconds must not be negative, got %f", s.Detection.CooldownSeconds)
	}
	if s.Log.MaxSizeMB < 0 || s.Log.MaxBackups < 0 || s.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation settings must not be negative")
	}
	if s.Realtime.AwaitTimeoutMs <= 0 {
		return fmt.Errorf("realtime.awaittimeoutms must be positive, got %d", s.Realtime.AwaitTimeoutMs)
	}
	if s.MQTT.Enabled {
		if s.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
		}
		if s.MQTT.Topic == "" {
			return fmt.Errorf("mqtt.topic is required when mqtt is enabled")
		}
	}
	return nil
}
