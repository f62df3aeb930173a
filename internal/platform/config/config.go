package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DataDir    string `yaml:"-"`
	DBPath     string `yaml:"-"`
	ConfigPath string `yaml:"-"`

	Log       LogConfig       `yaml:"log"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Runtime   RuntimeConfig   `yaml:"runtime"`
	Threshold ThresholdConfig `yaml:"threshold"`
	Countdown CountdownConfig `yaml:"countdown"`
	Notify    NotifyConfig    `yaml:"notify"`
	Simulator SimulatorConfig `yaml:"simulator"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File receives log output in TUI mode.
	File string `yaml:"file"`
}

type MQTTConfig struct {
	Broker         string        `yaml:"broker"`
	Topic          string        `yaml:"topic"`
	ClientID       string        `yaml:"client_id"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	QoS            byte          `yaml:"qos"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// RuntimeConfig bounds the extended background-execution grant.
type RuntimeConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Lease         time.Duration `yaml:"lease"`
	ExpiryWarning time.Duration `yaml:"expiry_warning"`
}

type ThresholdConfig struct {
	// Feed selects the sensor source: sim or mqtt.
	Feed          string        `yaml:"feed"`
	DebounceFloor time.Duration `yaml:"debounce_floor"`
}

type CountdownConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	DefaultDuration time.Duration `yaml:"default_duration"`
}

type NotifyConfig struct {
	// Kind is desktop or log.
	Kind string `yaml:"kind"`
}

type SimulatorConfig struct {
	Interval time.Duration `yaml:"interval"`
	Baseline float64       `yaml:"baseline"`
	Spread   float64       `yaml:"spread"`
	Step     float64       `yaml:"step"`
	Seed     int64         `yaml:"seed"`
}

// New returns defaults rooted at dataDir, overlaid with <dataDir>/config.yaml
// when present and then with environment overrides.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Defaults(dataDir)
	cfg, err := LoadFile(cfg, cfg.ConfigPath)
	if err != nil {
		return Config{}, err
	}
	return applyEnv(cfg), nil
}

func Defaults(dataDir string) Config {
	return Config{
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, "thresholdtimer.db"),
		ConfigPath: filepath.Join(dataDir, "config.yaml"),
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(dataDir, "thresholdtimer.log"),
		},
		MQTT: MQTTConfig{
			Broker:         "tcp://localhost:1883",
			Topic:          "wearable/heart-rate",
			ClientID:       "thresholdtimer",
			ConnectTimeout: 5 * time.Second,
		},
		Runtime: RuntimeConfig{
			Enabled:       true,
			Lease:         time.Hour,
			ExpiryWarning: 30 * time.Second,
		},
		Threshold: ThresholdConfig{
			Feed:          "sim",
			DebounceFloor: 300 * time.Millisecond,
		},
		Countdown: CountdownConfig{
			RefreshInterval: 500 * time.Millisecond,
			DefaultDuration: 30 * time.Second,
		},
		Notify: NotifyConfig{Kind: "desktop"},
		Simulator: SimulatorConfig{
			Interval: time.Second,
			Baseline: 105,
			Spread:   20,
			Step:     3,
		},
	}
}

// LoadFile overlays the YAML file at path onto cfg. A missing file is not an error.
func LoadFile(cfg Config, path string) (Config, error) {
	if path == "" {
		return cfg, nil
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.ConfigPath = path
	return cfg, nil
}

func applyEnv(cfg Config) Config {
	cfg.Log.Level = getEnv("TT_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("TT_LOG_FORMAT", cfg.Log.Format)
	cfg.MQTT.Broker = getEnv("TT_MQTT_BROKER", cfg.MQTT.Broker)
	cfg.MQTT.Topic = getEnv("TT_MQTT_TOPIC", cfg.MQTT.Topic)
	cfg.MQTT.Username = getEnv("TT_MQTT_USERNAME", cfg.MQTT.Username)
	cfg.MQTT.Password = getEnv("TT_MQTT_PASSWORD", cfg.MQTT.Password)
	cfg.Threshold.Feed = getEnv("TT_FEED", cfg.Threshold.Feed)
	if raw := os.Getenv("TT_RUNTIME_ENABLED"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.Runtime.Enabled = v
		}
	}
	return cfg
}

// DefaultDataDir resolves the per-user data directory.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "thresholdtimer")
	}
	return ".thresholdtimer"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
