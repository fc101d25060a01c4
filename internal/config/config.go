// Package config loads the daylight-sensor daemon's YAML configuration.
// Defaults and validation live here so the rest of the code can assume a
// well-formed config.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/daylight-sensor/internal/logic"
)

// Config is the top-level YAML configuration.
type Config struct {
	World     WorldConfig      `yaml:"world"`
	Skylight  SkylightConfig   `yaml:"skylight"`
	MQTT      MQTTConfig       `yaml:"mqtt"`
	HTTP      HTTPConfig       `yaml:"http"`
	Store     StoreConfig      `yaml:"store"`
	Logging   LoggingConfig    `yaml:"logging"`
	Detectors []DetectorConfig `yaml:"detectors"`
}

// WorldConfig controls the simulation clock, dimension and weather.
type WorldConfig struct {
	TickRateHz   int   `yaml:"tick_rate_hz"`
	StartDayTime int64 `yaml:"start_day_time"`
	HasSkylight  bool  `yaml:"has_skylight"`

	Weather     bool  `yaml:"weather"`
	WeatherSeed int64 `yaml:"weather_seed,omitempty"`
}

// SkylightConfig selects where sky-light readings come from.
// source "constant" uses a fixed level; "gpio" samples a 4-bit level
// from GPIO lines.
type SkylightConfig struct {
	Source string `yaml:"source"`
	Level  int    `yaml:"level,omitempty"`
	Chip   string `yaml:"chip,omitempty"`
	Pins   []int  `yaml:"pins,omitempty"`
}

// MQTTConfig controls event publishing.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	HeartbeatMs int64  `yaml:"heartbeat_ms"`
}

// HTTPConfig controls the status server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// StoreConfig controls detector persistence.
type StoreConfig struct {
	DBPath string `yaml:"db_path,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DetectorConfig declares a detector to place at startup.
type DetectorConfig struct {
	X        int  `yaml:"x"`
	Y        int  `yaml:"y"`
	Z        int  `yaml:"z"`
	Inverted bool `yaml:"inverted,omitempty"`
}

// Default returns a fully-populated Config with defaults.
func Default() Config {
	return Config{
		World: WorldConfig{
			TickRateHz:   20,
			StartDayTime: 0,
			HasSkylight:  true,
			Weather:      false,
		},
		Skylight: SkylightConfig{
			Source: "constant",
			Level:  logic.MaxPower,
		},
		MQTT: MQTTConfig{
			Broker:      "tcp://localhost:1883",
			HeartbeatMs: 900000,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads and parses a YAML config file on top of defaults.
// Unknown fields are rejected to catch typos.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	return cfg, nil
}

// Validate checks config invariants and returns a user-friendly error.
// Intended to be called after defaults + file + flag overrides are applied.
func (c *Config) Validate() error {
	if c.World.TickRateHz <= 0 || c.World.TickRateHz > 1000 {
		return errors.New("world.tick_rate_hz must be between 1 and 1000")
	}
	if c.World.StartDayTime < 0 {
		return errors.New("world.start_day_time must be >= 0")
	}

	switch c.Skylight.Source {
	case "constant":
		if c.Skylight.Level < 0 || c.Skylight.Level > logic.MaxPower {
			return fmt.Errorf("skylight.level must be between 0 and %d", logic.MaxPower)
		}
	case "gpio":
		if len(c.Skylight.Pins) != 0 && len(c.Skylight.Pins) != 4 {
			return errors.New("skylight.pins must list exactly 4 lines when set")
		}
	default:
		return fmt.Errorf("skylight.source must be %q or %q", "constant", "gpio")
	}

	if c.MQTT.Broker == "" {
		return errors.New("mqtt.broker must not be empty")
	}
	if c.MQTT.HeartbeatMs < 0 {
		return errors.New("mqtt.heartbeat_ms must be >= 0")
	}

	if c.HTTP.Addr == "" {
		return errors.New("http.addr must not be empty")
	}

	if c.Logging.Level == "" {
		return errors.New("logging.level must not be empty")
	}

	seen := make(map[[3]int]bool, len(c.Detectors))
	for i, d := range c.Detectors {
		key := [3]int{d.X, d.Y, d.Z}
		if seen[key] {
			return fmt.Errorf("detectors[%d]: duplicate position %d,%d,%d", i, d.X, d.Y, d.Z)
		}
		seen[key] = true
	}

	return nil
}
