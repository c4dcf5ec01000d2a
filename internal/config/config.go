// Package config loads runtime settings from the environment and the
// recognition thresholds from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/signite/internal/gesture"
)

// Config holds process-wide settings. Every field can be set through a
// SIGNITE_ environment variable.
type Config struct {
	Addr            string  `env:"ADDR" envDefault:":8080"`
	DataDir         string  `env:"DATA_DIR"`
	WebDir          string  `env:"WEB_DIR"`
	PluginDir       string  `env:"PLUGIN_DIR"`
	CameraID        int     `env:"CAMERA" envDefault:"0"`
	MotionThreshold float64 `env:"MOTION_THRESHOLD" envDefault:"1.0"`
	ThresholdsFile  string  `env:"THRESHOLDS"`
	PluginTimeoutMs int     `env:"PLUGIN_TIMEOUT_MS" envDefault:"5000"`
	Headless        bool    `env:"HEADLESS"`
}

// Load parses the environment and fills in directory defaults under the
// user's home directory.
func Load() (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, env.Options{Prefix: "SIGNITE_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".signite")
	}
	if c.PluginDir == "" {
		c.PluginDir = filepath.Join(c.DataDir, "plugins")
	}

	return c, nil
}

// DBPath returns the SQLite database location.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "signite.db")
}

// Thresholds returns the recognition thresholds: the defaults, overlaid with
// ThresholdsFile when one is configured.
func (c Config) Thresholds() (gesture.Thresholds, error) {
	if c.ThresholdsFile == "" {
		return gesture.DefaultThresholds(), nil
	}
	return LoadThresholds(c.ThresholdsFile)
}

// LoadThresholds reads a YAML file of threshold overrides. Keys that are
// absent keep their default value. The merged result is validated.
func LoadThresholds(path string) (gesture.Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gesture.Thresholds{}, fmt.Errorf("read thresholds: %w", err)
	}
	return ParseThresholds(data)
}

// ParseThresholds decodes YAML threshold overrides on top of the defaults.
func ParseThresholds(data []byte) (gesture.Thresholds, error) {
	t := gesture.DefaultThresholds()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return gesture.Thresholds{}, fmt.Errorf("parse thresholds: %w", err)
	}
	if err := t.Validate(); err != nil {
		return gesture.Thresholds{}, err
	}
	return t, nil
}
