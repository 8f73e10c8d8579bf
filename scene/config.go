package scene

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the immutable scene configuration snapshot. It is copied at
// Scene construction and never mutated afterwards.
type Config struct {
	// MaxCharacters caps the number of participants in the scene.
	MaxCharacters int
	// HistoryLimit bounds the dialogue history; the oldest entry is dropped
	// on overflow.
	HistoryLimit int
	// BroadcastTimeout is the hard deadline for collecting replies in one
	// broadcast round.
	BroadcastTimeout time.Duration
	// SceneDescription and BackgroundStory are shown to participants.
	SceneDescription string
	BackgroundStory  string
}

// DefaultConfig returns a config suitable for local development and tests.
func DefaultConfig() Config {
	return Config{
		MaxCharacters:    10,
		HistoryLimit:     200,
		BroadcastTimeout: 5 * time.Second,
	}
}

// yamlConfig is the on-disk shape; durations are parsed from strings like "5s".
type yamlConfig struct {
	MaxCharacters    int    `yaml:"max_characters"`
	HistoryLimit     int    `yaml:"history_limit"`
	BroadcastTimeout string `yaml:"broadcast_timeout"`
	SceneDescription string `yaml:"scene_description"`
	BackgroundStory  string `yaml:"background_story"`
}

// LoadConfig reads a YAML config, filling unset fields from DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	var raw yamlConfig
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return Config{}, fmt.Errorf("decode scene config: %w", err)
	}

	cfg := DefaultConfig()
	if raw.MaxCharacters > 0 {
		cfg.MaxCharacters = raw.MaxCharacters
	}
	if raw.HistoryLimit > 0 {
		cfg.HistoryLimit = raw.HistoryLimit
	}
	if raw.BroadcastTimeout != "" {
		d, err := time.ParseDuration(raw.BroadcastTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse broadcast_timeout: %w", err)
		}
		cfg.BroadcastTimeout = d
	}
	cfg.SceneDescription = raw.SceneDescription
	cfg.BackgroundStory = raw.BackgroundStory
	return cfg, nil
}

// LoadConfigFile reads a YAML config from the given path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open scene config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}
