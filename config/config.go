package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go-midistream/event"
	"go-midistream/smf"
)

// DecodeConfig controls how tracks are decoded
type DecodeConfig struct {
	Tolerant            bool   `json:"tolerant"`
	ZeroVelocityNoteOns bool   `json:"zeroVelocityNoteOns,omitempty"`
	Pooled              bool   `json:"pooled,omitempty"`
	PoolSize            int    `json:"poolSize,omitempty"`
	ReadBufferSize      int    `json:"readBufferSize,omitempty"`
	TextEncoding        string `json:"textEncoding,omitempty"`
	Prefetch            int    `json:"prefetch,omitempty"` // per-track event buffer, 0 = decode inline
}

// ViewerConfig stores viewer preferences
type ViewerConfig struct {
	PalettePath string `json:"palettePath,omitempty"`
	PageSize    int    `json:"pageSize,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Decode DecodeConfig `json:"decode"`
	Viewer ViewerConfig `json:"viewer,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	opts := smf.DefaultOptions()
	return &Config{
		Decode: DecodeConfig{
			Tolerant:       true,
			PoolSize:       opts.PoolSize,
			ReadBufferSize: opts.ReadBufferSize,
			TextEncoding:   event.EncodingUTF8,
		},
		Viewer: ViewerConfig{
			PageSize: 20,
		},
	}
}

// Options converts the decode settings for smf.Open
func (d DecodeConfig) Options() smf.Options {
	return smf.Options{
		ZeroVelocityNoteOns: d.ZeroVelocityNoteOns,
		Pooled:              d.Pooled,
		PoolSize:            d.PoolSize,
		ReadBufferSize:      d.ReadBufferSize,
	}
}

// MergeOptions converts the decode settings for (*smf.File).Merge
func (d DecodeConfig) MergeOptions() smf.MergeOptions {
	return smf.MergeOptions{
		Strict:   !d.Tolerant,
		Prefetch: d.Prefetch,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-midistream"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Missing fields keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
