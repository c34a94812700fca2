// Package config loads router settings from TOML or YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
	// DefaultInitialURL seeds environments that have no real location.
	DefaultInitialURL = "/"
)

// ErrUnsupportedFormat is returned for files that are neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("config: unsupported format")

// Config holds router settings.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// Title is passed to pushState/replaceState.
	Title string `toml:"title" yaml:"title"`

	// InitialURL seeds the detached and in-memory environments.
	InitialURL string `toml:"initial_url" yaml:"initial_url"`

	// ConfirmDefault is the answer given by the headless confirmer:
	// true leaves, false stays.
	ConfirmDefault bool `toml:"confirm_default" yaml:"confirm_default"`
}

// Default returns the configuration used when none is provided.
func Default() Config {
	return Config{
		LogLevel:   DefaultLogLevel,
		InitialURL: DefaultInitialURL,
	}
}

// Load reads path and decodes it according to its extension.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes data, choosing the format from name's extension
// (.toml, .yaml or .yml). Unset fields keep their defaults.
func Parse(name string, data []byte) (Config, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", name, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("config: parse %s: unknown key %q", name, undecoded[0].String())
		}
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("config: parse %s: %w", name, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.InitialURL == "" {
		c.InitialURL = DefaultInitialURL
	}
}
