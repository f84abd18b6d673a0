// Package app wires the Arbor shell together: configuration, the root
// widget, and the build loop that drives it.
package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arbor-app/arbor/pkg/errors"
)

// Version is the running build's version. Overridden at link time:
//
//	go build -ldflags "-X github.com/arbor-app/arbor/pkg/app.Version=1.4.2"
var Version = "0.0.0-dev"

// Duration is a time.Duration that unmarshals from YAML strings like "800ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// TabConfig describes one entry in the shell's tab bar.
type TabConfig struct {
	Label string `yaml:"label"`
	Icon  string `yaml:"icon"`
}

// Config is the shell's configuration file.
type Config struct {
	API struct {
		BaseURL           string  `yaml:"baseUrl"`
		RequestsPerSecond float64 `yaml:"requestsPerSecond"`
		Burst             int     `yaml:"burst"`
	} `yaml:"api"`

	Update struct {
		FeedURL  string   `yaml:"feedUrl"`
		Interval Duration `yaml:"interval"`
	} `yaml:"update"`

	Cache struct {
		TTL Duration `yaml:"ttl"`
	} `yaml:"cache"`

	Splash struct {
		MinimumDuration Duration `yaml:"minimumDuration"`
	} `yaml:"splash"`

	Tabs []TabConfig `yaml:"tabs"`
}

// DefaultConfig returns the built-in configuration. Loaded files override it
// field by field.
func DefaultConfig() Config {
	var cfg Config
	cfg.API.RequestsPerSecond = 10
	cfg.API.Burst = 20
	cfg.Update.Interval = Duration(6 * time.Hour)
	cfg.Cache.TTL = Duration(time.Minute)
	cfg.Splash.MinimumDuration = Duration(800 * time.Millisecond)
	cfg.Tabs = []TabConfig{
		{Label: "Home", Icon: "home"},
		{Label: "Network", Icon: "people"},
	}
	return cfg
}

// ParseConfig decodes a YAML configuration, applying defaults for anything
// the document leaves out.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &errors.AppError{Op: "app.ParseConfig", Kind: errors.KindParsing, Err: err}
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the configuration file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &errors.AppError{Op: "app.LoadConfig", Kind: errors.KindInit, Err: err}
	}
	return ParseConfig(data)
}

func (c Config) validate() error {
	fail := func(format string, args ...any) error {
		return &errors.AppError{
			Op:   "app.Config.validate",
			Kind: errors.KindInit,
			Err:  fmt.Errorf(format, args...),
		}
	}
	if c.API.BaseURL == "" {
		return fail("api.baseUrl is required")
	}
	if c.API.RequestsPerSecond <= 0 {
		return fail("api.requestsPerSecond must be positive, got %v", c.API.RequestsPerSecond)
	}
	if c.API.Burst <= 0 {
		return fail("api.burst must be positive, got %d", c.API.Burst)
	}
	if c.Cache.TTL < 0 {
		return fail("cache.ttl must not be negative")
	}
	if len(c.Tabs) == 0 {
		return fail("at least one tab is required")
	}
	return nil
}
