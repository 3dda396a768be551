// Package config holds the application settings shared by the canvasbox
// command line tools.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/deepnoodle-ai/canvasbox"
	"github.com/deepnoodle-ai/canvasbox/modules/canvas"
	"github.com/deepnoodle-ai/canvasbox/modules/fetch"
	"github.com/deepnoodle-ai/canvasbox/registry"
)

// Config is the root of the YAML document.
type Config struct {
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxDepth int           `yaml:"max_depth" mapstructure:"max_depth"`
	Fetch    Fetch         `yaml:"fetch" mapstructure:"fetch"`
	Canvas   Canvas        `yaml:"canvas" mapstructure:"canvas"`
	Log      Log           `yaml:"log" mapstructure:"log"`
	Publish  Publish       `yaml:"publish" mapstructure:"publish"`
}

// Fetch configures the fetch global.
type Fetch struct {
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Rate      float64       `yaml:"rate" mapstructure:"rate"` // requests per second, 0 for unlimited
	Burst     int           `yaml:"burst" mapstructure:"burst"`
	MaxBytes  int64         `yaml:"max_bytes" mapstructure:"max_bytes"`
	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"`
}

// Canvas bounds the size of canvases scripts may create.
type Canvas struct {
	MaxWidth  int `yaml:"max_width" mapstructure:"max_width"`
	MaxHeight int `yaml:"max_height" mapstructure:"max_height"`
}

// Log configures the CLI logger.
type Log struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "console" or "json"
}

// Publish configures uploading rendered images to S3.
type Publish struct {
	Bucket string `yaml:"bucket" mapstructure:"bucket"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
	Region string `yaml:"region" mapstructure:"region"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() *Config {
	return &Config{
		Timeout:  30 * time.Second,
		MaxDepth: 0,
		Fetch: Fetch{
			Timeout:   fetch.DefaultTimeout,
			Burst:     1,
			MaxBytes:  fetch.DefaultMaxBytes,
			UserAgent: fetch.DefaultUserAgent,
		},
		Canvas: Canvas{
			MaxWidth:  canvas.DefaultMaxSize,
			MaxHeight: canvas.DefaultMaxSize,
		},
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the file at path. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	add := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}
	if c.Timeout < 0 {
		add("timeout must not be negative")
	}
	if c.MaxDepth < 0 {
		add("max_depth must not be negative")
	}
	if c.Fetch.Timeout <= 0 {
		add("fetch.timeout must be positive")
	}
	if c.Fetch.Rate < 0 {
		add("fetch.rate must not be negative")
	}
	if c.Fetch.Rate > 0 && c.Fetch.Burst < 1 {
		add("fetch.burst must be at least 1 when fetch.rate is set")
	}
	if c.Fetch.MaxBytes <= 0 {
		add("fetch.max_bytes must be positive")
	}
	if c.Canvas.MaxWidth < 1 || c.Canvas.MaxHeight < 1 {
		add("canvas.max_width and canvas.max_height must be at least 1")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		add("log.level: %v", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		add("log.format must be console or json, got %q", c.Log.Format)
	}
	if c.Publish.Prefix != "" && c.Publish.Bucket == "" {
		add("publish.prefix requires publish.bucket")
	}
	return result.ErrorOrNil()
}

// Level returns the configured log level.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Table returns the default globals with Canvas and fetch configured from
// these settings.
func (c *Config) Table() *registry.Table {
	values := registry.DefaultValues()
	values["Canvas"] = canvas.Class(canvas.WithMaxSize(c.Canvas.MaxWidth, c.Canvas.MaxHeight))
	values["fetch"] = fetch.New(
		fetch.WithTimeout(c.Fetch.Timeout),
		fetch.WithMaxBytes(c.Fetch.MaxBytes),
		fetch.WithUserAgent(c.Fetch.UserAgent),
	).Builtin()
	return registry.NewTable(values)
}

// Options converts the settings into evaluation options.
func (c *Config) Options() []canvasbox.Option {
	opts := []canvasbox.Option{
		canvasbox.WithTable(c.Table()),
		canvasbox.WithTimeout(c.Timeout),
		canvasbox.WithMaxDepth(c.MaxDepth),
	}
	if c.Fetch.Rate > 0 {
		opts = append(opts, canvasbox.WithFetchRate(rate.Limit(c.Fetch.Rate), c.Fetch.Burst))
	}
	return opts
}

// Settings flattens the configuration into dotted keys, such as
// "fetch.timeout", for registering defaults with a flag or environment
// layer.
func (c *Config) Settings() (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	out := map[string]any{}
	flatten("", tree, out)
	return out, nil
}

func flatten(prefix string, tree map[string]any, out map[string]any) {
	for key, value := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		if sub, ok := value.(map[string]any); ok {
			flatten(key, sub, out)
			continue
		}
		out[key] = value
	}
}
