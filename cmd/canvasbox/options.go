package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/canvasbox"
	"github.com/deepnoodle-ai/canvasbox/config"
)

const defaultConfigPath = "~/.canvasbox.yaml"

// loadConfig layers flags and CANVASBOX_* environment variables over the
// config file and the built-in defaults.
func (a *app) loadConfig() (*config.Config, error) {
	settings, err := config.Defaults().Settings()
	if err != nil {
		return nil, err
	}
	for key, value := range settings {
		a.v.SetDefault(key, value)
	}
	a.v.SetEnvPrefix("CANVASBOX")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	path := a.v.GetString("config")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	if path, err = homedir.Expand(path); err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil || explicit {
		a.v.SetConfigFile(path)
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := config.Defaults()
	if err := a.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes human readable lines to a terminal and JSON otherwise,
// unless log.format says which.
func (a *app) newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.Log.Format == "json" {
		logger = zerolog.New(w)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: !a.useColor()})
	}
	return logger.Level(cfg.Level()).With().Timestamp().Logger()
}

// evalOptions combines the configured options with per-run settings.
func (a *app) evalOptions(cfg *config.Config, logger zerolog.Logger, filename string) []canvasbox.Option {
	opts := cfg.Options()
	opts = append(opts, canvasbox.WithLogger(logger))
	if filename != "" {
		opts = append(opts, canvasbox.WithFilename(filename))
	}
	return opts
}
