// Package config loads the upv.toml settings shared by every tool in
// the pipeline.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/TheCing/uma-parent-viewer/internal/logger"
	"github.com/TheCing/uma-parent-viewer/internal/textdata"
)

// DefaultFileName is looked for in the working directory when no
// --config flag is given.
const DefaultFileName = "upv.toml"

// Config is the top-level TOML structure.
type Config struct {
	// DataDir holds the generated reference tables.
	DataDir string `toml:"data_dir" mapstructure:"data_dir"`
	// OutputDir is where extraction and enrichment write their JSON.
	OutputDir string `toml:"output_dir" mapstructure:"output_dir"`
	// Interpreter runs Python tools; empty picks the platform default.
	Interpreter string `toml:"interpreter" mapstructure:"interpreter"`

	TextData  TextDataConfig  `toml:"textdata" mapstructure:"textdata"`
	Extractor ExtractorConfig `toml:"extractor" mapstructure:"extractor"`
	Journal   JournalConfig   `toml:"journal" mapstructure:"journal"`
	Log       logger.Config   `toml:"log" mapstructure:"log"`
	View      ViewConfig      `toml:"view" mapstructure:"view"`
}

type TextDataConfig struct {
	URL            string `toml:"url" mapstructure:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// Timeout converts the configured seconds to a duration.
func (c TextDataConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type ExtractorConfig struct {
	// ExtraRoots are searched in addition to the standard locations.
	ExtraRoots []string `toml:"extra_roots" mapstructure:"extra_roots"`
	// AutoConfirm skips the interactive preflight prompt.
	AutoConfirm bool `toml:"auto_confirm" mapstructure:"auto_confirm"`
}

type JournalConfig struct {
	DSN           string `toml:"dsn" mapstructure:"dsn"`
	RetentionDays int    `toml:"retention_days" mapstructure:"retention_days"`
}

type ViewConfig struct {
	Listen   string `toml:"listen" mapstructure:"listen"`
	BasePath string `toml:"base_path" mapstructure:"base_path"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DataDir:   "data",
		OutputDir: ".",
		TextData: TextDataConfig{
			URL:            textdata.DefaultURL,
			TimeoutSeconds: 60,
		},
		Journal: JournalConfig{
			DSN:           "upv.db",
			RetentionDays: 30,
		},
		Log: logger.Config{
			Level: "info",
			File:  logger.FileConfig{Dir: "logs"},
		},
		View: ViewConfig{
			Listen:   "127.0.0.1:8765",
			BasePath: "/",
		},
	}
}

// Load reads a TOML file over the defaults, so a partial file only has
// to name the settings it changes.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// LoadOrDefault loads path when given, otherwise upv.toml when present,
// otherwise the defaults.
func LoadOrDefault(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFileName); err == nil {
		return Load(DefaultFileName)
	}
	return Default(), nil
}

func (c *Config) normalize() {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.TextData.TimeoutSeconds <= 0 {
		c.TextData.TimeoutSeconds = 60
	}
	if !strings.HasPrefix(c.View.BasePath, "/") {
		c.View.BasePath = "/" + c.View.BasePath
	}
}
