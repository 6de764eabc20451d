package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	DefaultPrompt     = ":"
	DefaultMaxJobs    = 1000
	DefaultMaxArgs    = 512
	DefaultNullDevice = "/dev/null"
)

type Config struct {
	Prompt     string `yaml:"prompt"`
	MaxJobs    int    `yaml:"max_jobs" validate:"gte=1"`
	MaxArgs    int    `yaml:"max_args" validate:"gte=1"`
	NullDevice string `yaml:"null_device" validate:"required"`
	LogFile    string `yaml:"log_file"`
	LogLevel   string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Prompt:     DefaultPrompt,
		MaxJobs:    DefaultMaxJobs,
		MaxArgs:    DefaultMaxArgs,
		NullDevice: DefaultNullDevice,
		LogLevel:   "info",
	}
}

// DefaultPath is $XDG_CONFIG_HOME/smallsh/config.yml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "smallsh", "config.yml")
}

// Load reads file from fsys over the defaults. A missing file is not an
// error; unknown keys are.
func Load(fsys afero.Fs, file string) (*Config, error) {
	cfg := Default()
	data, err := afero.ReadFile(fsys, file)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", file, err)
	}
	return cfg, nil
}

// Validate the configuration for basic semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})
	return validate.Struct(c)
}

// SlogLevel parses LogLevel; empty means info.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
