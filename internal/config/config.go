// Package config provides Viper-based configuration loading for hpdist.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"golang.org/x/text/language"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ReportConfig controls how statistics are computed and rendered.
type ReportConfig struct {
	// DecimalPlaces is the rounding precision of every percentage.
	DecimalPlaces int32 `mapstructure:"decimal_places"`
	// Format is the output format: "table", "json", or "yaml".
	Format string `mapstructure:"format"`
	// Locale is the BCP 47 tag used for number grouping in tables, e.g. "en-US".
	Locale string `mapstructure:"locale"`
}

// ContentConfig locates YAML content files.
type ContentConfig struct {
	// ProfilesDir is the directory holding character profile files.
	ProfilesDir string `mapstructure:"profiles_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Report  ReportConfig  `mapstructure:"report"`
	Content ContentConfig `mapstructure:"content"`
}

// MaxDecimalPlaces bounds ReportConfig.DecimalPlaces.
const MaxDecimalPlaces = 10

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	errs := multierr.Combine(
		validateLogging(c.Logging),
		validateReport(c.Report),
		validateContent(c.Content),
	)
	if errs != nil {
		return fmt.Errorf("configuration validation failed: %w", errs)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs error
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = multierr.Append(errs, fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = multierr.Append(errs, fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format))
	}
	return errs
}

func validateReport(r ReportConfig) error {
	var errs error
	if r.DecimalPlaces < 0 || r.DecimalPlaces > MaxDecimalPlaces {
		errs = multierr.Append(errs, fmt.Errorf("report.decimal_places must be 0-%d, got %d", MaxDecimalPlaces, r.DecimalPlaces))
	}
	validFormats := map[string]bool{"table": true, "json": true, "yaml": true}
	if !validFormats[r.Format] {
		errs = multierr.Append(errs, fmt.Errorf("report.format must be one of [table, json, yaml], got %q", r.Format))
	}
	if _, err := language.Parse(r.Locale); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("report.locale %q: %w", r.Locale, err))
	}
	return errs
}

func validateContent(c ContentConfig) error {
	if c.ProfilesDir == "" {
		return errors.New("content.profiles_dir must not be empty")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with HPDIST_ prefix
	v.SetEnvPrefix("HPDIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Report:  ReportConfig{DecimalPlaces: 2, Format: "table", Locale: "en-US"},
		Content: ContentConfig{ProfilesDir: "content/profiles"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("report.decimal_places", d.Report.DecimalPlaces)
	v.SetDefault("report.format", d.Report.Format)
	v.SetDefault("report.locale", d.Report.Locale)

	v.SetDefault("content.profiles_dir", d.Content.ProfilesDir)
}
