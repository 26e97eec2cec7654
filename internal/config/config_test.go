package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"pgregory.net/rapid"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: json
report:
  decimal_places: 4
  format: yaml
  locale: de-DE
content:
  profiles_dir: /srv/profiles
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, int32(4), cfg.Report.DecimalPlaces)
	assert.Equal(t, "yaml", cfg.Report.Format)
	assert.Equal(t, "de-DE", cfg.Report.Locale)
	assert.Equal(t, "/srv/profiles", cfg.Content.ProfilesDir)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report:\n  decimal_places: 1\n"), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int32(1), cfg.Report.DecimalPlaces)
	assert.Equal(t, "table", cfg.Report.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HPDIST_REPORT_FORMAT", "json")
	t.Setenv("HPDIST_REPORT_DECIMAL_PLACES", "3")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Report.Format)
	assert.Equal(t, int32(3), cfg.Report.DecimalPlaces)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadFromViper_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "trace")
	_, err := LoadFromViper(v)
	assert.Error(t, err)
}

func TestValidateCollectsAllViolations(t *testing.T) {
	cfg := Config{
		Logging: LoggingConfig{Level: "loud", Format: "xml"},
		Report:  ReportConfig{DecimalPlaces: -1, Format: "csv", Locale: "not a locale!"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(errors.Unwrap(err)), 6)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Contains(t, err.Error(), "content.profiles_dir")
}

func TestValidateLoggingLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := Default()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
}

func TestValidateReportFormats(t *testing.T) {
	for _, format := range []string{"table", "json", "yaml"} {
		cfg := Default()
		cfg.Report.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
}

func TestValidateDecimalPlaces_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		places := rapid.Int32Range(-20, 20).Draw(rt, "places")
		cfg := Default()
		cfg.Report.DecimalPlaces = places
		err := cfg.Validate()
		if places >= 0 && places <= MaxDecimalPlaces {
			assert.NoError(rt, err)
		} else {
			assert.Error(rt, err)
		}
	})
}
