package site

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netspo/errors"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2025-01-01T00:00:00", want: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2024-09-02T08:30:00.000Z", want: time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)},
		{in: "2024-12-31", want: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
		{in: "31.12.2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDay(tt.in, time.UTC)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Europe/Ulyanovsk", cfg.Location().String())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"base url", func(c *Config) { c.BaseURL = "not a url" }, "base_url"},
		{"timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
		{"log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
		{"tenant", func(c *Config) { c.Tenant = "" }, "tenant"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			err := cfg.Validate()
			var verr *errors.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netspo.yaml")
	data := "base_url: https://portal.example.org\ntimeout: 5s\nuser_agent: netspo-test\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("NETSPO_TENANT", "spo_7")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example.org", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "netspo-test", cfg.UserAgent)
	assert.Equal(t, "spo_7", cfg.Tenant)
	assert.Equal(t, DefaultConfig().SessionTTL, cfg.SessionTTL)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("NETSPO_BASE_URL", "::")
	_, err := LoadConfig("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
