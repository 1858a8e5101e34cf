package site

import (
	"os"
	"reflect"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"netspo/errors"
)

// Config holds the client settings. Every field can be set from a config
// file, or from an environment variable with the NETSPO_ prefix
// (NETSPO_BASE_URL, NETSPO_TIMEOUT, ...).
type Config struct {
	BaseURL    string        `mapstructure:"base_url" validate:"required,url"`
	UserAgent  string        `mapstructure:"user_agent"`
	Tenant     string        `mapstructure:"tenant" validate:"required"`
	Timezone   string        `mapstructure:"timezone" validate:"required,timezone"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	LogLevel   string        `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	RedisURL   string        `mapstructure:"redis_url" validate:"omitempty,url"`
	SessionTTL time.Duration `mapstructure:"session_ttl" validate:"gte=0"`
}

// DefaultConfig returns the settings for the cit73 portal.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://spo.cit73.ru",
		Tenant:     "spo_30",
		Timezone:   "Europe/Ulyanovsk",
		Timeout:    30 * time.Second,
		LogLevel:   "info",
		SessionTTL: 72 * time.Hour,
	}
}

// Location returns the portal timezone, falling back to UTC if c.Timezone
// cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report config keys instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports the first invalid field of c as an *errors.ValidationError.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		return &errors.ValidationError{
			Field:  fields[0].Field(),
			Reason: "failed on " + fields[0].Tag(),
		}
	}
	return errors.NewError("site.Validate", "cannot validate config", err)
}

// LoadConfig builds a Config from DefaultConfig, a .env file in the working
// directory (if present), NETSPO_ environment variables and, if path is not
// empty, the config file at path. Environment variables take precedence over
// the config file.
func LoadConfig(path string) (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, errors.NewError("site.LoadConfig", "cannot load .env", err)
		}
	}

	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("user_agent", def.UserAgent)
	v.SetDefault("tenant", def.Tenant)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("redis_url", def.RedisURL)
	v.SetDefault("session_ttl", def.SessionTTL)
	v.SetEnvPrefix("NETSPO")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.NewError("site.LoadConfig", "cannot read "+path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.NewError("site.LoadConfig", "cannot decode config", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.NewError("site.LoadConfig", errInitFailed.Text, err)
	}
	return cfg, nil
}
