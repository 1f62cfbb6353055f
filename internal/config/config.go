package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	adapterotel "github.com/neomorfeo/roomkeeper/internal/adapter/otel"
)

// Config holds all configuration values.
type Config struct {
	Port         string `mapstructure:"PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	Environment  string `mapstructure:"ENVIRONMENT"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	// Timezone decides which calendar day "today" is.
	Timezone string `mapstructure:"TIMEZONE"`

	// Redis hotel cache. Disabled when RedisAddr is empty.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	HotelCacheTTL time.Duration `mapstructure:"HOTEL_CACHE_TTL"`

	RateLimitPerMinute int `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	RateLimitBurst     int `mapstructure:"RATE_LIMIT_BURST"`

	// DigestInterval schedules the front-desk digest job; zero disables it.
	DigestInterval time.Duration `mapstructure:"DIGEST_INTERVAL"`

	OTelServiceName    string        `mapstructure:"OTEL_SERVICE_NAME"`
	OTelServiceVersion string        `mapstructure:"OTEL_SERVICE_VERSION"`
	OTelExporter       string        `mapstructure:"OTEL_EXPORTER"`
	OTelEndpoint       string        `mapstructure:"OTEL_ENDPOINT"`
	OTelSampleRatio    float64       `mapstructure:"OTEL_SAMPLE_RATIO"`
	OTelMetricInterval time.Duration `mapstructure:"OTEL_METRIC_INTERVAL"`
}

var defaults = map[string]any{
	"PORT":                  "8080",
	"DATABASE_PATH":         "roomkeeper.db",
	"ENVIRONMENT":           "development",
	"LOG_LEVEL":             "info",
	"TIMEZONE":              "Local",
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"HOTEL_CACHE_TTL":       "10m",
	"RATE_LIMIT_PER_MINUTE": 300,
	"RATE_LIMIT_BURST":      50,
	"DIGEST_INTERVAL":       "1h",
	"OTEL_SERVICE_NAME":     "roomkeeper",
	"OTEL_SERVICE_VERSION":  "0.1.0",
	"OTEL_EXPORTER":         adapterotel.ExporterStdout,
	"OTEL_ENDPOINT":         "",
	"OTEL_SAMPLE_RATIO":     1.0,
	"OTEL_METRIC_INTERVAL":  "1m",
}

// Load reads configuration from defaults, the optional YAML file at path and
// the environment, in increasing order of precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must be set"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH must be set"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.RateLimitPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute))
	}
	if c.RateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", c.RateLimitBurst))
	}
	if c.HotelCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("HOTEL_CACHE_TTL must be positive, got %s", c.HotelCacheTTL))
	}
	if c.DigestInterval < 0 {
		errs = append(errs, fmt.Errorf("DIGEST_INTERVAL must not be negative, got %s", c.DigestInterval))
	}
	switch c.OTelExporter {
	case adapterotel.ExporterStdout, adapterotel.ExporterOTLP, adapterotel.ExporterNone:
	default:
		errs = append(errs, fmt.Errorf("OTEL_EXPORTER must be stdout, otlp or none, got %q", c.OTelExporter))
	}
	if c.OTelSampleRatio <= 0 || c.OTelSampleRatio > 1 {
		errs = append(errs, fmt.Errorf("OTEL_SAMPLE_RATIO must be in (0, 1], got %v", c.OTelSampleRatio))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// OTel returns the OpenTelemetry provider configuration.
func (c Config) OTel() adapterotel.Config {
	return adapterotel.Config{
		ServiceName:    c.OTelServiceName,
		ServiceVersion: c.OTelServiceVersion,
		Environment:    c.Environment,
		Exporter:       c.OTelExporter,
		Endpoint:       c.OTelEndpoint,
		Insecure:       !c.IsProduction(),
		SampleRatio:    c.OTelSampleRatio,
		MetricInterval: c.OTelMetricInterval,
	}
}
