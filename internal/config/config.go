// README: Config loader with env defaults for HTTP, logging and metrics settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

type Config struct {
	Env     string
	HTTP    HTTPConfig
	Log     LogConfig
	Metrics MetricsConfig
}

func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads an optional .env file from the working directory and then the
// process environment. Real environment variables win over .env entries.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	var cfg Config
	cfg.Env = strings.ToLower(envOrDefault("VALORA_ENV", EnvDevelopment))
	cfg.HTTP.Addr = envOrDefault("VALORA_HTTP_ADDR", ":8000")
	cfg.HTTP.ReadTimeout = envOrDefaultDuration("VALORA_HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.HTTP.WriteTimeout = envOrDefaultDuration("VALORA_HTTP_WRITE_TIMEOUT", 10*time.Second)
	cfg.HTTP.ShutdownTimeout = envOrDefaultDuration("VALORA_HTTP_SHUTDOWN_TIMEOUT", 15*time.Second)
	cfg.HTTP.MaxBodyBytes = envOrDefaultInt64("VALORA_HTTP_MAX_BODY_BYTES", 1<<20)
	cfg.Log.Level = envOrDefault("VALORA_LOG_LEVEL", "info")
	cfg.Log.Pretty = envOrDefaultBool("VALORA_LOG_PRETTY", false)
	cfg.Metrics.Enabled = envOrDefaultBool("VALORA_METRICS_ENABLED", true)
	cfg.Metrics.Path = envOrDefault("VALORA_METRICS_PATH", "/metrics")

	switch cfg.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return Config{}, fmt.Errorf("%w: VALORA_ENV=%q", ErrInvalidConfig, cfg.Env)
	}
	if cfg.HTTP.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("%w: VALORA_HTTP_MAX_BODY_BYTES must be positive", ErrInvalidConfig)
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return Config{}, fmt.Errorf("%w: VALORA_METRICS_PATH must start with /", ErrInvalidConfig)
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		v = strings.ToLower(v)
		return v == "yes" || v == "on"
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
