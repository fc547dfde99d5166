package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "timetrack/backend/libs/config"
	"timetrack/backend/services/timetracker-service/internal/timezone"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config defines timetracker service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Timezone TimezoneConfig `yaml:"timezone"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Port string `yaml:"port" env:"TIMETRACKER_HTTP_PORT"`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver" env:"TIMETRACKER_DB_DRIVER"`
	DSN          string `yaml:"dsn" env:"TIMETRACKER_DB_DSN"`
	ResetOnStart bool   `yaml:"resetOnStart" env:"TIMETRACKER_DB_RESET_ON_START"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" env:"TIMETRACKER_REDIS_ENABLED"`
	Addr     string `yaml:"addr" env:"TIMETRACKER_REDIS_ADDR"`
	Password string `yaml:"password" env:"TIMETRACKER_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"TIMETRACKER_REDIS_DB"`
	TTL      int    `yaml:"ttlSeconds" env:"TIMETRACKER_REDIS_TTL"`
}

type TimezoneConfig struct {
	Name string `yaml:"name" env:"TIMETRACKER_TIMEZONE"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Port: "5000"},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    "timetracker.db",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  86400,
		},
		Timezone: TimezoneConfig{Name: "SAST"},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads configuration via shared helper. An empty path falls back to
// the CONFIG_FILE environment variable.
func Load(path string) (*Config, error) {
	cfg := Default()

	var err error
	if strings.TrimSpace(path) == "" {
		err = libconfig.LoadConfig(cfg)
	} else {
		err = libconfig.LoadConfigFrom(path, cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields the service can't start without.
func (c *Config) Validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("config: database dsn required")
	}
	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		return errors.New("config: redis addr required when redis is enabled")
	}
	if _, err := timezone.Resolve(c.Timezone.Name); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "5000"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// ActiveSessionTTL returns ttl as duration.
func (c *Config) ActiveSessionTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}
