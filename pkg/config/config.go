package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Log         struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Server struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"4173" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		StaticDir       string        `yaml:"static_dir" default:"web"`
		DisableCORS     bool          `yaml:"disable_cors"`
	} `yaml:"server"`
	Backend struct {
		BaseURL  string        `yaml:"base_url" default:"http://localhost:8000" validate:"required,url"`
		Timeout  time.Duration `yaml:"timeout" default:"10s"`
		CacheTTL time.Duration `yaml:"cache_ttl" default:"15s"`
	} `yaml:"backend"`
	Polling struct {
		Interval time.Duration `yaml:"interval" default:"60s" validate:"gte=1000000000"`
	} `yaml:"polling"`
	Dashboard struct {
		// Source is an http(s) URL or a file path.
		Source  string        `yaml:"source" default:"web/data/dashboard.json" validate:"required"`
		Timeout time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"dashboard"`
	Metrics struct {
		Disabled bool   `yaml:"disabled"`
		Path     string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Cache struct {
		Backend    string        `yaml:"backend" default:"memory" validate:"oneof=memory redis"`
		MaxEntries int           `yaml:"max_entries" default:"1024" validate:"gte=1"`
		Cleanup    time.Duration `yaml:"cleanup" default:"1m" validate:"gt=0"`
		Redis      struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"hikari"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Events struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"hikari.sync"`
		Encoding     string        `yaml:"encoding" default:"json" validate:"oneof=json msgpack"`
		Compression  string        `yaml:"compression" default:"snappy" validate:"oneof=none gzip snappy lz4 zstd"`
		RequiredAcks int           `yaml:"required_acks" default:"1" validate:"oneof=-1 0 1"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"50ms"`
	} `yaml:"events"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file. A missing file yields a
// configuration built from defaults alone.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads .env (if present), then config from YAML, then overrides
// with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("HIKARI_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("HIKARI_DASHBOARD_SOURCE"); v != "" {
		c.Dashboard.Source = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Backend = "redis"
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Enabled = true
		c.Events.Brokers = strings.Split(v, ",")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	// the poll timer fires on whole seconds
	if c.Polling.Interval%time.Second != 0 {
		return fmt.Errorf("polling.interval must be a whole number of seconds, got %s", c.Polling.Interval)
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers cannot be empty when events are enabled")
	}
	return nil
}

// DashboardIsRemote reports whether the dashboard source is an http(s) URL.
func (c *Config) DashboardIsRemote() bool {
	s := strings.ToLower(c.Dashboard.Source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
