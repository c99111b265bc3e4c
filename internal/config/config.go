// Package config loads the application configuration from a YAML file
// and ANEES_* environment variables. Provider credentials are not part of
// it: they are read from the environment by the llm package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Nda25/anees/internal/tutor"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig      `yaml:"server"`
	Log      LogConfig         `yaml:"log"`
	DBPath   string            `yaml:"db_path"`
	Memo     MemoConfig        `yaml:"memo"`
	Tutor    tutor.Config      `yaml:"tutor"`
	Glossary map[string]string `yaml:"glossary"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	RequestTimeout  time.Duration `yaml:"request_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// LogConfig controls logging.
type LogConfig struct {
	Mode  string `yaml:"mode" validate:"oneof=production development"`
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// MemoConfig selects where the duplicate-avoidance memo lives.
type MemoConfig struct {
	Backend   string        `yaml:"backend" validate:"oneof=memory redis"`
	TTL       time.Duration `yaml:"ttl" validate:"gt=0"`
	RedisAddr string        `yaml:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB   int           `yaml:"redis_db" validate:"gte=0"`
	Prefix    string        `yaml:"prefix"`

	// RedisPassword comes from ANEES_REDIS_PASSWORD only.
	RedisPassword string `yaml:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			RequestTimeout:  90 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Mode: "production", Level: "info"},
		Memo: MemoConfig{
			Backend: "memory",
			TTL:     2 * time.Hour,
			Prefix:  "anees:memo:",
		},
		Tutor: tutor.DefaultConfig(),
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result. An empty path uses DefaultPath and
// tolerates a missing file; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("ANEES_ADDR", c.Server.Addr)
	c.Server.RequestTimeout = getEnvDuration("ANEES_REQUEST_TIMEOUT", c.Server.RequestTimeout)
	c.Log.Mode = getEnv("ANEES_LOG_MODE", c.Log.Mode)
	c.Log.Level = getEnv("ANEES_LOG_LEVEL", c.Log.Level)
	c.DBPath = getEnv("ANEES_DB", c.DBPath)
	c.Memo.Backend = getEnv("ANEES_MEMO_BACKEND", c.Memo.Backend)
	c.Memo.TTL = getEnvDuration("ANEES_MEMO_TTL", c.Memo.TTL)
	c.Memo.RedisAddr = getEnv("ANEES_REDIS_ADDR", c.Memo.RedisAddr)
	c.Memo.RedisDB = getEnvInt("ANEES_REDIS_DB", c.Memo.RedisDB)
	c.Memo.RedisPassword = getEnv("ANEES_REDIS_PASSWORD", c.Memo.RedisPassword)
	c.Tutor.MaxAttempts = getEnvInt("ANEES_MAX_ATTEMPTS", c.Tutor.MaxAttempts)
}

// DefaultPath resolves the config file path in priority order:
// 1. ANEES_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/anees/config.yaml
// 3. ~/.config/anees/config.yaml
func DefaultPath() string {
	if p := os.Getenv("ANEES_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "anees", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "anees", "config.yaml")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
