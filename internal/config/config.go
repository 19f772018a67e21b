// Package config loads application configuration from a YAML file, a .env
// file, and environment variables, in increasing order of priority.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "AMBAR_"

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Storage StorageConfig `koanf:"storage"`
	Remote  RemoteConfig  `koanf:"remote"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

// StorageConfig selects and configures the snapshot backend.
type StorageConfig struct {
	Backend  string         `koanf:"backend"` // memory | file | redis | postgres
	File     FileConfig     `koanf:"file"`
	Redis    RedisConfig    `koanf:"redis"`
	Postgres PostgresConfig `koanf:"postgres"`
}

// FileConfig holds file backend settings.
type FileConfig struct {
	Path string `koanf:"path"`
}

// RedisConfig holds redis backend settings.
type RedisConfig struct {
	Addr string `koanf:"addr"`
}

// PostgresConfig holds postgres backend settings.
type PostgresConfig struct {
	DSN string `koanf:"dsn"`
}

// RemoteConfig holds remote sync settings. Token is the bearer credential
// required for push; pull of public documents works without it.
type RemoteConfig struct {
	BaseURL string `koanf:"base_url"`
	Token   string `koanf:"token"`
}

func defaults() map[string]any {
	return map[string]any{
		"server.port":             "8080",
		"server.read_timeout":     "15s",
		"server.write_timeout":    "30s",
		"server.shutdown_timeout": "10s",
		"log.level":               "info",
		"log.development":         false,
		"storage.backend":         "file",
		"storage.file.path":       "data/inventory.json",
		"remote.base_url":         "https://api.github.com",
	}
}

// Load reads configuration from config.yaml, .env and AMBAR_* environment
// variables, then validates it.
func Load() (Config, error) {
	var cfg Config
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return cfg, fmt.Errorf("load defaults: %w", err)
	}

	// 2. YAML file, if present
	if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("load config.yaml: %w", err)
	}

	// 3. .env file, if present
	envTransformer := func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(strings.ToUpper(key), envPrefix))
		return strings.ReplaceAll(key, "_", ".")
	}
	if envFileMap, err := godotenv.Read(".env"); err == nil {
		envMap := make(map[string]any, len(envFileMap))
		for key, value := range envFileMap {
			envMap[envTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			return cfg, fmt.Errorf("load .env: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read .env: %w", err)
	}

	// 4. Environment variables, highest priority
	if err := k.Load(env.Provider(envPrefix, ".", envTransformer), nil); err != nil {
		return cfg, fmt.Errorf("load env vars: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "memory":
	case "file":
		if c.Storage.File.Path == "" {
			return fmt.Errorf("storage.file.path is required for the file backend")
		}
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the redis backend")
		}
	case "postgres":
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	return nil
}
