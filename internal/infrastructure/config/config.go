package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	URL string `koanf:"url"`

	MaxConnections int `koanf:"max_connections"`

	// ConnectionTimeout bounds both connection establishment and pool
	// acquisition, in seconds.
	ConnectionTimeout int `koanf:"connection_timeout"`
}

// Load builds the configuration from layered sources, later layers
// overriding earlier ones: struct defaults, configs/default.yaml,
// configs/<RUN_ENV>.yaml, configs/local.yaml, then environment variables
// prefixed APP_. RUN_ENV defaults to "development"; all files are
// optional.
func Load() (*Config, error) {
	k := koanf.New(".")

	runEnv := os.Getenv("RUN_ENV")
	if runEnv == "" {
		runEnv = "development"
	}

	defaults := &Config{
		Environment: runEnv,
		LogLevel:    "info",
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			URL:               "postgres://localhost:5432/auctions?sslmode=disable",
			MaxConnections:    25,
			ConnectionTimeout: 5,
		},
	}

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	for _, path := range []string{
		"configs/default.yaml",
		fmt.Sprintf("configs/%s.yaml", runEnv),
		"configs/local.yaml",
	} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	// APP_DATABASE_MAX_CONNECTIONS -> database.max_connections: only the
	// first underscore separates sections, the rest belong to the key.
	if err := k.Load(env.Provider("APP_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "APP_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
