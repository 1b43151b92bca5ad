package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// APIKeyEnv names the environment variable holding the model API key.
	APIKeyEnv = "CHRISKEY"
	PortEnv   = "PORT"

	defaultPort     = 8000
	defaultLogLevel = "info"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	// APIKey is never read from the YAML file.
	APIKey string `yaml:"-"`
}

// Load reads .env (if present), then the YAML file at path (if present),
// then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	if v := os.Getenv(PortEnv); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", PortEnv, v, err)
		}
		cfg.Server.Port = port
	}
	cfg.APIKey = os.Getenv(APIKeyEnv)

	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	return &cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
