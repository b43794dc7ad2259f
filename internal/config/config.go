package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Fetch  FetchConfig  `yaml:"fetch"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" envconfig:"PORT" default:"8080"`
	APIKey       string        `yaml:"api_key" envconfig:"API_KEY"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"10m"`
}

// FetchConfig holds outbound extraction and media-fetch configuration.
type FetchConfig struct {
	Timeout       time.Duration `yaml:"timeout" envconfig:"FETCH_TIMEOUT" default:"30s"`
	HeaderTimeout time.Duration `yaml:"header_timeout" envconfig:"FETCH_HEADER_TIMEOUT" default:"30s"`
	RetryAttempts int           `yaml:"retry_attempts" envconfig:"FETCH_RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `yaml:"retry_delay" envconfig:"FETCH_RETRY_DELAY" default:"2s"`
	MaxRetryDelay time.Duration `yaml:"max_retry_delay" envconfig:"FETCH_MAX_RETRY_DELAY" default:"30s"`
	UserAgent     string        `yaml:"user_agent" envconfig:"FETCH_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Load from YAML file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Fetch.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be at least 1, got %d", c.Fetch.RetryAttempts)
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
