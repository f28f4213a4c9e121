package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the profile scraper
type Config struct {
	// HTTP client settings
	HTTP HTTPConfig `yaml:"http" json:"http"`

	// Request pacing between consecutive requests
	Delay DelayConfig `yaml:"delay" json:"delay"`

	// Retry policies per failure class
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Pagination settings
	Pagination PaginationConfig `yaml:"pagination" json:"pagination"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// HTTPConfig holds HTTP transport configuration
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// Proxy is an optional proxy URL, fixed for the whole run
	Proxy string `yaml:"proxy" json:"proxy"`
	// Fingerprint pins a browser profile by name; empty means random
	Fingerprint string `yaml:"fingerprint" json:"fingerprint"`
}

// DelayConfig holds inter-request pacing configuration
type DelayConfig struct {
	Min time.Duration `yaml:"min" json:"min"`
	Max time.Duration `yaml:"max" json:"max"`
	// RequestsPerMinute caps the overall request rate on top of the
	// randomized delay
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// PolicyConfig holds the retry policy for one failure class
type PolicyConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier  float64       `yaml:"multiplier" json:"multiplier"`
}

// RetryConfig holds the per-class retry policy table
type RetryConfig struct {
	RateLimit   PolicyConfig `yaml:"rate_limit" json:"rate_limit"`
	ServerError PolicyConfig `yaml:"server_error" json:"server_error"`
	Connection  PolicyConfig `yaml:"connection" json:"connection"`
}

// PaginationConfig holds feed pagination configuration
type PaginationConfig struct {
	// PageSize is the number of posts requested per feed page
	PageSize int `yaml:"page_size" json:"page_size"`
	// MaxPosts limits the total posts fetched (0 = all)
	MaxPosts int `yaml:"max_posts" json:"max_posts"`
}

// OutputConfig holds result output configuration
type OutputConfig struct {
	// Path is the JSON output file; empty writes to stdout
	Path   string `yaml:"path" json:"path"`
	Pretty bool   `yaml:"pretty" json:"pretty"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Delay: DelayConfig{
			Min:               2 * time.Second,
			Max:               5 * time.Second,
			RequestsPerMinute: 60,
		},
		Retry: RetryConfig{
			RateLimit: PolicyConfig{
				MaxAttempts: 5,
				BaseDelay:   10 * time.Second,
				MaxDelay:    300 * time.Second,
				Multiplier:  2.0,
			},
			ServerError: PolicyConfig{
				MaxAttempts: 5,
				BaseDelay:   2 * time.Second,
				MaxDelay:    300 * time.Second,
				Multiplier:  2.0,
			},
			Connection: PolicyConfig{
				MaxAttempts: 3,
				BaseDelay:   2 * time.Second,
				MaxDelay:    300 * time.Second,
				Multiplier:  2.0,
			},
		},
		Pagination: PaginationConfig{
			PageSize: 12,
			MaxPosts: 0,
		},
		Output: OutputConfig{
			Path:   "",
			Pretty: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// Load builds the effective configuration: defaults, then config file,
// then environment variables.
func Load(configPath string) (*Config, error) {
	// Load .env files if present
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igprofile.env"))

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, err
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if proxy := os.Getenv("IGPROFILE_PROXY"); proxy != "" {
		c.HTTP.Proxy = proxy
	}
	if fp := os.Getenv("IGPROFILE_FINGERPRINT"); fp != "" {
		c.HTTP.Fingerprint = fp
	}

	if rpm := os.Getenv("IGPROFILE_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.Delay.RequestsPerMinute = val
		}
	}

	if maxPosts := os.Getenv("IGPROFILE_MAX_POSTS"); maxPosts != "" {
		var val int
		fmt.Sscanf(maxPosts, "%d", &val)
		if val > 0 {
			c.Pagination.MaxPosts = val
		}
	}

	if output := os.Getenv("IGPROFILE_OUTPUT"); output != "" {
		c.Output.Path = output
	}

	if logLevel := os.Getenv("IGPROFILE_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".igprofile.yaml",
		".igprofile.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igprofile", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "igprofile", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".igprofile.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("http timeout must be positive"))
	}

	if c.Delay.Min < 0 {
		errs = append(errs, errors.New("minimum delay cannot be negative"))
	}
	if c.Delay.Max < c.Delay.Min {
		errs = append(errs, errors.New("maximum delay must be at least the minimum delay"))
	}
	if c.Delay.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	for _, p := range []struct {
		name   string
		policy PolicyConfig
	}{
		{"rate_limit", c.Retry.RateLimit},
		{"server_error", c.Retry.ServerError},
		{"connection", c.Retry.Connection},
	} {
		if p.policy.MaxAttempts <= 0 {
			errs = append(errs, fmt.Errorf("%s max attempts must be positive", p.name))
		}
		if p.policy.BaseDelay <= 0 {
			errs = append(errs, fmt.Errorf("%s base delay must be positive", p.name))
		}
		if p.policy.MaxDelay < p.policy.BaseDelay {
			errs = append(errs, fmt.Errorf("%s max delay must be at least the base delay", p.name))
		}
		if p.policy.Multiplier < 1 {
			errs = append(errs, fmt.Errorf("%s multiplier must be at least 1", p.name))
		}
	}

	if c.Pagination.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	if c.Pagination.MaxPosts < 0 {
		errs = append(errs, errors.New("max posts cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
