package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Providers lists the provider names a config may select.
var Providers = []string{"auto", "bmclapi", "mirror", "mojang", "official"}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
)

// Load reads and validates an mcfetch.yaml configuration file.
func Load(path string) (*Config, error) {
	cfg, err := parse(path)
	if err != nil {
		return nil, err
	}
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return cfg, nil
}

func parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d; only version 1 is supported", cfg.Version))
	}

	if cfg.Provider != "" && !contains(Providers, cfg.Provider) {
		errs = append(errs, fmt.Sprintf("unknown provider '%s'; must be one of: %s", cfg.Provider, strings.Join(Providers, ", ")))
	}

	if cfg.MirrorRoot != "" {
		u, err := url.Parse(cfg.MirrorRoot)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("mirror_root '%s' must be an absolute http or https URL", cfg.MirrorRoot))
		}
	}

	if cfg.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("concurrency must not be negative, got %d", cfg.Concurrency))
	}
	if cfg.RetryCount < -1 {
		errs = append(errs, fmt.Sprintf("retry_count must be -1 (no retries) or more, got %d", cfg.RetryCount))
	}

	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid timeout '%s'; use a duration such as 30s or 2m", cfg.Timeout))
		} else if d <= 0 {
			errs = append(errs, fmt.Sprintf("timeout must be positive, got %s", cfg.Timeout))
		}
	}

	if cfg.Log.Level != "" && !contains(logLevels, strings.ToLower(cfg.Log.Level)) {
		errs = append(errs, fmt.Sprintf("invalid log level '%s'; must be one of: %s", cfg.Log.Level, strings.Join(logLevels, ", ")))
	}
	if cfg.Log.Format != "" && !contains(logFormats, strings.ToLower(cfg.Log.Format)) {
		errs = append(errs, fmt.Sprintf("invalid log format '%s'; must be one of: %s", cfg.Log.Format, strings.Join(logFormats, ", ")))
	}

	return errs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
