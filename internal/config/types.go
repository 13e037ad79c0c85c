package config

import "time"

// Config represents the mcfetch.yaml configuration file. Zero values mean
// "not set" so that layers can be merged; Resolve applies the defaults.
type Config struct {
	Version          int    `yaml:"version"`
	Provider         string `yaml:"provider,omitempty"`
	MirrorRoot       string `yaml:"mirror_root,omitempty"`
	Destination      string `yaml:"destination,omitempty"`
	Concurrency      int    `yaml:"concurrency,omitempty"`
	RetryCount       int    `yaml:"retry_count,omitempty"` // -1 disables retries
	Timeout          string `yaml:"timeout,omitempty"`     // Go duration, per download attempt
	CheckIntegrity   *bool  `yaml:"check_integrity,omitempty"`
	IncludeAssets    *bool  `yaml:"include_assets,omitempty"`
	IncludeLibraries *bool  `yaml:"include_libraries,omitempty"`
	Log              Log    `yaml:"log,omitempty"`
}

// Log configures the diagnostic logger.
type Log struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // console, json
}

// Settings is a Config with every default applied.
type Settings struct {
	Provider         string
	MirrorRoot       string
	Destination      string
	Concurrency      int // zero means the provider's hint
	RetryCount       int
	Timeout          time.Duration
	CheckIntegrity   bool
	IncludeAssets    bool
	IncludeLibraries bool
	LogLevel         string
	LogFormat        string
}

const (
	DefaultProvider    = "auto"
	DefaultDestination = ".minecraft"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
)

// Resolve applies defaults to the unset fields of cfg. cfg must be valid.
func (cfg *Config) Resolve() Settings {
	s := Settings{
		Provider:         cfg.Provider,
		MirrorRoot:       cfg.MirrorRoot,
		Destination:      cfg.Destination,
		Concurrency:      cfg.Concurrency,
		RetryCount:       cfg.RetryCount,
		CheckIntegrity:   boolOr(cfg.CheckIntegrity, true),
		IncludeAssets:    boolOr(cfg.IncludeAssets, true),
		IncludeLibraries: boolOr(cfg.IncludeLibraries, true),
		LogLevel:         cfg.Log.Level,
		LogFormat:        cfg.Log.Format,
	}
	if s.Provider == "" {
		s.Provider = DefaultProvider
	}
	if s.Destination == "" {
		s.Destination = DefaultDestination
	}
	if s.LogLevel == "" {
		s.LogLevel = DefaultLogLevel
	}
	if s.LogFormat == "" {
		s.LogFormat = DefaultLogFormat
	}
	if d, err := time.ParseDuration(cfg.Timeout); err == nil {
		s.Timeout = d
	}
	return s
}

// Bool returns a pointer to v, for building configs in code.
func Bool(v bool) *bool {
	return &v
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
