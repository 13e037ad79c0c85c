package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bianoble/mcfetch/internal/config"
)

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"provider":    "provider",
	"mirror_root": "mirror-root",
	"destination": "dest",
	"concurrency": "concurrency",
	"retry_count": "retries",
	"timeout":     "timeout",
	"log.level":   "log-level",
	"log.format":  "log-format",
}

// loadSettings resolves the effective settings for cmd: config file layers
// first, then MCFETCH_* environment variables, then explicit flags.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	hr, err := config.LoadHierarchical(config.HierarchicalOptions{
		ProjectPath:    configPath,
		NoInherit:      noInherit || config.EnvNoInherit(),
		RequireProject: cmd.Flags().Changed("config"),
	})
	if err != nil {
		return config.Settings{}, err
	}

	overlay := overrides(cmd)
	merged, err := config.Merge(hr.Config, overlay)
	if err != nil {
		return config.Settings{}, err
	}
	if errs := config.Validate(merged); len(errs) > 0 {
		return config.Settings{}, &config.ValidationError{Errors: errs}
	}

	s := merged.Resolve()
	if verbose {
		s.LogLevel = "debug"
	}
	return s, nil
}

// overrides collects the values set through the environment or flags.
// Keys that are set nowhere stay zero so Merge keeps the file values.
func overrides(cmd *cobra.Command) *config.Config {
	v := viper.New()
	v.SetEnvPrefix("MCFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}

	cfg := &config.Config{}
	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setString("provider", &cfg.Provider)
	setString("mirror_root", &cfg.MirrorRoot)
	setString("destination", &cfg.Destination)
	setString("timeout", &cfg.Timeout)
	setString("log.level", &cfg.Log.Level)
	setString("log.format", &cfg.Log.Format)

	if v.IsSet("concurrency") {
		cfg.Concurrency = v.GetInt("concurrency")
	}
	if v.IsSet("retry_count") {
		cfg.RetryCount = v.GetInt("retry_count")
	}

	for key, dst := range map[string]**bool{
		"check_integrity":   &cfg.CheckIntegrity,
		"include_assets":    &cfg.IncludeAssets,
		"include_libraries": &cfg.IncludeLibraries,
	} {
		if v.IsSet(key) {
			*dst = config.Bool(v.GetBool(key))
		}
	}

	negations := map[string]**bool{
		"no-verify":    &cfg.CheckIntegrity,
		"no-assets":    &cfg.IncludeAssets,
		"no-libraries": &cfg.IncludeLibraries,
	}
	for name, dst := range negations {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = config.Bool(f.Value.String() != "true")
		}
	}
	return cfg
}
