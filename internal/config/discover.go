package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	configFileName = "mcfetch.yaml"
	configDirName  = "mcfetch"

	// envConfigHome replaces the user config directory when set.
	envConfigHome = "MCFETCH_CONFIG_HOME"
	envNoInherit  = "MCFETCH_NO_INHERIT"
)

// ConfigLevel is where a configuration layer sits in the precedence order.
type ConfigLevel string

const (
	LevelSystem  ConfigLevel = "system"
	LevelUser    ConfigLevel = "user"
	LevelProject ConfigLevel = "project"
)

// ConfigLayerInfo describes a discovered config file and its load status.
type ConfigLayerInfo struct {
	Err    error // set when the file exists but cannot be parsed
	Path   string
	Level  ConfigLevel
	Loaded bool
}

// DiscoverOptions controls how config paths are discovered. Empty system
// and user paths fall back to the platform locations.
type DiscoverOptions struct {
	ProjectPath      string
	SystemConfigPath string
	UserConfigPath   string
}

// DiscoverPaths lists the config layers from lowest precedence (system) to
// highest (project). When two levels name the same file it is read once, at
// the higher level.
func DiscoverPaths(opts DiscoverOptions) []ConfigLayerInfo {
	candidates := []ConfigLayerInfo{
		{Level: LevelSystem, Path: orDefault(opts.SystemConfigPath, defaultSystemConfigPath)},
		{Level: LevelUser, Path: orDefault(opts.UserConfigPath, defaultUserConfigPath)},
		{Level: LevelProject, Path: opts.ProjectPath},
	}

	// Walk from the top so that a shared path keeps its highest level.
	seen := make(map[string]bool, len(candidates))
	keep := make([]bool, len(candidates))
	for i := len(candidates) - 1; i >= 0; i-- {
		p := candidates[i].Path
		if p == "" {
			continue
		}
		key := p
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		keep[i] = true
	}

	var layers []ConfigLayerInfo
	for i, c := range candidates {
		if keep[i] {
			layers = append(layers, c)
		}
	}
	return layers
}

func orDefault(p string, def func() string) string {
	if p != "" {
		return p
	}
	return def()
}

func defaultSystemConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		pd := os.Getenv("ProgramData")
		if pd == "" {
			pd = `C:\ProgramData`
		}
		return filepath.Join(pd, configDirName, configFileName)
	case "darwin":
		return filepath.Join("/Library/Application Support", configDirName, configFileName)
	default:
		return filepath.Join("/etc", configDirName, configFileName)
	}
}

// defaultUserConfigPath honors MCFETCH_CONFIG_HOME, then the OS user
// config directory. Empty when neither is available.
func defaultUserConfigPath() string {
	if dir := strings.TrimSpace(os.Getenv(envConfigHome)); dir != "" {
		return filepath.Join(dir, configFileName)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, configFileName)
}

// EnvNoInherit reports whether MCFETCH_NO_INHERIT is "1" or "true".
func EnvNoInherit() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envNoInherit))) {
	case "1", "true":
		return true
	}
	return false
}
