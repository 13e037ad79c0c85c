package config

import (
	"errors"
	"fmt"
	"io/fs"
)

// Merge combines two configs where overlay takes precedence over base.
// Version must agree when both layers declare it. Every other field is
// taken from overlay when overlay sets it, field by field, so a project
// config can change the log format without repeating the level.
func Merge(base, overlay *Config) (*Config, error) {
	if base == nil {
		return overlay, nil
	}
	if overlay == nil {
		return base, nil
	}

	result := *base
	if err := mergeVersion(base.Version, overlay.Version, &result.Version); err != nil {
		return nil, err
	}

	mergeString(&result.Provider, overlay.Provider)
	mergeString(&result.MirrorRoot, overlay.MirrorRoot)
	mergeString(&result.Destination, overlay.Destination)
	mergeString(&result.Timeout, overlay.Timeout)
	mergeString(&result.Log.Level, overlay.Log.Level)
	mergeString(&result.Log.Format, overlay.Log.Format)

	if overlay.Concurrency != 0 {
		result.Concurrency = overlay.Concurrency
	}
	if overlay.RetryCount != 0 {
		result.RetryCount = overlay.RetryCount
	}

	mergeBool(&result.CheckIntegrity, overlay.CheckIntegrity)
	mergeBool(&result.IncludeAssets, overlay.IncludeAssets)
	mergeBool(&result.IncludeLibraries, overlay.IncludeLibraries)

	return &result, nil
}

// MergeAll merges multiple configs in order (lowest precedence first).
// Returns an error if any version mismatch is found.
func MergeAll(configs []*Config) (*Config, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no configs to merge")
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		var err error
		result, err = Merge(result, configs[i])
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func mergeVersion(base, overlay int, out *int) error {
	switch {
	case base == 0 && overlay == 0:
		*out = 0 // neither declares; validation will catch this
	case base == 0:
		*out = overlay
	case overlay == 0:
		*out = base
	case base == overlay:
		*out = base
	default:
		return fmt.Errorf("config version mismatch: one layer declares version %d, another declares version %d; all config layers must agree on version", base, overlay)
	}
	return nil
}

func mergeString(dst *string, overlay string) {
	if overlay != "" {
		*dst = overlay
	}
}

func mergeBool(dst **bool, overlay *bool) {
	if overlay != nil {
		v := *overlay
		*dst = &v
	}
}

// HierarchicalOptions controls LoadHierarchical.
type HierarchicalOptions struct {
	ProjectPath      string
	SystemConfigPath string
	UserConfigPath   string

	// NoInherit loads only the project layer.
	NoInherit bool

	// RequireProject makes a missing project file an error.
	RequireProject bool
}

// HierarchicalResult is the merged config and the layers it came from.
type HierarchicalResult struct {
	Config *Config
	Layers []ConfigLayerInfo
}

// LoadHierarchical loads the system, user and project layers that exist,
// merges them in that order and validates the result. Missing layers are
// skipped. A layer that exists but cannot be parsed is an error.
func LoadHierarchical(opts HierarchicalOptions) (*HierarchicalResult, error) {
	var layers []ConfigLayerInfo
	if opts.NoInherit {
		layers = []ConfigLayerInfo{{Path: opts.ProjectPath, Level: LevelProject}}
	} else {
		layers = DiscoverPaths(DiscoverOptions{
			ProjectPath:      opts.ProjectPath,
			SystemConfigPath: opts.SystemConfigPath,
			UserConfigPath:   opts.UserConfigPath,
		})
	}

	var loaded []*Config
	for i := range layers {
		l := &layers[i]
		if l.Path == "" {
			continue
		}
		cfg, err := parse(l.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				if l.Level == LevelProject && opts.RequireProject {
					return nil, err
				}
				continue
			}
			l.Err = err
			return nil, fmt.Errorf("loading %s config: %w", l.Level, err)
		}
		l.Loaded = true
		loaded = append(loaded, cfg)
	}

	merged := &Config{Version: 1}
	if len(loaded) > 0 {
		var err error
		merged, err = MergeAll(loaded)
		if err != nil {
			return nil, err
		}
	}
	if errs := Validate(merged); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &HierarchicalResult{Config: merged, Layers: layers}, nil
}
