package config

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestDiscoverPathsAllLevels(t *testing.T) {
	layers := DiscoverPaths(DiscoverOptions{
		ProjectPath:      "./mcfetch.yaml",
		SystemConfigPath: "/etc/mcfetch/mcfetch.yaml",
		UserConfigPath:   "/home/user/.config/mcfetch/mcfetch.yaml",
	})

	want := []ConfigLevel{LevelSystem, LevelUser, LevelProject}
	if len(layers) != len(want) {
		t.Fatalf("expected %d layers, got %d", len(want), len(layers))
	}
	for i, l := range want {
		if layers[i].Level != l {
			t.Errorf("layers[%d].Level = %q, want %q", i, layers[i].Level, l)
		}
	}
}

func TestDiscoverPathsSharedFileKeepsHighestLevel(t *testing.T) {
	samePath, err := filepath.Abs("./mcfetch.yaml")
	if err != nil {
		t.Fatal(err)
	}

	layers := DiscoverPaths(DiscoverOptions{
		ProjectPath:      "./mcfetch.yaml",
		SystemConfigPath: samePath,
		UserConfigPath:   "/other/path/mcfetch.yaml",
	})

	if len(layers) != 2 {
		t.Fatalf("expected 2 layers (deduped), got %d", len(layers))
	}
	if layers[0].Level != LevelUser {
		t.Errorf("layers[0].Level = %q, want %q", layers[0].Level, LevelUser)
	}
	if layers[1].Level != LevelProject || layers[1].Path != "./mcfetch.yaml" {
		t.Errorf("layers[1] = %+v, want the project layer", layers[1])
	}
}

func TestDiscoverPathsEmptyOverrides(t *testing.T) {
	layers := DiscoverPaths(DiscoverOptions{ProjectPath: "./mcfetch.yaml"})

	// The user layer is absent when the OS has no config directory.
	if len(layers) < 2 {
		t.Fatalf("expected at least 2 layers, got %d", len(layers))
	}
	if layers[0].Level != LevelSystem {
		t.Errorf("first layer should be system, got %q", layers[0].Level)
	}
	if layers[len(layers)-1].Level != LevelProject {
		t.Errorf("last layer should be project, got %q", layers[len(layers)-1].Level)
	}
}

func TestDiscoverPathsNoProject(t *testing.T) {
	layers := DiscoverPaths(DiscoverOptions{
		SystemConfigPath: "/etc/mcfetch/mcfetch.yaml",
		UserConfigPath:   "/home/user/.config/mcfetch/mcfetch.yaml",
	})
	if len(layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(layers))
	}
}

func TestDefaultSystemConfigPath(t *testing.T) {
	p := defaultSystemConfigPath()

	switch runtime.GOOS {
	case "linux":
		if p != "/etc/mcfetch/mcfetch.yaml" {
			t.Errorf("system path = %q, want /etc/mcfetch/mcfetch.yaml", p)
		}
	case "darwin":
		if p != "/Library/Application Support/mcfetch/mcfetch.yaml" {
			t.Errorf("system path = %q", p)
		}
	case "windows":
		if !filepath.IsAbs(p) {
			t.Errorf("system path should be absolute on Windows, got %q", p)
		}
	}
}

func TestDefaultUserConfigPath(t *testing.T) {
	t.Setenv("MCFETCH_CONFIG_HOME", "")
	p := defaultUserConfigPath()
	if p == "" {
		t.Skip("os.UserConfigDir() not available")
	}
	if !filepath.IsAbs(p) {
		t.Errorf("user path should be absolute, got %q", p)
	}
}

func TestUserConfigHomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MCFETCH_CONFIG_HOME", dir)

	if got, want := defaultUserConfigPath(), filepath.Join(dir, "mcfetch.yaml"); got != want {
		t.Errorf("user path = %q, want %q", got, want)
	}
}

func TestEnvNoInherit(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{" true ", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"yes", false},
	}

	for _, tt := range tests {
		t.Setenv("MCFETCH_NO_INHERIT", tt.value)
		if got := EnvNoInherit(); got != tt.want {
			t.Errorf("EnvNoInherit with %q = %v, want %v", tt.value, got, tt.want)
		}
	}
}
