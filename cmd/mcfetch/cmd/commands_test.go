package cmd

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bianoble/mcfetch/internal/manifest"
)

// newMirror serves a manifest with two versions; only 1.0 is downloadable.
func newMirror(t *testing.T) *httptest.Server {
	t.Helper()
	jar := []byte("client jar")
	h := sha1.Sum(jar)

	desc, _ := json.Marshal(manifest.VersionDescriptor{
		ID:        "1.0",
		Type:      manifest.TypeRelease,
		MainClass: "net.minecraft.client.main.Main",
		Downloads: manifest.Downloads{Client: &manifest.DownloadInfo{
			URL:  "https://piston-data.mojang.com/v1/objects/abc/client.jar",
			SHA1: hex.EncodeToString(h[:]),
			Size: int64(len(jar)),
		}},
	})
	versions, _ := json.Marshal(manifest.VersionManifest{
		Latest: manifest.Latest{Release: "1.0", Snapshot: "1.1-pre"},
		Versions: []manifest.VersionSummary{
			{ID: "1.1-pre", Type: manifest.TypeSnapshot, URL: "https://piston-meta.mojang.com/v1/packages/x/1.1-pre.json"},
			{ID: "1.0", Type: manifest.TypeRelease, URL: "https://piston-meta.mojang.com/v1/packages/x/1.0.json"},
		},
	})

	files := map[string][]byte{
		"/mc/game/version_manifest.json": versions,
		"/v1/packages/x/1.0.json":        desc,
		"/v1/objects/abc/client.jar":     jar,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// resetFlags restores every flag to its default so commands do not see
// values left over from an earlier test.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the root command with args in an isolated directory and
// returns what it printed.
func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MCFETCH_NO_INHERIT", "1")
	t.Setenv("MCFETCH_PROVIDER", "mirror")
	t.Setenv("MCFETCH_MIRROR_ROOT", srv.URL)

	resetFlags(rootCmd)
	var buf bytes.Buffer
	old := out
	out = &buf
	defer func() { out = old }()

	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestVersionsCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	srv := newMirror(t)

	got, err := run(t, srv, "versions")
	if err != nil {
		t.Fatalf("versions: %v", err)
	}
	if !strings.Contains(got, "1.1-pre") || !strings.Contains(got, "1.0 ") {
		t.Errorf("output = %q", got)
	}

	got, err = run(t, srv, "versions", "--type", "snapshot")
	if err != nil {
		t.Fatalf("versions --type: %v", err)
	}
	if !strings.Contains(got, "1.1-pre") || strings.Contains(got, "1.0 ") {
		t.Errorf("filtered output = %q", got)
	}
}

func TestLatestCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	srv := newMirror(t)

	got, err := run(t, srv, "latest")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got != "1.0\n" {
		t.Errorf("latest = %q, want 1.0", got)
	}

	got, err = run(t, srv, "latest", "snapshot")
	if err != nil {
		t.Fatalf("latest snapshot: %v", err)
	}
	if got != "1.1-pre\n" {
		t.Errorf("latest snapshot = %q", got)
	}

	if _, err := run(t, srv, "latest", "beta"); err == nil {
		t.Error("expected error for an unknown version type")
	}
}

func TestInfoCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	srv := newMirror(t)

	got, err := run(t, srv, "info", "1.0")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"1.0 (release)", "net.minecraft.client.main.Main", "10 B"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDownloadThenCheck(t *testing.T) {
	t.Chdir(t.TempDir())
	srv := newMirror(t)
	dest := filepath.Join(t.TempDir(), "game")

	if _, err := run(t, srv, "check", "1.0", "--dest", dest); err == nil {
		t.Fatal("check of an empty directory should fail")
	}

	got, err := run(t, srv, "download", "1.0", "--dest", dest, "--retries=-1")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if !strings.Contains(got, "Downloading game JAR") || !strings.Contains(got, "Downloaded 1.0") {
		t.Errorf("output = %q", got)
	}
	data, err := os.ReadFile(filepath.Join(dest, "versions", "1.0", "1.0.jar"))
	if err != nil || string(data) != "client jar" {
		t.Fatalf("jar = %q, %v", data, err)
	}

	got, err = run(t, srv, "check", "1.0", "--dest", dest)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(got, "1.0 is complete") {
		t.Errorf("check output = %q", got)
	}
}

func TestDownloadUnknownVersion(t *testing.T) {
	t.Chdir(t.TempDir())
	srv := newMirror(t)

	_, err := run(t, srv, "download", "9.9", "--dest", t.TempDir(), "--retries=-1")
	if err == nil || !strings.Contains(err.Error(), "9.9") {
		t.Fatalf("err = %v", err)
	}
}

func TestProvidersCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	srv := newMirror(t)

	got, err := run(t, srv, "providers")
	if err != nil {
		t.Fatalf("providers: %v", err)
	}
	want := "auto\nbmclapi\nmirror\nmojang\nofficial\n"
	if got != want {
		t.Errorf("providers = %q, want %q", got, want)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	srv := newMirror(t)
	if err := os.WriteFile(filepath.Join(dir, "mcfetch.yaml"), []byte("version: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, srv, "latest")
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("err = %v", err)
	}
}
