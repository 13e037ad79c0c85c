package lock

import (
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

const exampleRecord = `version: 1
id: 1.20.1
provider: mirror
installed_at: 2024-05-01T10:00:00Z
verified: true
files:
  versions/1.20.1/1.20.1.jar:
    size: 23028853
    sha1: 0c3ec587af28e5a785c0b4a7b8a30f9a8f78f838
  assets/log_configs/client-1.12.xml:
    size: 888
`

func TestLoadValidRecord(t *testing.T) {
	fs := memfs.New()
	if err := util.WriteFile(fs, Path("1.20.1"), []byte(exampleRecord), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(fs, Path("1.20.1"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.ID != "1.20.1" || r.Provider != "mirror" || !r.Verified {
		t.Errorf("record = %+v", r)
	}
	if len(r.Files) != 2 {
		t.Errorf("files = %d, want 2", len(r.Files))
	}
	if r.Files["assets/log_configs/client-1.12.xml"].SHA1 != "" {
		t.Error("sha1 should be empty when not recorded")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(memfs.New(), Path("none"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	fs := memfs.New()
	if err := util.WriteFile(fs, "bad.lock", []byte("files: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(fs, "bad.lock")
	if err == nil || !strings.Contains(err.Error(), "parsing install record") {
		t.Fatalf("err = %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	fs := memfs.New()
	original := &Record{
		Version:     1,
		ID:          "1.8.9",
		Provider:    "official",
		InstalledAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Files: map[string]FileHash{
			"versions/1.8.9/1.8.9.jar": {Size: 10, SHA1: strings.Repeat("a", 40)},
		},
	}

	if err := Save(fs, Path("1.8.9"), original); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(fs, Path("1.8.9"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.InstalledAt.Equal(original.InstalledAt) {
		t.Errorf("installed_at = %v", loaded.InstalledAt)
	}
	if loaded.Files["versions/1.8.9/1.8.9.jar"] != original.Files["versions/1.8.9/1.8.9.jar"] {
		t.Errorf("files = %+v", loaded.Files)
	}

	entries, err := fs.ReadDir("versions/1.8.9")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != FileName {
		t.Errorf("directory holds %d entries, temp file left behind?", len(entries))
	}
}

func TestSaveOverwrites(t *testing.T) {
	fs := memfs.New()
	r := &Record{Version: 1, ID: "1.0", Provider: "mirror"}
	if err := Save(fs, Path("1.0"), r); err != nil {
		t.Fatal(err)
	}
	r.Provider = "official"
	if err := Save(fs, Path("1.0"), r); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(fs, Path("1.0"))
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Provider != "official" {
		t.Errorf("provider = %q, want official", loaded.Provider)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr string
	}{
		{"valid", Record{Version: 1, ID: "1.0", Provider: "mirror"}, ""},
		{"bad version", Record{Version: 2, ID: "1.0", Provider: "mirror"}, "unsupported version 2"},
		{"missing id", Record{Version: 1, Provider: "mirror"}, "'id' is required"},
		{"missing provider", Record{Version: 1, ID: "1.0"}, "'provider' is required"},
		{"escaping path", Record{Version: 1, ID: "1.0", Provider: "mirror",
			Files: map[string]FileHash{"../outside.jar": {Size: 1}}}, "inside the game directory"},
		{"absolute path", Record{Version: 1, ID: "1.0", Provider: "mirror",
			Files: map[string]FileHash{"/etc/passwd": {Size: 1}}}, "inside the game directory"},
		{"negative size", Record{Version: 1, ID: "1.0", Provider: "mirror",
			Files: map[string]FileHash{"a.jar": {Size: -1}}}, "negative size"},
		{"short sha1", Record{Version: 1, ID: "1.0", Provider: "mirror",
			Files: map[string]FileHash{"a.jar": {Size: 1, SHA1: "abc"}}}, "40 hex characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.record)
			if tt.wantErr == "" {
				if len(errs) != 0 {
					t.Errorf("unexpected errors: %v", errs)
				}
				return
			}
			if len(errs) == 0 || !strings.Contains(strings.Join(errs, "\n"), tt.wantErr) {
				t.Errorf("errors %v should contain %q", errs, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Errors: []string{"one", "two"}}
	if got := err.Error(); !strings.Contains(got, "  - one\n  - two") {
		t.Errorf("Error() = %q", got)
	}
}
