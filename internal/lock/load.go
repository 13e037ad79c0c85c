package lock

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"gopkg.in/yaml.v3"
)

// Path returns the record location for version id, relative to the game
// directory.
func Path(id string) string {
	return path.Join("versions", id, FileName)
}

// Load reads and validates the install record at name.
func Load(fs billy.Filesystem, name string) (*Record, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("reading install record %s: %w", name, err)
	}
	defer f.Close()

	var r Record
	if err := yaml.NewDecoder(f).Decode(&r); err != nil {
		return nil, fmt.Errorf("parsing install record %s: %w", name, err)
	}

	if errs := Validate(&r); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &r, nil
}

// Save writes a record atomically using a temp file and rename.
func Save(fs billy.Filesystem, name string, r *Record) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling install record: %w", err)
	}

	dir := path.Dir(name)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := fs.TempFile(dir, "."+path.Base(name)+".tmp-")
	if err != nil {
		return fmt.Errorf("creating temp install record: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = fs.Remove(tmpName)
		return fmt.Errorf("writing temp install record %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("closing temp install record %s: %w", tmpName, err)
	}

	if err := fs.Rename(tmpName, name); err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("renaming temp install record to %s: %w", name, err)
	}

	return nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("install record validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Record for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(r *Record) []string {
	var errs []string

	if r.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d; only version 1 is supported", r.Version))
	}
	if r.ID == "" {
		errs = append(errs, "'id' is required")
	}
	if r.Provider == "" {
		errs = append(errs, "'provider' is required")
	}

	paths := make([]string, 0, len(r.Files))
	for p := range r.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		f := r.Files[p]
		if path.IsAbs(p) || strings.HasPrefix(path.Clean(p), "..") {
			errs = append(errs, fmt.Sprintf("file '%s': path must stay inside the game directory", p))
		}
		if f.Size < 0 {
			errs = append(errs, fmt.Sprintf("file '%s': negative size", p))
		}
		if f.SHA1 != "" && len(f.SHA1) != 40 {
			errs = append(errs, fmt.Sprintf("file '%s': sha1 must be 40 hex characters", p))
		}
	}

	return errs
}
