package sandbox

import (
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// ValidatePath checks that rel stays inside the destination root once
// cleaned. Backslashes are treated as separators so descriptor data from
// any platform is judged the same way. Returns the cleaned slash path.
func ValidatePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("empty path")
	}
	normalized := strings.ReplaceAll(rel, `\`, "/")
	if path.IsAbs(normalized) || hasVolume(normalized) {
		return "", fmt.Errorf("path '%s' is absolute; only paths relative to the destination are allowed", rel)
	}

	cleaned := path.Clean(normalized)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("path '%s' resolves to '%s' which is outside the destination root", rel, cleaned)
	}
	if cleaned == "." {
		return "", fmt.Errorf("path '%s' resolves to the destination root itself", rel)
	}
	return cleaned, nil
}

// Join joins path segments and validates the result. Each segment must be a
// single name: segments containing separators or dot-dot are rejected even
// when the joined path would still land inside the root.
func Join(segments ...string) (string, error) {
	for _, s := range segments {
		if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
			return "", fmt.Errorf("invalid path segment '%s' in %v", s, segments)
		}
	}
	return ValidatePath(strings.Join(segments, "/"))
}

// SafeRemove removes a file within the destination root. A missing file is
// not an error.
func SafeRemove(fs billy.Basic, rel string) error {
	cleaned, err := ValidatePath(rel)
	if err != nil {
		return err
	}
	if _, err := fs.Stat(cleaned); err != nil {
		return nil
	}
	return fs.Remove(cleaned)
}

// SafeMkdirAll creates the parent directories of rel within the destination root.
func SafeMkdirAll(fs billy.Dir, rel string) error {
	cleaned, err := ValidatePath(rel)
	if err != nil {
		return err
	}
	dir := path.Dir(cleaned)
	if dir == "." {
		return nil
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

func hasVolume(p string) bool {
	return len(p) >= 2 && p[1] == ':' && ((p[0] >= 'a' && p[0] <= 'z') || (p[0] >= 'A' && p[0] <= 'Z'))
}
