package lock

import "time"

// FileName is the name of the install record inside a version directory.
const FileName = "mcfetch.lock"

// Record describes a completed game download: where it came from and the
// digest of every file it placed under the game directory.
type Record struct {
	Version     int                 `yaml:"version"`
	ID          string              `yaml:"id"`
	Provider    string              `yaml:"provider"`
	InstalledAt time.Time           `yaml:"installed_at"`
	Verified    bool                `yaml:"verified"`
	Files       map[string]FileHash `yaml:"files"`
}

// FileHash records the published size and SHA-1 of a single file.
// SHA1 is empty for files the descriptor publishes no digest for.
type FileHash struct {
	Size int64  `yaml:"size"`
	SHA1 string `yaml:"sha1,omitempty"`
}
