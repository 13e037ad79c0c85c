package engine

import (
	"github.com/go-git/go-billy/v5"

	"github.com/bianoble/mcfetch/internal/lock"
	"github.com/bianoble/mcfetch/internal/provider"
)

// Stage is one step of a game download.
type Stage int

const (
	StageManifest Stage = iota
	StageGameJar
	StageLibraries
	StageAssets
	StageLogging
	StageComplete
)

var stageLabels = [...]string{
	StageManifest:  "Fetching version manifest",
	StageGameJar:   "Downloading game JAR",
	StageLibraries: "Downloading libraries",
	StageAssets:    "Downloading assets",
	StageLogging:   "Downloading logging configuration",
	StageComplete:  "Download complete",
}

var stageNames = [...]string{
	StageManifest:  "manifest",
	StageGameJar:   "jar",
	StageLibraries: "libraries",
	StageAssets:    "assets",
	StageLogging:   "logging",
	StageComplete:  "complete",
}

// String returns the short stage name used in logs and the CLI.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Label is the human-readable description of the stage.
func (s Stage) Label() string {
	if s < 0 || int(s) >= len(stageLabels) {
		return "Unknown stage"
	}
	return stageLabels[s]
}

// Progress is delivered to ProgressFunc as downloads advance.
type Progress struct {
	Stage     Stage
	Label     string
	Completed int
	Total     int
	Speed     float64 // bytes per second since the stage began
}

// ProgressFunc receives progress events. It is never called concurrently.
type ProgressFunc func(Progress)

// Options configures one DownloadGame call.
type Options struct {
	Version     string
	Destination string

	// FS overrides the filesystem rooted at Destination. Access to it is
	// serialized, so non-concurrent implementations such as memfs work.
	FS billy.Filesystem

	// Provider overrides the manager's provider for this call.
	Provider provider.Provider

	IncludeAssets    bool
	IncludeLibraries bool
	CheckIntegrity   bool

	// Concurrency overrides the provider's hint when positive.
	Concurrency int

	OnProgress ProgressFunc
}

// DefaultOptions returns options that download everything with integrity
// checks enabled.
func DefaultOptions(version, destination string) Options {
	return Options{
		Version:          version,
		Destination:      destination,
		IncludeAssets:    true,
		IncludeLibraries: true,
		CheckIntegrity:   true,
	}
}

// DriftEntry is an installed file whose digest differs from the descriptor.
type DriftEntry struct {
	Path     string
	Expected string
	Actual   string
}

// CheckResult holds the outcome of a check operation.
type CheckResult struct {
	Clean   bool
	Checked int
	Drifted []DriftEntry
	Missing []string

	// Record is the install record left by the last successful download,
	// or nil when there is none.
	Record *lock.Record
}
