package mcfetch

import (
	"github.com/bianoble/mcfetch/internal/engine"
	"github.com/bianoble/mcfetch/internal/fetch"
	"github.com/bianoble/mcfetch/internal/lock"
	"github.com/bianoble/mcfetch/internal/manifest"
	"github.com/bianoble/mcfetch/internal/provider"
	"github.com/bianoble/mcfetch/internal/scheduler"
)

// Type aliases re-export internal types as the public API.
// Users import "github.com/bianoble/mcfetch/pkg/mcfetch" and use
// mcfetch.GameOptions, mcfetch.Progress, etc.

type GameOptions = engine.Options
type Progress = engine.Progress
type ProgressFunc = engine.ProgressFunc
type Stage = engine.Stage
type CheckResult = engine.CheckResult
type DriftEntry = engine.DriftEntry
type VersionInfo = engine.VersionInfo
type InstallRecord = lock.Record

type Provider = provider.Provider
type ProviderOptions = provider.Options

type VersionType = manifest.VersionType
type VersionSummary = manifest.VersionSummary
type VersionDescriptor = manifest.VersionDescriptor

type AggregateError = scheduler.AggregateError
type PermanentError = fetch.PermanentError
type ExhaustedError = fetch.ExhaustedError

const (
	Release  = manifest.TypeRelease
	Snapshot = manifest.TypeSnapshot

	StageManifest  = engine.StageManifest
	StageGameJar   = engine.StageGameJar
	StageLibraries = engine.StageLibraries
	StageAssets    = engine.StageAssets
	StageLogging   = engine.StageLogging
	StageComplete  = engine.StageComplete

	NoRetry = fetch.NoRetry
)

var (
	ErrVersionNotFound = manifest.ErrVersionNotFound
	ErrPermanent       = fetch.ErrPermanent
)

// DefaultGameOptions returns options that download everything for version
// with integrity checks enabled, into the client's destination.
func DefaultGameOptions(version string) GameOptions {
	return engine.DefaultOptions(version, "")
}
