// Package manifest models the version manifest, version descriptors and asset
// indexes, and decides which libraries apply to the running platform.
package manifest

import (
	"fmt"
	"time"
)

// VersionType classifies an entry of the version manifest.
type VersionType string

const (
	TypeRelease  VersionType = "release"
	TypeSnapshot VersionType = "snapshot"
	TypeOldBeta  VersionType = "old_beta"
	TypeOldAlpha VersionType = "old_alpha"
)

// VersionManifest is the top-level list of every known version.
type VersionManifest struct {
	Latest   Latest           `json:"latest"`
	Versions []VersionSummary `json:"versions"`
}

// Latest names the newest release and snapshot.
type Latest struct {
	Release  string `json:"release"`
	Snapshot string `json:"snapshot"`
}

// VersionSummary points at the full descriptor of one version. URL is in the
// official namespace and must go through the active provider's rewrite.
type VersionSummary struct {
	ID          string      `json:"id"`
	Type        VersionType `json:"type"`
	URL         string      `json:"url"`
	Time        time.Time   `json:"time"`
	ReleaseTime time.Time   `json:"releaseTime"`
}

// Find returns the summary with the given id.
func (m *VersionManifest) Find(id string) (*VersionSummary, bool) {
	for i := range m.Versions {
		if m.Versions[i].ID == id {
			return &m.Versions[i], true
		}
	}
	return nil, false
}

// LatestID returns the id of the newest release or snapshot.
func (m *VersionManifest) LatestID(kind VersionType) (string, error) {
	switch kind {
	case TypeRelease:
		return m.Latest.Release, nil
	case TypeSnapshot:
		return m.Latest.Snapshot, nil
	default:
		return "", fmt.Errorf("unknown latest kind '%s'; must be one of: release, snapshot", kind)
	}
}

// Filter returns the summaries of the given type, or all of them when kind is empty.
func (m *VersionManifest) Filter(kind VersionType) []VersionSummary {
	if kind == "" {
		return m.Versions
	}
	var out []VersionSummary
	for _, v := range m.Versions {
		if v.Type == kind {
			out = append(out, v)
		}
	}
	return out
}

// VersionDescriptor is the full JSON document of a single version.
type VersionDescriptor struct {
	ID          string         `json:"id"`
	Type        VersionType    `json:"type"`
	MainClass   string         `json:"mainClass"`
	Assets      string         `json:"assets,omitempty"`
	Downloads   Downloads      `json:"downloads"`
	Libraries   []Library      `json:"libraries"`
	AssetIndex  *AssetIndexRef `json:"assetIndex,omitempty"`
	Logging     *Logging       `json:"logging,omitempty"`
	JavaVersion *JavaVersion   `json:"javaVersion,omitempty"`
	Time        time.Time      `json:"time"`
	ReleaseTime time.Time      `json:"releaseTime"`
}

// Downloads lists the archives published for a version.
type Downloads struct {
	Client         *DownloadInfo `json:"client,omitempty"`
	Server         *DownloadInfo `json:"server,omitempty"`
	ClientMappings *DownloadInfo `json:"client_mappings,omitempty"`
	ServerMappings *DownloadInfo `json:"server_mappings,omitempty"`
}

// DownloadInfo is the canonical descriptor of one remote artifact.
type DownloadInfo struct {
	Path string `json:"path,omitempty"`
	SHA1 string `json:"sha1"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// Library is a class library dependency, optionally gated by rules and
// carrying per-platform native classifiers.
type Library struct {
	Name      string            `json:"name"`
	Downloads *LibraryDownloads `json:"downloads,omitempty"`
	Rules     []Rule            `json:"rules,omitempty"`
	Natives   map[string]string `json:"natives,omitempty"`
}

// LibraryDownloads holds the main artifact and the native classifiers.
type LibraryDownloads struct {
	Artifact    *DownloadInfo            `json:"artifact,omitempty"`
	Classifiers map[string]*DownloadInfo `json:"classifiers,omitempty"`
}

// RuleAction is allow or disallow.
type RuleAction string

const (
	ActionAllow    RuleAction = "allow"
	ActionDisallow RuleAction = "disallow"
)

// Rule is a conditional allow/disallow clause on a library.
type Rule struct {
	Action RuleAction `json:"action"`
	OS     *OSRule    `json:"os,omitempty"`
}

// OSRule restricts a rule to an operating system and/or architecture.
// Name uses the descriptor vocabulary: windows, osx, linux.
type OSRule struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Arch    string `json:"arch,omitempty"`
}

// AssetIndexRef points at the asset index of a version.
type AssetIndexRef struct {
	ID        string `json:"id"`
	SHA1      string `json:"sha1"`
	Size      int64  `json:"size"`
	TotalSize int64  `json:"totalSize,omitempty"`
	URL       string `json:"url"`
}

// AssetIndex maps asset names to their content hash.
type AssetIndex struct {
	Objects map[string]AssetObject `json:"objects"`
}

// AssetObject is one content-addressed asset.
type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// Logging holds the logging configuration published for the client.
type Logging struct {
	Client *LoggingInfo `json:"client,omitempty"`
}

// LoggingInfo describes the client logging configuration file.
type LoggingInfo struct {
	Argument string      `json:"argument"`
	Type     string      `json:"type"`
	File     LoggingFile `json:"file"`
}

// LoggingFile is the downloadable logging configuration.
type LoggingFile struct {
	ID   string `json:"id"`
	SHA1 string `json:"sha1"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// JavaVersion names the runtime a version was built for.
type JavaVersion struct {
	Component    string `json:"component"`
	MajorVersion int    `json:"majorVersion"`
}
