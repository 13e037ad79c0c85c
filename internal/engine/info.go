package engine

import (
	"time"

	"github.com/bianoble/mcfetch/internal/manifest"
)

// VersionInfo summarizes a descriptor for display.
type VersionInfo struct {
	ID          string
	Type        manifest.VersionType
	ReleaseTime time.Time
	MainClass   string
	JavaMajor   int
	ClientSize  int64
	Libraries   int // libraries that apply to the environment
	Natives     int
	AssetIndex  string
	AssetsSize  int64 // total size of the asset objects, when published
	LogConfig   bool
}

// Summarize computes a VersionInfo for desc as seen from env.
func Summarize(desc *manifest.VersionDescriptor, env manifest.Environment) VersionInfo {
	info := VersionInfo{
		ID:          desc.ID,
		Type:        desc.Type,
		ReleaseTime: desc.ReleaseTime,
		MainClass:   desc.MainClass,
	}
	if desc.JavaVersion != nil {
		info.JavaMajor = desc.JavaVersion.MajorVersion
	}
	if desc.Downloads.Client != nil {
		info.ClientSize = desc.Downloads.Client.Size
	}
	for _, lib := range desc.Libraries {
		if !lib.Applies(env) {
			continue
		}
		info.Libraries++
		if _, _, ok := lib.NativeClassifier(env); ok {
			info.Natives++
		}
	}
	if desc.AssetIndex != nil {
		info.AssetIndex = desc.AssetIndex.ID
		info.AssetsSize = desc.AssetIndex.TotalSize
	}
	info.LogConfig = desc.Logging != nil && desc.Logging.Client != nil
	return info
}
