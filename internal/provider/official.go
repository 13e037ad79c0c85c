package provider

import (
	"context"

	"go.uber.org/zap"

	"github.com/bianoble/mcfetch/internal/manifest"
)

const (
	OfficialVersionManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest.json"
	OfficialResourcesURL       = "https://resources.download.minecraft.net"

	officialConcurrency = 6
)

// Official talks to the upstream endpoints directly.
type Official struct {
	fetcher *manifest.Fetcher
	logger  *zap.Logger
}

// NewOfficial creates the official provider.
func NewOfficial(opts Options) *Official {
	return &Official{fetcher: opts.fetcher(), logger: opts.logger().Named("official")}
}

func (o *Official) Name() string { return "official" }

func (o *Official) VersionListURLs() []string {
	return []string{OfficialVersionManifestURL}
}

func (o *Official) AssetObjectCandidates(location string) []string {
	return []string{OfficialResourcesURL + "/" + location}
}

func (o *Official) FetchVersionList(ctx context.Context, id string) (*manifest.VersionManifest, error) {
	return fetchFirst(ctx, o.fetcher, o.logger, o.VersionListURLs(), id)
}

// RewriteURL is the identity: official URLs are already in this namespace.
func (o *Official) RewriteURL(ctx context.Context, base string) string {
	return base
}

func (o *Official) ConcurrencyHint(ctx context.Context) int {
	return officialConcurrency
}
