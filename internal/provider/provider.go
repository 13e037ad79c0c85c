// Package provider implements the upstream sources game files are fetched
// from: the official endpoints, a URL-rewriting mirror, and an automatic
// selector that probes a list of providers and sticks with the first healthy one.
package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bianoble/mcfetch/internal/httpclient"
	"github.com/bianoble/mcfetch/internal/manifest"
)

// Provider resolves manifest URLs, rewrites artifact URLs into its own
// namespace and recommends a download concurrency.
type Provider interface {
	// Name identifies the provider in logs and the CLI.
	Name() string

	// VersionListURLs returns the candidate URLs of the version manifest.
	VersionListURLs() []string

	// AssetObjectCandidates returns candidate URLs for an asset location
	// of the form <hh>/<hash>.
	AssetObjectCandidates(location string) []string

	// FetchVersionList fetches and parses the version manifest. id is the
	// version the caller is about to resolve and is only used for logging.
	FetchVersionList(ctx context.Context, id string) (*manifest.VersionManifest, error)

	// RewriteURL maps an official URL into this provider's namespace.
	// URLs it does not recognize are returned unchanged.
	RewriteURL(ctx context.Context, base string) string

	// ConcurrencyHint is the recommended number of parallel downloads.
	// Callers may override it.
	ConcurrencyHint(ctx context.Context) int
}

// Options carries the collaborators shared by every provider.
type Options struct {
	Client       httpclient.Doer
	Logger       *zap.Logger
	FetchTimeout time.Duration // manifest fetch timeout, zero means the manifest default
	ProbeTimeout time.Duration // auto-selection HEAD timeout, zero means DefaultProbeTimeout
	MirrorRoot   string        // API root for the mirror, empty means DefaultMirrorRoot
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) fetcher() *manifest.Fetcher {
	return &manifest.Fetcher{Client: o.Client, Timeout: o.FetchTimeout}
}

func fetchFirst(ctx context.Context, f *manifest.Fetcher, log *zap.Logger, urls []string, id string) (*manifest.VersionManifest, error) {
	log.Debug("fetching version manifest", zap.String("url", urls[0]), zap.String("for", id))

	var m manifest.VersionManifest
	if err := f.JSON(ctx, urls[0], &m); err != nil {
		return nil, err
	}
	return &m, nil
}
