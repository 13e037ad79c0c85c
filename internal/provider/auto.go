package provider

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bianoble/mcfetch/internal/httpclient"
	"github.com/bianoble/mcfetch/internal/manifest"
)

// DefaultProbeTimeout bounds each liveness probe of the auto selector.
const DefaultProbeTimeout = 5 * time.Second

// Auto wraps an ordered list of providers. The first one whose version
// manifest answers a HEAD request is chosen and kept for the lifetime of
// the Auto value. When every probe fails the first provider is kept, so
// later stages surface the real fetch errors.
type Auto struct {
	candidates   []Provider
	client       httpclient.Doer
	probeTimeout time.Duration
	logger       *zap.Logger

	mu      sync.Mutex
	current Provider
}

// NewAuto creates a selector over candidates. With no candidates it uses
// the mirror first and the official endpoints second.
func NewAuto(opts Options, candidates ...Provider) *Auto {
	if len(candidates) == 0 {
		candidates = []Provider{NewMirror(opts), NewOfficial(opts)}
	}
	timeout := opts.ProbeTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Auto{
		candidates:   candidates,
		client:       opts.Client,
		probeTimeout: timeout,
		logger:       opts.logger().Named("auto"),
	}
}

func (a *Auto) Name() string { return "auto" }

// Candidates returns the wrapped providers in probe order.
func (a *Auto) Candidates() []Provider {
	return append([]Provider(nil), a.candidates...)
}

// Best returns the memoized provider, probing the candidates on first use.
// Concurrent callers wait for the first probe round instead of starting
// their own.
func (a *Auto) Best(ctx context.Context) Provider {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != nil {
		return a.current
	}

	for _, p := range a.candidates {
		if err := a.probe(ctx, p); err != nil {
			a.logger.Warn("provider unavailable", zap.String("provider", p.Name()), zap.Error(err))
			continue
		}
		a.logger.Info("selected provider", zap.String("provider", p.Name()))
		a.current = p
		return p
	}

	a.current = a.candidates[0]
	a.logger.Warn("no provider answered the probe, falling back", zap.String("provider", a.current.Name()))
	return a.current
}

// Current returns the memoized provider, or nil if none was chosen yet.
func (a *Auto) Current() Provider {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Reset drops the memoized choice so the next call probes again.
func (a *Auto) Reset() {
	a.mu.Lock()
	a.current = nil
	a.mu.Unlock()
}

func (a *Auto) probe(ctx context.Context, p Provider) error {
	urls := p.VersionListURLs()
	if len(urls) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, a.probeTimeout)
	defer cancel()
	return httpclient.Head(ctx, a.client, urls[0])
}

// selected is the memoized provider or, before any probe, the first candidate.
func (a *Auto) selected() Provider {
	if p := a.Current(); p != nil {
		return p
	}
	return a.candidates[0]
}

func (a *Auto) VersionListURLs() []string {
	return a.selected().VersionListURLs()
}

func (a *Auto) AssetObjectCandidates(location string) []string {
	return a.selected().AssetObjectCandidates(location)
}

func (a *Auto) FetchVersionList(ctx context.Context, id string) (*manifest.VersionManifest, error) {
	return a.Best(ctx).FetchVersionList(ctx, id)
}

func (a *Auto) RewriteURL(ctx context.Context, base string) string {
	return a.Best(ctx).RewriteURL(ctx, base)
}

func (a *Auto) ConcurrencyHint(ctx context.Context) int {
	return a.Best(ctx).ConcurrencyHint(ctx)
}
