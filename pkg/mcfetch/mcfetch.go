// Package mcfetch provides the public Go library API for mcfetch.
//
// mcfetch downloads a complete game version (client jar, libraries,
// natives, assets and logging configuration) from the official endpoints
// or a mirror, verifying every file against the published SHA-1.
//
// # Basic Usage
//
//	client, err := mcfetch.New(mcfetch.Options{
//	    Destination: "/path/to/.minecraft",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	latest, err := client.LatestVersion(ctx, mcfetch.Release)
//
//	opts := mcfetch.DefaultGameOptions(latest)
//	opts.OnProgress = func(p mcfetch.Progress) {
//	    fmt.Printf("%s %d/%d\n", p.Label, p.Completed, p.Total)
//	}
//	err = client.DownloadGame(ctx, opts)
package mcfetch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bianoble/mcfetch/internal/engine"
	"github.com/bianoble/mcfetch/internal/httpclient"
	"github.com/bianoble/mcfetch/internal/manifest"
	"github.com/bianoble/mcfetch/internal/provider"
)

// GameDownloader downloads complete game versions.
type GameDownloader interface {
	DownloadGame(ctx context.Context, opts GameOptions) error
}

// Checker compares an installed version against its descriptor.
type Checker interface {
	Check(ctx context.Context, opts GameOptions) (*CheckResult, error)
}

// Options configures an mcfetch client.
type Options struct {
	// Destination is the game directory used when GameOptions leave it empty.
	Destination string

	// Provider is used as is when set. Otherwise ProviderName is looked up.
	Provider Provider

	// ProviderName selects a built-in provider. Default: "auto".
	ProviderName string

	// MirrorRoot overrides the mirror API root.
	MirrorRoot string

	// HTTPClient performs every request. Default: a pooled client with the
	// mcfetch User-Agent.
	HTTPClient httpclient.Doer

	Logger *zap.Logger

	// Timeout bounds each download attempt. Default: 30s.
	Timeout time.Duration

	// RetryCount is the number of retries after a failed attempt.
	// Default: 3. Use NoRetry to fail on the first error.
	RetryCount int

	// ProbeTimeout bounds each health probe of the auto provider. Default: 5s.
	ProbeTimeout time.Duration
}

// Client is the main entry point for the mcfetch library.
// It implements GameDownloader and Checker.
type Client struct {
	manager     *engine.Manager
	destination string
}

// New creates a new mcfetch Client.
func New(opts Options) (*Client, error) {
	client := opts.HTTPClient
	if client == nil {
		client = httpclient.New(httpclient.DefaultOptions())
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := opts.Provider
	if p == nil {
		name := opts.ProviderName
		if name == "" {
			name = "auto"
		}
		var err error
		p, err = NewProvider(name, ProviderOptions{
			Client:       client,
			Logger:       logger.Named("provider"),
			ProbeTimeout: opts.ProbeTimeout,
			MirrorRoot:   opts.MirrorRoot,
		})
		if err != nil {
			return nil, err
		}
	}

	m := engine.NewManager(p, client, logger)
	m.Timeout = opts.Timeout
	m.RetryCount = opts.RetryCount

	return &Client{manager: m, destination: opts.Destination}, nil
}

// ListVersions returns every version in the manifest, newest first.
func (c *Client) ListVersions(ctx context.Context) ([]VersionSummary, error) {
	return c.manager.ListVersions(ctx)
}

// LatestVersion returns the id of the newest release or snapshot.
func (c *Client) LatestVersion(ctx context.Context, kind VersionType) (string, error) {
	return c.manager.LatestVersion(ctx, kind)
}

// VersionDetails fetches the full descriptor of a version.
func (c *Client) VersionDetails(ctx context.Context, id string) (*VersionDescriptor, error) {
	return c.manager.VersionDetails(ctx, id)
}

// Summarize condenses a descriptor for display, counting only the
// libraries that apply to the running platform.
func (c *Client) Summarize(desc *VersionDescriptor) VersionInfo {
	return engine.Summarize(desc, manifest.CurrentEnvironment())
}

// DownloadGame downloads a full game version.
func (c *Client) DownloadGame(ctx context.Context, opts GameOptions) error {
	return c.manager.DownloadGame(ctx, c.withDestination(opts))
}

// Check compares an installed version against its descriptor without
// downloading anything.
func (c *Client) Check(ctx context.Context, opts GameOptions) (*CheckResult, error) {
	return c.manager.Check(ctx, c.withDestination(opts))
}

// SetProvider replaces the provider used by later calls.
func (c *Client) SetProvider(p Provider) {
	c.manager.SetProvider(p)
}

// Provider returns the current provider.
func (c *Client) Provider() Provider {
	return c.manager.Provider()
}

func (c *Client) withDestination(opts GameOptions) GameOptions {
	if opts.Destination == "" && opts.FS == nil {
		opts.Destination = c.destination
	}
	return opts
}

// Providers returns the names accepted by NewProvider.
func Providers() []string {
	return provider.DefaultRegistry().Names()
}

// NewProvider builds a built-in provider by name: official (alias mojang),
// mirror (alias bmclapi) or auto.
func NewProvider(name string, opts ProviderOptions) (Provider, error) {
	return provider.DefaultRegistry().New(name, opts)
}

// DownloadMinecraft downloads a version with a one-off client using
// opts.Provider, or automatic provider selection when it is nil.
func DownloadMinecraft(ctx context.Context, opts GameOptions) error {
	c, err := New(Options{Destination: opts.Destination, Provider: opts.Provider})
	if err != nil {
		return err
	}
	return c.DownloadGame(ctx, opts)
}
