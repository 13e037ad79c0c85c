// Package engine orchestrates a full game download: descriptor resolution,
// the client jar, libraries, assets and the logging configuration, each as
// a separate stage reported through progress events.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"

	"github.com/bianoble/mcfetch/internal/fetch"
	"github.com/bianoble/mcfetch/internal/httpclient"
	"github.com/bianoble/mcfetch/internal/layout"
	"github.com/bianoble/mcfetch/internal/lock"
	"github.com/bianoble/mcfetch/internal/manifest"
	"github.com/bianoble/mcfetch/internal/provider"
	"github.com/bianoble/mcfetch/internal/scheduler"
	"github.com/bianoble/mcfetch/internal/syncfs"
)

// Manager downloads game versions through a provider.
type Manager struct {
	Client httpclient.Doer
	Logger *zap.Logger

	// Env is the platform library rules are evaluated against. The zero
	// value means the running process.
	Env manifest.Environment

	FetchTimeout time.Duration // manifest and descriptor fetches
	Timeout      time.Duration // per download attempt
	RetryCount   int

	// Sleep replaces the retry backoff wait, mainly for tests.
	Sleep func(ctx context.Context, d time.Duration) error

	mu       sync.RWMutex
	provider provider.Provider
}

// NewManager returns a manager using p. A nil provider selects automatically
// between the mirror and the official endpoints.
func NewManager(p provider.Provider, client httpclient.Doer, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{Client: client, Logger: logger, provider: p}
}

// SetProvider replaces the provider used by later calls.
func (m *Manager) SetProvider(p provider.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.provider = p
}

// Provider returns the current provider, creating the automatic selector
// on first use when none was set.
func (m *Manager) Provider() provider.Provider {
	m.mu.RLock()
	p := m.provider
	m.mu.RUnlock()
	if p != nil {
		return p
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.provider == nil {
		m.provider = provider.NewAuto(provider.Options{
			Client:       m.Client,
			Logger:       m.logger(),
			FetchTimeout: m.FetchTimeout,
		})
	}
	return m.provider
}

// ListVersions returns every version in the manifest.
func (m *Manager) ListVersions(ctx context.Context) ([]manifest.VersionSummary, error) {
	vm, err := m.Provider().FetchVersionList(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("fetching version manifest: %w", err)
	}
	return vm.Versions, nil
}

// LatestVersion returns the id of the newest release or snapshot.
func (m *Manager) LatestVersion(ctx context.Context, kind manifest.VersionType) (string, error) {
	vm, err := m.Provider().FetchVersionList(ctx, "")
	if err != nil {
		return "", fmt.Errorf("fetching version manifest: %w", err)
	}
	return vm.LatestID(kind)
}

// VersionDetails resolves the full descriptor of id.
func (m *Manager) VersionDetails(ctx context.Context, id string) (*manifest.VersionDescriptor, error) {
	return m.resolver().ResolveVersion(ctx, id, m.Provider())
}

// DownloadGame runs every stage for opts.Version in order. The first
// failing stage aborts the call; files already in place are kept and are
// skipped on the next run.
func (m *Manager) DownloadGame(ctx context.Context, opts Options) error {
	if opts.Version == "" {
		return errors.New("no version given")
	}
	fs, err := m.filesystem(opts)
	if err != nil {
		return err
	}

	p := opts.Provider
	if p == nil {
		p = m.Provider()
	}

	run := &download{
		m:      m,
		opts:   opts,
		fs:     fs,
		p:      p,
		env:    m.env(),
		log:    m.logger().With(zap.String("version", opts.Version), zap.String("provider", p.Name())),
		engine: m.newEngine(fs),
		files:  make(map[string]lock.FileHash),
	}
	return run.all(ctx)
}

func (m *Manager) filesystem(opts Options) (billy.Filesystem, error) {
	if opts.FS != nil {
		// Workers share the filesystem; caller-supplied ones may not be
		// safe for concurrent use.
		return syncfs.New(opts.FS), nil
	}
	if opts.Destination == "" {
		return nil, errors.New("no destination given")
	}
	if err := os.MkdirAll(opts.Destination, 0o755); err != nil {
		return nil, fmt.Errorf("creating destination %s: %w", opts.Destination, err)
	}
	return osfs.New(opts.Destination), nil
}

func (m *Manager) newEngine(fs billy.Filesystem) *fetch.Engine {
	return &fetch.Engine{
		Client:     m.Client,
		FS:         fs,
		Logger:     m.logger().Named("fetch"),
		Timeout:    m.Timeout,
		RetryCount: m.RetryCount,
		Sleep:      m.Sleep,
	}
}

func (m *Manager) resolver() *manifest.Resolver {
	return &manifest.Resolver{
		Fetcher: &manifest.Fetcher{Client: m.Client, Timeout: m.FetchTimeout},
		Logger:  m.logger().Named("manifest"),
	}
}

func (m *Manager) env() manifest.Environment {
	if m.Env == (manifest.Environment{}) {
		return manifest.CurrentEnvironment()
	}
	return m.Env
}

func (m *Manager) logger() *zap.Logger {
	if m.Logger == nil {
		return zap.NewNop()
	}
	return m.Logger
}

// download is the state of one DownloadGame call.
type download struct {
	m      *Manager
	opts   Options
	fs     billy.Filesystem
	p      provider.Provider
	env    manifest.Environment
	log    *zap.Logger
	engine *fetch.Engine

	// files accumulates every file this download is responsible for and
	// becomes the install record once all stages succeed.
	files map[string]lock.FileHash

	stage      Stage
	stageStart time.Time
	stageBytes int64
}

func (d *download) all(ctx context.Context) error {
	d.begin(StageManifest, 1)
	desc, err := d.m.resolver().ResolveVersion(ctx, d.opts.Version, d.p)
	if err != nil {
		return err
	}

	d.begin(StageGameJar, 1)
	if err := d.gameJar(ctx, desc); err != nil {
		return err
	}

	if d.opts.IncludeLibraries && len(desc.Libraries) > 0 {
		d.begin(StageLibraries, len(desc.Libraries))
		if err := d.libraries(ctx, desc); err != nil {
			return err
		}
	}

	if d.opts.IncludeAssets {
		d.begin(StageAssets, 1)
		if err := d.assets(ctx, desc); err != nil {
			return err
		}
	}

	d.begin(StageLogging, 1)
	if err := d.logging(ctx, desc); err != nil {
		return err
	}

	if err := d.record(desc); err != nil {
		return err
	}

	d.begin(StageComplete, 1)
	d.report(1, 1)
	d.log.Info("download complete", zap.Int64("bytes", d.engine.BytesWritten()))
	return nil
}

func (d *download) gameJar(ctx context.Context, desc *manifest.VersionDescriptor) error {
	e, err := gameJarEntry(ctx, desc, d.p)
	if err != nil {
		return err
	}
	return d.schedule(ctx, []entry{e}, 1)
}

func (d *download) libraries(ctx context.Context, desc *manifest.VersionDescriptor) error {
	entries, err := libraryEntries(ctx, desc, d.p, d.env, d.log)
	if err != nil {
		return err
	}
	return d.schedule(ctx, entries, d.concurrency(ctx))
}

func (d *download) assets(ctx context.Context, desc *manifest.VersionDescriptor) error {
	idxEntry, ok, err := assetIndexEntry(ctx, desc, d.p)
	if err != nil || !ok {
		return err
	}

	d.track(idxEntry)
	if !layout.Complete(d.fs, idxEntry.Path, -1, nil) {
		if err := d.engine.Download(ctx, idxEntry.task(d.opts.CheckIntegrity)); err != nil {
			return fmt.Errorf("downloading asset index %s: %w", desc.AssetIndex.ID, err)
		}
	}

	idx, err := manifest.ReadAssetIndex(d.fs, idxEntry.Path)
	if err != nil {
		return err
	}
	entries, err := assetEntries(idx, d.p)
	if err != nil {
		return err
	}
	return d.schedule(ctx, entries, d.concurrency(ctx))
}

func (d *download) logging(ctx context.Context, desc *manifest.VersionDescriptor) error {
	e, ok, err := loggingEntry(ctx, desc, d.p)
	if err != nil || !ok {
		return err
	}
	return d.schedule(ctx, []entry{e}, 1)
}

// schedule downloads the entries that are not already complete.
func (d *download) schedule(ctx context.Context, entries []entry, n int) error {
	d.track(entries...)
	tasks, skipped := pending(d.fs, entries, d.opts.CheckIntegrity)
	d.log.Info("stage planned",
		zap.Stringer("stage", d.stage),
		zap.Int("files", len(entries)),
		zap.Int("skipped", skipped),
		zap.Int("concurrency", n))

	return scheduler.Run(ctx, tasks, n, d.engine, d.report)
}

func (d *download) track(entries ...entry) {
	for _, e := range entries {
		d.files[e.Path] = lock.FileHash{Size: e.Size, SHA1: e.SHA1}
	}
}

// record writes the install record next to the client jar.
func (d *download) record(desc *manifest.VersionDescriptor) error {
	r := &lock.Record{
		Version:     1,
		ID:          desc.ID,
		Provider:    d.p.Name(),
		InstalledAt: time.Now().UTC(),
		Verified:    d.opts.CheckIntegrity,
		Files:       d.files,
	}
	if err := lock.Save(d.fs, lock.Path(desc.ID), r); err != nil {
		return fmt.Errorf("writing install record: %w", err)
	}
	return nil
}

func (d *download) concurrency(ctx context.Context) int {
	if d.opts.Concurrency > 0 {
		return d.opts.Concurrency
	}
	return d.p.ConcurrencyHint(ctx)
}

func (d *download) begin(s Stage, total int) {
	d.stage = s
	d.stageStart = time.Now()
	d.stageBytes = d.engine.BytesWritten()
	d.log.Debug("stage started", zap.Stringer("stage", s))
	d.report(0, total)
}

func (d *download) report(completed, total int) {
	if d.opts.OnProgress == nil {
		return
	}
	var speed float64
	if elapsed := time.Since(d.stageStart).Seconds(); elapsed > 0 {
		speed = float64(d.engine.BytesWritten()-d.stageBytes) / elapsed
	}
	d.opts.OnProgress(Progress{
		Stage:     d.stage,
		Label:     d.stage.Label(),
		Completed: completed,
		Total:     total,
		Speed:     speed,
	})
}
