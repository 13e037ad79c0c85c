package provider

import (
	"context"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/bianoble/mcfetch/internal/manifest"
)

// DefaultMirrorRoot is the API root of the public BMCLAPI mirror.
const DefaultMirrorRoot = "https://bmclapi2.bangbang93.com"

// Rewrite maps URLs starting with Source onto Target.
type Rewrite struct {
	Source string
	Target string
}

// Mirror serves everything from one API root, rewriting official URLs by
// prefix.
type Mirror struct {
	root     string
	rewrites []Rewrite
	fetcher  *manifest.Fetcher
	logger   *zap.Logger
	numCPU   func() int
}

// NewMirror creates a mirror provider rooted at opts.MirrorRoot.
func NewMirror(opts Options) *Mirror {
	root := strings.TrimRight(opts.MirrorRoot, "/")
	if root == "" {
		root = DefaultMirrorRoot
	}
	return &Mirror{
		root:     root,
		rewrites: mirrorRewrites(root),
		fetcher:  opts.fetcher(),
		logger:   opts.logger().Named("mirror"),
		numCPU:   runtime.NumCPU,
	}
}

// mirrorRewrites is ordered: the first matching prefix wins.
func mirrorRewrites(root string) []Rewrite {
	return []Rewrite{
		{"https://bmclapi2.bangbang93.com", root},
		{"https://launchermeta.mojang.com", root},
		{"https://piston-meta.mojang.com", root},
		{"https://piston-data.mojang.com", root},
		{"https://launcher.mojang.com", root},
		{"https://libraries.minecraft.net", root + "/libraries"},
		{"https://files.minecraftforge.net/maven", root + "/maven"},
		{"https://maven.minecraftforge.net", root + "/maven"},
		{"https://maven.neoforged.net/releases/", root + "/maven/"},
		{"https://meta.fabricmc.net", root + "/fabric-meta"},
		{"https://maven.fabricmc.net", root + "/maven"},
	}
}

func (m *Mirror) Name() string { return "mirror" }

// Root returns the API root the mirror serves from.
func (m *Mirror) Root() string { return m.root }

// Rewrites returns a copy of the rewrite table in match order.
func (m *Mirror) Rewrites() []Rewrite {
	return append([]Rewrite(nil), m.rewrites...)
}

func (m *Mirror) VersionListURLs() []string {
	return []string{m.root + "/mc/game/version_manifest.json"}
}

func (m *Mirror) AssetObjectCandidates(location string) []string {
	return []string{m.root + "/assets/" + location}
}

func (m *Mirror) FetchVersionList(ctx context.Context, id string) (*manifest.VersionManifest, error) {
	return fetchFirst(ctx, m.fetcher, m.logger, m.VersionListURLs(), id)
}

// RewriteURL returns base with the first matching prefix replaced, or base
// unchanged when no prefix matches.
func (m *Mirror) RewriteURL(ctx context.Context, base string) string {
	for _, r := range m.rewrites {
		if strings.HasPrefix(base, r.Source) {
			return r.Target + base[len(r.Source):]
		}
	}
	return base
}

// ConcurrencyHint is twice the CPU count, never below six.
func (m *Mirror) ConcurrencyHint(ctx context.Context) int {
	return max(officialConcurrency, 2*m.numCPU())
}
