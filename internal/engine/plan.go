package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"github.com/bianoble/mcfetch/internal/fetch"
	"github.com/bianoble/mcfetch/internal/integrity"
	"github.com/bianoble/mcfetch/internal/layout"
	"github.com/bianoble/mcfetch/internal/manifest"
	"github.com/bianoble/mcfetch/internal/provider"
)

// entry is a file the descriptor says should exist under the destination.
type entry struct {
	Path string
	URL  string
	Size int64
	SHA1 string
}

func (e entry) check() *integrity.Check {
	if e.SHA1 == "" {
		return nil
	}
	return integrity.SHA1Check(e.SHA1)
}

func (e entry) task(verify bool) fetch.Task {
	t := fetch.Task{URL: e.URL, Destination: e.Path, Size: e.Size}
	if verify {
		t.Integrity = e.check()
	}
	return t
}

// complete reports whether e is already on disk. The digest is only
// compared when verify is set.
func (e entry) complete(fs billy.Filesystem, verify bool) bool {
	var c *integrity.Check
	if verify {
		c = e.check()
	}
	return layout.Complete(fs, e.Path, e.Size, c)
}

// pending returns tasks for the entries not yet on disk and the number
// skipped.
func pending(fs billy.Filesystem, entries []entry, verify bool) ([]fetch.Task, int) {
	var tasks []fetch.Task
	skipped := 0
	for _, e := range entries {
		if e.complete(fs, verify) {
			skipped++
			continue
		}
		tasks = append(tasks, e.task(verify))
	}
	return tasks, skipped
}

func gameJarEntry(ctx context.Context, desc *manifest.VersionDescriptor, p provider.Provider) (entry, error) {
	client := desc.Downloads.Client
	if client == nil {
		return entry{}, fmt.Errorf("no client download info found for version %s", desc.ID)
	}
	dest, err := layout.GameJar(desc.ID)
	if err != nil {
		return entry{}, err
	}
	return entry{Path: dest, URL: p.RewriteURL(ctx, client.URL), Size: client.Size, SHA1: client.SHA1}, nil
}

// libraryEntries lists the artifacts and natives that apply to env.
// Libraries whose name is not a valid coordinate are skipped.
func libraryEntries(ctx context.Context, desc *manifest.VersionDescriptor, p provider.Provider, env manifest.Environment, log *zap.Logger) ([]entry, error) {
	var entries []entry
	for _, lib := range desc.Libraries {
		if !lib.Applies(env) {
			continue
		}

		coord, err := manifest.ParseCoordinate(lib.Name)
		if err != nil {
			log.Warn("skipping library", zap.String("library", lib.Name), zap.Error(err))
			continue
		}

		if lib.Downloads != nil && lib.Downloads.Artifact != nil {
			a := lib.Downloads.Artifact
			dest, err := layout.Library(coord)
			if err != nil {
				return nil, fmt.Errorf("library %s: %w", lib.Name, err)
			}
			entries = append(entries, entry{Path: dest, URL: p.RewriteURL(ctx, a.URL), Size: a.Size, SHA1: a.SHA1})
		}

		if native, key, ok := lib.NativeClassifier(env); ok {
			dest, err := layout.Native(coord, key)
			if err != nil {
				return nil, fmt.Errorf("library %s: %w", lib.Name, err)
			}
			entries = append(entries, entry{Path: dest, URL: p.RewriteURL(ctx, native.URL), Size: native.Size, SHA1: native.SHA1})
		}
	}
	return entries, nil
}

func assetIndexEntry(ctx context.Context, desc *manifest.VersionDescriptor, p provider.Provider) (entry, bool, error) {
	ref := desc.AssetIndex
	if ref == nil {
		return entry{}, false, nil
	}
	dest, err := layout.AssetIndex(ref.ID)
	if err != nil {
		return entry{}, false, err
	}
	return entry{Path: dest, URL: p.RewriteURL(ctx, ref.URL), Size: ref.Size, SHA1: ref.SHA1}, true, nil
}

// assetEntries lists one entry per distinct object path. Names sharing a
// hash share a file.
func assetEntries(idx *manifest.AssetIndex, p provider.Provider) ([]entry, error) {
	seen := make(map[string]bool, len(idx.Objects))
	entries := make([]entry, 0, len(idx.Objects))
	for name, obj := range idx.Objects {
		loc, err := layout.ObjectLocation(obj.Hash)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", name, err)
		}
		dest, err := layout.Object(obj.Hash)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", name, err)
		}
		if seen[dest] {
			continue
		}
		seen[dest] = true

		urls := p.AssetObjectCandidates(loc)
		if len(urls) == 0 {
			return nil, fmt.Errorf("provider %s has no candidate url for asset %s", p.Name(), loc)
		}
		entries = append(entries, entry{Path: dest, URL: urls[0], Size: obj.Size, SHA1: obj.Hash})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func loggingEntry(ctx context.Context, desc *manifest.VersionDescriptor, p provider.Provider) (entry, bool, error) {
	if desc.Logging == nil || desc.Logging.Client == nil {
		return entry{}, false, nil
	}
	file := desc.Logging.Client.File
	dest, err := layout.LogConfig(file.URL)
	if err != nil {
		return entry{}, false, err
	}
	return entry{Path: dest, URL: p.RewriteURL(ctx, file.URL), Size: file.Size, SHA1: file.SHA1}, true, nil
}
