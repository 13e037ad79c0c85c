package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bianoble/mcfetch/internal/integrity"
	"github.com/bianoble/mcfetch/internal/lock"
	"github.com/bianoble/mcfetch/internal/manifest"
)

// Check compares an installed version tree against its descriptor without
// downloading anything. Files are hashed when opts.CheckIntegrity is set;
// otherwise only presence and size are compared. Assets are checked only
// when the asset index is already installed.
func (m *Manager) Check(ctx context.Context, opts Options) (*CheckResult, error) {
	if opts.Version == "" {
		return nil, errors.New("no version given")
	}
	fsys, err := m.filesystem(opts)
	if err != nil {
		return nil, err
	}
	p := opts.Provider
	if p == nil {
		p = m.Provider()
	}

	desc, err := m.resolver().ResolveVersion(ctx, opts.Version, p)
	if err != nil {
		return nil, err
	}

	var entries []entry
	jar, err := gameJarEntry(ctx, desc, p)
	if err != nil {
		return nil, err
	}
	entries = append(entries, jar)

	if opts.IncludeLibraries {
		libs, err := libraryEntries(ctx, desc, p, m.env(), m.logger())
		if err != nil {
			return nil, err
		}
		entries = append(entries, libs...)
	}

	if opts.IncludeAssets {
		idxEntry, ok, err := assetIndexEntry(ctx, desc, p)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, idxEntry)
			if idx, err := manifest.ReadAssetIndex(fsys, idxEntry.Path); err == nil {
				objects, err := assetEntries(idx, p)
				if err != nil {
					return nil, err
				}
				entries = append(entries, objects...)
			}
		}
	}

	if logEntry, ok, err := loggingEntry(ctx, desc, p); err != nil {
		return nil, err
	} else if ok {
		entries = append(entries, logEntry)
	}

	result := &CheckResult{Clean: true}
	if r, err := lock.Load(fsys, lock.Path(desc.ID)); err == nil {
		result.Record = r
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Checked++

		fi, err := fsys.Stat(e.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
				result.Missing = append(result.Missing, e.Path)
				result.Clean = false
				continue
			}
			return nil, fmt.Errorf("checking %s: %w", e.Path, err)
		}

		if e.Size > 0 && fi.Size() != e.Size {
			result.Drifted = append(result.Drifted, DriftEntry{
				Path:     e.Path,
				Expected: fmt.Sprintf("%d bytes", e.Size),
				Actual:   fmt.Sprintf("%d bytes", fi.Size()),
			})
			result.Clean = false
			continue
		}

		if opts.CheckIntegrity && e.SHA1 != "" {
			actual, err := integrity.SumFile(fsys, e.Path, integrity.SHA1)
			if err != nil {
				return nil, err
			}
			if !strings.EqualFold(actual, e.SHA1) {
				result.Drifted = append(result.Drifted, DriftEntry{Path: e.Path, Expected: e.SHA1, Actual: actual})
				result.Clean = false
			}
		}
	}
	return result, nil
}
