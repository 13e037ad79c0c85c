package manifest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrVersionNotFound matches any *VersionNotFoundError.
var ErrVersionNotFound = errors.New("version not found")

// VersionNotFoundError is returned when an id is absent from the manifest.
type VersionNotFoundError struct {
	ID string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %s not found in manifest", e.ID)
}

func (e *VersionNotFoundError) Is(target error) bool {
	return target == ErrVersionNotFound
}

// Source is the part of a provider the resolver needs.
type Source interface {
	FetchVersionList(ctx context.Context, id string) (*VersionManifest, error)
	RewriteURL(ctx context.Context, base string) string
}

// Resolver turns a version id into its full descriptor. Nothing is cached:
// every call fetches the manifest again through the source it is given.
type Resolver struct {
	Fetcher *Fetcher
	Logger  *zap.Logger
}

// ResolveVersion fetches the manifest from src, finds id and fetches the
// descriptor from the rewritten summary URL.
func (r *Resolver) ResolveVersion(ctx context.Context, id string, src Source) (*VersionDescriptor, error) {
	log := r.logger()

	m, err := src.FetchVersionList(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching version manifest: %w", err)
	}

	summary, ok := m.Find(id)
	if !ok {
		return nil, &VersionNotFoundError{ID: id}
	}

	url := src.RewriteURL(ctx, summary.URL)
	log.Debug("fetching version descriptor", zap.String("version", id), zap.String("url", url))

	var desc VersionDescriptor
	if err := r.fetcher().JSON(ctx, url, &desc); err != nil {
		return nil, fmt.Errorf("fetching descriptor for %s: %w", id, err)
	}
	return &desc, nil
}

func (r *Resolver) fetcher() *Fetcher {
	if r.Fetcher == nil {
		return &Fetcher{}
	}
	return r.Fetcher
}

func (r *Resolver) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
