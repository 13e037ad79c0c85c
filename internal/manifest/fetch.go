package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/bianoble/mcfetch/internal/httpclient"
)

// DefaultFetchTimeout bounds a single manifest or descriptor fetch.
const DefaultFetchTimeout = 10 * time.Second

// Fetcher retrieves JSON documents over HTTP.
type Fetcher struct {
	Client  httpclient.Doer
	Timeout time.Duration // zero means DefaultFetchTimeout
}

// JSON fetches url and decodes the body into v.
func (f *Fetcher) JSON(ctx context.Context, url string, v any) error {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := httpclient.Get(ctx, f.Client, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}

// ReadAssetIndex parses an asset index previously written to fs.
func ReadAssetIndex(fs billy.Basic, path string) (*AssetIndex, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening asset index %s: %w", path, err)
	}
	defer f.Close()

	var idx AssetIndex
	if err := json.NewDecoder(f).Decode(&idx); err != nil {
		return nil, fmt.Errorf("parsing asset index %s: %w", path, err)
	}
	return &idx, nil
}
