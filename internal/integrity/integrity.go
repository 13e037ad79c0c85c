// Package integrity computes and verifies content hashes of downloaded files.
package integrity

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// Algorithm names a digest used by download descriptors.
type Algorithm string

const (
	SHA1   Algorithm = "sha1"
	MD5    Algorithm = "md5"
	SHA256 Algorithm = "sha256"
)

var (
	// ErrUnsupportedAlgorithm is returned for digests other than sha1, md5 and sha256.
	ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

	// ErrMismatch matches any *MismatchError.
	ErrMismatch = errors.New("integrity check failed")
)

// Check is an expected digest for one file.
type Check struct {
	Algorithm Algorithm
	Hash      string
}

// SHA1Check is shorthand for the digest every game descriptor carries.
func SHA1Check(hash string) *Check {
	return &Check{Algorithm: SHA1, Hash: hash}
}

func (c Check) String() string {
	return string(c.Algorithm) + ":" + c.Hash
}

// ParseCheck parses the "algorithm:hash" notation, e.g. "sha1:2f4e...".
func ParseCheck(s string) (Check, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Check{}, fmt.Errorf("invalid checksum format '%s'; expected 'algorithm:hash' (e.g., 'sha1:abcdef...')", s)
	}
	alg := Algorithm(strings.ToLower(parts[0]))
	if _, err := alg.new(); err != nil {
		return Check{}, err
	}
	return Check{Algorithm: alg, Hash: parts[1]}, nil
}

func (a Algorithm) new() (hash.Hash, error) {
	switch a {
	case SHA1:
		return sha1.New(), nil
	case MD5:
		return md5.New(), nil
	case SHA256:
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("%w '%s'; must be one of: sha1, md5, sha256", ErrUnsupportedAlgorithm, a)
	}
}

// Sum streams r through the digest and returns the lowercase hex string.
func Sum(r io.Reader, alg Algorithm) (string, error) {
	h, err := alg.new()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hashing content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SumFile hashes the file at path on fs.
func SumFile(fs billy.Basic, path string, alg Algorithm) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return Sum(f, alg)
}

// Verify hashes the file at path and compares it with c, ignoring hex case.
func Verify(fs billy.Basic, path string, c Check) error {
	actual, err := SumFile(fs, path, c.Algorithm)
	if err != nil {
		return err
	}
	if !strings.EqualFold(actual, c.Hash) {
		return &MismatchError{Path: path, Algorithm: c.Algorithm, Expected: c.Hash, Actual: actual}
	}
	return nil
}

// MismatchError reports a file whose digest differs from the descriptor.
type MismatchError struct {
	Path      string
	Algorithm Algorithm
	Expected  string
	Actual    string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("integrity check failed for %s. Expected %s: %s, got %s", e.Path, e.Algorithm, e.Expected, e.Actual)
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}
