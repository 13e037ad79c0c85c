// Package layout maps descriptor entries onto the on-disk tree under a
// destination root. All paths are slash-separated and relative to the root.
package layout

import (
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/bianoble/mcfetch/internal/integrity"
	"github.com/bianoble/mcfetch/internal/manifest"
	"github.com/bianoble/mcfetch/internal/sandbox"
)

const (
	VersionsDir   = "versions"
	LibrariesDir  = "libraries"
	NativesDir    = "natives"
	IndexesDir    = "assets/indexes"
	ObjectsDir    = "assets/objects"
	LogConfigsDir = "assets/log_configs"

	defaultLogConfig = "client.xml"
)

// GameJar returns versions/<id>/<id>.jar.
func GameJar(versionID string) (string, error) {
	return sandbox.Join(VersionsDir, versionID, versionID+".jar")
}

// Library returns libraries/<group>/<artifact>/<version>/<file>.jar.
func Library(c manifest.Coordinate) (string, error) {
	segs := append([]string{LibrariesDir}, c.Segments()...)
	return sandbox.Join(append(segs, c.FileName(""))...)
}

// Native returns libraries/<group>/<artifact>/<version>/natives/<file>.jar
// for the given classifier key.
func Native(c manifest.Coordinate, classifier string) (string, error) {
	segs := append([]string{LibrariesDir}, c.Segments()...)
	return sandbox.Join(append(segs, NativesDir, c.FileName(classifier))...)
}

// AssetIndex returns assets/indexes/<id>.json.
func AssetIndex(id string) (string, error) {
	return sandbox.Join("assets", "indexes", id+".json")
}

// ObjectLocation is the sharded location of a content hash, <hh>/<hash>.
// It is a pure function of the hash: equal hashes share one stored file.
func ObjectLocation(hash string) (string, error) {
	if len(hash) < 2 {
		return "", fmt.Errorf("invalid asset hash '%s'", hash)
	}
	return sandbox.Join(hash[:2], hash)
}

// Object returns assets/objects/<hh>/<hash>.
func Object(hash string) (string, error) {
	loc, err := ObjectLocation(hash)
	if err != nil {
		return "", err
	}
	return path.Join(ObjectsDir, loc), nil
}

// LogConfig returns assets/log_configs/<file>, where file is the last
// segment of url or client.xml when the url has none.
func LogConfig(url string) (string, error) {
	name := url
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		name = defaultLogConfig
	}
	return sandbox.Join("assets", "log_configs", name)
}

// Complete reports whether a regular file of the expected size exists at p.
// A negative size skips the size comparison. When check is non-nil the
// file must also match the digest.
func Complete(fs billy.Filesystem, p string, size int64, check *integrity.Check) bool {
	fi, err := fs.Stat(p)
	if err != nil || !fi.Mode().IsRegular() {
		return false
	}
	if size >= 0 && fi.Size() != size {
		return false
	}
	if check != nil && check.Hash != "" {
		return integrity.Verify(fs, p, *check) == nil
	}
	return true
}
