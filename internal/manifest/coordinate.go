package manifest

import (
	"fmt"
	"strings"
)

// Coordinate is a parsed library name of the form
// group:artifact:version[:classifier].
type Coordinate struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
}

// ParseCoordinate splits a colon-delimited library name.
func ParseCoordinate(name string) (Coordinate, error) {
	parts := strings.Split(name, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return Coordinate{}, fmt.Errorf("invalid library name '%s'; expected 'group:artifact:version[:classifier]'", name)
	}
	for _, p := range parts {
		if p == "" {
			return Coordinate{}, fmt.Errorf("invalid library name '%s'; empty segment", name)
		}
	}

	c := Coordinate{Group: parts[0], Artifact: parts[1], Version: parts[2]}
	if len(parts) == 4 {
		c.Classifier = parts[3]
	}
	return c, nil
}

// Segments returns the directory segments the coordinate maps to.
func (c Coordinate) Segments() []string {
	return []string{c.Group, c.Artifact, c.Version}
}

// FileName is the Maven file name of the artifact, optionally for a classifier.
func (c Coordinate) FileName(classifier string) string {
	if classifier == "" {
		classifier = c.Classifier
	}
	if classifier == "" {
		return c.Artifact + "-" + c.Version + ".jar"
	}
	return c.Artifact + "-" + c.Version + "-" + classifier + ".jar"
}

func (c Coordinate) String() string {
	s := c.Group + ":" + c.Artifact + ":" + c.Version
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	return s
}
