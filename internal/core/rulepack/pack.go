// Package rulepack loads the class lists the rule registry is built from.
// The lists ship embedded in classes.yaml and can be replaced by a file at startup
package rulepack

import (
	_ "embed"
	"os"
	"sort"
	"strings"

	perr "taglint/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

//go:embed classes.yaml
var embedded []byte

var marshalYAML = yaml.Marshal // seam for tests

// SupportedVersion is the only classes document version this build understands
const SupportedVersion = 1

type rawHighway struct {
	Major []string `yaml:"major"`
	Minor []string `yaml:"minor"`
	Known []string `yaml:"known"`
}

type rawPlace struct {
	Known   []string `yaml:"known"`
	Capital []string `yaml:"capital"`
}

type rawPack struct {
	Version int        `yaml:"version"`
	Highway rawHighway `yaml:"highway"`
	Place   rawPlace   `yaml:"place"`
}

// Set is an immutable string set with a stable listing order
type Set struct {
	m     map[string]struct{}
	order []string
}

func newSet(xs []string) Set {
	s := Set{m: make(map[string]struct{}, len(xs))}
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		if _, ok := s.m[x]; ok {
			continue
		}
		s.m[x] = struct{}{}
		s.order = append(s.order, x)
	}
	return s
}

// Has reports whether v is a member
func (s Set) Has(v string) bool {
	_, ok := s.m[v]
	return ok
}

// Len returns the member count
func (s Set) Len() int { return len(s.order) }

// Values returns members in document order
func (s Set) Values() []string { return append([]string(nil), s.order...) }

// Classes holds the class lists the rule sets consult
type Classes struct {
	Version int

	MajorRoads Set
	MinorRoads Set
	KnownRoads Set

	KnownPlaces   Set
	CapitalPlaces Set
}

// Load returns the classes from the embedded classes.yaml
func Load() (Classes, error) {
	return Parse(embedded)
}

// LoadFile returns the classes from a YAML file on disk
func LoadFile(path string) (Classes, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Classes{}, perr.Wrapf(err, perr.ErrorCodeIO, "rulepack: read %s", path)
	}
	c, err := Parse(b)
	if err != nil {
		return Classes{}, perr.WithOp(err, "rulepack.LoadFile")
	}
	return c, nil
}

// MustLoad is Load for callers that treat a broken embedded document as a build bug
func MustLoad() Classes {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and validates a classes document
func Parse(b []byte) (Classes, error) {
	var rp rawPack
	if err := yaml.Unmarshal(b, &rp); err != nil {
		return Classes{}, perr.Wrap(err, perr.ErrorCodeValidation, "rulepack: parse classes")
	}
	if rp.Version != SupportedVersion {
		return Classes{}, perr.Newf(perr.ErrorCodeValidation,
			"rulepack: unsupported classes version %d (want %d)", rp.Version, SupportedVersion)
	}

	c := Classes{
		Version:       rp.Version,
		MajorRoads:    newSet(rp.Highway.Major),
		MinorRoads:    newSet(rp.Highway.Minor),
		KnownRoads:    newSet(rp.Highway.Known),
		KnownPlaces:   newSet(rp.Place.Known),
		CapitalPlaces: newSet(rp.Place.Capital),
	}
	if c.KnownRoads.Len() == 0 {
		return Classes{}, perr.WithField(perr.New(perr.ErrorCodeValidation, "rulepack: empty list"), "highway.known")
	}
	if c.KnownPlaces.Len() == 0 {
		return Classes{}, perr.WithField(perr.New(perr.ErrorCodeValidation, "rulepack: empty list"), "place.known")
	}

	// major/minor classes outside the known list would be flagged twice
	for _, name := range []struct {
		field string
		set   Set
	}{{"highway.major", c.MajorRoads}, {"highway.minor", c.MinorRoads}} {
		if missing := notIn(name.set, c.KnownRoads); len(missing) > 0 {
			return Classes{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation,
				"rulepack: classes not in highway.known: %s", strings.Join(missing, ",")), name.field)
		}
	}
	return c, nil
}

func notIn(s, in Set) []string {
	var out []string
	for _, v := range s.order {
		if !in.Has(v) {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Document renders the classes back into the YAML shape they were loaded from
func (c Classes) Document() ([]byte, error) {
	rp := rawPack{
		Version: c.Version,
		Highway: rawHighway{
			Major: c.MajorRoads.Values(),
			Minor: c.MinorRoads.Values(),
			Known: c.KnownRoads.Values(),
		},
		Place: rawPlace{
			Known:   c.KnownPlaces.Values(),
			Capital: c.CapitalPlaces.Values(),
		},
	}
	b, err := marshalYAML(rp)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "rulepack: render classes")
	}
	return b, nil
}
