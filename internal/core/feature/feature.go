// Package feature defines the tagged geographic entities the linter inspects
package feature

import (
	"github.com/paulmach/orb"
)

// Kind is the geometric kind of a Feature
type Kind uint8

const (
	// KindPoint is a single located node
	KindPoint Kind = iota
	// KindLine is an open or closed way
	KindLine
	// KindArea is a polygon, possibly assembled from several ways
	KindArea
)

// String returns the lowercase name used in destination names and logs
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindArea:
		return "area"
	default:
		return "unknown"
	}
}

// Tag is one key/value attribute pair, either side may be empty
type Tag struct {
	Key   string
	Value string
}

// Tags is an ordered tag list with unique keys
type Tags []Tag

// Get returns the value for key and whether the key is present
func (ts Tags) Get(key string) (string, bool) {
	for _, t := range ts {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present (any value, including empty)
func (ts Tags) Has(key string) bool {
	_, ok := ts.Get(key)
	return ok
}

// Len returns the number of tags
func (ts Tags) Len() int { return len(ts) }

// DuplicateKey returns the first key that occurs more than once, if any
func (ts Tags) DuplicateKey() (string, bool) {
	if len(ts) < 2 {
		return "", false
	}
	seen := make(map[string]struct{}, len(ts))
	for _, t := range ts {
		if _, ok := seen[t.Key]; ok {
			return t.Key, true
		}
		seen[t.Key] = struct{}{}
	}
	return "", false
}

// Feature is an identified geographic entity
// Geometry is owned by the producer and forwarded untouched into defect records
type Feature struct {
	ID       int64
	Kind     Kind
	Tags     Tags
	Geometry orb.Geometry
}
