// Package domain defines the types and interfaces for the defects service
package domain

import "github.com/paulmach/orb"

// Destination is one named output collection (a file, a table)
type Destination struct {
	Name string
	// Column names the focus field; empty when the destination carries none
	Column string
}

// Record is one persisted defect row
type Record struct {
	Destination string
	RunID       string
	FeatureID   string
	Kind        string
	Column      string
	Focus       *string // nil when the feature lacks the focus key
	Tags        string
	Geometry    orb.Geometry
}

// Fixed column names every destination carries
const (
	ColRunID     = "run_id"
	ColFeatureID = "feature_id"
	ColKind      = "kind"
	ColTags      = "tags"
	ColGeometry  = "geom"
)

// ValidName reports whether s is usable as a destination or column name:
// lowercase ascii letters, digits and underscores, not starting with a digit
func ValidName(s string) bool {
	if s == "" || len(s) > 63 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Reserved reports whether col clashes with one of the fixed columns
func Reserved(col string) bool {
	switch col {
	case ColRunID, ColFeatureID, ColKind, ColTags, ColGeometry:
		return true
	}
	return false
}
