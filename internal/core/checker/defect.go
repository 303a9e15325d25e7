// Package checker evaluates rule sets and tagging hygiene checks against features and materializes defects
package checker

import (
	"taglint/internal/core/feature"

	"github.com/paulmach/orb"
)

// Defect is one failed check on one feature
// FocusValue is nil when a rule check has no focus key or the feature lacks it;
// tagging defects always carry the offending tag's value
type Defect struct {
	FeatureID  int64
	Kind       feature.Kind
	Geometry   orb.Geometry
	Class      string
	Category   string
	FocusKey   string
	FocusValue *string
	OtherTags  string
}

// Emit receives defects one at a time as they are produced; an error aborts the feature
type Emit func(Defect) error

func newDefect(f feature.Feature, class, category, focusKey string, other string) Defect {
	d := Defect{
		FeatureID: f.ID,
		Kind:      f.Kind,
		Geometry:  f.Geometry,
		Class:     class,
		Category:  category,
		FocusKey:  focusKey,
		OtherTags: other,
	}
	if focusKey != "" {
		if v, ok := f.Tags.Get(focusKey); ok {
			d.FocusValue = &v
		}
	}
	return d
}
