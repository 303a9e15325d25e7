// Package rules binds predicates over a feature's tags to output categories
package rules

import (
	"taglint/internal/core/feature"
	"taglint/internal/core/grammar"
	"taglint/internal/core/rulepack"
)

// Predicate reports whether tags are conformant (true means no defect)
type Predicate func(feature.Tags) bool

// Check binds a predicate to the attribute it concerns and the category its defects go to.
// FocusKey is empty when the check does not concern a single attribute
type Check struct {
	Name      string
	Predicate Predicate
	FocusKey  string
	Category  string
}

// RuleSet is an ordered list of checks; order only affects output order
type RuleSet []Check

// Categories returns the categories of rs in order
func (rs RuleSet) Categories() []string {
	out := make([]string, len(rs))
	for i, c := range rs {
		out[i] = c.Category
	}
	return out
}

// value adapts a (value, present) validator into a Predicate reading key
func value(key string, fn func(string, bool) bool) Predicate {
	return func(tags feature.Tags) bool {
		v, ok := tags.Get(key)
		return fn(v, ok)
	}
}

// Road gating key and road rule categories
const (
	RoadKey = "highway"

	CategoryLanes            = "lanes"
	CategoryNameFixme        = "name_fixme"
	CategoryOneway           = "oneway"
	CategoryMaxheight        = "maxheight"
	CategoryMaxspeed         = "maxspeed"
	CategoryNameMissingMajor = "name_missing_major"
	CategoryNameMissingMinor = "name_missing_minor"
	CategoryRoad             = "road"
	CategoryTypeUnknown      = "type_unknown"
)

// Road builds the rule set for features carrying RoadKey
func Road(c rulepack.Classes) RuleSet {
	return RuleSet{
		{Name: "lanes_ok", Predicate: value("lanes", grammar.LanesOK), FocusKey: "lanes", Category: CategoryLanes},
		{Name: "name_not_fixme", Predicate: value("name", grammar.NamePlausible), FocusKey: "name", Category: CategoryNameFixme},
		{Name: "oneway_ok", Predicate: value("oneway", grammar.OnewayOK), FocusKey: "oneway", Category: CategoryOneway},
		{Name: "maxheight_ok", Predicate: value("maxheight", grammar.MaxheightOK), FocusKey: "maxheight", Category: CategoryMaxheight},
		{Name: "maxspeed_ok", Predicate: value("maxspeed", grammar.MaxspeedOK), FocusKey: "maxspeed", Category: CategoryMaxspeed},
		{Name: "name_missing_major", Predicate: nameOrRefIn(c.MajorRoads), FocusKey: RoadKey, Category: CategoryNameMissingMajor},
		{Name: "name_missing_minor", Predicate: nameOrRefIn(c.MinorRoads), FocusKey: RoadKey, Category: CategoryNameMissingMinor},
		{Name: "highway_road", Predicate: notRoad, FocusKey: "", Category: CategoryRoad},
		{Name: "highway_unknown", Predicate: classIn(c.KnownRoads), FocusKey: RoadKey, Category: CategoryTypeUnknown},
	}
}

// nameOrRefIn passes when name or ref is present, or the road class is outside classes
func nameOrRefIn(classes rulepack.Set) Predicate {
	return func(tags feature.Tags) bool {
		if tags.Has("name") || tags.Has("ref") {
			return true
		}
		hw, ok := tags.Get(RoadKey)
		if !ok {
			return true
		}
		return !classes.Has(hw)
	}
}

func notRoad(tags feature.Tags) bool {
	hw, ok := tags.Get(RoadKey)
	return !ok || hw != "road"
}

// classIn passes when the road class is one of classes
func classIn(classes rulepack.Set) Predicate {
	return func(tags feature.Tags) bool {
		hw, ok := tags.Get(RoadKey)
		if !ok {
			return true
		}
		return classes.Has(hw)
	}
}
