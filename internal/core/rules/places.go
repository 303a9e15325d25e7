package rules

import (
	"taglint/internal/core/feature"
	"taglint/internal/core/grammar"
	"taglint/internal/core/rulepack"
)

// Place gating key and place rule categories
const (
	PlaceKey = "place"

	CategoryPlaceUnknown     = "unknown"
	CategoryPlaceNameMissing = "name_missing"
	CategoryPlacePopulation  = "population"
	CategoryPlaceCapital     = "capital"
)

// Place builds the rule set for features carrying PlaceKey
func Place(c rulepack.Classes) RuleSet {
	return RuleSet{
		{Name: "place_value_ok", Predicate: placeIn(c.KnownPlaces), FocusKey: PlaceKey, Category: CategoryPlaceUnknown},
		{Name: "place_has_name", Predicate: hasName, FocusKey: PlaceKey, Category: CategoryPlaceNameMissing},
		{Name: "population_ok", Predicate: value("population", grammar.NonNegativeIntOK), FocusKey: "population", Category: CategoryPlacePopulation},
		{Name: "capital_is_settlement", Predicate: capitalIn(c.CapitalPlaces), FocusKey: "capital", Category: CategoryPlaceCapital},
	}
}

func placeIn(known rulepack.Set) Predicate {
	return func(tags feature.Tags) bool {
		v, ok := tags.Get(PlaceKey)
		return !ok || known.Has(v)
	}
}

func hasName(tags feature.Tags) bool {
	return !tags.Has(PlaceKey) || tags.Has("name")
}

// IsCapital reports whether tags mark the capital of a country (capital=yes or capital=2)
func IsCapital(tags feature.Tags) bool {
	v, ok := tags.Get("capital")
	return ok && (v == "yes" || v == "2")
}

func capitalIn(allowed rulepack.Set) Predicate {
	return func(tags feature.Tags) bool {
		if !IsCapital(tags) {
			return true
		}
		v, _ := tags.Get(PlaceKey)
		return allowed.Has(v)
	}
}
