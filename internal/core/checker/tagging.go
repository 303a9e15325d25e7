package checker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"taglint/internal/core/feature"
	"taglint/internal/core/grammar"
	"taglint/internal/core/summary"
)

// TaggingClass is the class name tagging hygiene defects are reported under
const TaggingClass = "tagging"

// Tagging hygiene categories
const (
	CategoryFixme            = "fixme"
	CategoryKeyWithSpace     = "key_with_space"
	CategoryEmptyKey         = "empty_k"
	CategoryEmptyValue       = "empty_v"
	CategoryUnusualCharacter = "unusual_character"
	CategoryMisspelledKey    = "misspelled_key"
)

// Key length bounds outside which a key is reported as misspelled
const (
	MinKeyLength = 3
	MaxKeyLength = 50
)

// tagCheck reports whether a single tag is a defect for its category
type tagCheck struct {
	category string
	bad      func(feature.Tag) bool
}

// Tagging runs class-agnostic hygiene checks over every tag of every feature
type Tagging struct {
	checks []tagCheck
	max    int
}

// NewTagging creates the tagging hygiene checker
func NewTagging() *Tagging {
	return &Tagging{
		checks: []tagCheck{
			{CategoryFixme, isFixmeKey},
			{CategoryKeyWithSpace, func(t feature.Tag) bool { return strings.IndexFunc(t.Key, unicode.IsSpace) >= 0 }},
			{CategoryEmptyKey, func(t feature.Tag) bool { return t.Key == "" }},
			{CategoryEmptyValue, func(t feature.Tag) bool { return t.Key != "" && t.Value == "" }},
			{CategoryUnusualCharacter, func(t feature.Tag) bool { return !grammar.CharactersOK(t.Key, t.Value) }},
			{CategoryMisspelledKey, badKeyLength},
		},
		max: summary.MaxFieldLength,
	}
}

// Categories returns the hygiene categories in evaluation order
func (c *Tagging) Categories() []string {
	out := make([]string, len(c.checks))
	for i, chk := range c.checks {
		out[i] = chk.category
	}
	return out
}

// Check runs each hygiene check over all tags, check by check, emitting one defect per offending tag
func (c *Tagging) Check(f feature.Feature, emit Emit) error {
	for _, chk := range c.checks {
		for _, t := range f.Tags {
			if !chk.bad(t) {
				continue
			}
			other := summary.Tags(f.Tags, t.Key, c.max)
			d := newDefect(f, TaggingClass, chk.category, t.Key, other)
			v := t.Value
			d.FocusValue = &v
			if err := emit(d); err != nil {
				return err
			}
		}
	}
	return nil
}

func isFixmeKey(t feature.Tag) bool {
	switch t.Key {
	case "fixme", "FIXME", "todo":
		return true
	}
	return false
}

// badKeyLength flags keys of at most two or more than MaxKeyLength characters; empty keys are empty_k
func badKeyLength(t feature.Tag) bool {
	if t.Key == "" {
		return false
	}
	n := utf8.RuneCountInString(t.Key)
	return n < MinKeyLength || n > MaxKeyLength
}
