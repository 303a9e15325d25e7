package checker

import (
	"taglint/internal/core/feature"
	"taglint/internal/core/rules"
	"taglint/internal/core/summary"
	perr "taglint/internal/platform/errors"
)

// Rules runs a RuleSet over features that carry its gating key
type Rules struct {
	class string
	gate  string
	set   rules.RuleSet
	max   int
}

// NewRules creates a checker for class, evaluating set on features carrying gate
func NewRules(class, gate string, set rules.RuleSet) *Rules {
	return &Rules{class: class, gate: gate, set: set, max: summary.MaxFieldLength}
}

// Class returns the feature class name this checker reports under
func (c *Rules) Class() string { return c.class }

// RuleSet returns the checks in evaluation order
func (c *Rules) RuleSet() rules.RuleSet { return c.set }

// Applies reports whether f carries the gating key
func (c *Rules) Applies(f feature.Feature) bool { return f.Tags.Has(c.gate) }

// Check evaluates every check and emits one defect per failure, in rule order.
// Features without the gating key are skipped, not flagged
func (c *Rules) Check(f feature.Feature, emit Emit) error {
	if !c.Applies(f) {
		return nil
	}
	if k, dup := f.Tags.DuplicateKey(); dup {
		return perr.WithField(perr.Newf(perr.ErrorCodeInvalidArgument,
			"feature %d: duplicate tag key", f.ID), k)
	}
	for _, chk := range c.set {
		if chk.Predicate(f.Tags) {
			continue
		}
		other := summary.Tags(f.Tags, chk.FocusKey, c.max)
		if err := emit(newDefect(f, c.class, chk.Category, chk.FocusKey, other)); err != nil {
			return err
		}
	}
	return nil
}
