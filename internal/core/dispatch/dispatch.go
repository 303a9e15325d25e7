// Package dispatch routes features to the checkers for their classes and forwards defects to a sink
package dispatch

import (
	"context"

	"taglint/internal/core/checker"
	"taglint/internal/core/feature"
	"taglint/internal/core/rulepack"
	"taglint/internal/core/rules"
	perr "taglint/internal/platform/errors"
)

// Class is the closed set of feature classes a checker exists for
type Class uint8

const (
	// ClassRoad is a line carrying highway
	ClassRoad Class = iota
	// ClassPlace is a point or area carrying place
	ClassPlace
	// ClassTagging applies to every feature
	ClassTagging
)

// Class names double as destination prefixes
const (
	RoadClassName  = "highway"
	PlaceClassName = "places"
)

// String returns the class name used in destination names
func (c Class) String() string {
	switch c {
	case ClassRoad:
		return RoadClassName
	case ClassPlace:
		return PlaceClassName
	case ClassTagging:
		return checker.TaggingClass
	default:
		return "unknown"
	}
}

// Classes returns the classes f belongs to, in checking order
func Classes(f feature.Feature) []Class {
	out := make([]Class, 0, 3)
	switch f.Kind {
	case feature.KindLine:
		if f.Tags.Has(rules.RoadKey) {
			out = append(out, ClassRoad)
		}
	case feature.KindPoint, feature.KindArea:
		if f.Tags.Has(rules.PlaceKey) {
			out = append(out, ClassPlace)
		}
	}
	return append(out, ClassTagging)
}

// Sink accepts defects in the order they are produced
type Sink interface {
	Write(ctx context.Context, d checker.Defect) error
}

// SinkFunc adapts a function into a Sink
type SinkFunc func(ctx context.Context, d checker.Defect) error

// Write implements Sink
func (f SinkFunc) Write(ctx context.Context, d checker.Defect) error { return f(ctx, d) }

// Dispatcher owns one checker per class; it keeps no state between features
type Dispatcher struct {
	road    *checker.Rules
	place   *checker.Rules
	tagging *checker.Tagging
	sink    Sink
}

// New builds the checkers from classes and binds them to sink
func New(classes rulepack.Classes, sink Sink) *Dispatcher {
	if sink == nil {
		panic("dispatch: nil sink")
	}
	return &Dispatcher{
		road:    checker.NewRules(RoadClassName, rules.RoadKey, rules.Road(classes)),
		place:   checker.NewRules(PlaceClassName, rules.PlaceKey, rules.Place(classes)),
		tagging: checker.NewTagging(),
		sink:    sink,
	}
}

// Point checks a point feature
func (d *Dispatcher) Point(ctx context.Context, f feature.Feature) error {
	return d.expect(ctx, f, feature.KindPoint)
}

// Line checks a line feature
func (d *Dispatcher) Line(ctx context.Context, f feature.Feature) error {
	return d.expect(ctx, f, feature.KindLine)
}

// Area checks an area feature
func (d *Dispatcher) Area(ctx context.Context, f feature.Feature) error {
	return d.expect(ctx, f, feature.KindArea)
}

func (d *Dispatcher) expect(ctx context.Context, f feature.Feature, k feature.Kind) error {
	if f.Kind != k {
		return perr.Newf(perr.ErrorCodeInvalidArgument, "dispatch: feature %d is a %s, not a %s", f.ID, f.Kind, k)
	}
	return d.Dispatch(ctx, f)
}

// Dispatch runs every applicable checker on f and writes each defect to the sink as it is produced
func (d *Dispatcher) Dispatch(ctx context.Context, f feature.Feature) error {
	emit := func(df checker.Defect) error { return d.sink.Write(ctx, df) }
	for _, c := range Classes(f) {
		var err error
		switch c {
		case ClassRoad:
			err = d.road.Check(f, emit)
		case ClassPlace:
			err = d.place.Check(f, emit)
		case ClassTagging:
			err = d.tagging.Check(f, emit)
		}
		if err != nil {
			return perr.WithOp(err, "dispatch."+c.String())
		}
	}
	return nil
}

// Destination describes one category-named output a Dispatcher can write to
type Destination struct {
	Class    string
	Kind     string // set for place and tagging destinations, which are split per feature kind
	Category string
	FocusKey string
}

// Name is the destination name, e.g. highway_maxspeed, places_point_capital or tagging_point_fixme
func (dst Destination) Name() string {
	if dst.Kind != "" {
		return dst.Class + "_" + dst.Kind + "_" + dst.Category
	}
	return dst.Class + "_" + dst.Category
}

// Destinations lists every destination the checkers can produce, in a stable order
func (d *Dispatcher) Destinations() []Destination {
	var out []Destination
	for _, chk := range d.road.RuleSet() {
		out = append(out, Destination{Class: d.road.Class(), Category: chk.Category, FocusKey: chk.FocusKey})
	}
	for _, k := range []feature.Kind{feature.KindPoint, feature.KindArea} {
		for _, chk := range d.place.RuleSet() {
			out = append(out, Destination{Class: d.place.Class(), Kind: k.String(), Category: chk.Category, FocusKey: chk.FocusKey})
		}
	}
	for _, k := range []feature.Kind{feature.KindPoint, feature.KindLine, feature.KindArea} {
		for _, cat := range d.tagging.Categories() {
			out = append(out, Destination{Class: checker.TaggingClass, Kind: k.String(), Category: cat, FocusKey: "tag"})
		}
	}
	return out
}

// DestinationOf returns the destination a defect belongs to
func DestinationOf(df checker.Defect) Destination {
	dst := Destination{Class: df.Class, Category: df.Category, FocusKey: df.FocusKey}
	switch df.Class {
	case PlaceClassName:
		dst.Kind = df.Kind.String()
	case checker.TaggingClass:
		dst.Kind = df.Kind.String()
		dst.FocusKey = "tag"
	}
	return dst
}

// RuleSets exposes the rule sets by class name for listing
func (d *Dispatcher) RuleSets() map[string]rules.RuleSet {
	return map[string]rules.RuleSet{
		d.road.Class():  d.road.RuleSet(),
		d.place.Class(): d.place.RuleSet(),
	}
}

// TaggingCategories lists the hygiene categories in evaluation order
func (d *Dispatcher) TaggingCategories() []string { return d.tagging.Categories() }
