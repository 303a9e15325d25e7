package geojson

import (
	"testing"

	"taglint/internal/core/feature"
	perr "taglint/internal/platform/errors"

	"github.com/paulmach/orb"
	ogeo "github.com/paulmach/orb/geojson"
)

func TestParseID(t *testing.T) {
	cases := []struct {
		in   any
		want int64
		ok   bool
	}{
		{float64(12), 12, true},
		{float64(-3), -3, true},
		{12.5, 0, false},
		{"123", 123, true},
		{" 77 ", 77, true},
		{"n5", 5, true},
		{"w6", 6, true},
		{"r7", 7, true},
		{"a8", 8, true},
		{"way/9", 9, true},
		{"relation/10", 10, true},
		{"node/", 0, false},
		{"x1", 0, false},
		{"", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, c := range cases {
		got, ok := parseID(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("parseID(%#v) = %d, %v; want %d, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		g    orb.Geometry
		want feature.Kind
		ok   bool
	}{
		{orb.Point{}, feature.KindPoint, true},
		{orb.MultiPoint{}, feature.KindPoint, true},
		{orb.LineString{}, feature.KindLine, true},
		{orb.MultiLineString{}, feature.KindLine, true},
		{orb.Polygon{}, feature.KindArea, true},
		{orb.MultiPolygon{}, feature.KindArea, true},
		{orb.Collection{}, 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		got, ok := KindOf(c.g)
		if got != c.want || ok != c.ok {
			t.Fatalf("KindOf(%T) = %v, %v", c.g, got, ok)
		}
	}
}

func TestConvert_UnsupportedGeometry(t *testing.T) {
	gf := ogeo.NewFeature(orb.Collection{orb.Point{}})
	_, err := Convert(gf, 1)
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestConvert_OsmIDProperty(t *testing.T) {
	gf := ogeo.NewFeature(orb.LineString{{0, 0}, {1, 1}})
	gf.Properties["osm_id"] = float64(123)
	gf.Properties["highway"] = "track"
	gf.Properties["surface"] = map[string]any{"a": "b"}
	f, err := Convert(gf, 1)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if f.ID != 123 || f.Tags.Has("osm_id") {
		t.Fatalf("feature = %+v", f)
	}
	if v, _ := f.Tags.Get("surface"); v != `{"a":"b"}` {
		t.Fatalf("nested property rendered as %q", v)
	}
}

func TestConvert_EmptyValueKept(t *testing.T) {
	gf := ogeo.NewFeature(orb.Point{})
	gf.Properties[""] = "x"
	gf.Properties["name"] = ""
	f, err := Convert(gf, 4)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if f.ID != 4 || f.Tags.Len() != 2 || f.Tags[0].Key != "" {
		t.Fatalf("feature = %+v", f)
	}
	if v, ok := f.Tags.Get("name"); !ok || v != "" {
		t.Fatalf("empty value lost")
	}
}
