package rulepack

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perr "taglint/internal/platform/errors"
	"taglint/internal/platform/testkit"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if c.Version != SupportedVersion {
		t.Fatalf("version = %d", c.Version)
	}
	if c.KnownRoads.Len() != 28 {
		t.Fatalf("known roads = %d, want 28", c.KnownRoads.Len())
	}
	for _, v := range []string{"motorway", "trunk", "primary", "secondary", "tertiary"} {
		if !c.MajorRoads.Has(v) {
			t.Fatalf("major missing %q", v)
		}
	}
	if c.MinorRoads.Len() != 3 || !c.MinorRoads.Has("living_street") {
		t.Fatalf("unexpected minor roads: %v", c.MinorRoads.Values())
	}
	if c.KnownRoads.Has("road") {
		t.Fatalf("road must not be a known subtype")
	}
	if !c.KnownPlaces.Has("hamlet") || !c.CapitalPlaces.Has("city") {
		t.Fatalf("place lists incomplete")
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"bad yaml":    "version: [",
		"bad version": "version: 7\nhighway: {known: [a]}\nplace: {known: [b]}",
		"empty known": "version: 1\nplace: {known: [b]}",
		"major outside known": `version: 1
highway: {major: [motorway, autobahn], known: [motorway]}
place: {known: [city]}`,
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		} else if perr.CodeOf(err) != perr.ErrorCodeValidation {
			t.Fatalf("%s: code = %v, want validation", name, perr.CodeOf(err))
		}
	}
}

func TestParse_DedupAndTrim(t *testing.T) {
	c, err := Parse([]byte("version: 1\nhighway: {known: [' a ', a, b, '']}\nplace: {known: [x]}"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := strings.Join(c.KnownRoads.Values(), ","); got != "a,b" {
		t.Fatalf("known = %q", got)
	}
}

func TestLoadFile_AndDocumentRoundTrip(t *testing.T) {
	c := MustLoad()
	doc, err := c.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	p := filepath.Join(t.TempDir(), "classes.yaml")
	if err := os.WriteFile(p, doc, 0o600); err != nil {
		t.Fatal(err)
	}
	c2, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if strings.Join(c2.KnownRoads.Values(), ",") != strings.Join(c.KnownRoads.Values(), ",") {
		t.Fatalf("round trip changed known roads")
	}

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if perr.CodeOf(err) != perr.ErrorCodeIO {
		t.Fatalf("missing file code = %v, want IO", perr.CodeOf(err))
	}
}

func TestDocument_RenderErrorIsCoded(t *testing.T) {
	testkit.Serial(t)
	boom := errors.New("boom")
	testkit.Swap(t, &marshalYAML, func(any) ([]byte, error) { return nil, boom })

	_, err := MustLoad().Document()
	if !perr.IsCode(err, perr.ErrorCodeUnknown) || !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	testkit.MustContain(t, err.Error(), "render classes")
}
