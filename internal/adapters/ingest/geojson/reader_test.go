package geojson

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taglint/internal/core/feature"
	perr "taglint/internal/platform/errors"
	"taglint/internal/platform/testkit"

	"github.com/paulmach/orb"
)

const ndjson = `{"type":"Feature","id":"w42","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]},"properties":{"name":"High St","highway":"secondary","maxspeed":"45 mph"}}
{"type":"Feature","geometry":{"type":"Point","coordinates":[2,3]},"properties":{"@id":"node/7","place":"town","population":1200}}
{"type":"Feature","id":9,"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]},"properties":{"building":"yes","levels":2.5,"roof":true}}
`

func readAll(t *testing.T, rd *Reader) []feature.Feature {
	t.Helper()
	var out []feature.Feature
	for {
		f, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, f)
	}
}

func open(t *testing.T, s string) *Reader {
	t.Helper()
	rd, err := NewReader(io.NopCloser(strings.NewReader(s)))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	t.Cleanup(func() { _ = rd.Close() })
	return rd
}

func TestReader_LineDelimited(t *testing.T) {
	got := readAll(t, open(t, ndjson))
	if len(got) != 3 {
		t.Fatalf("features = %d", len(got))
	}

	road := got[0]
	if road.ID != 42 || road.Kind != feature.KindLine {
		t.Fatalf("road = %+v", road)
	}
	// sorted by key
	if road.Tags[0].Key != "highway" || road.Tags[1].Key != "maxspeed" || road.Tags[2].Key != "name" {
		t.Fatalf("tags not sorted: %v", road.Tags)
	}
	if _, ok := road.Geometry.(orb.LineString); !ok {
		t.Fatalf("geometry = %T", road.Geometry)
	}

	town := got[1]
	if town.ID != 7 || town.Kind != feature.KindPoint {
		t.Fatalf("town = %+v", town)
	}
	if town.Tags.Has("@id") {
		t.Fatalf("@id must not become a tag")
	}
	if v, _ := town.Tags.Get("population"); v != "1200" {
		t.Fatalf("population = %q", v)
	}

	bld := got[2]
	if bld.ID != 9 || bld.Kind != feature.KindArea {
		t.Fatalf("building = %+v", bld)
	}
	if v, _ := bld.Tags.Get("levels"); v != "2.5" {
		t.Fatalf("levels = %q", v)
	}
	if v, _ := bld.Tags.Get("roof"); v != "true" {
		t.Fatalf("roof = %q", v)
	}
}

func TestReader_FeatureCollection(t *testing.T) {
	fc := `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "n1", "geometry": {"type": "MultiPoint", "coordinates": [[0,0]]}, "properties": {"amenity": "cafe"}},
    {"type": "Feature", "geometry": {"type": "MultiLineString", "coordinates": [[[0,0],[1,1]]]}, "properties": {"highway": "road"}}
  ]
}`
	rd := open(t, fc)
	got := readAll(t, rd)
	if len(got) != 2 {
		t.Fatalf("features = %d", len(got))
	}
	if got[0].ID != 1 || got[0].Kind != feature.KindPoint {
		t.Fatalf("first = %+v", got[0])
	}
	// no id anywhere: ordinal fallback
	if got[1].ID != 2 || got[1].Kind != feature.KindLine {
		t.Fatalf("second = %+v", got[1])
	}
	if records, features := rd.Stats(); records != 1 || features != 2 {
		t.Fatalf("stats = %d, %d", records, features)
	}
}

func TestReader_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(ndjson))
	_ = zw.Close()

	path := filepath.Join(t.TempDir(), "features.geojsonl.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	rd, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rd.Close()
	if got := readAll(t, rd); len(got) != 3 {
		t.Fatalf("features = %d", len(got))
	}
}

func TestReader_Stdin(t *testing.T) {
	testkit.Swap[io.ReadCloser](t, &stdin, io.NopCloser(strings.NewReader(ndjson)))
	rd, err := Open(Stdin)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := readAll(t, rd); len(got) != 3 {
		t.Fatalf("features = %d", len(got))
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.geojson"))
	if !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("err = %v", err)
	}
}

func TestReader_Empty(t *testing.T) {
	if got := readAll(t, open(t, "")); len(got) != 0 {
		t.Fatalf("features = %d", len(got))
	}
}

func TestReader_NullPropertyIsNotSticky(t *testing.T) {
	in := `{"type":"Feature","id":1,"geometry":{"type":"Point","coordinates":[0,0]},"properties":{"name":null}}
{"type":"Feature","id":2,"geometry":{"type":"Point","coordinates":[0,0]},"properties":{"name":"ok"}}`
	rd := open(t, in)

	_, err := rd.Next()
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
	if e, _ := perr.As(err); e.Field() != "name" {
		t.Fatalf("field = %q", e.Field())
	}
	if rd.Err() != nil {
		t.Fatalf("conversion error must not be sticky: %v", rd.Err())
	}
	f, err := rd.Next()
	if err != nil || f.ID != 2 {
		t.Fatalf("second feature: %+v, %v", f, err)
	}
	if _, err := rd.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("want EOF, got %v", err)
	}
	if rd.Err() != nil {
		t.Fatalf("EOF reported as stream error: %v", rd.Err())
	}
}

func TestReader_BadJSONIsSticky(t *testing.T) {
	rd := open(t, `{"type":"Feature",`)
	_, err := rd.Next()
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("err = %v", err)
	}
	if _, err2 := rd.Next(); err2 != err {
		t.Fatalf("error should be sticky, got %v", err2)
	}
	if rd.Err() != err {
		t.Fatalf("Err() = %v", rd.Err())
	}
}

func TestReader_UnsupportedType(t *testing.T) {
	rd := open(t, `{"type":"Point","coordinates":[0,0]}`)
	if _, err := rd.Next(); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}
