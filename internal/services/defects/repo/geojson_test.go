package repo

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	perr "taglint/internal/platform/errors"
	"taglint/internal/platform/testkit"
)

func readCollection(t *testing.T, path string) *geojson.FeatureCollection {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		t.Fatalf("decode %s: %v\n%s", path, err, b)
	}
	return fc
}

func TestGeoJSON_OneCollectionPerDestination(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewGeoJSON(dir)
	ctx := context.Background()
	if err := w.Open(ctx, testDsts); err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, id := range []string{"1", "2"} {
		if err := w.Write(ctx, maxspeedRecord(id, "fast")); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	fc := readCollection(t, w.Path("highway_maxspeed"))
	if len(fc.Features) != 2 {
		t.Fatalf("features = %d", len(fc.Features))
	}
	f := fc.Features[1]
	if f.ID != "2" || f.Properties["maxspeed"] != "fast" || f.Properties["kind"] != "line" {
		t.Fatalf("feature = %+v", f)
	}
	if _, ok := f.Geometry.(orb.LineString); !ok {
		t.Fatalf("geometry = %T", f.Geometry)
	}

	// destinations with no records still get a valid empty collection
	if empty := readCollection(t, w.Path("highway_road")); len(empty.Features) != 0 {
		t.Fatalf("road features = %d", len(empty.Features))
	}

	if err := w.Write(ctx, maxspeedRecord("3", "x")); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("write after close err = %v", err)
	}
}

func TestGeoJSON_CreateFailure(t *testing.T) {
	testkit.Swap(t, &createFile, func(string) (io.WriteCloser, error) { return nil, errors.New("disk full") })

	w := NewGeoJSON(t.TempDir())
	err := w.Open(context.Background(), testDsts)
	if !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("err = %v", err)
	}
}
