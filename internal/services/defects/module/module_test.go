package module

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"taglint/internal/core/checker"
	"taglint/internal/core/dispatch"
	"taglint/internal/core/feature"
	"taglint/internal/platform/config"
	perr "taglint/internal/platform/errors"
	"taglint/internal/platform/store"
	"taglint/internal/platform/testkit"
	"taglint/internal/services/defects/repo"
)

func TestFromConfig_Defaults(t *testing.T) {
	o := FromConfig(config.New())
	if o.Output != OutputNDJSON || o.File != "-" || o.Dir != "taglint-out" || o.BatchSize != 500 {
		t.Fatalf("defaults = %+v", o)
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestFromConfig_Env(t *testing.T) {
	t.Setenv("TAGLINT_OUTPUT", "GeoJSON")
	t.Setenv("TAGLINT_OUTPUT_DIR", "/tmp/x")
	t.Setenv("TAGLINT_TABLE_PREFIX", "qa_")
	t.Setenv("TAGLINT_BATCH_SIZE", "50")
	t.Setenv("SERVICE_PGSQL_DBURL", "postgres://u@localhost/lint")

	o := FromConfig(config.New())
	if o.Output != OutputGeoJSON || o.Dir != "/tmp/x" || o.Prefix != "qa_" || o.BatchSize != 50 {
		t.Fatalf("opts = %+v", o)
	}
	if o.PGURL != "postgres://u@localhost/lint" || o.CHURL != "" {
		t.Fatalf("urls = %q %q", o.PGURL, o.CHURL)
	}
}

func TestValidate(t *testing.T) {
	ok := Options{Output: OutputNDJSON, File: "-", BatchSize: 500}
	cases := []struct {
		name  string
		edit  func(*Options)
		field string
	}{
		{"unknown output", func(o *Options) { o.Output = "shapefile" }, "TAGLINT_OUTPUT"},
		{"bad prefix", func(o *Options) { o.Prefix = "Bad-" }, "TAGLINT_TABLE_PREFIX"},
		{"geojson without dir", func(o *Options) { o.Output = OutputGeoJSON }, "TAGLINT_OUTPUT_DIR"},
		{"negative batch", func(o *Options) { o.BatchSize = -1 }, "TAGLINT_BATCH_SIZE"},
		{"batch over bind limit", func(o *Options) { o.BatchSize = repo.MaxBatchSize + 1 }, "TAGLINT_BATCH_SIZE"},
		{"pg without url", func(o *Options) { o.Output = OutputPG }, "SERVICE_PGSQL_DBURL"},
		{"ch without url", func(o *Options) { o.Output = OutputCH }, "SERVICE_CLICKHOUSE_DBURL"},
	}
	for _, c := range cases {
		o := ok
		c.edit(&o)
		err := o.Validate()
		if e, isErr := perr.As(err); !isErr || e.Code() != perr.ErrorCodeValidation || e.Field() != c.field {
			t.Fatalf("%s: err = %v", c.name, err)
		}
	}

	good := ok
	good.Prefix, good.BatchSize = "qa_", repo.MaxBatchSize
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestStoreConfig(t *testing.T) {
	cfg := config.New()

	sc, err := Options{Output: OutputNDJSON}.StoreConfig(cfg, "taglint", "dev")
	if err != nil || sc.PG.Enabled || sc.CH.Enabled {
		t.Fatalf("ndjson store config = %+v err=%v", sc, err)
	}

	t.Setenv("SERVICE_PGSQL_MAX_CONNS", "8")
	pg := Options{Output: OutputPG, PGURL: "postgres://u@localhost/lint"}
	sc, err = pg.StoreConfig(cfg, "taglint", "dev")
	if err != nil || !sc.PG.Enabled || sc.PG.MaxConns != 8 || sc.PG.URL != pg.PGURL || sc.CH.Enabled || sc.AppName != "taglint" {
		t.Fatalf("pg store config = %+v err=%v", sc, err)
	}

	for _, bad := range []string{"0", "3000000000"} {
		t.Setenv("SERVICE_PGSQL_MAX_CONNS", bad)
		_, err = pg.StoreConfig(cfg, "taglint", "dev")
		if e, ok := perr.As(err); !ok || e.Field() != "SERVICE_PGSQL_MAX_CONNS" {
			t.Fatalf("max conns %s: err = %v", bad, err)
		}
	}

	sc, err = Options{Output: OutputCH, CHURL: "clickhouse://localhost:9000/lint"}.StoreConfig(cfg, "taglint", "dev")
	if err != nil || !sc.CH.Enabled || sc.CH.URL == "" || sc.PG.Enabled {
		t.Fatalf("ch store config = %+v err=%v", sc, err)
	}
}

func TestNew_NDJSONToStdout(t *testing.T) {
	var out bytes.Buffer
	m, err := New(Deps{Stdout: &out}, Options{Output: OutputNDJSON, File: "-"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.Name() != "defects" {
		t.Fatalf("name = %q", m.Name())
	}
	w := m.Ports().Writer
	ctx := context.Background()
	if err := w.Open(ctx, []dispatch.Destination{{Class: "highway", Category: "road"}}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	d := checker.Defect{FeatureID: 1, Kind: feature.KindLine, Class: "highway", Category: "road", OtherTags: "highway=road"}
	if err := w.Write(ctx, d); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := m.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	testkit.MustContain(t, out.String(), `"destination":"highway_road"`)
}

func TestNew_FileCreateError(t *testing.T) {
	testkit.Swap(t, &createOutput, func(string) (io.WriteCloser, error) { return nil, errors.New("denied") })

	_, err := New(Deps{}, Options{Output: OutputNDJSON, File: "out.ndjson"})
	if !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("err = %v", err)
	}
}

func TestNew_DatabaseOutputsNeedStore(t *testing.T) {
	for _, o := range []Options{{Output: OutputPG, PGURL: "postgres://x"}, {Output: OutputCH, CHURL: "clickhouse://x"}} {
		_, err := New(Deps{Store: &store.Store{}}, o)
		if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
			t.Fatalf("%s: err = %v", o.Output, err)
		}
	}
}
