package module

import (
	"math"
	"strings"
	"sync"

	"taglint/internal/platform/config"
	perr "taglint/internal/platform/errors"
	"taglint/internal/platform/store"
	"taglint/internal/platform/validate"
	"taglint/internal/services/defects/domain"
	"taglint/internal/services/defects/repo"
)

// Output backends
const (
	OutputNDJSON  = "ndjson"
	OutputGeoJSON = "geojson"
	OutputPG      = "pg"
	OutputCH      = "ch"
)

// Options holds configuration settings for the defects module
type Options struct {
	Output    string `env:"TAGLINT_OUTPUT" validate:"oneof=ndjson geojson pg ch"`
	File      string `env:"TAGLINT_OUTPUT_FILE"` // ndjson target, "-" is stdout
	Dir       string `env:"TAGLINT_OUTPUT_DIR" validate:"required_if=Output geojson"`
	Prefix    string `env:"TAGLINT_TABLE_PREFIX" validate:"omitempty,table_prefix"`
	BatchSize int    `env:"TAGLINT_BATCH_SIZE" validate:"gte=0,lte=10000"`
	PGURL     string `env:"SERVICE_PGSQL_DBURL" validate:"required_if=Output pg"`
	CHURL     string `env:"SERVICE_CLICKHOUSE_DBURL" validate:"required_if=Output ch"`
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	tf := cfg.Prefix("TAGLINT_")
	return Options{
		Output:    strings.ToLower(tf.MayString("OUTPUT", OutputNDJSON)),
		File:      tf.MayString("OUTPUT_FILE", "-"),
		Dir:       tf.MayString("OUTPUT_DIR", "taglint-out"),
		Prefix:    tf.MayString("TABLE_PREFIX", ""),
		BatchSize: tf.MayInt("BATCH_SIZE", repo.DefaultBatchSize),
		PGURL:     cfg.Prefix("SERVICE_PGSQL_").MayString("DBURL", ""),
		CHURL:     cfg.Prefix("SERVICE_CLICKHOUSE_").MayString("DBURL", ""),
	}
}

var registerOnce sync.Once

// Validate checks option combinations the backends cannot recover from
func (o Options) Validate() error {
	registerOnce.Do(func() {
		_ = validate.Register("table_prefix", "{0} must start a lowercase table name", func(fl validate.FieldLevel) bool {
			return domain.ValidName(fl.Field().String() + "x")
		})
	})
	return validate.Struct(o)
}

// StoreConfig returns the store backends this output needs; pool settings come from SERVICE_PGSQL_* keys
func (o Options) StoreConfig(cfg config.Conf, app, version string) (store.Config, error) {
	sc := store.Config{AppName: app, Version: version}
	switch o.Output {
	case OutputPG:
		pgCfg := cfg.Prefix("SERVICE_PGSQL_")
		conns := pgCfg.MayInt("MAX_CONNS", 4)
		if conns < 1 || conns > math.MaxInt32 {
			return sc, perr.WithField(perr.Validationf("max conns must be between 1 and %d, got %d", math.MaxInt32, conns), "SERVICE_PGSQL_MAX_CONNS")
		}
		sc.PG = store.PGConfig{
			Enabled:     true,
			URL:         o.PGURL,
			MaxConns:    int32(conns),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		}
	case OutputCH:
		sc.CH = store.CHConfig{Enabled: true, URL: o.CHURL}
	}
	return sc, nil
}
