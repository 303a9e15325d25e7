// Package pg opens the pgx pool behind the pg output
package pg

import (
	"context"

	perr "taglint/internal/platform/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
	SlowMs   int    // statements taking at least this long are traced as slow
	AppName  string // reported as application_name
	Tracer   QueryTracer
}

// PG is an open pool and the tracer statements report to
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	slowUS int64
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL and creates the pool; it does not connect
func Open(ctx context.Context, cfg Config) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeValidation, "pg: parse url"), "pg.open")
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeUnavailable, "pg: create pool"), "pg.open")
	}
	return &PG{Pool: pool, Tracer: cfg.Tracer, slowUS: int64(cfg.SlowMs) * 1000}, nil
}

// SlowUS is the slow statement threshold in microseconds
func (p *PG) SlowUS() int64 { return p.slowUS }

// Close closes the pool; safe on a nil PG
func (p *PG) Close() {
	if p == nil || p.Pool == nil {
		return
	}
	p.Pool.Close()
}
