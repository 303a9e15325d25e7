package store

import (
	"context"
	"fmt"
	"time"

	chx "taglint/internal/platform/store/ch"
	"taglint/internal/platform/store/pg"
)

// seams for tests
var (
	openPool = pg.Open
	pingPool = func(ctx context.Context, p *pg.PG) error { return p.Pool.Ping(ctx) }
	sleep    = time.Sleep
)

// openPG opens pg, pings it with backoff and wraps it with our sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := openPool(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.appLabel(),
		Tracer:   tracer,
	})
	if err != nil {
		return nil, err
	}

	const (
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	attempts := cfg.PG.retries()
	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, cfg.PG.pingTimeout())
		lastErr = pingPool(toCtx, p) // pool directly so boot pings stay out of the sql trace
		cancel()

		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		s.Log.Debug().Err(lastErr).Int("attempt", i+1).Msg("pg not ready")
		sleep(backoff)
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.AppName, Tag: cfg.Version})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
