// Package ch provides a clickhouse client over clickhouse-go
package ch

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL  string
	Role string // reported in client info, e.g. "check"
	Tag  string // build version reported in client info
}

// Rows is the driver result set
type Rows = driver.Rows

// CH is a clickhouse client over a native connection
type CH struct {
	conn driver.Conn
}

var openConn = clickhouse.Open

// Open parses the DSN and opens a native connection; the connection is lazy until first use
func Open(_ context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)
	conn, err := openConn(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	return &CH{conn: conn}, nil
}

// Exec runs a statement without results, e.g. DDL
func (c *CH) Exec(ctx context.Context, sql string, args ...any) error {
	return c.conn.Exec(ctx, sql, args...)
}

// Insert appends rows to table in one batch; each row lists values in column order
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	b, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return err
		}
	}
	return b.Send()
}

// Query runs a query and returns driver rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

// Ping verifies connectivity
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Close closes the connection
func (c *CH) Close() error { return c.conn.Close() }
