package repo

import (
	"context"

	"github.com/paulmach/orb/encoding/wkt"

	perr "taglint/internal/platform/errors"
	"taglint/internal/platform/store"
	pstrings "taglint/internal/platform/strings"
	"taglint/internal/services/defects/domain"
)

// CH writes each destination to a MergeTree table through batch inserts
type CH struct {
	c store.Clickhouse
	b *batcher
}

// NewCH constructs a ClickHouse writer; batch is the rows per insert batch
func NewCH(c store.Clickhouse, batch int) *CH {
	w := &CH{c: c}
	w.b = newBatcher(batch, w.flush)
	return w
}

// Open implements Storage
func (w *CH) Open(ctx context.Context, dsts []domain.Destination) error {
	if err := w.b.open(dsts); err != nil {
		return err
	}
	for _, d := range dsts {
		if err := w.c.Exec(ctx, chDDL(d)); err != nil {
			return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeDB, "create table %s", d.Name), "defects.ch.create")
		}
	}
	return nil
}

// Write implements Storage
func (w *CH) Write(ctx context.Context, r domain.Record) error { return w.b.add(ctx, r) }

// Close implements Storage; the connection itself belongs to the store
func (w *CH) Close(ctx context.Context) error { return w.b.drain(ctx) }

func chDDL(d domain.Destination) string {
	s := "CREATE TABLE IF NOT EXISTS `" + d.Name + "` (" +
		"run_id Nullable(String), " +
		"feature_id String, " +
		"kind LowCardinality(String), "
	if d.Column != "" {
		s += "`" + d.Column + "` Nullable(String), "
	}
	return s + "tags String, " +
		"geom String" +
		") ENGINE = MergeTree ORDER BY (kind, feature_id)"
}

func (w *CH) flush(ctx context.Context, dst domain.Destination, rs []domain.Record) error {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		row := []any{pstrings.Ptr(r.RunID), r.FeatureID, r.Kind}
		if dst.Column != "" {
			row = append(row, r.Focus)
		}
		geom := ""
		if r.Geometry != nil {
			geom = wkt.MarshalString(r.Geometry)
		}
		rows = append(rows, append(row, r.Tags, geom))
	}
	if err := w.c.Insert(ctx, dst.Name, rows); err != nil {
		return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeDB, "insert into %s", dst.Name), "defects.ch.insert")
	}
	return nil
}
