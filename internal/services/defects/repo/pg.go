package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/paulmach/orb/encoding/wkb"

	"taglint/internal/modkit/repokit"
	perr "taglint/internal/platform/errors"
	pstrings "taglint/internal/platform/strings"
	"taglint/internal/services/defects/domain"
)

type (
	// tables is the tx bound sql surface of the postgres writer
	tables interface {
		Create(ctx context.Context, dst domain.Destination) error
		Insert(ctx context.Context, dst domain.Destination, rs []domain.Record) error
	}

	pgTables struct{ q repokit.Queryer }
	binder   struct{}
)

// newPGBinder constructs the repo binder for Postgres destination tables
func newPGBinder() repokit.Binder[tables] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) tables { return &pgTables{q: q} }

// PG writes each destination to its own table, created on Open when missing
type PG struct {
	tx     repokit.TxRunner
	binder repokit.Binder[tables]
	b      *batcher
}

// NewPG constructs a Postgres writer; batch is the rows per INSERT statement
func NewPG(tx repokit.TxRunner, batch int) *PG {
	p := &PG{
		tx:     repokit.WithBeginHooks(tx, repokit.SetLocal("synchronous_commit", "off")),
		binder: newPGBinder(),
	}
	p.b = newBatcher(batch, p.flush)
	return p
}

// Open implements Storage
func (p *PG) Open(ctx context.Context, dsts []domain.Destination) error {
	if err := p.b.open(dsts); err != nil {
		return err
	}
	return repokit.WithTx(ctx, p.tx, p.binder, func(t tables) error {
		for _, d := range dsts {
			if err := t.Create(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
}

// Write implements Storage
func (p *PG) Write(ctx context.Context, r domain.Record) error { return p.b.add(ctx, r) }

// Close implements Storage; it flushes pending rows, the pool itself belongs to the store
func (p *PG) Close(ctx context.Context) error { return p.b.drain(ctx) }

func (p *PG) flush(ctx context.Context, dst domain.Destination, rs []domain.Record) error {
	return repokit.WithTx(ctx, p.tx, p.binder, func(t tables) error {
		return t.Insert(ctx, dst, rs)
	})
}

func ident(name string) string { return pgx.Identifier{name}.Sanitize() }

// Create implements tables
func (t *pgTables) Create(ctx context.Context, dst domain.Destination) error {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS " + ident(dst.Name) + ` (
		id bigserial PRIMARY KEY,
		run_id text,
		feature_id text NOT NULL,
		kind text NOT NULL,`)
	if dst.Column != "" {
		sb.WriteString("\n\t\t" + ident(dst.Column) + " text,")
	}
	sb.WriteString(`
		tags text NOT NULL,
		geom bytea
	)`)
	if _, err := t.q.Exec(ctx, sb.String()); err != nil {
		return perr.WithOp(perr.FromPostgresf(err, "create table %s", dst.Name), "defects.pg.create")
	}
	return nil
}

// Insert implements tables with one multi row statement
func (t *pgTables) Insert(ctx context.Context, dst domain.Destination, rs []domain.Record) error {
	if len(rs) == 0 {
		return nil
	}
	cols := []string{"run_id", "feature_id", "kind"}
	if dst.Column != "" {
		cols = append(cols, ident(dst.Column))
	}
	cols = append(cols, "tags", "geom")
	n := len(cols)

	var sb strings.Builder
	sb.WriteString("INSERT INTO " + ident(dst.Name) + " (" + strings.Join(cols, ", ") + ") VALUES ")

	args := make([]any, 0, len(rs)*n)
	for i, r := range rs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('(')
		for j := 0; j < n; j++ {
			if j > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "$%d", i*n+j+1)
		}
		sb.WriteByte(')')

		geom, err := geometryWKB(r)
		if err != nil {
			return err
		}
		args = append(args, pstrings.Ptr(r.RunID), r.FeatureID, r.Kind)
		if dst.Column != "" {
			args = append(args, pstrings.SQLNullPtr(r.Focus))
		}
		args = append(args, r.Tags, geom)
	}
	if _, err := t.q.Exec(ctx, sb.String(), args...); err != nil {
		return perr.WithOp(perr.FromPostgresf(err, "insert into %s", dst.Name), "defects.pg.insert")
	}
	return nil
}

func geometryWKB(r domain.Record) ([]byte, error) {
	if r.Geometry == nil {
		return nil, nil
	}
	b, err := wkb.Marshal(r.Geometry)
	if err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "encode geometry of %s", r.FeatureID), "geom")
	}
	return b, nil
}
