package repo

import (
	"context"
	"errors"

	"github.com/paulmach/orb"

	"taglint/internal/platform/store"
	pstrings "taglint/internal/platform/strings"
	"taglint/internal/services/defects/domain"
)

type execCall struct {
	sql  string
	args []any
}

type fakeQ struct {
	execs   []execCall
	failOn  string
	failErr error
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: append([]any(nil), args...)})
	if f.failOn != "" && len(sql) >= len(f.failOn) && sql[:len(f.failOn)] == f.failOn {
		return nil, f.failErr
	}
	return nil, nil
}

func (f *fakeQ) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("not used")
}

func (f *fakeQ) QueryRow(context.Context, string, ...any) store.Row { return nil }

type fakeTx struct {
	fakeQ
	q   *fakeQ
	txs int
}

func (f *fakeTx) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	f.txs++
	return fn(f.q)
}

type fakeCH struct {
	ddl     []string
	inserts map[string][][]any
	calls   int
	err     error
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.ddl = append(f.ddl, sql)
	return f.err
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.calls++
	if f.inserts == nil {
		f.inserts = map[string][][]any{}
	}
	f.inserts[table] = append(f.inserts[table], rows...)
	return f.err
}

func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("not used")
}

func (f *fakeCH) Close() error { return nil }

var testDsts = []domain.Destination{
	{Name: "highway_maxspeed", Column: "maxspeed"},
	{Name: "highway_road"},
}

func maxspeedRecord(id, v string) domain.Record {
	return domain.Record{
		Destination: "highway_maxspeed",
		RunID:       "run-1",
		FeatureID:   id,
		Kind:        "line",
		Column:      "maxspeed",
		Focus:       pstrings.Of(v),
		Tags:        "highway=primary",
		Geometry:    orb.LineString{{0, 0}, {1, 1}},
	}
}
