// Package repokit provides the binding and transaction helpers sql repos share
package repokit

import (
	"context"

	"taglint/internal/platform/store"
)

type (
	// Queryer is the minimal read and write surface for SQL repos
	Queryer = store.RowQuerier

	// TxRunner can execute a function inside a transaction
	TxRunner = store.TxRunner

	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result from a query
	Row = store.Row

	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)

// Binder is a tiny factory that binds a domain repo to a specific Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// RequireQueryer panics early on programmer error (nil q)
func RequireQueryer(q Queryer) Queryer {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return q
}

// MustBind validates q then binds
func MustBind[T any](b Binder[T], q Queryer) T {
	return b.Bind(RequireQueryer(q))
}

// BeginHook runs at the start of a transaction with the tx bound Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// SetLocal returns a hook that applies a transaction scoped setting
func SetLocal(name, value string) BeginHook {
	return func(ctx context.Context, q Queryer) error {
		_, err := q.Exec(ctx, "SELECT set_config($1, $2, true)", name, value)
		return err
	}
}

// WithBeginHooks wraps a TxRunner and runs hooks before fn inside the same tx
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	if len(hooks) == 0 {
		return inner
	}
	return hookedTx{inner: inner, hooks: hooks}
}

type hookedTx struct {
	inner TxRunner
	hooks []BeginHook
}

// Tx starts a tx on inner then runs all hooks before fn
func (h hookedTx) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.inner.Tx(ctx, func(q Queryer) error {
		for _, hk := range h.hooks {
			if err := hk(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

func (h hookedTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return h.inner.Exec(ctx, sql, args...)
}

func (h hookedTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return h.inner.Query(ctx, sql, args...)
}

func (h hookedTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return h.inner.QueryRow(ctx, sql, args...)
}

// WithTx binds b inside one transaction of tx and hands the bound repo to fn
func WithTx[T any](ctx context.Context, tx TxRunner, b Binder[T], fn func(T) error) error {
	return tx.Tx(ctx, func(q Queryer) error {
		return fn(MustBind(b, q))
	})
}
