// Package dbtx carries a *sql.Tx through a context.Context so that
// repository methods several call-levels deep participate in the
// caller's transaction without threading a Tx parameter everywhere.
package dbtx

import (
	"context"
	"database/sql"
)

// Tx is the subset of *sql.Tx (or *sql.DB) every repository needs.
type Tx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxBeginner starts transactions. *sql.DB satisfies this.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type txKey struct{}

// ContextWithTx returns a copy of ctx carrying tx. A nil tx is stored
// as-is; TxFromContext on such a context returns nil.
func ContextWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the *sql.Tx stored in ctx, or nil if none.
func TxFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// GetExecutor returns the transaction in ctx if one is present,
// otherwise db itself. Repositories call this instead of deciding for
// themselves whether they are inside a transaction.
func GetExecutor(ctx context.Context, db Tx) Tx {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}

	return db
}

// RunInTransaction begins a transaction on db, runs fn with the
// transaction attached to ctx, and commits on success. A panic or
// error from fn rolls the transaction back; a panic is re-panicked
// after rollback so the caller's recover (if any) still observes it.
func RunInTransaction(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	txCtx := ContextWithTx(ctx, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return nil
}
