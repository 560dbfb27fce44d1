package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound indicates the referenced row does not exist.
var ErrNotFound = errors.New("repository: not found")

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repository methods take a Querier so the same query runs standalone or
// inside a workflow transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// TxRunner executes a function inside a single database transaction.
// Any error from fn rolls back every statement issued through q and is
// returned unmodified.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(q Querier) error) error
}

// SQLTxRunner is the database-backed TxRunner.
type SQLTxRunner struct {
	db *sql.DB
}

// NewTxRunner wraps the pool.
func NewTxRunner(db *sql.DB) *SQLTxRunner {
	return &SQLTxRunner{db: db}
}

// RunInTx begins a transaction, runs fn, and commits. On fn failure the
// transaction is rolled back and fn's error is returned as-is.
func (r *SQLTxRunner) RunInTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
