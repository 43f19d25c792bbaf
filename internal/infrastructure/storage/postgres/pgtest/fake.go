// Package pgtest provides in-memory fakes of the postgres.DB contract for unit tests.
package pgtest

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"psi/internal/infrastructure/storage/postgres"
)

// ErrNoQuery is returned by Query when no QueryFunc is configured.
var ErrNoQuery = errors.New("pgtest: Query not configured")

// Call is one statement seen by the fake.
type Call struct {
	SQL  string
	Args []any
}

// Row is a canned pgx.Row. Values are copied into Scan destinations in order.
type Row struct {
	Values []any
	Err    error
}

// Scan implements pgx.Row.
func (r *Row) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	if len(r.Values) == 0 {
		return pgx.ErrNoRows
	}
	for i := range dest {
		if i >= len(r.Values) {
			break
		}
		if err := assign(dest[i], r.Values[i]); err != nil {
			return err
		}
	}
	return nil
}

// DB records statements and answers them from configured callbacks.
// Transactions are simulated: fn runs inline, commits and rollbacks are counted.
type DB struct {
	mu sync.Mutex

	ExecFunc     func(sql string, args ...any) (pgconn.CommandTag, error)
	QueryRowFunc func(sql string, args ...any) pgx.Row
	QueryFunc    func(sql string, args ...any) (pgx.Rows, error)

	Calls     []Call
	Commits   int
	Rollbacks int
	inTx      bool
}

var (
	_ postgres.DB      = (*DB)(nil)
	_ postgres.Querier = (*DB)(nil)
)

// RunInTransaction implements tx.Manager.
func (d *DB) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	d.mu.Lock()
	nested := d.inTx
	d.inTx = true
	d.mu.Unlock()

	err := fn(ctx)

	if nested {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inTx = false
	if err != nil {
		d.Rollbacks++
		return err
	}
	d.Commits++
	return nil
}

// GetQuerier implements postgres.DB.
func (d *DB) GetQuerier(ctx context.Context) postgres.Querier {
	return d
}

// Exec implements postgres.Querier.
func (d *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.record(sql, args)
	if d.ExecFunc != nil {
		return d.ExecFunc(sql, args...)
	}
	return pgconn.NewCommandTag("OK 1"), nil
}

// Query implements postgres.Querier.
func (d *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	d.record(sql, args)
	if d.QueryFunc != nil {
		return d.QueryFunc(sql, args...)
	}
	return nil, ErrNoQuery
}

// QueryRow implements postgres.Querier.
func (d *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	d.record(sql, args)
	if d.QueryRowFunc != nil {
		return d.QueryRowFunc(sql, args...)
	}
	return &Row{}
}

// SQL returns the statements seen so far.
func (d *DB) SQL() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		out[i] = c.SQL
	}
	return out
}

func (d *DB) record(sql string, args []any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, Call{SQL: sql, Args: args})
}
