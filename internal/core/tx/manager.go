// Package tx declares the transaction contract domain services run against.
package tx

import "context"

// Manager runs fn inside a transaction. A transaction already carried by
// ctx is reused, so services can call each other without nesting BEGINs.
// fn's error rolls back; success commits.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager can also open READ ONLY transactions.
type ReadOnlyManager interface {
	Manager
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnly runs fn in a read-only transaction when m supports one and in a
// regular transaction otherwise. Reads spanning several tables use it to
// see one snapshot.
func ReadOnly(ctx context.Context, m Manager, fn func(ctx context.Context) error) error {
	if ro, ok := m.(ReadOnlyManager); ok {
		return ro.ReadOnly(ctx, fn)
	}
	return m.RunInTransaction(ctx, fn)
}
