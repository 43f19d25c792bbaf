package postgres

import (
	"context"

	"psi/internal/core/tx"
)

// DB is what repositories need from the database layer: transactions and
// a querier bound to the transaction in ctx (or the pool outside one).
// *TxManager is the production implementation; tests substitute fakes.
type DB interface {
	tx.Manager
	GetQuerier(ctx context.Context) Querier
}
