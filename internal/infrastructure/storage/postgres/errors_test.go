package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestSQLStateHelpers(t *testing.T) {
	fk := fmt.Errorf("delete supplier: %w", &pgconn.PgError{Code: "23503", ConstraintName: "product_supplier_id_fkey"})
	uniq := &pgconn.PgError{Code: "23505"}

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(fk))
	assert.Equal(t, "product_supplier_id_fkey", ConstraintName(fk))

	assert.True(t, IsUniqueViolation(uniq))
	assert.False(t, IsForeignKeyViolation(errors.New("boom")))
	assert.Equal(t, "", ConstraintName(errors.New("boom")))
}
