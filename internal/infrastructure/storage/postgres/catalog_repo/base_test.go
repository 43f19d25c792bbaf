package catalog_repo

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psi/internal/core/apperror"
	appctx "psi/internal/core/context"
	"psi/internal/core/id"
	"psi/internal/domain"
	"psi/internal/domain/catalogs/supplier"
	"psi/internal/domain/filter"
	"psi/internal/infrastructure/storage/postgres/dbutil"
	"psi/internal/infrastructure/storage/postgres/pgtest"
)

const supplierCols = "id, deletion_mark, version, organization_id, code, name, external_id, mnemonic, contact_person, phone, email, remark"

func orgContext(orgID id.ID) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:         id.New().String(),
		OrganizationID: orgID,
	})
}

func TestSupplierRepo_ListQuery(t *testing.T) {
	orgID := id.New()
	repo := NewSupplierRepo(dbutil.New(&pgtest.DB{}))

	q, err := repo.listQuery(orgContext(orgID), domain.ListFilter{
		Search:          "acm",
		AdvancedFilters: []filter.Item{{Field: "code", Operator: filter.Equal, Value: "000001"}},
	})
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT "+supplierCols+" FROM supplier WHERE organization_id = $1 AND deletion_mark = $2 "+
		"AND (name ILIKE $3 OR code ILIKE $4 OR mnemonic ILIKE $5) AND code = $6", sql)
	assert.Equal(t, []any{orgID.String(), false, "%acm%", "%acm%", "%acm%", "000001"}, args)
}

func TestSupplierRepo_ListQuery_RejectsUnknownFilterColumn(t *testing.T) {
	repo := NewSupplierRepo(dbutil.New(&pgtest.DB{}))

	_, err := repo.listQuery(orgContext(id.New()), domain.ListFilter{
		AdvancedFilters: []filter.Item{{Field: "password", Operator: filter.Equal, Value: "x"}},
	})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSupplierRepo_RequiresOrganization(t *testing.T) {
	db := &pgtest.DB{}
	repo := NewSupplierRepo(dbutil.New(db))

	_, err := repo.GetByID(context.Background(), id.New())

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
	assert.Empty(t, db.Calls)
}

func TestSupplierRepo_GetByID_NotFound(t *testing.T) {
	db := &pgtest.DB{QueryFunc: func(string, ...any) (pgx.Rows, error) {
		return pgtest.NewRows("id"), nil
	}}
	repo := NewSupplierRepo(dbutil.New(db))

	_, err := repo.GetByID(orgContext(id.New()), id.New())

	assert.True(t, apperror.IsNotFound(err))
}

func TestSupplierRepo_GetByID(t *testing.T) {
	orgID, supplierID := id.New(), id.New()
	db := &pgtest.DB{QueryFunc: func(string, ...any) (pgx.Rows, error) {
		return pgtest.NewRows("id", "organization_id", "code", "name", "version").
			Add(supplierID, orgID, "000007", "Acme", 3), nil
	}}
	repo := NewSupplierRepo(dbutil.New(db))

	s, err := repo.GetByID(orgContext(orgID), supplierID)
	require.NoError(t, err)
	assert.Equal(t, supplierID, s.ID)
	assert.Equal(t, "000007", s.Code)
	assert.Equal(t, 3, s.Version)
	assert.Equal(t, "SELECT "+supplierCols+" FROM supplier WHERE organization_id = $1 AND id = $2 LIMIT 1", db.SQL()[0])
}

func TestSupplierRepo_FindByName_Miss(t *testing.T) {
	db := &pgtest.DB{QueryFunc: func(string, ...any) (pgx.Rows, error) {
		return pgtest.NewRows("id"), nil
	}}
	repo := NewSupplierRepo(dbutil.New(db))

	s, found, err := repo.FindByName(orgContext(id.New()), "Nobody")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, s)
}

func TestSupplierRepo_Update(t *testing.T) {
	orgID := id.New()
	s := supplier.NewSupplier("000001", "Acme")
	s.OrganizationID = orgID
	s.Version = 4

	db := &pgtest.DB{}
	repo := NewSupplierRepo(dbutil.New(db))
	require.NoError(t, repo.Update(orgContext(orgID), s))

	assert.Equal(t, 5, s.Version)
	require.Len(t, db.Calls, 1)
	assert.Equal(t, "UPDATE supplier SET deletion_mark = $1, code = $2, name = $3, external_id = $4, mnemonic = $5, "+
		"contact_person = $6, phone = $7, email = $8, remark = $9, version = version + 1 "+
		"WHERE id = $10 AND version = $11 AND organization_id = $12", db.Calls[0].SQL)
}

func TestSupplierRepo_Update_ConcurrentModification(t *testing.T) {
	orgID := id.New()
	s := supplier.NewSupplier("000001", "Acme")
	s.OrganizationID = orgID

	db := &pgtest.DB{ExecFunc: func(string, ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}}
	err := NewSupplierRepo(dbutil.New(db)).Update(orgContext(orgID), s)

	assert.True(t, apperror.IsConcurrentModification(err))
	assert.Equal(t, 1, s.Version)
}

func TestSupplierRepo_SetDeletionMark_NotFound(t *testing.T) {
	db := &pgtest.DB{ExecFunc: func(string, ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}}

	err := NewSupplierRepo(dbutil.New(db)).SetDeletionMark(orgContext(id.New()), id.New(), true)

	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, "UPDATE supplier SET deletion_mark = $1, version = version + 1 WHERE id = $2 AND organization_id = $3", db.SQL()[0])
}

func TestEnumValueRepo_GetByID_Miss(t *testing.T) {
	db := &pgtest.DB{QueryFunc: func(string, ...any) (pgx.Rows, error) {
		return pgtest.NewRows("id"), nil
	}}

	v, err := NewEnumValueRepo(db).GetByID(context.Background(), id.New())
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, "SELECT id, type, code, display FROM enum_values WHERE id = $1 LIMIT 1", db.SQL()[0])
}
