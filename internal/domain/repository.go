// Package domain holds the contracts shared by the domain services: list
// filters, repositories, the object store and lifecycle hooks.
package domain

import (
	"context"

	"psi/internal/core/entity"
	"psi/internal/core/id"
	"psi/internal/domain/filter"
)

// ListFilter selects one page of a list. Search is an ILIKE over name,
// code and mnemonic; OrderBy is a column, "-" prefixed for descending.
type ListFilter struct {
	Search          string
	IDs             []id.ID
	IncludeDeleted  bool
	AdvancedFilters []filter.Item
	OrderBy         string
	Limit           int
	Offset          int
}

// DefaultListFilter is the first 50 rows by name.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: 50, OrderBy: "name"}
}

// ListResult is a page plus the unpaginated row count.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// CatalogEntity is the constraint of catalog services: a validatable,
// organization-owned row with a generated code.
type CatalogEntity interface {
	entity.Validatable
	entity.IOrganizationOwned
	GetID() id.ID
	GetCode() string
	SetCode(code string)
}

// CatalogRepository stores catalog rows. Reads only see the caller's
// organization; Update fails with a concurrent-modification error when the
// stored version moved. The Find methods report a miss as false, not as an
// error.
type CatalogRepository[T CatalogEntity] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id id.ID) (T, error)
	GetByCode(ctx context.Context, code string) (T, error)
	Update(ctx context.Context, entity T) error
	SetDeletionMark(ctx context.Context, id id.ID, marked bool) error
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
	Exists(ctx context.Context, id id.ID) (bool, error)
	FindByName(ctx context.Context, name string) (T, bool, error)
	FindByExternalID(ctx context.Context, externalID string) (T, bool, error)
	ListForOrganization(ctx context.Context) ([]T, error)
}

// ObjectStore writes rows of any table described by entity.Meta.
// SaveObjectsCommit upserts all objs in one transaction; DeleteByID removes
// a row with its child rows; Exists only sees rows visible in scope.
type ObjectStore interface {
	SaveObjectsCommit(ctx context.Context, objs ...entity.Persistable) error
	DeleteByID(ctx context.Context, meta entity.Meta, id id.ID) error
	Exists(ctx context.Context, meta entity.Meta, id id.ID, scope entity.Scope) (bool, error)
}
