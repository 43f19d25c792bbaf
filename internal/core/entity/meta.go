package entity

import (
	"psi/internal/core/id"
)

// Meta describes how a model maps onto its table.
type Meta struct {
	// Table is the SQL table name.
	Table string

	// Entity is the human-readable name used in errors.
	Entity string

	// OrgScoped marks tables carrying organization_id.
	// Lookups on such tables always filter by the caller's organization.
	OrgScoped bool

	// Children are deleted together with the parent row, deepest first.
	Children []ChildTable
}

// ChildTable is a dependent table removed when its parent row is deleted.
type ChildTable struct {
	Table      string
	ForeignKey string
	Children   []ChildTable
}

// Scope carries the caller's organization for scoped lookups.
type Scope struct {
	OrganizationID id.ID
}

// HasOrganization reports whether the scope names an organization.
func (s Scope) HasOrganization() bool {
	return !id.IsNil(s.OrganizationID)
}
