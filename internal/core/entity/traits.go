package entity

import (
	"context"

	"psi/internal/core/apperror"
	"psi/internal/core/id"
)

// OrganizationOwned is a trait for rows that belong to one organization.
type OrganizationOwned struct {
	OrganizationID id.ID `db:"organization_id" json:"organizationId"`
}

// ValidateOrganization ensures an organization is set.
func (o *OrganizationOwned) ValidateOrganization(ctx context.Context) error {
	if id.IsNil(o.OrganizationID) {
		return apperror.NewValidation("organization is required").
			WithDetail("field", "organizationId")
	}
	return nil
}

// GetOrganizationID returns the owning organization.
func (o *OrganizationOwned) GetOrganizationID() id.ID {
	return o.OrganizationID
}

// AssignOrganization sets the organization if it is still empty.
func (o *OrganizationOwned) AssignOrganization(orgID id.ID) {
	if id.IsNil(o.OrganizationID) {
		o.OrganizationID = orgID
	}
}

// IOrganizationOwned is implemented by any model embedding OrganizationOwned.
type IOrganizationOwned interface {
	GetOrganizationID() id.ID
	AssignOrganization(orgID id.ID)
}
