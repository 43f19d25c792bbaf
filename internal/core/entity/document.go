package entity

import (
	"context"
	"time"

	"psi/internal/core/apperror"
	"psi/internal/core/id"
)

// Document is the header shared by purchase orders and receivings. Code is
// the 6-digit number generated per organization.
type Document struct {
	BaseDocument
	OrganizationOwned

	Code   string    `db:"code" json:"code"`
	Date   time.Time `db:"date" json:"date"`
	Remark *string   `db:"remark" json:"remark,omitempty"`
}

// NewDocument dates the document now.
func NewDocument(organizationID id.ID) Document {
	return Document{
		BaseDocument:      NewBaseDocument(),
		OrganizationOwned: OrganizationOwned{OrganizationID: organizationID},
		Date:              time.Now().UTC(),
	}
}

func (d *Document) Validate(ctx context.Context) error {
	if err := d.ValidateOrganization(ctx); err != nil {
		return err
	}
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	return nil
}
