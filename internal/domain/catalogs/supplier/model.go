// Package supplier provides the Supplier catalog.
package supplier

import (
	"context"
	"regexp"

	"psi/internal/core/apperror"
	"psi/internal/core/entity"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Meta maps Supplier onto supplier.
var Meta = entity.Meta{Table: "supplier", Entity: "supplier", OrgScoped: true}

// Supplier is a business partner goods are purchased from.
type Supplier struct {
	entity.Catalog

	// ContactPerson is the primary contact name
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	Phone *string `db:"phone" json:"phone,omitempty"`
	Email *string `db:"email" json:"email,omitempty"`

	// Remark is a free-form note
	Remark *string `db:"remark" json:"remark,omitempty"`
}

// Meta implements entity.Persistable.
func (Supplier) Meta() entity.Meta { return Meta }

// NewSupplier creates a new Supplier. An empty code is generated on create.
func NewSupplier(code, name string) *Supplier {
	return &Supplier{Catalog: entity.NewCatalog(code, name)}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if s.Email != nil && *s.Email != "" && !emailRE.MatchString(*s.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}
