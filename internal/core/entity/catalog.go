package entity

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"psi/internal/core/apperror"
)

// Catalog is the base type for reference data such as suppliers and products.
type Catalog struct {
	BaseCatalog
	OrganizationOwned

	// Code is a 6-digit identifier, unique within the organization
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	// ExternalID links the row to an outside system (nullable)
	ExternalID *string `db:"external_id" json:"externalId,omitempty"`

	// Mnemonic is a short search alias
	Mnemonic string `db:"mnemonic" json:"mnemonic"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseCatalog: NewBaseCatalog(),
		Code:        code,
		Name:        name,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	// code is assigned by the service when empty
	return c.ValidateOrganization(ctx)
}

// SetExternalID sets or clears the external reference.
func (c *Catalog) SetExternalID(externalID string) {
	if externalID == "" {
		c.ExternalID = nil
		return
	}
	c.ExternalID = &externalID
}

// GetCode returns the catalog code.
func (c *Catalog) GetCode() string { return c.Code }

// SetCode assigns the catalog code.
func (c *Catalog) SetCode(code string) { c.Code = code }

// Normalize trims the name and derives a mnemonic from the initials of its
// words when none is set ("Acme Steel Works" becomes "asw").
func (c *Catalog) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Mnemonic = strings.TrimSpace(c.Mnemonic)
	if c.Mnemonic != "" {
		return
	}
	var b strings.Builder
	for _, w := range strings.Fields(c.Name) {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToLower(r))
	}
	c.Mnemonic = b.String()
}
