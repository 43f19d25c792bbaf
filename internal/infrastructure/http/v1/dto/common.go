// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"encoding/json"
	"fmt"

	"psi/internal/core/entity"
	"psi/internal/core/id"
	"psi/internal/domain"
	"psi/internal/domain/filter"
)

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// ItemsResponse wraps an unpaginated list.
type ItemsResponse struct {
	Items any `json:"items"`
}

// CountResponse carries a row count.
type CountResponse struct {
	Count int64 `json:"count"`
}

// --- Common Filters ---

// ListQuery holds the query parameters shared by list endpoints.
type ListQuery struct {
	Search         string `form:"search"`
	OrderBy        string `form:"orderBy"`
	Limit          int    `form:"limit" binding:"omitempty,min=0,max=500"`
	Offset         int    `form:"offset" binding:"omitempty,min=0"`
	IncludeDeleted bool   `form:"includeDeleted"`

	// Filter is a JSON array of filter items.
	Filter string `form:"filter"`
}

// ParseFilter decodes the JSON filter parameter.
func ParseFilter(raw string) ([]filter.Item, error) {
	if raw == "" {
		return nil, nil
	}
	var items []filter.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("invalid filter format (json expected): %w", err)
	}
	return items, nil
}

// ToListFilter converts q, falling back to the default page size and to
// defaultOrder when no orderBy is given.
func (q ListQuery) ToListFilter(defaultOrder string) (domain.ListFilter, error) {
	items, err := ParseFilter(q.Filter)
	if err != nil {
		return domain.ListFilter{}, err
	}
	f := domain.DefaultListFilter()
	f.OrderBy = defaultOrder
	f.Search = q.Search
	f.IncludeDeleted = q.IncludeDeleted
	f.AdvancedFilters = items
	f.Offset = q.Offset
	if q.Limit > 0 {
		f.Limit = q.Limit
	}
	if q.OrderBy != "" {
		f.OrderBy = q.OrderBy
	}
	return f, nil
}

// --- Catalog DTOs ---

// CatalogResponse contains catalog fields.
type CatalogResponse struct {
	ID             string  `json:"id"`
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Mnemonic       string  `json:"mnemonic"`
	ExternalID     *string `json:"externalId,omitempty"`
	OrganizationID string  `json:"organizationId"`
	DeletionMark   bool    `json:"deletionMark"`
	Version        int     `json:"version"`
}

// FromCatalog creates CatalogResponse from entity.Catalog.
func FromCatalog(c entity.Catalog) CatalogResponse {
	return CatalogResponse{
		ID:             c.ID.String(),
		Code:           c.Code,
		Name:           c.Name,
		Mnemonic:       c.Mnemonic,
		ExternalID:     c.ExternalID,
		OrganizationID: c.OrganizationID.String(),
		DeletionMark:   c.DeletionMark,
		Version:        c.Version,
	}
}

// CatalogRequest holds the catalog fields of create and update requests.
type CatalogRequest struct {
	Code       string  `json:"code" binding:"omitempty,numeric,len=6"`
	Name       string  `json:"name" binding:"required,max=255"`
	Mnemonic   string  `json:"mnemonic" binding:"max=50"`
	ExternalID *string `json:"externalId"`
}

// ApplyTo copies the request fields onto c.
func (r CatalogRequest) ApplyTo(c *entity.Catalog) {
	if r.Code != "" {
		c.Code = r.Code
	}
	c.Name = r.Name
	c.Mnemonic = r.Mnemonic
	if r.ExternalID != nil {
		c.SetExternalID(*r.ExternalID)
	}
}

// CodeResponse returns a generated code.
type CodeResponse struct {
	Code string `json:"code"`
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// --- Deletion ---

type SetDeletionMarkRequest struct {
	Marked bool `json:"marked"`
}

// optionalString formats an optional reference.
func optionalString(p *id.ID) *string {
	if p == nil {
		return nil
	}
	s := p.String()
	return &s
}
