package enums

import (
	"context"

	"psi/internal/core/apperror"
	"psi/internal/core/id"
)

// Repository reads enum values.
type Repository interface {
	// TypeFilter lists the values of one enum type, ordered by code.
	TypeFilter(ctx context.Context, typ string) ([]EnumValue, error)

	// GetByID returns nil when the value does not exist.
	GetByID(ctx context.Context, valueID id.ID) (*EnumValue, error)
}

// Service exposes enum lookups to other domains.
type Service struct {
	repo Repository
}

// NewService creates a new enum service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// TypeFilter lists the values of typ.
func (s *Service) TypeFilter(ctx context.Context, typ string) ([]EnumValue, error) {
	if typ == "" {
		return nil, apperror.NewValidation("enum type is required").WithDetail("field", "type")
	}
	return s.repo.TypeFilter(ctx, typ)
}

// BelongsTo reports whether valueID exists and is of type typ.
func (s *Service) BelongsTo(ctx context.Context, valueID id.ID, typ string) (bool, error) {
	v, err := s.repo.GetByID(ctx, valueID)
	if err != nil {
		return false, err
	}
	return v != nil && v.Type == typ, nil
}

// ReceivingStatuses lists the allowed receiving statuses.
func (s *Service) ReceivingStatuses(ctx context.Context) ([]EnumValue, error) {
	return s.repo.TypeFilter(ctx, TypeReceivingStatus)
}
