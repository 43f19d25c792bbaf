package supplier

import (
	"context"

	"psi/internal/core/numerator"
	"psi/internal/core/tx"
	"psi/internal/domain"
)

// Service provides business logic for the Supplier catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Supplier]
}

// NewService creates a new Supplier service.
func NewService(repo Repository, txManager tx.Manager, codes numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
		Repo:      repo,
		TxManager: txManager,
		Numerator: codes,
		Meta:      Meta,
	})

	base.Hooks().OnBeforeCreate(normalize)
	base.Hooks().OnBeforeUpdate(normalize)

	return &Service{CatalogService: base}
}

func normalize(_ context.Context, s *Supplier) error {
	s.Normalize()
	return nil
}
