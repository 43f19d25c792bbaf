package product

import (
	"context"

	"psi/internal/core/apperror"
	"psi/internal/core/entity"
	"psi/internal/core/id"
	"psi/internal/core/numerator"
	"psi/internal/core/tx"
	"psi/internal/domain"
	"psi/internal/domain/catalogs/supplier"
)

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo  Repository
	store domain.ObjectStore
}

// NewService creates a new Product service. store is used to check the
// default supplier reference.
func NewService(repo Repository, txManager tx.Manager, codes numerator.Generator, store domain.ObjectStore) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:      repo,
		TxManager: txManager,
		Numerator: codes,
		Meta:      Meta,
	})

	svc := &Service{CatalogService: base, repo: repo, store: store}
	base.Hooks().OnBeforeCreate(svc.prepare)
	base.Hooks().OnBeforeUpdate(svc.prepare)
	return svc
}

func (s *Service) prepare(ctx context.Context, p *Product) error {
	p.Normalize()
	if p.SupplierID == nil {
		return nil
	}

	ok, err := s.store.Exists(ctx, supplier.Meta, *p.SupplierID, entity.Scope{OrganizationID: p.OrganizationID})
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewInvalidReference("supplierId", p.SupplierID.String())
	}
	return nil
}

// ListBySupplier returns the products whose default supplier is supplierID.
func (s *Service) ListBySupplier(ctx context.Context, supplierID id.ID) ([]*Product, error) {
	return s.repo.ListBySupplier(ctx, supplierID)
}
