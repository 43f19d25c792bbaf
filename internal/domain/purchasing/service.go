package purchasing

import (
	"context"
	"fmt"

	"psi/internal/core/apperror"
	appctx "psi/internal/core/context"
	"psi/internal/core/entity"
	"psi/internal/core/id"
	"psi/internal/core/numerator"
	"psi/internal/core/tx"
	"psi/internal/domain"
	"psi/internal/domain/audit"
	"psi/internal/domain/catalogs/product"
	"psi/internal/domain/catalogs/supplier"
	"psi/pkg/logger"
)

const codeAttempts = 3

// Repository reads purchase orders of the caller's organization.
type Repository interface {
	// GetByID returns the order header, or NotFound.
	GetByID(ctx context.Context, orderID id.ID) (*PurchaseOrder, error)

	// GetLines returns the order lines.
	GetLines(ctx context.Context, orderID id.ID) ([]PurchaseOrderLine, error)

	// ListForOrganization returns every order header of the organization.
	ListForOrganization(ctx context.Context) ([]PurchaseOrder, error)
}

// Service provides business operations for purchase orders.
type Service struct {
	repo      Repository
	store     domain.ObjectStore
	numerator numerator.Generator
	txManager tx.Manager
	audit     audit.Logger
	hooks     *domain.HookRegistry[*PurchaseOrder]
}

// NewService creates a new purchase order service. A nil auditLog disables
// change logging.
func NewService(
	repo Repository,
	store domain.ObjectStore,
	codes numerator.Generator,
	txManager tx.Manager,
	auditLog audit.Logger,
) *Service {
	if auditLog == nil {
		auditLog = audit.NopLogger{}
	}
	s := &Service{
		repo:      repo,
		store:     store,
		numerator: codes,
		txManager: txManager,
		audit:     auditLog,
		hooks:     domain.NewHookRegistry[*PurchaseOrder](),
	}
	s.hooks.OnBeforeCreate(func(ctx context.Context, po *PurchaseOrder) error {
		return audit.EnrichCreatedBy(ctx, po)
	})
	return s
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*PurchaseOrder] {
	return s.hooks
}

// checkReferences verifies the supplier and every product belong to the
// order's organization.
func (s *Service) checkReferences(ctx context.Context, po *PurchaseOrder) error {
	scope := entity.Scope{OrganizationID: po.OrganizationID}

	ok, err := s.store.Exists(ctx, supplier.Meta, po.SupplierID, scope)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewInvalidReference("supplierId", po.SupplierID.String())
	}

	checked := make(map[id.ID]struct{}, len(po.Lines))
	for _, line := range po.Lines {
		if _, done := checked[line.ProductID]; done {
			continue
		}
		ok, err := s.store.Exists(ctx, product.Meta, line.ProductID, scope)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewInvalidReference("productId", line.ProductID.String())
		}
		checked[line.ProductID] = struct{}{}
	}
	return nil
}

func (s *Service) objects(po *PurchaseOrder) []entity.Persistable {
	objs := make([]entity.Persistable, 0, len(po.Lines)+1)
	objs = append(objs, po)
	for i := range po.Lines {
		objs = append(objs, &po.Lines[i])
	}
	return objs
}

// Create numbers the order when it has no code and saves it with its lines.
func (s *Service) Create(ctx context.Context, po *PurchaseOrder) error {
	po.AssignOrganization(appctx.GetOrganizationID(ctx))
	po.EnsureID()
	po.bindLines()

	if err := po.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, po); err != nil {
		return err
	}
	if err := s.hooks.Run(ctx, domain.BeforeCreate, po); err != nil {
		return err
	}

	generated := po.Code == ""
	for attempt := 1; ; attempt++ {
		if generated {
			code, err := s.numerator.NextCode(ctx, Meta, entity.Scope{OrganizationID: po.OrganizationID})
			if err != nil {
				return fmt.Errorf("next purchase order code: %w", err)
			}
			po.Code = code
		}

		err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := s.store.SaveObjectsCommit(ctx, s.objects(po)...); err != nil {
				return err
			}
			return s.audit.LogChange(ctx, Meta.Table, po.ID, audit.ActionCreate, map[string]any{
				"code":       po.Code,
				"supplierId": po.SupplierID.String(),
				"lines":      len(po.Lines),
				"total":      po.TotalAmount().String(),
			})
		})
		if err == nil {
			break
		}
		if !generated || attempt >= codeAttempts || !apperror.IsDuplicate(err) {
			return err
		}
		logger.Warn(ctx, "generated code collided, retrying", "entity", Meta.Entity, "code", po.Code)
	}

	logger.Info(ctx, "purchase order created", "id", po.ID.String(), "code", po.Code)

	if err := s.hooks.Run(ctx, domain.AfterCreate, po); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", Meta.Entity, "error", err)
	}
	return nil
}

// GetByID returns the order with its lines.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*PurchaseOrder, error) {
	po, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.GetLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	po.Lines = lines
	return po, nil
}

// ListForOrganization returns the order headers of the caller's organization.
func (s *Service) ListForOrganization(ctx context.Context) ([]PurchaseOrder, error) {
	return s.repo.ListForOrganization(ctx)
}

// Delete removes the order together with its lines and receivings.
func (s *Service) Delete(ctx context.Context, orderID id.ID) error {
	po, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.hooks.Run(ctx, domain.BeforeDelete, po); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.DeleteByID(ctx, Meta, orderID); err != nil {
			return err
		}
		return s.audit.LogChange(ctx, Meta.Table, orderID, audit.ActionDelete, map[string]any{"code": po.Code})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase order deleted", "id", orderID.String(), "code", po.Code)

	if err := s.hooks.Run(ctx, domain.AfterDelete, po); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", Meta.Entity, "error", err)
	}
	return nil
}
