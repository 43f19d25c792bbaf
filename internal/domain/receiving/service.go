package receiving

import (
	"context"
	"time"

	"psi/internal/core/apperror"
	"psi/internal/core/entity"
	"psi/internal/core/id"
	"psi/internal/core/tx"
	"psi/internal/domain"
	"psi/internal/domain/audit"
	"psi/internal/domain/purchasing"
	"psi/pkg/logger"
)

// ListFilter for filtering receivings.
type ListFilter struct {
	domain.ListFilter

	PurchaseOrderID *id.ID
	StatusID        *id.ID
	DateFrom        *time.Time
	DateTo          *time.Time
}

// Repository reads receivings. Reads are limited to receivings whose
// purchase order belongs to the caller's organization.
type Repository interface {
	// GetByID returns the header with its SQL total, or NotFound.
	GetByID(ctx context.Context, receivingID id.ID) (*Receiving, error)

	// GetLines returns the lines with their products resolved.
	GetLines(ctx context.Context, receivingID id.ID) ([]ReceivingLine, error)

	// FilterByPurchaseOrder returns every receiving of an order, newest first.
	FilterByPurchaseOrder(ctx context.Context, orderID id.ID) ([]*Receiving, error)

	// List returns a page of headers with SQL totals.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Receiving], error)
}

// OrderReader loads purchase orders with their lines.
type OrderReader interface {
	GetByID(ctx context.Context, orderID id.ID) (*purchasing.PurchaseOrder, error)
}

// StatusChecker tells whether an enum value has a given type.
type StatusChecker interface {
	BelongsTo(ctx context.Context, valueID id.ID, typ string) (bool, error)
}

// Service provides business operations for receivings.
type Service struct {
	repo      Repository
	store     domain.ObjectStore
	orders    OrderReader
	statuses  StatusChecker
	txManager tx.Manager
	audit     audit.Logger
	hooks     *domain.HookRegistry[*Receiving]
}

// ServiceConfig configures the receiving service.
type ServiceConfig struct {
	Repo      Repository
	Store     domain.ObjectStore
	Orders    OrderReader
	Statuses  StatusChecker
	TxManager tx.Manager
	// Audit defaults to audit.NopLogger.
	Audit audit.Logger
}

// NewService creates a new receiving service.
func NewService(cfg ServiceConfig) *Service {
	auditLog := cfg.Audit
	if auditLog == nil {
		auditLog = audit.NopLogger{}
	}
	return &Service{
		repo:      cfg.Repo,
		store:     cfg.Store,
		orders:    cfg.Orders,
		statuses:  cfg.Statuses,
		txManager: cfg.TxManager,
		audit:     auditLog,
		hooks:     domain.NewHookRegistry[*Receiving](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Receiving] {
	return s.hooks
}

// loadOrder fetches the purchase order of r, reporting a missing or foreign
// order as an invalid reference.
func (s *Service) loadOrder(ctx context.Context, orderID id.ID) (*purchasing.PurchaseOrder, error) {
	po, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewInvalidReference("purchaseOrderId", orderID.String())
		}
		return nil, err
	}
	return po, nil
}

// checkReferences validates the status type, the order, and that every
// line refers to a line of that order. The loaded order is attached to r.
func (s *Service) checkReferences(ctx context.Context, r *Receiving) error {
	ok, err := s.statuses.BelongsTo(ctx, r.StatusID, r.StatusFilter())
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewBusinessRule(apperror.CodeInvalidStatus, "status is not a receiving status").
			WithDetail("field", "statusId").
			WithDetail("id", r.StatusID.String())
	}

	po, err := s.loadOrder(ctx, r.PurchaseOrderID)
	if err != nil {
		return err
	}
	for i := range r.Lines {
		if po.Line(r.Lines[i].PurchaseOrderLineID) == nil {
			return apperror.NewInvalidReference("purchaseOrderLineId", r.Lines[i].PurchaseOrderLineID.String()).
				WithDetail("lineNo", i+1)
		}
	}
	r.AttachPurchaseOrder(po)
	return nil
}

func objects(r *Receiving) []entity.Persistable {
	objs := make([]entity.Persistable, 0, len(r.Lines)+1)
	objs = append(objs, r)
	for i := range r.Lines {
		objs = append(objs, &r.Lines[i])
	}
	return objs
}

func changes(r *Receiving) map[string]any {
	c := map[string]any{
		"date":            r.Date,
		"statusId":        r.StatusID.String(),
		"purchaseOrderId": r.PurchaseOrderID.String(),
		"lines":           len(r.Lines),
		"totalAmount":     r.TotalAmount().String(),
	}
	if r.Remark != nil {
		c["remark"] = *r.Remark
	}
	return c
}

// Create validates r and saves it with its lines in one transaction.
func (s *Service) Create(ctx context.Context, r *Receiving) error {
	r.EnsureID()
	r.bindLines()

	if err := r.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, r); err != nil {
		return err
	}
	if err := s.hooks.Run(ctx, domain.BeforeCreate, r); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.SaveObjectsCommit(ctx, objects(r)...); err != nil {
			return err
		}
		return s.audit.LogChange(ctx, Meta.Table, r.ID, audit.ActionCreate, changes(r))
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "receiving created",
		"id", r.ID.String(),
		"purchase_order_id", r.PurchaseOrderID.String(),
		"total_amount", r.TotalAmount().String())

	if err := s.hooks.Run(ctx, domain.AfterCreate, r); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", Meta.Entity, "error", err)
	}
	return nil
}

// Update replaces the header and lines of an existing receiving. Lines no
// longer present are deleted.
func (s *Service) Update(ctx context.Context, r *Receiving) error {
	existing, err := s.repo.GetByID(ctx, r.ID)
	if err != nil {
		return err
	}
	oldLines, err := s.repo.GetLines(ctx, r.ID)
	if err != nil {
		return err
	}
	existing.Lines = oldLines

	kept := make(map[id.ID]bool, len(oldLines))
	for _, l := range oldLines {
		kept[l.ID] = false
	}
	for i := range r.Lines {
		if _, own := kept[r.Lines[i].ID]; own {
			kept[r.Lines[i].ID] = true
			continue
		}
		// foreign or empty IDs become new lines
		r.Lines[i].ID = id.New()
	}
	r.bindLines()

	if err := r.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, r); err != nil {
		return err
	}
	if err := s.hooks.Run(ctx, domain.BeforeUpdate, r); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.SaveObjectsCommit(ctx, objects(r)...); err != nil {
			return err
		}
		for lineID, stillThere := range kept {
			if stillThere {
				continue
			}
			if err := s.store.DeleteByID(ctx, LineMeta, lineID); err != nil {
				return err
			}
		}
		return s.audit.LogChange(ctx, Meta.Table, r.ID, audit.ActionUpdate, map[string]any{
			"old": changes(existing),
			"new": changes(r),
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "receiving updated", "id", r.ID.String(), "total_amount", r.TotalAmount().String())

	if err := s.hooks.Run(ctx, domain.AfterUpdate, r); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", Meta.Entity, "error", err)
	}
	return nil
}

// GetByID returns the receiving with its lines and purchase order.
func (s *Service) GetByID(ctx context.Context, receivingID id.ID) (*Receiving, error) {
	var r *Receiving
	err := tx.ReadOnly(ctx, s.txManager, func(ctx context.Context) error {
		var err error
		if r, err = s.repo.GetByID(ctx, receivingID); err != nil {
			return err
		}
		if r.Lines, err = s.repo.GetLines(ctx, receivingID); err != nil {
			return err
		}
		po, err := s.orders.GetByID(ctx, r.PurchaseOrderID)
		if err != nil {
			return err
		}
		r.AttachPurchaseOrder(po)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// FilterByPurchaseOrder returns the receivings of an order.
func (s *Service) FilterByPurchaseOrder(ctx context.Context, orderID id.ID) ([]*Receiving, error) {
	return s.repo.FilterByPurchaseOrder(ctx, orderID)
}

// ForPurchaseOrder is FilterByPurchaseOrder for an order that must exist in
// the caller's organization.
func (s *Service) ForPurchaseOrder(ctx context.Context, orderID id.ID) ([]*Receiving, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.FilterByPurchaseOrder(ctx, orderID)
}

// List returns a page of receivings.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Receiving], error) {
	return s.repo.List(ctx, filter)
}

// Delete removes the receiving and all of its lines.
func (s *Service) Delete(ctx context.Context, receivingID id.ID) error {
	r, err := s.repo.GetByID(ctx, receivingID)
	if err != nil {
		return err
	}
	if err := s.hooks.Run(ctx, domain.BeforeDelete, r); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.DeleteByID(ctx, Meta, receivingID); err != nil {
			return err
		}
		return s.audit.LogChange(ctx, Meta.Table, receivingID, audit.ActionDelete, changes(r))
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "receiving deleted", "id", receivingID.String())

	if err := s.hooks.Run(ctx, domain.AfterDelete, r); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", Meta.Entity, "error", err)
	}
	return nil
}
