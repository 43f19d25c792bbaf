package domain

import (
	"context"
	"fmt"

	"psi/internal/core/apperror"
	appctx "psi/internal/core/context"
	"psi/internal/core/entity"
	"psi/internal/core/id"
	"psi/internal/core/numerator"
	"psi/internal/core/tx"
	"psi/pkg/logger"
)

// codeAttempts bounds retries when a generated code collides with a
// concurrent insert.
const codeAttempts = 3

// CatalogService provides business logic for catalog entities.
type CatalogService[T CatalogEntity] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	numerator numerator.Generator
	hooks     *HookRegistry[T]
	meta      entity.Meta
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T CatalogEntity] struct {
	Repo      CatalogRepository[T]
	TxManager tx.Manager
	Numerator numerator.Generator
	Meta      entity.Meta
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T CatalogEntity](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:      cfg.Repo,
		txManager: cfg.TxManager,
		numerator: cfg.Numerator,
		hooks:     NewHookRegistry[T](),
		meta:      cfg.Meta,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

func (s *CatalogService[T]) entityName() string {
	if s.meta.Entity != "" {
		return s.meta.Entity
	}
	return s.meta.Table
}

func normalizeValidationErr(err error) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, idOrCode any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName(), idOrCode)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName()).WithDetail("id", idOrCode)
}

// Create assigns the caller's organization and, when empty, the next code,
// then inserts the entity.
func (s *CatalogService[T]) Create(ctx context.Context, e T) error {
	e.AssignOrganization(appctx.GetOrganizationID(ctx))

	if err := e.Validate(ctx); err != nil {
		return normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeCreate, e); err != nil {
		return err
	}

	generated := e.GetCode() == ""
	for attempt := 1; ; attempt++ {
		if generated {
			code, err := s.numerator.NextCode(ctx, s.meta, entity.Scope{OrganizationID: e.GetOrganizationID()})
			if err != nil {
				return fmt.Errorf("next %s code: %w", s.entityName(), err)
			}
			e.SetCode(code)
		}

		err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := s.repo.Create(ctx, e); err != nil {
				return fmt.Errorf("create %s: %w", s.entityName(), err)
			}
			return nil
		})
		if err == nil {
			break
		}
		if !generated || attempt >= codeAttempts || !apperror.IsDuplicate(err) {
			return err
		}
		logger.Warn(ctx, "generated code collided, retrying", "entity", s.entityName(), "code", e.GetCode())
	}

	if err := s.hooks.Run(ctx, AfterCreate, e); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName(), "error", err)
	}
	return nil
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	e, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return e, s.normalizeGetErr(err, entityID.String())
	}
	return e, nil
}

// GetByCode retrieves entity by code.
func (s *CatalogService[T]) GetByCode(ctx context.Context, code string) (T, error) {
	e, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return e, s.normalizeGetErr(err, code)
	}
	return e, nil
}

// FindByName returns the entity with the given name; found is false on a miss.
func (s *CatalogService[T]) FindByName(ctx context.Context, name string) (T, bool, error) {
	return s.repo.FindByName(ctx, name)
}

// FindByExternalID returns the entity linked to externalID; found is false on a miss.
func (s *CatalogService[T]) FindByExternalID(ctx context.Context, externalID string) (T, bool, error) {
	return s.repo.FindByExternalID(ctx, externalID)
}

// ListForOrganization returns every entity of the caller's organization.
func (s *CatalogService[T]) ListForOrganization(ctx context.Context) ([]T, error) {
	return s.repo.ListForOrganization(ctx)
}

// NextCode previews the code the next created entity would get.
func (s *CatalogService[T]) NextCode(ctx context.Context) (string, error) {
	return s.numerator.NextCode(ctx, s.meta, entity.Scope{OrganizationID: appctx.GetOrganizationID(ctx)})
}

// Update updates an existing entity.
func (s *CatalogService[T]) Update(ctx context.Context, e T) error {
	if err := e.Validate(ctx); err != nil {
		return normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeUpdate, e); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, e); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName(), err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterUpdate, e); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", s.entityName(), "error", err)
	}
	return nil
}

// Delete performs soft delete.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	e, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return s.normalizeGetErr(err, entityID.String())
	}

	if err := s.hooks.Run(ctx, BeforeDelete, e); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetDeletionMark(ctx, entityID, true); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName(), err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterDelete, e); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", s.entityName(), "error", err)
	}
	return nil
}

// SetDeletionMark sets or clears the soft-delete mark.
func (s *CatalogService[T]) SetDeletionMark(ctx context.Context, entityID id.ID, marked bool) error {
	return s.repo.SetDeletionMark(ctx, entityID, marked)
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter)
}

// Exists checks if entity exists.
func (s *CatalogService[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}
