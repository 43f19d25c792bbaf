// Package audit provides change logging contracts and audit field enrichment.
package audit

import (
	"context"

	appctx "psi/internal/core/context"
	"psi/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Logger records entity changes. The postgres AuditService implements it.
type Logger interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action Action, changes map[string]any) error
}

// NopLogger discards every change.
type NopLogger struct{}

func (NopLogger) LogChange(context.Context, string, id.ID, Action, map[string]any) error { return nil }

// EnrichCreatedBy sets CreatedBy and UpdatedBy from the context user.
// Use in BeforeCreate hooks. No-op without an authenticated user.
func EnrichCreatedBy(ctx context.Context, entity any) error {
	userID := appctx.GetUserID(ctx)
	if userID == "" {
		return nil
	}

	if e, ok := entity.(interface {
		SetCreatedBy(string)
		SetUpdatedBy(string)
	}); ok {
		e.SetCreatedBy(userID)
		e.SetUpdatedBy(userID)
	}
	return nil
}

// EnrichUpdatedBy sets only UpdatedBy. Use in BeforeUpdate hooks.
func EnrichUpdatedBy(ctx context.Context, entity any) error {
	userID := appctx.GetUserID(ctx)
	if userID == "" {
		return nil
	}

	if e, ok := entity.(interface{ SetUpdatedBy(string) }); ok {
		e.SetUpdatedBy(userID)
	}
	return nil
}
