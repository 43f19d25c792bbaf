package entity

import (
	"context"
	"time"

	"psi/internal/core/id"
)

// Validatable entities check their own fields before any database access.
// Failures are *apperror.AppError values with field details.
type Validatable interface {
	Validate(ctx context.Context) error
}

// Persistable is a row that the generic store can upsert.
// Meta describes the table; the db-tagged fields are the columns.
type Persistable interface {
	Meta() Meta
	GetID() id.ID
}

// BaseEntity is the UUIDv7 primary key every table has.
type BaseEntity struct {
	ID id.ID `db:"id" json:"id"`
}

func NewBaseEntity() BaseEntity { return BaseEntity{ID: id.New()} }

func (b BaseEntity) GetID() id.ID { return b.ID }

// EnsureID assigns a fresh ID when none is set.
func (b *BaseEntity) EnsureID() {
	if id.IsNil(b.ID) {
		b.ID = id.New()
	}
}

// BaseDocument adds creation and modification stamps. The By fields hold
// the acting user's id.
type BaseDocument struct {
	BaseEntity

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewBaseDocument stamps both times with the current UTC time.
func NewBaseDocument() BaseDocument {
	now := time.Now().UTC()
	return BaseDocument{
		BaseEntity: NewBaseEntity(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (b *BaseDocument) Touch() { b.UpdatedAt = time.Now().UTC() }

func (b *BaseDocument) SetCreatedBy(userID string) { b.CreatedBy = userID }
func (b *BaseDocument) SetUpdatedBy(userID string) { b.UpdatedBy = userID }

// BaseCatalog is a soft-deletable row with an optimistic lock. Version
// starts at 1 and the repository bumps it on every update.
type BaseCatalog struct {
	BaseEntity
	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`
	Version      int  `db:"version" json:"version"`
}

func NewBaseCatalog() BaseCatalog {
	return BaseCatalog{BaseEntity: NewBaseEntity(), Version: 1}
}

func (b *BaseCatalog) MarkDeleted() { b.DeletionMark = true }

// SetVersion stores the version the repository wrote.
func (b *BaseCatalog) SetVersion(v int) { b.Version = v }
