// Package enums holds the enum_values lookup table.
package enums

import (
	"psi/internal/core/entity"
)

// TypeReceivingStatus is the enum type of receiving statuses.
const TypeReceivingStatus = "RECEIVING_STATUS"

// Receiving status codes created by the seed command.
const (
	ReceivingDraft    = "RECEIVING_DRAFT"
	ReceivingComplete = "RECEIVING_COMPLETE"
	ReceivingCanceled = "RECEIVING_CANCELED"
)

// Meta maps EnumValue onto enum_values.
var Meta = entity.Meta{Table: "enum_values", Entity: "enum value"}

// EnumValue is one value of a typed enumeration.
type EnumValue struct {
	entity.BaseEntity

	Type    string `db:"type" json:"type"`
	Code    string `db:"code" json:"code"`
	Display string `db:"display" json:"display"`
}

// Meta implements entity.Persistable.
func (EnumValue) Meta() entity.Meta { return Meta }

// NewEnumValue creates a value with generated ID.
func NewEnumValue(typ, code, display string) *EnumValue {
	return &EnumValue{
		BaseEntity: entity.NewBaseEntity(),
		Type:       typ,
		Code:       code,
		Display:    display,
	}
}
