// Package filter describes user-supplied list filters.
package filter

import (
	"fmt"
	"slices"
)

// ComparisonType is the kind of comparison of one filter row.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"
	NotEqual       ComparisonType = "neq"
	Less           ComparisonType = "lt"
	LessOrEqual    ComparisonType = "lte"
	Greater        ComparisonType = "gt"
	GreaterOrEqual ComparisonType = "gte"
	InList         ComparisonType = "in"
	NotInList      ComparisonType = "nin"
	Contains       ComparisonType = "contains"  // ILIKE %val%
	NotContains    ComparisonType = "ncontains" // NOT ILIKE %val%
	IsNull         ComparisonType = "null"
	IsNotNull      ComparisonType = "not_null"
)

var known = []ComparisonType{
	Equal, NotEqual, Less, LessOrEqual, Greater, GreaterOrEqual,
	InList, NotInList, Contains, NotContains, IsNull, IsNotNull,
}

// Item is one filter row.
type Item struct {
	Field    string         `json:"field"`    // column name (snake_case)
	Operator ComparisonType `json:"operator"`
	Value    any            `json:"value"` // string, number or list
}

// Validate checks the operator and that Field is one of allowed.
func (i Item) Validate(allowed []string) error {
	if !slices.Contains(known, i.Operator) {
		return fmt.Errorf("unknown filter operator %q", i.Operator)
	}
	if !slices.Contains(allowed, i.Field) {
		return fmt.Errorf("invalid filter column: %s", i.Field)
	}
	return nil
}
