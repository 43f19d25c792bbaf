// Package id defines the primary key type of every table.
package id

import "github.com/google/uuid"

// ID is a UUID. Generated IDs are version 7, so they sort by creation time.
type ID = uuid.UUID

// New returns a fresh UUIDv7, falling back to a random v4 if the clock
// source fails.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// Parse parses the canonical string form.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse is Parse that panics; for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// ParseOptional parses an optional reference: nil or "" yields nil.
func ParseOptional(s *string) (*ID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	v, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Nil returns the zero ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether v is the zero ID.
func IsNil(v ID) bool {
	return v == uuid.Nil
}
