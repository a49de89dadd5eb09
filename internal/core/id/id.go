// Package id generates identifiers for invoices, orders, catalog
// entries and register rows. IDs are UUIDv7, so sorting by ID follows
// creation order and primary-key index pages stay warm on insert.
package id

import (
	"github.com/google/uuid"
)

// ID identifies a business entity. Alias, not a defined type: database
// scanning and JSON marshalling come straight from the uuid package.
type ID = uuid.UUID

// New returns a fresh time-ordered ID. The 48-bit timestamp prefix
// keeps newly created invoices adjacent in the primary key.
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to V4
		return uuid.New()
	}
	return id
}

// Parse validates and converts a string, e.g. a path parameter.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse panics on invalid input. For fixtures and tests only.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether id is the zero ID.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
