// Package counterparty provides the counterparty catalog (customers and
// suppliers with a running ledger balance).
package counterparty

import (
	"time"

	"onmuhasebe/internal/core/apperror"
	"onmuhasebe/internal/core/id"
)

// Type classifies a counterparty.
type Type string

const (
	TypeCustomer Type = "customer"
	TypeSupplier Type = "supplier"
	TypeBoth     Type = "both"

	// TypeRetail marks the walk-in customer: retail sales never produce
	// counterparty-ledger entries and cannot use open-account payment.
	TypeRetail Type = "retail"
)

// Valid reports whether t is a known counterparty type.
func (t Type) Valid() bool {
	switch t {
	case TypeCustomer, TypeSupplier, TypeBoth, TypeRetail:
		return true
	}
	return false
}

// Counterparty represents a customer or supplier.
type Counterparty struct {
	ID   id.ID  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
	Type Type   `db:"type" json:"type"`

	TaxNumber string `db:"tax_number" json:"taxNumber,omitempty"`
	Phone     string `db:"phone" json:"phone,omitempty"`
	Email     string `db:"email" json:"email,omitempty"`
	Address   string `db:"address" json:"address,omitempty"`
	Notes     string `db:"notes" json:"notes,omitempty"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a counterparty with defaults applied.
func New(name string, cpType Type) *Counterparty {
	now := time.Now().UTC()
	return &Counterparty{
		ID:        id.New(),
		Name:      name,
		Type:      cpType,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsRetail reports whether this is the walk-in customer.
func (c *Counterparty) IsRetail() bool {
	return c.Type == TypeRetail
}

// Validate checks business rules.
func (c *Counterparty) Validate() error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if !c.Type.Valid() {
		return apperror.NewValidation("unknown counterparty type").
			WithDetail("field", "type").
			WithDetail("value", string(c.Type))
	}
	return nil
}
