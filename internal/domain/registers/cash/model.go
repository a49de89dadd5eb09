// Package cash provides cash/bank account balances, mutated in place by
// signed deltas from invoice settlement.
package cash

import (
	"time"

	"onmuhasebe/internal/core/apperror"
	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
)

// Account represents a cash or bank account.
type Account struct {
	ID       id.ID       `db:"id" json:"id"`
	Name     string      `db:"name" json:"name"`
	Currency string      `db:"currency" json:"currency"`
	Balance  types.Money `db:"balance" json:"balance"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewAccount creates an account with defaults applied.
func NewAccount(name string) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:        id.New(),
		Name:      name,
		Currency:  "TRY",
		Balance:   types.Zero(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks business rules.
func (a *Account) Validate() error {
	if a.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if a.Currency == "" {
		return apperror.NewValidation("currency is required").
			WithDetail("field", "currency")
	}
	return nil
}
