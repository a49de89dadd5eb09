package dto

import (
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain/registers/cash"
)

// CreateCashAccountRequest represents a request to create a cash account.
type CreateCashAccountRequest struct {
	Name     string `json:"name" binding:"required"`
	Currency string `json:"currency,omitempty" binding:"omitempty,len=3"`
}

// ToEntity converts request to domain entity.
func (r *CreateCashAccountRequest) ToEntity() *cash.Account {
	a := cash.NewAccount(r.Name)
	if r.Currency != "" {
		a.Currency = r.Currency
	}
	return a
}

// UpdateCashAccountRequest represents a request to update a cash account.
// The balance is not updatable here: it moves only through settlements.
type UpdateCashAccountRequest struct {
	Name     *string `json:"name,omitempty"`
	Currency *string `json:"currency,omitempty" binding:"omitempty,len=3"`
	Version  int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateCashAccountRequest) ApplyTo(a *cash.Account) {
	if r.Name != nil {
		a.Name = *r.Name
	}
	if r.Currency != nil {
		a.Currency = *r.Currency
	}
	a.Version = r.Version
}

// BalanceResponse carries a single computed balance.
type BalanceResponse struct {
	Balance types.Money `json:"balance"`
}
