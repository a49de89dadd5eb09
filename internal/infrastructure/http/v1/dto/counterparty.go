package dto

import (
	"onmuhasebe/internal/domain/catalogs/counterparty"
)

// CreateCounterpartyRequest represents a request to create a counterparty.
type CreateCounterpartyRequest struct {
	Code      string `json:"code,omitempty"`
	Name      string `json:"name" binding:"required"`
	Type      string `json:"type" binding:"required,counterpartytype"`
	TaxNumber string `json:"taxNumber,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty" binding:"omitempty,email"`
	Address   string `json:"address,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateCounterpartyRequest) ToEntity() *counterparty.Counterparty {
	cp := counterparty.New(r.Name, counterparty.Type(r.Type))
	cp.Code = r.Code
	cp.TaxNumber = r.TaxNumber
	cp.Phone = r.Phone
	cp.Email = r.Email
	cp.Address = r.Address
	cp.Notes = r.Notes
	return cp
}

// UpdateCounterpartyRequest represents a request to update a counterparty.
type UpdateCounterpartyRequest struct {
	Name      *string `json:"name,omitempty"`
	Type      *string `json:"type,omitempty" binding:"omitempty,counterpartytype"`
	TaxNumber *string `json:"taxNumber,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	Address   *string `json:"address,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Version   int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateCounterpartyRequest) ApplyTo(cp *counterparty.Counterparty) {
	if r.Name != nil {
		cp.Name = *r.Name
	}
	if r.Type != nil {
		cp.Type = counterparty.Type(*r.Type)
	}
	if r.TaxNumber != nil {
		cp.TaxNumber = *r.TaxNumber
	}
	if r.Phone != nil {
		cp.Phone = *r.Phone
	}
	if r.Email != nil {
		cp.Email = *r.Email
	}
	if r.Address != nil {
		cp.Address = *r.Address
	}
	if r.Notes != nil {
		cp.Notes = *r.Notes
	}
	cp.Version = r.Version
}
