package dto

import (
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain/catalogs/product"
)

// CreateProductRequest represents a request to create a product.
type CreateProductRequest struct {
	Code          string      `json:"code,omitempty"`
	Name          string      `json:"name" binding:"required"`
	Unit          string      `json:"unit,omitempty"`
	PurchasePrice types.Money `json:"purchasePrice"`
	SalePrice     types.Money `json:"salePrice"`
	VATRate       types.Money `json:"vatRate"`
}

// ToEntity converts request to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.New(r.Name)
	p.Code = r.Code
	if r.Unit != "" {
		p.Unit = r.Unit
	}
	p.PurchasePrice = r.PurchasePrice
	p.SalePrice = r.SalePrice
	p.VATRate = r.VATRate
	return p
}

// UpdateProductRequest represents a request to update a product.
// Stock quantity is not updatable here: it moves only through invoices.
type UpdateProductRequest struct {
	Name          *string      `json:"name,omitempty"`
	Unit          *string      `json:"unit,omitempty"`
	PurchasePrice *types.Money `json:"purchasePrice,omitempty"`
	SalePrice     *types.Money `json:"salePrice,omitempty"`
	VATRate       *types.Money `json:"vatRate,omitempty"`
	Version       int          `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Unit != nil {
		p.Unit = *r.Unit
	}
	if r.PurchasePrice != nil {
		p.PurchasePrice = *r.PurchasePrice
	}
	if r.SalePrice != nil {
		p.SalePrice = *r.SalePrice
	}
	if r.VATRate != nil {
		p.VATRate = *r.VATRate
	}
	p.Version = r.Version
}
