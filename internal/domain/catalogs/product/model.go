// Package product provides the product catalog. The current stock
// quantity lives on the product row and is mutated only by the stock
// ledger adapter.
package product

import (
	"time"

	"onmuhasebe/internal/core/apperror"
	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
)

// Product represents a sellable or purchasable item.
type Product struct {
	ID   id.ID  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
	Unit string `db:"unit" json:"unit"`

	// Current stock level, updated via signed deltas. Negative stock is
	// permitted (back-orders).
	StockQty types.Quantity `db:"stock_qty" json:"stockQty"`

	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`
	SalePrice     types.Money `db:"sale_price" json:"salePrice"`
	VATRate       types.Money `db:"vat_rate" json:"vatRate"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a product with defaults applied.
func New(name string) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:            id.New(),
		Name:          name,
		Unit:          "pcs",
		StockQty:      types.Zero(),
		PurchasePrice: types.Zero(),
		SalePrice:     types.Zero(),
		VATRate:       types.Zero(),
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate checks business rules.
func (p *Product) Validate() error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if p.VATRate.IsNegative() {
		return apperror.NewValidation("vat rate cannot be negative").
			WithDetail("field", "vatRate")
	}
	return nil
}
