// Package orders provides sales orders and the order-to-invoice
// converter.
package orders

import (
	"time"

	"onmuhasebe/internal/core/apperror"
	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
)

// Status is the lifecycle state of a sales order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInvoiced  Status = "invoiced"
	StatusCancelled Status = "cancelled"
)

// Order represents a sales order awaiting invoicing.
type Order struct {
	ID     id.ID     `db:"id" json:"id"`
	Number string    `db:"number" json:"number"`
	Date   time.Time `db:"date" json:"date"`

	CounterpartyID id.ID  `db:"counterparty_id" json:"counterpartyId"`
	Status         Status `db:"status" json:"status"`

	// Set once the order has been converted
	InvoiceID *id.ID `db:"invoice_id" json:"invoiceId,omitempty"`

	Notes string `db:"notes" json:"notes,omitempty"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Table part
	Lines []OrderLine `db:"-" json:"lines"`
}

// OrderLine represents one ordered item.
type OrderLine struct {
	LineID  id.ID `db:"line_id" json:"lineId"`
	OrderID id.ID `db:"order_id" json:"-"`
	LineNo  int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`
	VATRate   types.Money    `db:"vat_rate" json:"vatRate"`

	Discount1Pct types.Money `db:"discount1_pct" json:"discount1Pct"`
	Discount2Pct types.Money `db:"discount2_pct" json:"discount2Pct"`
}

// NewOrder creates a sales order with defaults applied.
func NewOrder(counterpartyID id.ID) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:             id.New(),
		Date:           now,
		CounterpartyID: counterpartyID,
		Status:         StatusPending,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
		Lines:          make([]OrderLine, 0),
	}
}

// AddLine appends an order line.
func (o *Order) AddLine(productID id.ID, qty types.Quantity, unitPrice, vatRate types.Money) {
	o.Lines = append(o.Lines, OrderLine{
		LineID:    id.New(),
		OrderID:   o.ID,
		LineNo:    len(o.Lines) + 1,
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: unitPrice,
		VATRate:   vatRate,
	})
}

// Validate checks business rules.
func (o *Order) Validate() error {
	if id.IsNil(o.CounterpartyID) {
		return apperror.NewValidation("counterparty is required").
			WithDetail("field", "counterpartyId")
	}
	if len(o.Lines) == 0 {
		return apperror.NewValidation("order must have at least one line").
			WithDetail("field", "lines")
	}
	for _, line := range o.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("line product is required").
				WithDetail("lineNo", line.LineNo)
		}
		if line.Quantity.IsZero() {
			return apperror.NewValidation("line quantity must be non-zero").
				WithDetail("lineNo", line.LineNo)
		}
	}
	return nil
}
