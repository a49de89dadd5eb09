package dto

import (
	"time"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain/invoice"
	"onmuhasebe/internal/domain/orders"
)

// CreateOrderRequest represents a request to create a sales order.
type CreateOrderRequest struct {
	Number         string             `json:"number,omitempty"`
	Date           time.Time          `json:"date" binding:"required"`
	CounterpartyID string             `json:"counterpartyId" binding:"required,uuid"`
	Notes          string             `json:"notes,omitempty"`
	Lines          []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// OrderLineRequest represents a line in an order request.
type OrderLineRequest struct {
	ProductID    string         `json:"productId" binding:"required,uuid"`
	Quantity     types.Quantity `json:"quantity"`
	UnitPrice    types.Money    `json:"unitPrice"`
	VATRate      types.Money    `json:"vatRate"`
	Discount1Pct types.Money    `json:"discount1Pct"`
	Discount2Pct types.Money    `json:"discount2Pct"`
}

// ToEntity converts request to domain entity.
func (r *CreateOrderRequest) ToEntity() *orders.Order {
	counterpartyID, _ := id.Parse(r.CounterpartyID)

	o := orders.NewOrder(counterpartyID)
	o.Number = r.Number
	o.Date = r.Date
	o.Notes = r.Notes

	for _, lr := range r.Lines {
		productID, _ := id.Parse(lr.ProductID)
		o.AddLine(productID, lr.Quantity, lr.UnitPrice, lr.VATRate)
		line := &o.Lines[len(o.Lines)-1]
		line.Discount1Pct = lr.Discount1Pct
		line.Discount2Pct = lr.Discount2Pct
	}

	return o
}

// ConvertOrderRequest carries the invoicing parameters for converting
// an order into a sale invoice.
type ConvertOrderRequest struct {
	PaymentType   string     `json:"paymentType" binding:"required,paymenttype"`
	CashAccountID *string    `json:"cashAccountId,omitempty" binding:"omitempty,uuid"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// ToInput converts the request to the service input.
func (r *ConvertOrderRequest) ToInput() orders.ConvertInput {
	in := orders.ConvertInput{
		PaymentType: invoice.PaymentType(r.PaymentType),
		DueDate:     r.DueDate,
		Notes:       r.Notes,
	}
	if r.CashAccountID != nil {
		accountID, _ := id.Parse(*r.CashAccountID)
		in.CashAccountID = &accountID
	}
	return in
}
