// Package invoice provides the invoice document and its financial-effects
// engine: pricing, derived ledger effects and the lifecycle operations
// (create, update, delete, return).
package invoice

import (
	"time"

	"onmuhasebe/internal/core/apperror"
	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
)

// InvoiceType classifies the economic direction of an invoice.
type InvoiceType string

const (
	TypeSale           InvoiceType = "sale"
	TypePurchase       InvoiceType = "purchase"
	TypeSaleReturn     InvoiceType = "sale_return"
	TypePurchaseReturn InvoiceType = "purchase_return"
	TypeOpeningBalance InvoiceType = "opening_balance"
)

// Valid reports whether t is a known invoice type.
func (t InvoiceType) Valid() bool {
	switch t {
	case TypeSale, TypePurchase, TypeSaleReturn, TypePurchaseReturn, TypeOpeningBalance:
		return true
	}
	return false
}

// ReturnType returns the reversing invoice type for an original invoice.
func (t InvoiceType) ReturnType() (InvoiceType, bool) {
	switch t {
	case TypeSale:
		return TypeSaleReturn, true
	case TypePurchase:
		return TypePurchaseReturn, true
	}
	return "", false
}

// PaymentType describes how an invoice is settled.
type PaymentType string

const (
	PaymentCash  PaymentType = "cash"
	PaymentCard  PaymentType = "card"
	PaymentWire  PaymentType = "wire"
	PaymentCheck PaymentType = "check"
	PaymentNote  PaymentType = "note"

	// PaymentOpenAccount defers settlement: only the main ledger entry
	// is produced, no cash or settlement effect.
	PaymentOpenAccount PaymentType = "open_account"

	// PaymentNeutral moves stock with no financial effect at all.
	PaymentNeutral PaymentType = "neutral"
)

// Valid reports whether p is a known payment type.
func (p PaymentType) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentWire, PaymentCheck, PaymentNote,
		PaymentOpenAccount, PaymentNeutral:
		return true
	}
	return false
}

// IsImmediate reports whether the invoice is settled at invoice time
// (cash, card, wire, check or note).
func (p PaymentType) IsImmediate() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentWire, PaymentCheck, PaymentNote:
		return true
	}
	return false
}

// DiscountType classifies the invoice-level discount.
type DiscountType string

const (
	DiscountNone    DiscountType = "none"
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

// Valid reports whether d is a known discount type.
func (d DiscountType) Valid() bool {
	switch d {
	case DiscountNone, DiscountPercent, DiscountAmount:
		return true
	}
	return false
}

// Invoice represents a sale, purchase, return or opening-balance document.
type Invoice struct {
	ID     id.ID       `db:"id" json:"id"`
	Number string      `db:"number" json:"number"`
	Type   InvoiceType `db:"type" json:"type"`
	Date   time.Time   `db:"date" json:"date"`

	CounterpartyID id.ID `db:"counterparty_id" json:"counterpartyId"`

	PaymentType   PaymentType `db:"payment_type" json:"paymentType"`
	CashAccountID *id.ID      `db:"cash_account_id" json:"cashAccountId,omitempty"`
	DueDate       *time.Time  `db:"due_date" json:"dueDate,omitempty"`

	DiscountType  DiscountType `db:"discount_type" json:"discountType"`
	DiscountValue types.Money  `db:"discount_value" json:"discountValue"`

	// Totals, recalculated from lines on every write
	TotalNet   types.Money `db:"total_net" json:"totalNet"`
	TotalGross types.Money `db:"total_gross" json:"totalGross"`

	Notes string `db:"notes" json:"notes,omitempty"`

	// Set on return invoices, points at the reversed original
	OriginalInvoiceID *id.ID `db:"original_invoice_id" json:"originalInvoiceId,omitempty"`

	// Set when the invoice was produced from a sales order
	OrderID *id.ID `db:"order_id" json:"orderId,omitempty"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Table part
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one invoice line. Lines are replaced atomically with
// the invoice and never mutated independently.
type Line struct {
	LineID    id.ID `db:"line_id" json:"lineId"`
	InvoiceID id.ID `db:"invoice_id" json:"-"`
	LineNo    int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"` // VAT-exclusive
	VATRate   types.Money    `db:"vat_rate" json:"vatRate"`     // percent

	// Two sequential percentage discounts
	Discount1Pct types.Money `db:"discount1_pct" json:"discount1Pct"`
	Discount2Pct types.Money `db:"discount2_pct" json:"discount2Pct"`

	// Calculated totals
	VATAmount  types.Money `db:"vat_amount" json:"vatAmount"`
	TotalNet   types.Money `db:"total_net" json:"totalNet"`
	TotalGross types.Money `db:"total_gross" json:"totalGross"`

	// Purchase cost at invoice time, kept for margin reporting on sales
	PurchaseCost types.Money `db:"purchase_cost" json:"purchaseCost"`
}

// New creates a new invoice with defaults applied.
func New(invType InvoiceType, counterpartyID id.ID) *Invoice {
	now := time.Now().UTC()
	return &Invoice{
		ID:             id.New(),
		Type:           invType,
		Date:           now,
		CounterpartyID: counterpartyID,
		PaymentType:    PaymentOpenAccount,
		DiscountType:   DiscountNone,
		DiscountValue:  types.Zero(),
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
		Lines:          make([]Line, 0),
	}
}

// AddLine appends a line and recalculates its totals.
func (inv *Invoice) AddLine(productID id.ID, qty types.Quantity, unitPrice, vatRate types.Money) *Line {
	line := Line{
		LineID:    id.New(),
		InvoiceID: inv.ID,
		LineNo:    len(inv.Lines) + 1,
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: unitPrice,
		VATRate:   vatRate,
	}
	CalculateLine(&line)
	inv.Lines = append(inv.Lines, line)
	return &inv.Lines[len(inv.Lines)-1]
}

// Validate checks structural business rules that need no repository access.
func (inv *Invoice) Validate() error {
	if !inv.Type.Valid() {
		return apperror.NewValidation("unknown invoice type").
			WithDetail("field", "type").
			WithDetail("value", string(inv.Type))
	}

	if !inv.PaymentType.Valid() {
		return apperror.NewValidation("unknown payment type").
			WithDetail("field", "paymentType").
			WithDetail("value", string(inv.PaymentType))
	}

	if !inv.DiscountType.Valid() {
		return apperror.NewValidation("unknown discount type").
			WithDetail("field", "discountType").
			WithDetail("value", string(inv.DiscountType))
	}

	if id.IsNil(inv.CounterpartyID) {
		return apperror.NewValidation("counterparty is required").
			WithDetail("field", "counterpartyId")
	}

	if inv.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	if len(inv.Lines) == 0 {
		return apperror.NewValidation("invoice must have at least one line").
			WithDetail("field", "lines")
	}

	for _, line := range inv.Lines {
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
