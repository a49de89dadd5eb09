package dto

import (
	"time"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain/invoice"
)

// --- Request DTOs ---

// CreateInvoiceRequest represents a request to create an invoice.
type CreateInvoiceRequest struct {
	Number         string               `json:"number,omitempty"`
	Type           string               `json:"type" binding:"required,invoicetype"`
	Date           time.Time            `json:"date" binding:"required"`
	CounterpartyID string               `json:"counterpartyId" binding:"required,uuid"`
	PaymentType    string               `json:"paymentType" binding:"required,paymenttype"`
	CashAccountID  *string              `json:"cashAccountId,omitempty" binding:"omitempty,uuid"`
	DueDate        *time.Time           `json:"dueDate,omitempty"`
	DiscountType   string               `json:"discountType,omitempty" binding:"omitempty,discounttype"`
	DiscountValue  types.Money          `json:"discountValue"`
	Notes          string               `json:"notes,omitempty"`
	Lines          []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// InvoiceLineRequest represents a line in create/update request.
type InvoiceLineRequest struct {
	ProductID    string         `json:"productId" binding:"required,uuid"`
	Quantity     types.Quantity `json:"quantity"`
	UnitPrice    types.Money    `json:"unitPrice"`
	VATRate      types.Money    `json:"vatRate"`
	Discount1Pct types.Money    `json:"discount1Pct"`
	Discount2Pct types.Money    `json:"discount2Pct"`
}

// ToEntity converts request to domain entity.
func (r *CreateInvoiceRequest) ToEntity() *invoice.Invoice {
	counterpartyID, _ := id.Parse(r.CounterpartyID)

	inv := invoice.New(invoice.InvoiceType(r.Type), counterpartyID)
	inv.Number = r.Number
	inv.Date = r.Date
	inv.PaymentType = invoice.PaymentType(r.PaymentType)
	inv.DueDate = r.DueDate
	inv.Notes = r.Notes

	if r.CashAccountID != nil {
		accountID, _ := id.Parse(*r.CashAccountID)
		inv.CashAccountID = &accountID
	}
	if r.DiscountType != "" {
		inv.DiscountType = invoice.DiscountType(r.DiscountType)
		inv.DiscountValue = r.DiscountValue
	}

	for _, lr := range r.Lines {
		productID, _ := id.Parse(lr.ProductID)
		line := inv.AddLine(productID, lr.Quantity, lr.UnitPrice, lr.VATRate)
		line.Discount1Pct = lr.Discount1Pct
		line.Discount2Pct = lr.Discount2Pct
	}

	return inv
}

// UpdateInvoiceRequest represents a request to update an invoice.
// The invoice number is immutable and cannot appear here.
type UpdateInvoiceRequest struct {
	Date          *time.Time           `json:"date,omitempty"`
	PaymentType   *string              `json:"paymentType,omitempty" binding:"omitempty,paymenttype"`
	CashAccountID *string              `json:"cashAccountId,omitempty" binding:"omitempty,uuid"`
	DueDate       *time.Time           `json:"dueDate,omitempty"`
	DiscountType  *string              `json:"discountType,omitempty" binding:"omitempty,discounttype"`
	DiscountValue *types.Money         `json:"discountValue,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
	Lines         []InvoiceLineRequest `json:"lines,omitempty" binding:"omitempty,min=1,dive"`
	Version       int                  `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateInvoiceRequest) ApplyTo(inv *invoice.Invoice) {
	if r.Date != nil {
		inv.Date = *r.Date
	}
	if r.PaymentType != nil {
		inv.PaymentType = invoice.PaymentType(*r.PaymentType)
	}
	if r.CashAccountID != nil {
		accountID, _ := id.Parse(*r.CashAccountID)
		inv.CashAccountID = &accountID
	}
	if r.DueDate != nil {
		inv.DueDate = r.DueDate
	}
	if r.DiscountType != nil {
		inv.DiscountType = invoice.DiscountType(*r.DiscountType)
	}
	if r.DiscountValue != nil {
		inv.DiscountValue = *r.DiscountValue
	}
	if r.Notes != nil {
		inv.Notes = *r.Notes
	}

	// If lines are provided, rebuild the table part wholesale
	if r.Lines != nil {
		inv.Lines = make([]invoice.Line, 0, len(r.Lines))
		for _, lr := range r.Lines {
			productID, _ := id.Parse(lr.ProductID)
			line := inv.AddLine(productID, lr.Quantity, lr.UnitPrice, lr.VATRate)
			line.Discount1Pct = lr.Discount1Pct
			line.Discount2Pct = lr.Discount2Pct
		}
	}

	inv.Version = r.Version
}

// ReturnInvoiceRequest represents a request to create a return invoice.
type ReturnInvoiceRequest struct {
	Date  *time.Time `json:"date,omitempty"`
	Notes string     `json:"notes,omitempty"`
}

// --- Response DTOs ---

// InvoiceResponse contains invoice fields. Monetary totals are rounded
// to 2 decimals for presentation; stored values keep full precision.
type InvoiceResponse struct {
	ID                string                `json:"id"`
	Number            string                `json:"number"`
	Type              string                `json:"type"`
	Date              time.Time             `json:"date"`
	CounterpartyID    string                `json:"counterpartyId"`
	PaymentType       string                `json:"paymentType"`
	CashAccountID     *string               `json:"cashAccountId,omitempty"`
	DueDate           *time.Time            `json:"dueDate,omitempty"`
	DiscountType      string                `json:"discountType"`
	DiscountValue     types.Money           `json:"discountValue"`
	TotalNet          types.Money           `json:"totalNet"`
	TotalGross        types.Money           `json:"totalGross"`
	Notes             string                `json:"notes,omitempty"`
	OriginalInvoiceID *string               `json:"originalInvoiceId,omitempty"`
	OrderID           *string               `json:"orderId,omitempty"`
	Version           int                   `json:"version"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
	Lines             []InvoiceLineResponse `json:"lines"`
}

// InvoiceLineResponse contains line fields with rounded totals.
type InvoiceLineResponse struct {
	LineID       string         `json:"lineId"`
	LineNo       int            `json:"lineNo"`
	ProductID    string         `json:"productId"`
	Quantity     types.Quantity `json:"quantity"`
	UnitPrice    types.Money    `json:"unitPrice"`
	VATRate      types.Money    `json:"vatRate"`
	Discount1Pct types.Money    `json:"discount1Pct"`
	Discount2Pct types.Money    `json:"discount2Pct"`
	VATAmount    types.Money    `json:"vatAmount"`
	TotalNet     types.Money    `json:"totalNet"`
	TotalGross   types.Money    `json:"totalGross"`
	PurchaseCost types.Money    `json:"purchaseCost"`
}

// FromInvoice creates InvoiceResponse from the domain entity.
func FromInvoice(inv *invoice.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:             inv.ID.String(),
		Number:         inv.Number,
		Type:           string(inv.Type),
		Date:           inv.Date,
		CounterpartyID: inv.CounterpartyID.String(),
		PaymentType:    string(inv.PaymentType),
		DueDate:        inv.DueDate,
		DiscountType:   string(inv.DiscountType),
		DiscountValue:  inv.DiscountValue,
		TotalNet:       types.Round2(inv.TotalNet),
		TotalGross:     types.Round2(inv.TotalGross),
		Notes:          inv.Notes,
		Version:        inv.Version,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
		Lines:          make([]InvoiceLineResponse, 0, len(inv.Lines)),
	}

	if inv.CashAccountID != nil {
		s := inv.CashAccountID.String()
		resp.CashAccountID = &s
	}
	if inv.OriginalInvoiceID != nil {
		s := inv.OriginalInvoiceID.String()
		resp.OriginalInvoiceID = &s
	}
	if inv.OrderID != nil {
		s := inv.OrderID.String()
		resp.OrderID = &s
	}

	for _, line := range inv.Lines {
		resp.Lines = append(resp.Lines, InvoiceLineResponse{
			LineID:       line.LineID.String(),
			LineNo:       line.LineNo,
			ProductID:    line.ProductID.String(),
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			VATRate:      line.VATRate,
			Discount1Pct: line.Discount1Pct,
			Discount2Pct: line.Discount2Pct,
			VATAmount:    types.Round2(line.VATAmount),
			TotalNet:     types.Round2(line.TotalNet),
			TotalGross:   types.Round2(line.TotalGross),
			PurchaseCost: line.PurchaseCost,
		})
	}

	return resp
}

// FromInvoices maps a slice of invoices to responses.
func FromInvoices(invoices []invoice.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, FromInvoice(&invoices[i]))
	}
	return out
}
