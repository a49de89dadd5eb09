package invoice

import (
	"context"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain"
	"onmuhasebe/internal/domain/catalogs/counterparty"
	"onmuhasebe/internal/domain/catalogs/product"
	"onmuhasebe/internal/domain/registers/cashflow"
	"onmuhasebe/internal/domain/registers/ledger"
	"onmuhasebe/internal/domain/registers/stock"
)

// ListFilter extends the common filter with invoice-specific criteria.
type ListFilter struct {
	domain.ListFilter

	Type           *InvoiceType
	CounterpartyID *id.ID
}

// Repository defines persistence operations for invoices and lines.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, invoiceID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[Invoice], error)

	// Lines are replaced wholesale: SaveLines deletes and reinserts.
	GetLines(ctx context.Context, invoiceID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, invoiceID id.ID, lines []Line) error
	DeleteLines(ctx context.Context, invoiceID id.ID) error

	// FindReturnFor returns the return invoice referencing the original,
	// or nil when none exists.
	FindReturnFor(ctx context.Context, originalInvoiceID id.ID) (*Invoice, error)
}

// CounterpartyReader resolves counterparties for validation and ledger
// targeting.
type CounterpartyReader interface {
	GetByID(ctx context.Context, cpID id.ID) (*counterparty.Counterparty, error)
}

// ProductReader resolves products for purchase-cost capture.
type ProductReader interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
}

// StockLedger applies stock effects.
type StockLedger interface {
	Apply(ctx context.Context, in stock.ApplyInput) error
}

// CashBalance applies cash balance effects.
type CashBalance interface {
	Apply(ctx context.Context, accountID id.ID, amount types.Money, increase bool) error
}

// CounterpartyLedger upserts and deletes ledger entries.
type CounterpartyLedger interface {
	Upsert(ctx context.Context, in ledger.UpsertInput) error
	DeleteByInvoice(ctx context.Context, invoiceID id.ID, kinds ...ledger.ReferenceKind) error
}

// CashflowRegister upserts and deletes income/expense records.
type CashflowRegister interface {
	Upsert(ctx context.Context, in cashflow.UpsertInput) error
	DeleteByInvoice(ctx context.Context, invoiceID id.ID) error
}

// OrderResetter clears the invoice link of a source order and resets it
// to pending. Implemented by the orders package; optional.
type OrderResetter interface {
	ResetToPending(ctx context.Context, orderID id.ID) error
}
