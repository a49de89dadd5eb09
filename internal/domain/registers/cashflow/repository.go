package cashflow

import (
	"context"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/domain"
)

// Repository defines persistence operations for income/expense records.
type Repository interface {
	// Upsert inserts the record or, when a row for the same
	// (source_invoice_id, source_kind) exists, updates it in place.
	Upsert(ctx context.Context, r *Record) error

	// DeleteByInvoice removes all records referencing the invoice.
	DeleteByInvoice(ctx context.Context, invoiceID id.ID) error

	// List returns records for reporting, optionally filtered by kind.
	List(ctx context.Context, kind *Kind, filter domain.ListFilter) (domain.ListResult[Record], error)
}
