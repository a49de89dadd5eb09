package ledger

import (
	"context"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain"
)

// Repository defines persistence operations for ledger entries.
type Repository interface {
	// Upsert inserts the entry or, when a row for the same
	// (source_invoice_id, reference_kind) exists, updates its amount,
	// date, kind and description in place.
	Upsert(ctx context.Context, e *Entry) error

	// DeleteByInvoice removes entries referencing the invoice. With no
	// kinds given, all reference kinds are removed.
	DeleteByInvoice(ctx context.Context, invoiceID id.ID, kinds ...ReferenceKind) error

	// ListByCounterparty returns the entries of one counterparty.
	ListByCounterparty(ctx context.Context, counterpartyID id.ID, filter domain.ListFilter) (domain.ListResult[Entry], error)

	// Balance returns sum(debit) − sum(credit) for a counterparty.
	Balance(ctx context.Context, counterpartyID id.ID) (types.Money, error)
}
