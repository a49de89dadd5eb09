// Package stock provides the stock ledger: per-product quantities and an
// append-only movement log. A reversal is recorded as a new movement with
// inverted sign, never by deleting the original.
package stock

import (
	"time"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
)

// SourceKind tags which document produced a movement.
type SourceKind string

const (
	SourceInvoice       SourceKind = "invoice"
	SourceReturnInvoice SourceKind = "return_invoice"
)

// Movement represents one immutable quantity change event.
type Movement struct {
	ID        id.ID `db:"id" json:"id"`
	ProductID id.ID `db:"product_id" json:"productId"`

	// Signed delta: positive increases stock, negative decreases it
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// MovementKind tags the business operation, e.g. "sale",
	// "sale (reversal)", "purchase (delete)"
	MovementKind string `db:"movement_kind" json:"movementKind"`

	SourceKind      SourceKind `db:"source_kind" json:"sourceKind"`
	SourceInvoiceID id.ID      `db:"source_invoice_id" json:"sourceInvoiceId"`
	SourceInvoiceNo string     `db:"source_invoice_no" json:"sourceInvoiceNo"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
