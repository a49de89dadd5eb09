// Package ledger provides the counterparty running-balance ledger.
// Entries are upserted per (source invoice, reference kind): at most one
// main entry and one settlement entry exist per invoice at any time.
package ledger

import (
	"time"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain/catalogs/counterparty"
)

// EntryKind is the side of the running balance an entry lands on.
type EntryKind string

const (
	// KindDebit is a receivable ("borc"): the counterparty owes us,
	// or we owe them in the purchase sense of the same column.
	KindDebit EntryKind = "debit"

	// KindCredit is a payable ("alacak").
	KindCredit EntryKind = "credit"
)

// Opposite returns the closing kind for a settlement entry.
func (k EntryKind) Opposite() EntryKind {
	if k == KindDebit {
		return KindCredit
	}
	return KindDebit
}

// ReferenceKind tags which document role produced an entry.
type ReferenceKind string

const (
	RefInvoice       ReferenceKind = "invoice"
	RefReturnInvoice ReferenceKind = "return_invoice"

	// RefCashSettlement tags the closing entry of an immediately-paid
	// invoice; it nets the main entry to zero.
	RefCashSettlement ReferenceKind = "cash_settlement"
)

// Entry represents one running-balance row for a counterparty.
type Entry struct {
	ID id.ID `db:"id" json:"id"`

	CounterpartyType counterparty.Type `db:"counterparty_type" json:"counterpartyType"`
	CounterpartyID   id.ID             `db:"counterparty_id" json:"counterpartyId"`

	Date        time.Time   `db:"date" json:"date"`
	EntryKind   EntryKind   `db:"entry_kind" json:"entryKind"`
	Amount      types.Money `db:"amount" json:"amount"`
	Description string      `db:"description" json:"description"`

	SourceInvoiceID id.ID         `db:"source_invoice_id" json:"sourceInvoiceId"`
	ReferenceKind   ReferenceKind `db:"reference_kind" json:"referenceKind"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
