// Package cashflow provides income/expense records for cash-settled
// invoices. Records are upserted per (source invoice, source kind) and
// exist only while the invoice is settled immediately.
package cashflow

import (
	"time"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
)

// Kind classifies a record as income or expense.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// SourceKind tags which document role produced a record.
type SourceKind string

const (
	SourceInvoice       SourceKind = "invoice"
	SourceReturnInvoice SourceKind = "return_invoice"
)

// Record represents one income or expense event.
type Record struct {
	ID   id.ID     `db:"id" json:"id"`
	Date time.Time `db:"date" json:"date"`

	Kind        Kind        `db:"kind" json:"kind"`
	Amount      types.Money `db:"amount" json:"amount"`
	Description string      `db:"description" json:"description"`

	SourceKind      SourceKind `db:"source_kind" json:"sourceKind"`
	SourceInvoiceID id.ID      `db:"source_invoice_id" json:"sourceInvoiceId"`
	CashAccountID   id.ID      `db:"cash_account_id" json:"cashAccountId"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
