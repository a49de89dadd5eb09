package invoice

import (
	"fmt"

	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain/registers/cashflow"
	"onmuhasebe/internal/domain/registers/ledger"
	"onmuhasebe/internal/domain/registers/stock"
)

// effectOp tags which lifecycle operation produced a stock movement.
type effectOp int

const (
	opApply effectOp = iota
	opReversal
	opDelete
)

// stockDelta returns the signed stock quantity delta for one line at
// create time. Reversal inverts this sign.
func stockDelta(t InvoiceType, qty types.Quantity) types.Quantity {
	switch t {
	case TypeSale:
		return qty.Neg()
	case TypePurchase:
		return qty
	case TypeSaleReturn:
		return qty
	case TypePurchaseReturn:
		return qty.Neg()
	case TypeOpeningBalance:
		return qty
	}
	return types.Zero()
}

// movementLabel is the base movement kind per invoice type.
func movementLabel(t InvoiceType) string {
	switch t {
	case TypeSale:
		return "sale"
	case TypePurchase:
		return "purchase"
	case TypeSaleReturn:
		return "sale return"
	case TypePurchaseReturn:
		return "purchase return"
	case TypeOpeningBalance:
		return "opening balance"
	}
	return "unknown"
}

// movementKind tags a movement with the invoice type and operation,
// e.g. "sale", "sale (reversal)", "purchase (delete)".
func movementKind(t InvoiceType, op effectOp) string {
	label := movementLabel(t)
	switch op {
	case opReversal:
		return label + " (reversal)"
	case opDelete:
		return label + " (delete)"
	}
	return label
}

// isReturn reports whether the type reverses an original invoice.
func isReturn(t InvoiceType) bool {
	return t == TypeSaleReturn || t == TypePurchaseReturn
}

// movementSource tags movements by document role.
func movementSource(t InvoiceType) stock.SourceKind {
	if isReturn(t) {
		return stock.SourceReturnInvoice
	}
	return stock.SourceInvoice
}

// cashDirection returns whether the invoice increases the cash account,
// and whether it affects cash at all. Opening balances never touch cash.
func cashDirection(t InvoiceType) (increase, affects bool) {
	switch t {
	case TypeSale, TypePurchaseReturn:
		return true, true
	case TypePurchase, TypeSaleReturn:
		return false, true
	}
	return false, false
}

// ledgerEntryKind returns the main ledger entry kind per invoice type.
// A purchase is modeled as debt owed by the shop on the same debit
// column ("borc"); only a purchase return lands on credit ("alacak").
func ledgerEntryKind(t InvoiceType) (ledger.EntryKind, bool) {
	switch t {
	case TypeSale, TypePurchase, TypeSaleReturn:
		return ledger.KindDebit, true
	case TypePurchaseReturn:
		return ledger.KindCredit, true
	}
	return "", false
}

// ledgerReference tags ledger entries by document role.
func ledgerReference(t InvoiceType) ledger.ReferenceKind {
	if isReturn(t) {
		return ledger.RefReturnInvoice
	}
	return ledger.RefInvoice
}

// cashflowKind returns income or expense per invoice type. Opening
// balances produce no cashflow record.
func cashflowKind(t InvoiceType) (cashflow.Kind, bool) {
	switch t {
	case TypeSale, TypePurchaseReturn:
		return cashflow.KindIncome, true
	case TypePurchase, TypeSaleReturn:
		return cashflow.KindExpense, true
	}
	return "", false
}

// cashflowSource tags cashflow records by document role.
func cashflowSource(t InvoiceType) cashflow.SourceKind {
	if isReturn(t) {
		return cashflow.SourceReturnInvoice
	}
	return cashflow.SourceInvoice
}

// mainDescription labels the main ledger entry.
func mainDescription(t InvoiceType, number string) string {
	return fmt.Sprintf("%s %s", movementLabel(t), number)
}

// settlementDescription labels the closing ledger entry: a receipt when
// cash came in, a payment when cash went out.
func settlementDescription(t InvoiceType, number string) string {
	if increase, _ := cashDirection(t); increase {
		return fmt.Sprintf("receipt for %s", number)
	}
	return fmt.Sprintf("payment for %s", number)
}
