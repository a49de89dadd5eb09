package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain/registers/cashflow"
	"onmuhasebe/internal/domain/registers/ledger"
	"onmuhasebe/internal/domain/registers/stock"
)

func TestStockDelta(t *testing.T) {
	qty := types.MustMoney("5")

	cases := []struct {
		invType InvoiceType
		want    string
	}{
		{TypeSale, "-5"},
		{TypePurchase, "5"},
		{TypeSaleReturn, "5"},
		{TypePurchaseReturn, "-5"},
		{TypeOpeningBalance, "5"},
	}

	for _, tc := range cases {
		t.Run(string(tc.invType), func(t *testing.T) {
			got := stockDelta(tc.invType, qty)
			assert.True(t, got.Equal(types.MustMoney(tc.want)), "got %s", got)
		})
	}
}

func TestMovementKind(t *testing.T) {
	assert.Equal(t, "sale", movementKind(TypeSale, opApply))
	assert.Equal(t, "sale (reversal)", movementKind(TypeSale, opReversal))
	assert.Equal(t, "purchase (delete)", movementKind(TypePurchase, opDelete))
	assert.Equal(t, "sale return", movementKind(TypeSaleReturn, opApply))
	assert.Equal(t, "opening balance", movementKind(TypeOpeningBalance, opApply))
}

func TestMovementSource(t *testing.T) {
	assert.Equal(t, stock.SourceInvoice, movementSource(TypeSale))
	assert.Equal(t, stock.SourceInvoice, movementSource(TypePurchase))
	assert.Equal(t, stock.SourceReturnInvoice, movementSource(TypeSaleReturn))
	assert.Equal(t, stock.SourceReturnInvoice, movementSource(TypePurchaseReturn))
}

func TestCashDirection(t *testing.T) {
	cases := []struct {
		invType  InvoiceType
		increase bool
		affects  bool
	}{
		{TypeSale, true, true},
		{TypePurchaseReturn, true, true},
		{TypePurchase, false, true},
		{TypeSaleReturn, false, true},
		{TypeOpeningBalance, false, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.invType), func(t *testing.T) {
			increase, affects := cashDirection(tc.invType)
			assert.Equal(t, tc.increase, increase)
			assert.Equal(t, tc.affects, affects)
		})
	}
}

func TestLedgerEntryKind(t *testing.T) {
	cases := []struct {
		invType InvoiceType
		kind    ledger.EntryKind
		ok      bool
	}{
		{TypeSale, ledger.KindDebit, true},
		{TypePurchase, ledger.KindDebit, true},
		{TypeSaleReturn, ledger.KindDebit, true},
		{TypePurchaseReturn, ledger.KindCredit, true},
		{TypeOpeningBalance, "", false},
	}

	for _, tc := range cases {
		t.Run(string(tc.invType), func(t *testing.T) {
			kind, ok := ledgerEntryKind(tc.invType)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.kind, kind)
			}
		})
	}
}

func TestCashflowKind(t *testing.T) {
	cases := []struct {
		invType InvoiceType
		kind    cashflow.Kind
		ok      bool
	}{
		{TypeSale, cashflow.KindIncome, true},
		{TypePurchaseReturn, cashflow.KindIncome, true},
		{TypePurchase, cashflow.KindExpense, true},
		{TypeSaleReturn, cashflow.KindExpense, true},
		{TypeOpeningBalance, "", false},
	}

	for _, tc := range cases {
		t.Run(string(tc.invType), func(t *testing.T) {
			kind, ok := cashflowKind(tc.invType)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.kind, kind)
			}
		})
	}
}

func TestSettlementDescription(t *testing.T) {
	assert.Equal(t, "receipt for FAT-2026-00001", settlementDescription(TypeSale, "FAT-2026-00001"))
	assert.Equal(t, "payment for FAT-2026-00002", settlementDescription(TypePurchase, "FAT-2026-00002"))
}

func TestEntryKindOpposite(t *testing.T) {
	assert.Equal(t, ledger.KindCredit, ledger.KindDebit.Opposite())
	assert.Equal(t, ledger.KindDebit, ledger.KindCredit.Opposite())
}

func TestReturnType(t *testing.T) {
	rt, ok := TypeSale.ReturnType()
	assert.True(t, ok)
	assert.Equal(t, TypeSaleReturn, rt)

	rt, ok = TypePurchase.ReturnType()
	assert.True(t, ok)
	assert.Equal(t, TypePurchaseReturn, rt)

	_, ok = TypeSaleReturn.ReturnType()
	assert.False(t, ok)

	_, ok = TypeOpeningBalance.ReturnType()
	assert.False(t, ok)
}

func TestPaymentTypeIsImmediate(t *testing.T) {
	for _, p := range []PaymentType{PaymentCash, PaymentCard, PaymentWire, PaymentCheck, PaymentNote} {
		assert.True(t, p.IsImmediate(), string(p))
	}
	assert.False(t, PaymentOpenAccount.IsImmediate())
	assert.False(t, PaymentNeutral.IsImmediate())
}
