package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onmuhasebe/internal/core/apperror"
	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain"
	"onmuhasebe/internal/domain/catalogs/counterparty"
	"onmuhasebe/internal/domain/catalogs/product"
	"onmuhasebe/internal/domain/registers/cashflow"
	"onmuhasebe/internal/domain/registers/ledger"
	"onmuhasebe/internal/domain/registers/stock"
	"onmuhasebe/pkg/numerator"
)

// --- fakes ---

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type seqRow struct{ val int64 }

func (r *seqRow) Scan(dest ...any) error {
	if ptr, ok := dest[0].(*int64); ok {
		*ptr = r.val
	}
	return nil
}

type seqQuerier struct{ current int64 }

func (q *seqQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.current++
	return &seqRow{val: q.current}
}

type fakeInvoiceRepo struct {
	invoices map[id.ID]*Invoice
	lines    map[id.ID][]Line
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[id.ID]*Invoice),
		lines:    make(map[id.ID][]Line),
	}
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, inv *Invoice) error {
	cp := *inv
	cp.Lines = nil
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error) {
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", invoiceID)
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	for _, inv := range r.invoices {
		if inv.Number == number {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, inv *Invoice) error {
	if _, ok := r.invoices[inv.ID]; !ok {
		return apperror.NewNotFound("invoice", inv.ID)
	}
	cp := *inv
	cp.Lines = nil
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) Delete(ctx context.Context, invoiceID id.ID) error {
	delete(r.invoices, invoiceID)
	return nil
}

func (r *fakeInvoiceRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[Invoice], error) {
	out := domain.ListResult[Invoice]{}
	for _, inv := range r.invoices {
		out.Items = append(out.Items, *inv)
	}
	out.TotalCount = int64(len(out.Items))
	return out, nil
}

func (r *fakeInvoiceRepo) GetLines(ctx context.Context, invoiceID id.ID) ([]Line, error) {
	return append([]Line(nil), r.lines[invoiceID]...), nil
}

func (r *fakeInvoiceRepo) SaveLines(ctx context.Context, invoiceID id.ID, lines []Line) error {
	r.lines[invoiceID] = append([]Line(nil), lines...)
	return nil
}

func (r *fakeInvoiceRepo) DeleteLines(ctx context.Context, invoiceID id.ID) error {
	delete(r.lines, invoiceID)
	return nil
}

func (r *fakeInvoiceRepo) FindReturnFor(ctx context.Context, originalInvoiceID id.ID) (*Invoice, error) {
	for _, inv := range r.invoices {
		if inv.OriginalInvoiceID != nil && *inv.OriginalInvoiceID == originalInvoiceID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeCounterpartyReader struct {
	byID map[id.ID]*counterparty.Counterparty
}

func (r *fakeCounterpartyReader) GetByID(ctx context.Context, cpID id.ID) (*counterparty.Counterparty, error) {
	cp, ok := r.byID[cpID]
	if !ok {
		return nil, apperror.NewNotFound("counterparty", cpID)
	}
	return cp, nil
}

type fakeProductReader struct {
	byID map[id.ID]*product.Product
}

func (r *fakeProductReader) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, ok := r.byID[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	return p, nil
}

type fakeStockLedger struct {
	qty       map[id.ID]types.Quantity
	movements []stock.ApplyInput
}

func newFakeStockLedger() *fakeStockLedger {
	return &fakeStockLedger{qty: make(map[id.ID]types.Quantity)}
}

func (f *fakeStockLedger) Apply(ctx context.Context, in stock.ApplyInput) error {
	f.qty[in.ProductID] = f.qty[in.ProductID].Add(in.Delta)
	f.movements = append(f.movements, in)
	return nil
}

type fakeCashBalance struct {
	balances map[id.ID]types.Money
}

func newFakeCashBalance() *fakeCashBalance {
	return &fakeCashBalance{balances: make(map[id.ID]types.Money)}
}

func (f *fakeCashBalance) Apply(ctx context.Context, accountID id.ID, amount types.Money, increase bool) error {
	delta := amount
	if !increase {
		delta = amount.Neg()
	}
	f.balances[accountID] = f.balances[accountID].Add(delta)
	return nil
}

type ledgerKey struct {
	invoiceID id.ID
	ref       ledger.ReferenceKind
}

type fakeLedger struct {
	entries map[ledgerKey]ledger.UpsertInput
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: make(map[ledgerKey]ledger.UpsertInput)}
}

func (f *fakeLedger) Upsert(ctx context.Context, in ledger.UpsertInput) error {
	f.entries[ledgerKey{in.SourceInvoiceID, in.ReferenceKind}] = in
	return nil
}

func (f *fakeLedger) DeleteByInvoice(ctx context.Context, invoiceID id.ID, kinds ...ledger.ReferenceKind) error {
	for k := range f.entries {
		if k.invoiceID != invoiceID {
			continue
		}
		if len(kinds) == 0 {
			delete(f.entries, k)
			continue
		}
		for _, kind := range kinds {
			if k.ref == kind {
				delete(f.entries, k)
			}
		}
	}
	return nil
}

type cashflowKey struct {
	invoiceID id.ID
	source    cashflow.SourceKind
}

type fakeCashflow struct {
	records map[cashflowKey]cashflow.UpsertInput
}

func newFakeCashflow() *fakeCashflow {
	return &fakeCashflow{records: make(map[cashflowKey]cashflow.UpsertInput)}
}

func (f *fakeCashflow) Upsert(ctx context.Context, in cashflow.UpsertInput) error {
	f.records[cashflowKey{in.SourceInvoiceID, in.SourceKind}] = in
	return nil
}

func (f *fakeCashflow) DeleteByInvoice(ctx context.Context, invoiceID id.ID) error {
	for k := range f.records {
		if k.invoiceID == invoiceID {
			delete(f.records, k)
		}
	}
	return nil
}

type fakeOrderResetter struct {
	resetIDs []id.ID
}

func (f *fakeOrderResetter) ResetToPending(ctx context.Context, orderID id.ID) error {
	f.resetIDs = append(f.resetIDs, orderID)
	return nil
}

// --- fixture ---

type fixture struct {
	svc      *Service
	repo     *fakeInvoiceRepo
	stock    *fakeStockLedger
	cash     *fakeCashBalance
	ledger   *fakeLedger
	cashflow *fakeCashflow

	customer *counterparty.Counterparty
	supplier *counterparty.Counterparty
	retail   *counterparty.Counterparty
	prod     *product.Product
	account  id.ID
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newFakeInvoiceRepo(),
		stock:    newFakeStockLedger(),
		cash:     newFakeCashBalance(),
		ledger:   newFakeLedger(),
		cashflow: newFakeCashflow(),
		customer: counterparty.New("Acme Ltd", counterparty.TypeCustomer),
		supplier: counterparty.New("Supplies Inc", counterparty.TypeSupplier),
		retail:   counterparty.New("Walk-in", counterparty.TypeRetail),
		account:  id.New(),
	}

	f.prod = product.New("Widget")
	f.prod.PurchasePrice = types.MustMoney("60")
	f.prod.VATRate = types.MustMoney("18")

	cps := &fakeCounterpartyReader{byID: map[id.ID]*counterparty.Counterparty{
		f.customer.ID: f.customer,
		f.supplier.ID: f.supplier,
		f.retail.ID:   f.retail,
	}}
	prods := &fakeProductReader{byID: map[id.ID]*product.Product{
		f.prod.ID: f.prod,
	}}

	f.svc = NewService(
		f.repo, cps, prods,
		f.stock, f.cash, f.ledger, f.cashflow,
		numerator.New(&seqQuerier{}),
		&fakeTxManager{},
	)
	return f
}

func (f *fixture) saleInvoice() *Invoice {
	inv := New(TypeSale, f.customer.ID)
	inv.PaymentType = PaymentCash
	inv.CashAccountID = &f.account
	line := inv.AddLine(f.prod.ID, types.MustMoney("2"), types.MustMoney("100"), types.MustMoney("18"))
	line.Discount1Pct = types.MustMoney("10")
	return inv
}

// --- tests ---

func TestCreate_SaleCash(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := f.saleInvoice()
	require.NoError(t, f.svc.Create(ctx, inv))

	assert.NotEmpty(t, inv.Number)
	assert.True(t, inv.TotalNet.Equal(types.MustMoney("180")))
	assert.True(t, inv.TotalGross.Equal(types.MustMoney("212.4")))

	// Stock decreased by the sold quantity
	assert.True(t, f.stock.qty[f.prod.ID].Equal(types.MustMoney("-2")))
	require.Len(t, f.stock.movements, 1)
	assert.Equal(t, "sale", f.stock.movements[0].MovementKind)
	assert.Equal(t, stock.SourceInvoice, f.stock.movements[0].SourceKind)

	// Cash increased by the VAT-inclusive total
	assert.True(t, f.cash.balances[f.account].Equal(types.MustMoney("212.4")))

	// Main debit entry plus its closing settlement
	main, ok := f.ledger.entries[ledgerKey{inv.ID, ledger.RefInvoice}]
	require.True(t, ok)
	assert.Equal(t, ledger.KindDebit, main.EntryKind)
	assert.True(t, main.Amount.Equal(types.MustMoney("212.4")))

	settlement, ok := f.ledger.entries[ledgerKey{inv.ID, ledger.RefCashSettlement}]
	require.True(t, ok)
	assert.Equal(t, ledger.KindCredit, settlement.EntryKind)

	// Income record for the cash-settled sale
	rec, ok := f.cashflow.records[cashflowKey{inv.ID, cashflow.SourceInvoice}]
	require.True(t, ok)
	assert.Equal(t, cashflow.KindIncome, rec.Kind)

	// Purchase cost captured from the product
	lines, _ := f.repo.GetLines(ctx, inv.ID)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].PurchaseCost.Equal(types.MustMoney("60")))
}

func TestCreate_RetailOpenAccountRejected(t *testing.T) {
	f := newFixture()

	inv := New(TypeSale, f.retail.ID)
	inv.PaymentType = PaymentOpenAccount
	inv.AddLine(f.prod.ID, types.MustMoney("1"), types.MustMoney("100"), types.MustMoney("18"))

	err := f.svc.Create(context.Background(), inv)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeRetailOpenAccount, appErr.Code)

	// Rejected before any write
	assert.Empty(t, f.repo.invoices)
	assert.Empty(t, f.stock.movements)
}

func TestCreate_RetailCashSale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := New(TypeSale, f.retail.ID)
	inv.PaymentType = PaymentCash
	inv.CashAccountID = &f.account
	inv.AddLine(f.prod.ID, types.MustMoney("1"), types.MustMoney("100"), types.MustMoney("18"))

	require.NoError(t, f.svc.Create(ctx, inv))

	// Cash moves and an income record is written, but the walk-in
	// counterparty gets no ledger entries.
	assert.True(t, f.cash.balances[f.account].Equal(types.MustMoney("118")))

	rec, ok := f.cashflow.records[cashflowKey{inv.ID, cashflow.SourceInvoice}]
	require.True(t, ok)
	assert.Equal(t, cashflow.KindIncome, rec.Kind)
	assert.True(t, rec.Amount.Equal(types.MustMoney("118")))

	assert.Empty(t, f.ledger.entries)
}

func TestCreate_NeutralStockOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := New(TypePurchase, f.supplier.ID)
	inv.PaymentType = PaymentNeutral
	inv.AddLine(f.prod.ID, types.MustMoney("10"), types.MustMoney("50"), types.MustMoney("18"))

	require.NoError(t, f.svc.Create(ctx, inv))

	assert.True(t, f.stock.qty[f.prod.ID].Equal(types.MustMoney("10")))
	assert.Empty(t, f.cash.balances)
	assert.Empty(t, f.ledger.entries)
	assert.Empty(t, f.cashflow.records)
}

func TestCreate_OpenAccountNoSettlement(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := f.saleInvoice()
	inv.PaymentType = PaymentOpenAccount
	inv.CashAccountID = nil

	require.NoError(t, f.svc.Create(ctx, inv))

	_, hasMain := f.ledger.entries[ledgerKey{inv.ID, ledger.RefInvoice}]
	_, hasSettlement := f.ledger.entries[ledgerKey{inv.ID, ledger.RefCashSettlement}]
	assert.True(t, hasMain)
	assert.False(t, hasSettlement)
	assert.Empty(t, f.cashflow.records)
	assert.Empty(t, f.cash.balances)
}

func TestCreateDelete_RoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Pre-existing stock
	f.stock.qty[f.prod.ID] = types.MustMoney("10")
	f.cash.balances[f.account] = types.MustMoney("500")

	inv := f.saleInvoice()
	inv.Lines[0].Quantity = types.MustMoney("5")

	require.NoError(t, f.svc.Create(ctx, inv))
	assert.True(t, f.stock.qty[f.prod.ID].Equal(types.MustMoney("5")))

	require.NoError(t, f.svc.Delete(ctx, inv.ID))

	// Every touched balance restored exactly
	assert.True(t, f.stock.qty[f.prod.ID].Equal(types.MustMoney("10")))
	assert.True(t, f.cash.balances[f.account].Equal(types.MustMoney("500")))
	assert.Empty(t, f.ledger.entries)
	assert.Empty(t, f.cashflow.records)
	assert.Empty(t, f.repo.invoices)
	assert.Empty(t, f.repo.lines)

	// Movement log keeps both the original and the delete reversal
	require.Len(t, f.stock.movements, 2)
	assert.Equal(t, "sale (delete)", f.stock.movements[1].MovementKind)
}

func TestUpdate_IdenticalDataIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.stock.qty[f.prod.ID] = types.MustMoney("10")

	inv := f.saleInvoice()
	require.NoError(t, f.svc.Create(ctx, inv))

	stockBefore := f.stock.qty[f.prod.ID]
	cashBefore := f.cash.balances[f.account]

	// Same data, fresh line IDs as a client would send them
	updated, err := f.svc.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Update(ctx, updated))

	assert.True(t, f.stock.qty[f.prod.ID].Equal(stockBefore))
	assert.True(t, f.cash.balances[f.account].Equal(cashBefore))
	assert.Len(t, f.ledger.entries, 2)
	assert.Len(t, f.cashflow.records, 1)
}

func TestUpdate_QuantityChangeAppliesNetCashDifference(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := f.saleInvoice()
	require.NoError(t, f.svc.Create(ctx, inv))
	// gross 212.4, cash 212.4

	updated, err := f.svc.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	updated.Lines[0].Quantity = types.MustMoney("3")
	require.NoError(t, f.svc.Update(ctx, updated))

	// New gross: 3 × 90 × 1.18 = 318.6
	assert.True(t, f.cash.balances[f.account].Equal(types.MustMoney("318.6")))
	assert.True(t, f.stock.qty[f.prod.ID].Equal(types.MustMoney("-3")))
}

func TestUpdate_OpenAccountToCashAppliesFullAmount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := f.saleInvoice()
	inv.PaymentType = PaymentOpenAccount
	inv.CashAccountID = nil
	require.NoError(t, f.svc.Create(ctx, inv))
	assert.Empty(t, f.cash.balances)

	updated, err := f.svc.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	updated.PaymentType = PaymentCash
	updated.CashAccountID = &f.account
	require.NoError(t, f.svc.Update(ctx, updated))

	assert.True(t, f.cash.balances[f.account].Equal(types.MustMoney("212.4")))

	// Settlement entry and income record now exist
	_, hasSettlement := f.ledger.entries[ledgerKey{inv.ID, ledger.RefCashSettlement}]
	assert.True(t, hasSettlement)
	assert.Len(t, f.cashflow.records, 1)
}

func TestUpdate_CashToOpenAccountReversesFullAmount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := f.saleInvoice()
	require.NoError(t, f.svc.Create(ctx, inv))
	assert.True(t, f.cash.balances[f.account].Equal(types.MustMoney("212.4")))

	updated, err := f.svc.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	updated.PaymentType = PaymentOpenAccount
	updated.CashAccountID = nil
	require.NoError(t, f.svc.Update(ctx, updated))

	assert.True(t, f.cash.balances[f.account].IsZero())

	// Settlement and income dropped, main entry remains
	_, hasMain := f.ledger.entries[ledgerKey{inv.ID, ledger.RefInvoice}]
	_, hasSettlement := f.ledger.entries[ledgerKey{inv.ID, ledger.RefCashSettlement}]
	assert.True(t, hasMain)
	assert.False(t, hasSettlement)
	assert.Empty(t, f.cashflow.records)
}

func TestUpdate_AccountSwitchMovesFullAmount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := f.saleInvoice()
	require.NoError(t, f.svc.Create(ctx, inv))

	other := id.New()
	updated, err := f.svc.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	updated.CashAccountID = &other
	require.NoError(t, f.svc.Update(ctx, updated))

	assert.True(t, f.cash.balances[f.account].IsZero())
	assert.True(t, f.cash.balances[other].Equal(types.MustMoney("212.4")))
}

func TestCreateReturn(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.stock.qty[f.prod.ID] = types.MustMoney("10")

	inv := f.saleInvoice()
	require.NoError(t, f.svc.Create(ctx, inv))
	assert.True(t, f.stock.qty[f.prod.ID].Equal(types.MustMoney("8")))

	ret, err := f.svc.CreateReturn(ctx, inv.ID, time.Now(), "damaged goods")
	require.NoError(t, err)

	assert.Equal(t, TypeSaleReturn, ret.Type)
	require.NotNil(t, ret.OriginalInvoiceID)
	assert.Equal(t, inv.ID, *ret.OriginalInvoiceID)
	require.Len(t, ret.Lines, 1)
	assert.True(t, ret.Lines[0].Quantity.Equal(inv.Lines[0].Quantity))

	// Return puts the stock back and pays the customer out
	assert.True(t, f.stock.qty[f.prod.ID].Equal(types.MustMoney("10")))
	assert.True(t, f.cash.balances[f.account].IsZero())
}

func TestCreateReturn_DuplicateRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := f.saleInvoice()
	require.NoError(t, f.svc.Create(ctx, inv))

	_, err := f.svc.CreateReturn(ctx, inv.ID, time.Now(), "")
	require.NoError(t, err)

	_, err = f.svc.CreateReturn(ctx, inv.ID, time.Now(), "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeAlreadyReturned, appErr.Code)
}

func TestCreateReturn_ReturnOfReturnRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := f.saleInvoice()
	require.NoError(t, f.svc.Create(ctx, inv))

	ret, err := f.svc.CreateReturn(ctx, inv.ID, time.Now(), "")
	require.NoError(t, err)

	_, err = f.svc.CreateReturn(ctx, ret.ID, time.Now(), "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestDelete_ResetsSourceOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resetter := &fakeOrderResetter{}
	f.svc.SetOrderResetter(resetter)

	orderID := id.New()
	inv := f.saleInvoice()
	inv.OrderID = &orderID
	require.NoError(t, f.svc.Create(ctx, inv))

	require.NoError(t, f.svc.Delete(ctx, inv.ID))
	assert.Equal(t, []id.ID{orderID}, resetter.resetIDs)
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture()

	err := f.svc.Delete(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
