package orders

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onmuhasebe/internal/core/apperror"
	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain"
	"onmuhasebe/internal/domain/catalogs/counterparty"
	"onmuhasebe/internal/domain/catalogs/product"
	"onmuhasebe/internal/domain/invoice"
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
	var inc int64 = 1
	if len(args) == 2 {
		if v, ok := args[1].(int64); ok {
			inc = v
		}
	}
	q.current += inc
	return &seqRow{val: q.current}
}

type fakeOrderRepo struct {
	orders map[id.ID]*Order
	lines  map[id.ID][]OrderLine
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[id.ID]*Order),
		lines:  make(map[id.ID][]OrderLine),
	}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *Order) error {
	cp := *o
	cp.Lines = nil
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("order", orderID)
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, o *Order) error {
	cp := *o
	cp.Lines = nil
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, orderID id.ID) error {
	delete(r.orders, orderID)
	return nil
}

func (r *fakeOrderRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Order], error) {
	out := domain.ListResult[Order]{}
	for _, o := range r.orders {
		out.Items = append(out.Items, *o)
	}
	out.TotalCount = int64(len(out.Items))
	return out, nil
}

func (r *fakeOrderRepo) GetLines(ctx context.Context, orderID id.ID) ([]OrderLine, error) {
	return append([]OrderLine(nil), r.lines[orderID]...), nil
}

func (r *fakeOrderRepo) SaveLines(ctx context.Context, orderID id.ID, lines []OrderLine) error {
	r.lines[orderID] = append([]OrderLine(nil), lines...)
	return nil
}

func (r *fakeOrderRepo) DeleteLines(ctx context.Context, orderID id.ID) error {
	delete(r.lines, orderID)
	return nil
}

// Minimal invoice-side fakes: the converter only needs a working
// invoice service, not assertions on its internals.

type fakeInvoiceRepo struct {
	invoices map[id.ID]*invoice.Invoice
	lines    map[id.ID][]invoice.Line
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	cp := *inv
	cp.Lines = nil
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) GetByID(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", invoiceID)
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetByNumber(ctx context.Context, number string) (*invoice.Invoice, error) {
	return nil, apperror.NewNotFound("invoice", number)
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, inv *invoice.Invoice) error {
	cp := *inv
	cp.Lines = nil
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) Delete(ctx context.Context, invoiceID id.ID) error {
	delete(r.invoices, invoiceID)
	return nil
}

func (r *fakeInvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[invoice.Invoice], error) {
	return domain.ListResult[invoice.Invoice]{}, nil
}

func (r *fakeInvoiceRepo) GetLines(ctx context.Context, invoiceID id.ID) ([]invoice.Line, error) {
	return append([]invoice.Line(nil), r.lines[invoiceID]...), nil
}

func (r *fakeInvoiceRepo) SaveLines(ctx context.Context, invoiceID id.ID, lines []invoice.Line) error {
	r.lines[invoiceID] = append([]invoice.Line(nil), lines...)
	return nil
}

func (r *fakeInvoiceRepo) DeleteLines(ctx context.Context, invoiceID id.ID) error {
	delete(r.lines, invoiceID)
	return nil
}

func (r *fakeInvoiceRepo) FindReturnFor(ctx context.Context, originalInvoiceID id.ID) (*invoice.Invoice, error) {
	return nil, nil
}

type fakeCounterpartyReader struct{ cp *counterparty.Counterparty }

func (r *fakeCounterpartyReader) GetByID(ctx context.Context, cpID id.ID) (*counterparty.Counterparty, error) {
	return r.cp, nil
}

type fakeProductReader struct{ p *product.Product }

func (r *fakeProductReader) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	return r.p, nil
}

type noopStock struct{}

func (noopStock) Apply(ctx context.Context, in stock.ApplyInput) error { return nil }

type noopCash struct{}

func (noopCash) Apply(ctx context.Context, accountID id.ID, amount types.Money, increase bool) error {
	return nil
}

type noopLedger struct{}

func (noopLedger) Upsert(ctx context.Context, in ledger.UpsertInput) error { return nil }
func (noopLedger) DeleteByInvoice(ctx context.Context, invoiceID id.ID, kinds ...ledger.ReferenceKind) error {
	return nil
}

type noopCashflow struct{}

func (noopCashflow) Upsert(ctx context.Context, in cashflow.UpsertInput) error     { return nil }
func (noopCashflow) DeleteByInvoice(ctx context.Context, invoiceID id.ID) error { return nil }

// --- fixture ---

type fixture struct {
	svc      *Service
	repo     *fakeOrderRepo
	invRepo  *fakeInvoiceRepo
	customer *counterparty.Counterparty
	prod     *product.Product
}

func newFixture() *fixture {
	f := &fixture{
		repo: newFakeOrderRepo(),
		invRepo: &fakeInvoiceRepo{
			invoices: make(map[id.ID]*invoice.Invoice),
			lines:    make(map[id.ID][]invoice.Line),
		},
		customer: counterparty.New("Acme Ltd", counterparty.TypeCustomer),
	}
	f.prod = product.New("Widget")

	num := numerator.New(&seqQuerier{})
	invoiceSvc := invoice.NewService(
		f.invRepo,
		&fakeCounterpartyReader{cp: f.customer},
		&fakeProductReader{p: f.prod},
		noopStock{}, noopCash{}, noopLedger{}, noopCashflow{},
		num,
		&fakeTxManager{},
	)

	f.svc = NewService(f.repo, invoiceSvc, num, &fakeTxManager{})
	return f
}

func (f *fixture) pendingOrder(t *testing.T) *Order {
	t.Helper()
	o := NewOrder(f.customer.ID)
	o.AddLine(f.prod.ID, types.MustMoney("2"), types.MustMoney("100"), types.MustMoney("18"))
	require.NoError(t, f.svc.Create(context.Background(), o))
	return o
}

// --- tests ---

func TestCreate_GeneratesNumber(t *testing.T) {
	f := newFixture()
	o := f.pendingOrder(t)

	assert.Contains(t, o.Number, "SIP-")
	assert.Equal(t, StatusPending, o.Status)
}

func TestConvertToInvoice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.pendingOrder(t)

	account := id.New()
	inv, err := f.svc.ConvertToInvoice(ctx, o.ID, ConvertInput{
		PaymentType:   invoice.PaymentCash,
		CashAccountID: &account,
	})
	require.NoError(t, err)

	assert.Equal(t, invoice.TypeSale, inv.Type)
	require.NotNil(t, inv.OrderID)
	assert.Equal(t, o.ID, *inv.OrderID)
	require.Len(t, inv.Lines, 1)
	assert.True(t, inv.TotalGross.Equal(types.MustMoney("236")), "gross = %s", inv.TotalGross)

	stored, err := f.svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInvoiced, stored.Status)
	require.NotNil(t, stored.InvoiceID)
	assert.Equal(t, inv.ID, *stored.InvoiceID)
}

func TestConvertToInvoice_AlreadyConverted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.pendingOrder(t)

	_, err := f.svc.ConvertToInvoice(ctx, o.ID, ConvertInput{PaymentType: invoice.PaymentOpenAccount})
	require.NoError(t, err)

	_, err = f.svc.ConvertToInvoice(ctx, o.ID, ConvertInput{PaymentType: invoice.PaymentOpenAccount})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOrderConverted, appErr.Code)
}

func TestConvertToInvoice_CancelledRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.pendingOrder(t)

	require.NoError(t, f.svc.Cancel(ctx, o.ID))

	_, err := f.svc.ConvertToInvoice(ctx, o.ID, ConvertInput{PaymentType: invoice.PaymentOpenAccount})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestResetToPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.pendingOrder(t)

	_, err := f.svc.ConvertToInvoice(ctx, o.ID, ConvertInput{PaymentType: invoice.PaymentOpenAccount})
	require.NoError(t, err)

	require.NoError(t, f.svc.ResetToPending(ctx, o.ID))

	stored, err := f.svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Nil(t, stored.InvoiceID)
}

func TestCancel_InvoicedRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.pendingOrder(t)

	_, err := f.svc.ConvertToInvoice(ctx, o.ID, ConvertInput{PaymentType: invoice.PaymentOpenAccount})
	require.NoError(t, err)

	err = f.svc.Cancel(ctx, o.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}
