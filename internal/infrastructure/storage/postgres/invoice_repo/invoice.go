// Package invoice_repo implements invoice persistence on PostgreSQL.
package invoice_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"onmuhasebe/internal/core/apperror"
	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/domain"
	"onmuhasebe/internal/domain/invoice"
	"onmuhasebe/internal/infrastructure/storage/postgres"
)

const (
	invoicesTable     = "invoices"
	invoiceLinesTable = "invoice_lines"
)

// Repo implements invoice.Repository.
type Repo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
	columns []string
}

// NewRepo creates a new invoice repository.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		columns: postgres.ExtractDBColumns[invoice.Invoice](),
	}
}

// Create inserts the invoice header.
func (r *Repo) Create(ctx context.Context, inv *invoice.Invoice) error {
	values := postgres.StructToMap(inv)

	sql, args, err := r.builder.
		Insert(invoicesTable).
		SetMap(values).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("invoice", "number", inv.Number)
		}
		return apperror.NewDatabase(err)
	}

	return nil
}

// GetByID retrieves the invoice header.
func (r *Repo) GetByID(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	return r.getOne(ctx, squirrel.Eq{"id": invoiceID}, invoiceID)
}

// GetByNumber retrieves the invoice header by its unique number.
func (r *Repo) GetByNumber(ctx context.Context, number string) (*invoice.Invoice, error) {
	return r.getOne(ctx, squirrel.Eq{"number": number}, number)
}

func (r *Repo) getOne(ctx context.Context, pred any, key any) (*invoice.Invoice, error) {
	sql, args, err := r.builder.
		Select(r.columns...).
		From(invoicesTable).
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var inv invoice.Invoice
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &inv, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("invoice", key)
		}
		return nil, apperror.NewDatabase(err)
	}

	return &inv, nil
}

// Update writes the invoice header with optimistic locking on version.
func (r *Repo) Update(ctx context.Context, inv *invoice.Invoice) error {
	values := postgres.StructToMap(inv)
	delete(values, "id")
	delete(values, "created_at")
	currentVersion := inv.Version
	values["version"] = currentVersion + 1

	sql, args, err := r.builder.
		Update(invoicesTable).
		SetMap(values).
		Where(squirrel.Eq{"id": inv.ID, "version": currentVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("invoice", inv.ID)
	}

	inv.Version = currentVersion + 1
	return nil
}

// Delete removes the invoice header.
func (r *Repo) Delete(ctx context.Context, invoiceID id.ID) error {
	sql, args, err := r.builder.
		Delete(invoicesTable).
		Where(squirrel.Eq{"id": invoiceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("invoice", invoiceID)
	}

	return nil
}

// List retrieves invoice headers with filtering and pagination.
func (r *Repo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[invoice.Invoice], error) {
	result := domain.ListResult[invoice.Invoice]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder.
		Select(r.columns...).
		From(invoicesTable)

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.CounterpartyID != nil {
		q = q.Where(squirrel.Eq{"counterparty_id": *filter.CounterpartyID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	querier := r.txm.GetQuerier(ctx)

	countQ := r.builder.Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, apperror.NewDatabase(err)
	}

	q = postgres.ApplyOrder(q, filter.OrderBy, "created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build select: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, apperror.NewDatabase(err)
	}

	return result, nil
}

// GetLines retrieves the invoice's lines ordered by line number.
func (r *Repo) GetLines(ctx context.Context, invoiceID id.ID) ([]invoice.Line, error) {
	sql, args, err := r.builder.
		Select(postgres.ExtractDBColumns[invoice.Line]()...).
		From(invoiceLinesTable).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select lines: %w", err)
	}

	var lines []invoice.Line
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}

	return lines, nil
}

// SaveLines replaces the invoice's lines: delete existing, insert new.
func (r *Repo) SaveLines(ctx context.Context, invoiceID id.ID, lines []invoice.Line) error {
	if err := r.DeleteLines(ctx, invoiceID); err != nil {
		return err
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.builder.
		Insert(invoiceLinesTable).
		Columns(
			"line_id", "invoice_id", "line_no", "product_id",
			"quantity", "unit_price", "vat_rate",
			"discount1_pct", "discount2_pct",
			"vat_amount", "total_net", "total_gross", "purchase_cost",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, invoiceID, line.LineNo, line.ProductID,
			line.Quantity, line.UnitPrice, line.VATRate,
			line.Discount1Pct, line.Discount2Pct,
			line.VATAmount, line.TotalNet, line.TotalGross, line.PurchaseCost,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(err)
	}

	return nil
}

// DeleteLines removes all lines of the invoice.
func (r *Repo) DeleteLines(ctx context.Context, invoiceID id.ID) error {
	sql, args, err := r.builder.
		Delete(invoiceLinesTable).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(err)
	}

	return nil
}

// FindReturnFor returns the return invoice referencing the original, or
// nil when none exists.
func (r *Repo) FindReturnFor(ctx context.Context, originalInvoiceID id.ID) (*invoice.Invoice, error) {
	sql, args, err := r.builder.
		Select(r.columns...).
		From(invoicesTable).
		Where(squirrel.Eq{"original_invoice_id": originalInvoiceID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var inv invoice.Invoice
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &inv, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewDatabase(err)
	}

	return &inv, nil
}
