package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"onmuhasebe/internal/core/apperror"
	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/domain"
	"onmuhasebe/internal/domain/registers/cashflow"
	"onmuhasebe/internal/infrastructure/storage/postgres"
)

const cashflowTable = "income_expense_records"

// CashflowRepo implements cashflow.Repository.
type CashflowRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
	columns []string
}

// NewCashflowRepo creates a new income/expense repository.
func NewCashflowRepo(txm *postgres.TxManager) *CashflowRepo {
	return &CashflowRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		columns: postgres.ExtractDBColumns[cashflow.Record](),
	}
}

// Upsert inserts the record or updates the existing row for the same
// (source_invoice_id, source_kind).
func (r *CashflowRepo) Upsert(ctx context.Context, rec *cashflow.Record) error {
	sql, args, err := r.builder.
		Insert(cashflowTable).
		SetMap(postgres.StructToMap(rec)).
		Suffix(`ON CONFLICT (source_invoice_id, source_kind) DO UPDATE SET
			kind = EXCLUDED.kind,
			amount = EXCLUDED.amount,
			date = EXCLUDED.date,
			description = EXCLUDED.description,
			cash_account_id = EXCLUDED.cash_account_id,
			updated_at = now()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(err)
	}

	return nil
}

// DeleteByInvoice removes all records referencing the invoice.
func (r *CashflowRepo) DeleteByInvoice(ctx context.Context, invoiceID id.ID) error {
	sql, args, err := r.builder.
		Delete(cashflowTable).
		Where(squirrel.Eq{"source_invoice_id": invoiceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(err)
	}

	return nil
}

// List returns records for reporting, newest first.
func (r *CashflowRepo) List(ctx context.Context, kind *cashflow.Kind, filter domain.ListFilter) (domain.ListResult[cashflow.Record], error) {
	result := domain.ListResult[cashflow.Record]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder.
		Select(r.columns...).
		From(cashflowTable)

	if kind != nil {
		q = q.Where(squirrel.Eq{"kind": *kind})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"description": "%" + filter.Search + "%"})
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

	q = postgres.ApplyOrder(q, filter.OrderBy, "date DESC")
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
