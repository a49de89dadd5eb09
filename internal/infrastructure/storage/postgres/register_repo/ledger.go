package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"onmuhasebe/internal/core/apperror"
	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain"
	"onmuhasebe/internal/domain/registers/ledger"
	"onmuhasebe/internal/infrastructure/storage/postgres"
)

const ledgerEntriesTable = "counterparty_ledger_entries"

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
	columns []string
}

// NewLedgerRepo creates a new counterparty ledger repository.
func NewLedgerRepo(txm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		columns: postgres.ExtractDBColumns[ledger.Entry](),
	}
}

// Upsert inserts the entry or updates the existing row for the same
// (source_invoice_id, reference_kind). The unique constraint carries
// the at-most-one-main, at-most-one-settlement invariant, so repeated
// edits never duplicate rows and there is no lookup race.
func (r *LedgerRepo) Upsert(ctx context.Context, e *ledger.Entry) error {
	sql, args, err := r.builder.
		Insert(ledgerEntriesTable).
		SetMap(postgres.StructToMap(e)).
		Suffix(`ON CONFLICT (source_invoice_id, reference_kind) DO UPDATE SET
			entry_kind = EXCLUDED.entry_kind,
			amount = EXCLUDED.amount,
			date = EXCLUDED.date,
			description = EXCLUDED.description,
			counterparty_type = EXCLUDED.counterparty_type,
			counterparty_id = EXCLUDED.counterparty_id,
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

// DeleteByInvoice removes the invoice's entries, optionally restricted
// to specific reference kinds.
func (r *LedgerRepo) DeleteByInvoice(ctx context.Context, invoiceID id.ID, kinds ...ledger.ReferenceKind) error {
	q := r.builder.
		Delete(ledgerEntriesTable).
		Where(squirrel.Eq{"source_invoice_id": invoiceID})

	if len(kinds) > 0 {
		q = q.Where(squirrel.Eq{"reference_kind": kinds})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(err)
	}

	return nil
}

// ListByCounterparty returns one counterparty's entries.
func (r *LedgerRepo) ListByCounterparty(ctx context.Context, counterpartyID id.ID, filter domain.ListFilter) (domain.ListResult[ledger.Entry], error) {
	result := domain.ListResult[ledger.Entry]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder.
		Select(r.columns...).
		From(ledgerEntriesTable).
		Where(squirrel.Eq{"counterparty_id": counterpartyID})

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
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

	q = postgres.ApplyOrder(q, filter.OrderBy, "date ASC")
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

// Balance returns sum(debit) − sum(credit) for the counterparty.
func (r *LedgerRepo) Balance(ctx context.Context, counterpartyID id.ID) (types.Money, error) {
	sql := `SELECT COALESCE(SUM(CASE WHEN entry_kind = $1 THEN amount ELSE -amount END), 0)
		FROM ` + ledgerEntriesTable + ` WHERE counterparty_id = $2`

	var balance types.Money
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, ledger.KindDebit, counterpartyID).Scan(&balance)
	if err != nil {
		return types.Zero(), apperror.NewDatabase(err)
	}

	return balance, nil
}
