// Package order_repo implements sales order persistence on PostgreSQL.
package order_repo

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
	"onmuhasebe/internal/domain/orders"
	"onmuhasebe/internal/infrastructure/storage/postgres"
)

const (
	ordersTable     = "sales_orders"
	orderLinesTable = "sales_order_lines"
)

var orderLineColumns = []string{
	"line_id", "order_id", "line_no", "product_id",
	"quantity", "unit_price", "vat_rate",
	"discount1_pct", "discount2_pct",
}

// Repo implements orders.Repository.
type Repo struct {
	txm      *postgres.TxManager
	builder  squirrel.StatementBuilderType
	inserter *postgres.BatchInserter
	columns  []string
}

// NewRepo creates a new sales order repository.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{
		txm:      txm,
		builder:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		inserter: postgres.NewBatchInserter(txm),
		columns:  postgres.ExtractDBColumns[orders.Order](),
	}
}

// Create inserts the order header.
func (r *Repo) Create(ctx context.Context, o *orders.Order) error {
	sql, args, err := r.builder.
		Insert(ordersTable).
		SetMap(postgres.StructToMap(o)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("order", "number", o.Number)
		}
		return apperror.NewDatabase(err)
	}

	return nil
}

// GetByID retrieves the order header.
func (r *Repo) GetByID(ctx context.Context, orderID id.ID) (*orders.Order, error) {
	sql, args, err := r.builder.
		Select(r.columns...).
		From(ordersTable).
		Where(squirrel.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var o orders.Order
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &o, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("order", orderID)
		}
		return nil, apperror.NewDatabase(err)
	}

	return &o, nil
}

// Update writes the order header with optimistic locking.
func (r *Repo) Update(ctx context.Context, o *orders.Order) error {
	values := postgres.StructToMap(o)
	delete(values, "id")
	delete(values, "created_at")
	currentVersion := o.Version
	values["version"] = currentVersion + 1

	sql, args, err := r.builder.
		Update(ordersTable).
		SetMap(values).
		Where(squirrel.Eq{"id": o.ID, "version": currentVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("order", o.ID)
	}

	o.Version = currentVersion + 1
	return nil
}

// Delete removes the order header.
func (r *Repo) Delete(ctx context.Context, orderID id.ID) error {
	sql, args, err := r.builder.
		Delete(ordersTable).
		Where(squirrel.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("order", orderID)
	}

	return nil
}

// List retrieves order headers with filtering and pagination.
func (r *Repo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[orders.Order], error) {
	result := domain.ListResult[orders.Order]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder.
		Select(r.columns...).
		From(ordersTable)

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

// GetLines retrieves the order's lines ordered by line number.
func (r *Repo) GetLines(ctx context.Context, orderID id.ID) ([]orders.OrderLine, error) {
	sql, args, err := r.builder.
		Select(orderLineColumns...).
		From(orderLinesTable).
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select lines: %w", err)
	}

	var lines []orders.OrderLine
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}

	return lines, nil
}

// SaveLines replaces the order's lines. The bulk insert uses the COPY
// protocol, so SaveLines must run inside a transaction.
func (r *Repo) SaveLines(ctx context.Context, orderID id.ID, lines []orders.OrderLine) error {
	if err := r.DeleteLines(ctx, orderID); err != nil {
		return err
	}

	if len(lines) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []any{
			line.LineID, orderID, line.LineNo, line.ProductID,
			line.Quantity, line.UnitPrice, line.VATRate,
			line.Discount1Pct, line.Discount2Pct,
		})
	}

	if _, err := r.inserter.CopyFromSlice(ctx, orderLinesTable, orderLineColumns, rows); err != nil {
		return apperror.NewDatabase(err)
	}

	return nil
}

// DeleteLines removes all lines of the order.
func (r *Repo) DeleteLines(ctx context.Context, orderID id.ID) error {
	sql, args, err := r.builder.
		Delete(orderLinesTable).
		Where(squirrel.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(err)
	}

	return nil
}
