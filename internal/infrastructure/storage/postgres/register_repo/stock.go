// Package register_repo implements the register adapters' persistence
// on PostgreSQL: stock movements, cash balances, counterparty ledger
// entries and income/expense records.
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
	"onmuhasebe/internal/domain/registers/stock"
	"onmuhasebe/internal/infrastructure/storage/postgres"
)

const (
	stockMovementsTable = "stock_movements"
	productsTable       = "products"
)

// StockRepo implements stock.Repository.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
	columns []string
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		columns: postgres.ExtractDBColumns[stock.Movement](),
	}
}

// AddToStock applies a signed quantity delta to the product row.
func (r *StockRepo) AddToStock(ctx context.Context, productID id.ID, delta types.Quantity) error {
	sql := "UPDATE " + productsTable + " SET stock_qty = stock_qty + $1, updated_at = now() WHERE id = $2"

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, delta, productID)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID)
	}

	return nil
}

// InsertMovement appends an immutable movement row.
func (r *StockRepo) InsertMovement(ctx context.Context, m *stock.Movement) error {
	sql, args, err := r.builder.
		Insert(stockMovementsTable).
		SetMap(postgres.StructToMap(m)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(err)
	}

	return nil
}

// ListMovements returns the movement history, newest first.
func (r *StockRepo) ListMovements(ctx context.Context, productID *id.ID, filter domain.ListFilter) (domain.ListResult[stock.Movement], error) {
	result := domain.ListResult[stock.Movement]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder.
		Select(r.columns...).
		From(stockMovementsTable)

	if productID != nil {
		q = q.Where(squirrel.Eq{"product_id": *productID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.DateTo})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"source_invoice_no": "%" + filter.Search + "%"})
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
