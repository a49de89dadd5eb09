package catalog_repo

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
	"onmuhasebe/internal/domain/catalogs/counterparty"
	"onmuhasebe/internal/infrastructure/storage/postgres"
)

const counterpartiesTable = "counterparties"

// CounterpartyRepo implements counterparty.Repository.
type CounterpartyRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
	columns []string
}

// NewCounterpartyRepo creates a new counterparty repository.
func NewCounterpartyRepo(txm *postgres.TxManager) *CounterpartyRepo {
	return &CounterpartyRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		columns: postgres.ExtractDBColumns[counterparty.Counterparty](),
	}
}

// Create inserts a new counterparty.
func (r *CounterpartyRepo) Create(ctx context.Context, cp *counterparty.Counterparty) error {
	sql, args, err := r.builder.
		Insert(counterpartiesTable).
		SetMap(postgres.StructToMap(cp)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("counterparty", "code", cp.Code)
		}
		return apperror.NewDatabase(err)
	}

	return nil
}

// GetByID retrieves a counterparty.
func (r *CounterpartyRepo) GetByID(ctx context.Context, cpID id.ID) (*counterparty.Counterparty, error) {
	return r.getOne(ctx, squirrel.Eq{"id": cpID}, cpID)
}

// GetByCode retrieves a counterparty by its unique code.
func (r *CounterpartyRepo) GetByCode(ctx context.Context, code string) (*counterparty.Counterparty, error) {
	return r.getOne(ctx, squirrel.Eq{"code": code}, code)
}

func (r *CounterpartyRepo) getOne(ctx context.Context, pred any, key any) (*counterparty.Counterparty, error) {
	sql, args, err := r.builder.
		Select(r.columns...).
		From(counterpartiesTable).
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var cp counterparty.Counterparty
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &cp, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("counterparty", key)
		}
		return nil, apperror.NewDatabase(err)
	}

	return &cp, nil
}

// Update writes counterparty fields with optimistic locking.
func (r *CounterpartyRepo) Update(ctx context.Context, cp *counterparty.Counterparty) error {
	values := postgres.StructToMap(cp)
	delete(values, "id")
	delete(values, "created_at")
	currentVersion := cp.Version
	values["version"] = currentVersion + 1

	sql, args, err := r.builder.
		Update(counterpartiesTable).
		SetMap(values).
		Where(squirrel.Eq{"id": cp.ID, "version": currentVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("counterparty", cp.ID)
	}

	cp.Version = currentVersion + 1
	return nil
}

// Delete removes a counterparty.
func (r *CounterpartyRepo) Delete(ctx context.Context, cpID id.ID) error {
	sql, args, err := r.builder.
		Delete(counterpartiesTable).
		Where(squirrel.Eq{"id": cpID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("counterparty is referenced by documents").
				WithDetail("counterpartyId", cpID)
		}
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("counterparty", cpID)
	}

	return nil
}

// List retrieves counterparties with filtering and pagination.
func (r *CounterpartyRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[counterparty.Counterparty], error) {
	result := domain.ListResult[counterparty.Counterparty]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder.
		Select(r.columns...).
		From(counterpartiesTable)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"tax_number": pattern},
		})
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

	q = postgres.ApplyOrder(q, filter.OrderBy, "name ASC")
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
