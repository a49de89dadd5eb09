package register_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"onmuhasebe/internal/core/apperror"
	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain"
	"onmuhasebe/internal/domain/registers/cash"
	"onmuhasebe/internal/infrastructure/storage/postgres"
)

const cashAccountsTable = "cash_accounts"

// CashRepo implements cash.Repository.
type CashRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
	columns []string
}

// NewCashRepo creates a new cash account repository.
func NewCashRepo(txm *postgres.TxManager) *CashRepo {
	return &CashRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		columns: postgres.ExtractDBColumns[cash.Account](),
	}
}

// Create inserts a new account.
func (r *CashRepo) Create(ctx context.Context, a *cash.Account) error {
	sql, args, err := r.builder.
		Insert(cashAccountsTable).
		SetMap(postgres.StructToMap(a)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("cash account", "name", a.Name)
		}
		return apperror.NewDatabase(err)
	}

	return nil
}

// GetByID retrieves an account.
func (r *CashRepo) GetByID(ctx context.Context, accountID id.ID) (*cash.Account, error) {
	sql, args, err := r.builder.
		Select(r.columns...).
		From(cashAccountsTable).
		Where(squirrel.Eq{"id": accountID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var a cash.Account
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &a, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("cash account", accountID)
		}
		return nil, apperror.NewDatabase(err)
	}

	return &a, nil
}

// Update writes account fields except the balance, which moves only
// through AddToBalance.
func (r *CashRepo) Update(ctx context.Context, a *cash.Account) error {
	values := postgres.StructToMap(a)
	delete(values, "id")
	delete(values, "created_at")
	delete(values, "balance")
	currentVersion := a.Version
	values["version"] = currentVersion + 1
	values["updated_at"] = squirrel.Expr("now()")

	sql, args, err := r.builder.
		Update(cashAccountsTable).
		SetMap(values).
		Where(squirrel.Eq{"id": a.ID, "version": currentVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("cash account", a.ID)
	}

	a.Version = currentVersion + 1
	return nil
}

// Delete removes an account.
func (r *CashRepo) Delete(ctx context.Context, accountID id.ID) error {
	sql, args, err := r.builder.
		Delete(cashAccountsTable).
		Where(squirrel.Eq{"id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("cash account", accountID)
	}

	return nil
}

// List retrieves accounts.
func (r *CashRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[cash.Account], error) {
	result := domain.ListResult[cash.Account]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder.
		Select(r.columns...).
		From(cashAccountsTable)

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
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

// AddToBalance applies a signed delta to the account balance.
func (r *CashRepo) AddToBalance(ctx context.Context, accountID id.ID, delta types.Money) error {
	sql := "UPDATE " + cashAccountsTable + " SET balance = balance + $1, updated_at = now() WHERE id = $2"

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, delta, accountID)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("cash account", accountID)
	}

	return nil
}
