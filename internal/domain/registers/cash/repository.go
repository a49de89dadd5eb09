package cash

import (
	"context"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain"
)

// Repository defines persistence operations for cash accounts.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, accountID id.ID) (*Account, error)
	Update(ctx context.Context, a *Account) error
	Delete(ctx context.Context, accountID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Account], error)

	// AddToBalance applies a signed delta to the account balance.
	AddToBalance(ctx context.Context, accountID id.ID, delta types.Money) error
}
