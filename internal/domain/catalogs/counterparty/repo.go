package counterparty

import (
	"context"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/domain"
)

// Repository defines persistence operations for counterparties.
type Repository interface {
	Create(ctx context.Context, cp *Counterparty) error
	GetByID(ctx context.Context, cpID id.ID) (*Counterparty, error)
	GetByCode(ctx context.Context, code string) (*Counterparty, error)
	Update(ctx context.Context, cp *Counterparty) error
	Delete(ctx context.Context, cpID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Counterparty], error)
}
