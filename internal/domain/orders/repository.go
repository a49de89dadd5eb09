package orders

import (
	"context"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/domain"
)

// Repository defines persistence operations for sales orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, orderID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Order], error)

	GetLines(ctx context.Context, orderID id.ID) ([]OrderLine, error)
	SaveLines(ctx context.Context, orderID id.ID, lines []OrderLine) error
	DeleteLines(ctx context.Context, orderID id.ID) error
}
