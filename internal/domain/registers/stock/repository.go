package stock

import (
	"context"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain"
)

// Repository defines persistence operations for the stock ledger.
type Repository interface {
	// AddToStock applies a signed quantity delta to the product row.
	AddToStock(ctx context.Context, productID id.ID, delta types.Quantity) error

	// InsertMovement appends an immutable movement row.
	InsertMovement(ctx context.Context, m *Movement) error

	// ListMovements returns the movement history, optionally restricted
	// to one product.
	ListMovements(ctx context.Context, productID *id.ID, filter domain.ListFilter) (domain.ListResult[Movement], error)
}
