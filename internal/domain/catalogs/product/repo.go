package product

import (
	"context"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/domain"
)

// Repository defines persistence operations for products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, productID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Product], error)
}
