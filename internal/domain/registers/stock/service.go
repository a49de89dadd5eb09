package stock

import (
	"context"
	"fmt"
	"time"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain"
	"onmuhasebe/pkg/logger"
)

// Service applies stock effects. It assumes the caller already holds a
// transaction; both writes must land or roll back together.
type Service struct {
	repo Repository
}

// NewService creates a new stock ledger service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ApplyInput describes one stock effect.
type ApplyInput struct {
	ProductID       id.ID
	Delta           types.Quantity // signed
	MovementKind    string
	SourceKind      SourceKind
	SourceInvoiceID id.ID
	SourceInvoiceNo string
}

// Apply increments the product's stock by the signed delta and appends a
// movement row. The resulting sign is not validated: negative stock is
// permitted.
func (s *Service) Apply(ctx context.Context, in ApplyInput) error {
	if err := s.repo.AddToStock(ctx, in.ProductID, in.Delta); err != nil {
		return fmt.Errorf("add to stock: %w", err)
	}

	m := &Movement{
		ID:              id.New(),
		ProductID:       in.ProductID,
		Quantity:        in.Delta,
		MovementKind:    in.MovementKind,
		SourceKind:      in.SourceKind,
		SourceInvoiceID: in.SourceInvoiceID,
		SourceInvoiceNo: in.SourceInvoiceNo,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.InsertMovement(ctx, m); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}

	logger.Debug(ctx, "stock applied",
		"product_id", in.ProductID,
		"delta", in.Delta,
		"kind", in.MovementKind)

	return nil
}

// Movements returns the movement history for reporting.
func (s *Service) Movements(ctx context.Context, productID *id.ID, filter domain.ListFilter) (domain.ListResult[Movement], error) {
	return s.repo.ListMovements(ctx, productID, filter)
}
