package cashflow

import (
	"context"
	"fmt"
	"time"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain"
	"onmuhasebe/pkg/logger"
)

// Service upserts income/expense records.
type Service struct {
	repo Repository
}

// NewService creates a new cashflow service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertInput describes one income or expense record.
type UpsertInput struct {
	Date            time.Time
	Kind            Kind
	Amount          types.Money
	Description     string
	SourceKind      SourceKind
	SourceInvoiceID id.ID
	CashAccountID   id.ID
}

// Upsert creates or updates the record for (invoice, source kind).
func (s *Service) Upsert(ctx context.Context, in UpsertInput) error {
	now := time.Now().UTC()
	r := &Record{
		ID:              id.New(),
		Date:            in.Date,
		Kind:            in.Kind,
		Amount:          in.Amount,
		Description:     in.Description,
		SourceKind:      in.SourceKind,
		SourceInvoiceID: in.SourceInvoiceID,
		CashAccountID:   in.CashAccountID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Upsert(ctx, r); err != nil {
		return fmt.Errorf("upsert cashflow record: %w", err)
	}

	logger.Debug(ctx, "cashflow record upserted",
		"invoice_id", in.SourceInvoiceID,
		"kind", in.Kind,
		"amount", in.Amount)

	return nil
}

// DeleteByInvoice removes all records referencing the invoice. Used when
// payment stops being immediate and on invoice delete.
func (s *Service) DeleteByInvoice(ctx context.Context, invoiceID id.ID) error {
	return s.repo.DeleteByInvoice(ctx, invoiceID)
}

// List returns records for reporting.
func (s *Service) List(ctx context.Context, kind *Kind, filter domain.ListFilter) (domain.ListResult[Record], error) {
	return s.repo.List(ctx, kind, filter)
}
