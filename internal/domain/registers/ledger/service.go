package ledger

import (
	"context"
	"fmt"
	"time"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain"
	"onmuhasebe/internal/domain/catalogs/counterparty"
	"onmuhasebe/pkg/logger"
)

// Service upserts counterparty ledger entries. The caller decides the
// entry kind and reference kind; this service only persists.
type Service struct {
	repo Repository
}

// NewService creates a new ledger service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertInput describes one main or settlement entry.
type UpsertInput struct {
	CounterpartyType counterparty.Type
	CounterpartyID   id.ID
	Date             time.Time
	EntryKind        EntryKind
	Amount           types.Money
	Description      string
	SourceInvoiceID  id.ID
	ReferenceKind    ReferenceKind
}

// Upsert creates or updates the entry for (invoice, reference kind).
func (s *Service) Upsert(ctx context.Context, in UpsertInput) error {
	now := time.Now().UTC()
	e := &Entry{
		ID:               id.New(),
		CounterpartyType: in.CounterpartyType,
		CounterpartyID:   in.CounterpartyID,
		Date:             in.Date,
		EntryKind:        in.EntryKind,
		Amount:           in.Amount,
		Description:      in.Description,
		SourceInvoiceID:  in.SourceInvoiceID,
		ReferenceKind:    in.ReferenceKind,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Upsert(ctx, e); err != nil {
		return fmt.Errorf("upsert ledger entry: %w", err)
	}

	logger.Debug(ctx, "ledger entry upserted",
		"counterparty_id", in.CounterpartyID,
		"kind", in.EntryKind,
		"reference", in.ReferenceKind,
		"amount", in.Amount)

	return nil
}

// DeleteByInvoice removes the invoice's entries for the given reference
// kinds, or all of them when none are given.
func (s *Service) DeleteByInvoice(ctx context.Context, invoiceID id.ID, kinds ...ReferenceKind) error {
	return s.repo.DeleteByInvoice(ctx, invoiceID, kinds...)
}

// Statement returns a counterparty's entries for reporting.
func (s *Service) Statement(ctx context.Context, counterpartyID id.ID, filter domain.ListFilter) (domain.ListResult[Entry], error) {
	return s.repo.ListByCounterparty(ctx, counterpartyID, filter)
}

// Balance returns the counterparty's running balance
// (positive: they owe us).
func (s *Service) Balance(ctx context.Context, counterpartyID id.ID) (types.Money, error) {
	return s.repo.Balance(ctx, counterpartyID)
}
