package counterparty

import (
	"context"
	"fmt"
	"time"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/domain"
	"onmuhasebe/pkg/logger"
	"onmuhasebe/pkg/numerator"
)

// Service provides business operations for the counterparty catalog.
type Service struct {
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new counterparty service.
func NewService(repo Repository, num *numerator.Service) *Service {
	return &Service{repo: repo, numerator: num}
}

func (s *Service) codeConfig() numerator.Config {
	cfg := numerator.DefaultConfig("CAR")
	cfg.IncludeYear = false
	cfg.ResetPeriod = "never"
	return cfg
}

// Create validates and persists a new counterparty.
func (s *Service) Create(ctx context.Context, cp *Counterparty) error {
	if err := cp.Validate(); err != nil {
		return err
	}

	if cp.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, s.codeConfig(), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		cp.Code = code
	}

	if err := s.repo.Create(ctx, cp); err != nil {
		return err
	}

	logger.Info(ctx, "counterparty created", "id", cp.ID, "code", cp.Code)
	return nil
}

// GetByID retrieves a counterparty.
func (s *Service) GetByID(ctx context.Context, cpID id.ID) (*Counterparty, error) {
	return s.repo.GetByID(ctx, cpID)
}

// Update validates and persists counterparty changes.
func (s *Service) Update(ctx context.Context, cp *Counterparty) error {
	if err := cp.Validate(); err != nil {
		return err
	}
	cp.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, cp)
}

// Delete removes a counterparty.
func (s *Service) Delete(ctx context.Context, cpID id.ID) error {
	if err := s.repo.Delete(ctx, cpID); err != nil {
		return err
	}
	logger.Info(ctx, "counterparty deleted", "id", cpID)
	return nil
}

// List retrieves counterparties with filtering and pagination.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Counterparty], error) {
	return s.repo.List(ctx, filter)
}
