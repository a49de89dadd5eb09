package product

import (
	"context"
	"fmt"
	"time"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/domain"
	"onmuhasebe/pkg/logger"
	"onmuhasebe/pkg/numerator"
)

// Service provides business operations for the product catalog.
type Service struct {
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new product service.
func NewService(repo Repository, num *numerator.Service) *Service {
	return &Service{repo: repo, numerator: num}
}

func (s *Service) codeConfig() numerator.Config {
	cfg := numerator.DefaultConfig("PRD")
	cfg.IncludeYear = false
	cfg.ResetPeriod = "never"
	return cfg
}

// Create validates and persists a new product.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, s.codeConfig(), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	logger.Info(ctx, "product created", "id", p.ID, "code", p.Code)
	return nil
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// Update validates and persists product changes.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, p)
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}
	logger.Info(ctx, "product deleted", "id", productID)
	return nil
}

// List retrieves products with filtering and pagination.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Product], error) {
	return s.repo.List(ctx, filter)
}
