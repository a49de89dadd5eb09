package cash

import (
	"context"
	"fmt"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain"
	"onmuhasebe/pkg/logger"
)

// Service applies cash balance effects and manages the account catalog.
type Service struct {
	repo Repository
}

// NewService creates a new cash balance service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Apply adds or subtracts amount from the account balance.
// Amount is expected non-negative; direction is carried by increase.
func (s *Service) Apply(ctx context.Context, accountID id.ID, amount types.Money, increase bool) error {
	delta := amount
	if !increase {
		delta = amount.Neg()
	}

	if err := s.repo.AddToBalance(ctx, accountID, delta); err != nil {
		return fmt.Errorf("add to balance: %w", err)
	}

	logger.Debug(ctx, "cash applied",
		"account_id", accountID,
		"delta", delta)

	return nil
}

// Create validates and persists a new account.
func (s *Service) Create(ctx context.Context, a *Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	logger.Info(ctx, "cash account created", "id", a.ID, "name", a.Name)
	return nil
}

// GetByID retrieves an account.
func (s *Service) GetByID(ctx context.Context, accountID id.ID) (*Account, error) {
	return s.repo.GetByID(ctx, accountID)
}

// Update validates and persists account changes. Balance is not updated
// through this path; it only moves via Apply.
func (s *Service) Update(ctx context.Context, a *Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, a)
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, accountID id.ID) error {
	return s.repo.Delete(ctx, accountID)
}

// List retrieves accounts with filtering and pagination.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Account], error) {
	return s.repo.List(ctx, filter)
}
