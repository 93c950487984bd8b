package services

import (
	"context"
	"errors"
	"fmt"

	"wedding-backend/internal/models"
	"wedding-backend/internal/repositories"
)

var ErrNegativeAmount = errors.New("contribution amount cannot be negative")

type ContributionService struct {
	repo *repositories.ContributionRepository
}

func NewContributionService(repo *repositories.ContributionRepository) *ContributionService {
	return &ContributionService{repo: repo}
}

// Create records a contribution. Zero amount is allowed: it represents a
// guestbook message with no gift.
func (s *ContributionService) Create(ctx context.Context, req *models.CreateContributionRequest) (*models.Contribution, error) {
	if req.Amount < 0 {
		return nil, ErrNegativeAmount
	}
	c := &models.Contribution{
		GuestID: req.GuestID,
		Amount:  req.Amount,
		Message: req.Message,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create contribution: %w", err)
	}
	return c, nil
}

func (s *ContributionService) List(ctx context.Context) ([]*models.Contribution, error) {
	return s.repo.List(ctx)
}
