package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/adapters/persistence/repositories"
	"pharmalink-api/internal/core/domain"
	"pharmalink-api/internal/pkg/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PricingService serves subscription prices
type PricingService struct {
	store *repositories.Store
}

// NewPricingService creates a new pricing service
func NewPricingService(store *repositories.Store) *PricingService {
	return &PricingService{store: store}
}

// UpdatePricingInput represents an admin price change
type UpdatePricingInput struct {
	Plan     string          `json:"plan" validate:"required,oneof=FREE STANDARD PREMIUM"`
	Price    *float64        `json:"price" validate:"required,gte=0"`
	Currency *string         `json:"currency" validate:"omitempty,min=3,max=10"`
	Features json.RawMessage `json:"features"`
}

// List lists all plans, cheapest first
func (s *PricingService) List(ctx context.Context) ([]*models.SubscriptionPricing, error) {
	pricing, err := s.store.Pricing.List(ctx)
	if err != nil {
		return nil, domain.Internal(err, "failed to list pricing")
	}
	return pricing, nil
}

// Update changes the price, currency and features of a plan
func (s *PricingService) Update(ctx context.Context, input *UpdatePricingInput) (*models.SubscriptionPricing, error) {
	plan := domain.Plan(input.Plan)
	if !plan.Valid() {
		return nil, domain.ErrInvalidPlan
	}
	if len(input.Features) > 0 && !json.Valid(input.Features) {
		return nil, domain.Validation("features must be valid JSON")
	}

	pricing, err := s.store.Pricing.GetByPlan(ctx, plan)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPricingNotFound(plan)
		}
		return nil, domain.Internal(err, "failed to load pricing")
	}

	pricing.Price = *input.Price
	if c := trimmed(input.Currency); c != nil {
		pricing.Currency = strings.ToUpper(*c)
	}
	if len(input.Features) > 0 {
		pricing.Features = datatypes.JSON(input.Features)
	}

	if err := s.store.Pricing.Update(ctx, pricing); err != nil {
		return nil, domain.Internal(err, "failed to update pricing")
	}

	logger.Infof("✅ Pricing updated: %s = %.2f %s", pricing.Plan, pricing.Price, pricing.Currency)
	return pricing, nil
}
