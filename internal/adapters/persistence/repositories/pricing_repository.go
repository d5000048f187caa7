package repositories

import (
	"context"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/core/domain"

	"gorm.io/gorm"
)

// pricingRepository implements PricingRepository interface
type pricingRepository struct {
	db *gorm.DB
}

// NewPricingRepository creates a new pricing repository
func NewPricingRepository(db *gorm.DB) PricingRepository {
	return &pricingRepository{db: db}
}

// List lists pricing rows, cheapest first
func (r *pricingRepository) List(ctx context.Context) ([]*models.SubscriptionPricing, error) {
	var pricing []*models.SubscriptionPricing
	err := r.db.WithContext(ctx).Order("price ASC").Find(&pricing).Error
	return pricing, err
}

// GetByPlan gets the pricing row for plan
func (r *pricingRepository) GetByPlan(ctx context.Context, plan domain.Plan) (*models.SubscriptionPricing, error) {
	var pricing models.SubscriptionPricing
	err := r.db.WithContext(ctx).Where("plan = ?", string(plan)).First(&pricing).Error
	if err != nil {
		return nil, err
	}
	return &pricing, nil
}

// Update saves price and features
func (r *pricingRepository) Update(ctx context.Context, pricing *models.SubscriptionPricing) error {
	return r.db.WithContext(ctx).
		Model(pricing).
		Select("price", "currency", "features").
		Updates(pricing).Error
}
