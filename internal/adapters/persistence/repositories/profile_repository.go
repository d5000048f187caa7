package repositories

import (
	"context"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// profileRepository implements ProfileRepository interface
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// CreatePharmacist creates a pharmacist profile
func (r *profileRepository) CreatePharmacist(ctx context.Context, profile *models.PharmacistProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// CreatePharmacyOwner creates a pharmacy owner profile
func (r *profileRepository) CreatePharmacyOwner(ctx context.Context, profile *models.PharmacyOwnerProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// CreateAdmin creates an admin profile
func (r *profileRepository) CreateAdmin(ctx context.Context, profile *models.AdminProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// GetSubscription reads the subscription columns for userID
func (r *profileRepository) GetSubscription(ctx context.Context, userID string, role domain.Role, forUpdate bool) (*models.Subscription, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	switch role {
	case domain.RolePharmacist:
		var profile models.PharmacistProfile
		if err := query.Take(&profile).Error; err != nil {
			return nil, err
		}
		return &profile.Subscription, nil
	case domain.RolePharmacyOwner:
		var profile models.PharmacyOwnerProfile
		if err := query.Take(&profile).Error; err != nil {
			return nil, err
		}
		return &profile.Subscription, nil
	}
	return nil, domain.ErrInvalidRole
}

// UpdateSubscription writes all three subscription columns, including a nil expiry
func (r *profileRepository) UpdateSubscription(ctx context.Context, userID string, role domain.Role, sub models.Subscription) (int64, error) {
	model, err := profileTable(role)
	if err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"subscription_plan":       sub.SubscriptionPlan,
			"subscription_status":     sub.SubscriptionStatus,
			"subscription_expires_at": sub.SubscriptionExpiresAt,
		})
	return result.RowsAffected, result.Error
}
