package repositories

import (
	"context"
	"time"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/core/domain"
)

// UserFilter narrows the admin user listing
type UserFilter struct {
	Role   string
	Search string
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetWithProfile(ctx context.Context, id string) (*models.User, error)
	GetWithProfileByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, filter UserFilter, offset, limit int) ([]*models.User, int64, error)
}

// ProfileRepository defines access to the role-specific profile tables
type ProfileRepository interface {
	CreatePharmacist(ctx context.Context, profile *models.PharmacistProfile) error
	CreatePharmacyOwner(ctx context.Context, profile *models.PharmacyOwnerProfile) error
	CreateAdmin(ctx context.Context, profile *models.AdminProfile) error
	// GetSubscription reads the subscription columns of the profile owned by userID.
	// forUpdate takes a row lock for the rest of the transaction.
	GetSubscription(ctx context.Context, userID string, role domain.Role, forUpdate bool) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, userID string, role domain.Role, sub models.Subscription) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string, at time.Time) (int64, error)
	RevokeAllByUserID(ctx context.Context, userID string, at time.Time) error
	DeleteStale(ctx context.Context, now time.Time) (int64, error)
	CountActiveByUserID(ctx context.Context, userID string, now time.Time) (int64, error)
}

// PricingRepository defines subscription pricing repository interface
type PricingRepository interface {
	List(ctx context.Context) ([]*models.SubscriptionPricing, error)
	GetByPlan(ctx context.Context, plan domain.Plan) (*models.SubscriptionPricing, error)
	Update(ctx context.Context, pricing *models.SubscriptionPricing) error
}

// WalletRepository defines wallet configuration repository interface
type WalletRepository interface {
	List(ctx context.Context) ([]*models.WalletConfig, error)
	GetByID(ctx context.Context, id string) (*models.WalletConfig, error)
	GetActive(ctx context.Context) (*models.WalletConfig, error)
	ExistsByAddress(ctx context.Context, address, excludeID string) (bool, error)
	Create(ctx context.Context, wallet *models.WalletConfig) error
	Update(ctx context.Context, wallet *models.WalletConfig) error
	// LockAll takes a row lock on every wallet for the rest of the transaction
	LockAll(ctx context.Context) error
	DeactivateAllExcept(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int64, error)
}

// PaymentFilter narrows payment request listings
type PaymentFilter struct {
	UserID string
	Status string
}

// PaymentRepository defines payment request repository interface
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.PaymentRequest) error
	GetByID(ctx context.Context, id string, forUpdate bool) (*models.PaymentRequest, error)
	GetByIDForUser(ctx context.Context, id, userID string, forUpdate bool) (*models.PaymentRequest, error)
	FindPending(ctx context.Context, userID string, plan domain.Plan) (*models.PaymentRequest, error)
	// UpdatePending applies fields only while the row is still PENDING and
	// returns the number of rows changed.
	UpdatePending(ctx context.Context, id string, fields map[string]interface{}) (int64, error)
	List(ctx context.Context, filter PaymentFilter, offset, limit int) ([]*models.PaymentRequest, int64, error)
	Recent(ctx context.Context, limit int) ([]*models.PaymentRequest, error)
}

// LocationRepository defines city/area repository interface
type LocationRepository interface {
	ListCities(ctx context.Context) ([]*models.City, error)
	GetCity(ctx context.Context, id string) (*models.City, error)
	ListAreas(ctx context.Context, cityID string) ([]*models.Area, error)
}

// StatsRepository defines the dashboard aggregation queries
type StatsRepository interface {
	CountUsersByRole(ctx context.Context) ([]RoleCount, error)
	SubscriptionBreakdown(ctx context.Context, role domain.Role) ([]PlanStatusCount, error)
	PaymentsByStatus(ctx context.Context) ([]PaymentStatusTotal, error)
	ExpiringBetween(ctx context.Context, from, to time.Time) ([]ExpiringSubscription, error)
}
