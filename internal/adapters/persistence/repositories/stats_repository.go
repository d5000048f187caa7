package repositories

import (
	"context"
	"time"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/core/domain"

	"gorm.io/gorm"
)

// RoleCount is the number of users holding a role
type RoleCount struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}

// PlanStatusCount is the number of profiles per plan and status
type PlanStatusCount struct {
	SubscriptionPlan   string `json:"plan"`
	SubscriptionStatus string `json:"status"`
	Count              int64  `json:"count"`
}

// PaymentStatusTotal aggregates payment requests per status
type PaymentStatusTotal struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Total  float64 `json:"totalAmount"`
}

// ExpiringSubscription is a profile whose paid plan ends soon
type ExpiringSubscription struct {
	UserID                string    `json:"userId"`
	Email                 string    `json:"email"`
	Role                  string    `json:"role"`
	SubscriptionPlan      string    `json:"plan"`
	SubscriptionExpiresAt time.Time `json:"expiresAt"`
}

// statsRepository implements StatsRepository interface
type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// CountUsersByRole groups users by role
func (r *statsRepository) CountUsersByRole(ctx context.Context) ([]RoleCount, error) {
	var rows []RoleCount
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Order("role").
		Scan(&rows).Error
	return rows, err
}

// SubscriptionBreakdown groups the profiles of role by plan and status
func (r *statsRepository) SubscriptionBreakdown(ctx context.Context, role domain.Role) ([]PlanStatusCount, error) {
	model, err := profileTable(role)
	if err != nil {
		return nil, err
	}

	var rows []PlanStatusCount
	err = r.db.WithContext(ctx).
		Model(model).
		Select("subscription_plan, subscription_status, COUNT(*) AS count").
		Group("subscription_plan, subscription_status").
		Order("subscription_plan, subscription_status").
		Scan(&rows).Error
	return rows, err
}

// PaymentsByStatus counts and sums payment requests per status
func (r *statsRepository) PaymentsByStatus(ctx context.Context) ([]PaymentStatusTotal, error) {
	var rows []PaymentStatusTotal
	err := r.db.WithContext(ctx).
		Model(&models.PaymentRequest{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}

// ExpiringBetween lists subscriber profiles whose expiry falls in [from, to]
func (r *statsRepository) ExpiringBetween(ctx context.Context, from, to time.Time) ([]ExpiringSubscription, error) {
	var out []ExpiringSubscription
	for _, role := range []domain.Role{domain.RolePharmacist, domain.RolePharmacyOwner} {
		model, _ := profileTable(role)
		var rows []ExpiringSubscription
		err := r.db.WithContext(ctx).
			Model(model).
			Select("users.id AS user_id, users.email, users.role, subscription_plan, subscription_expires_at").
			Joins("JOIN users ON users.id = user_id").
			Where("users.deleted_at IS NULL").
			Where("subscription_expires_at BETWEEN ? AND ?", from, to).
			Order("subscription_expires_at ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func profileTable(role domain.Role) (interface{}, error) {
	switch role {
	case domain.RolePharmacist:
		return &models.PharmacistProfile{}, nil
	case domain.RolePharmacyOwner:
		return &models.PharmacyOwnerProfile{}, nil
	}
	return nil, domain.ErrInvalidRole
}
