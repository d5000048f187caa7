package services

import (
	"context"
	"time"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/adapters/persistence/repositories"
	"pharmalink-api/internal/core/domain"
)

const (
	recentPaymentsLimit = 10
	expiringWindow      = 7 * 24 * time.Hour
)

// DashboardService handles dashboard operations
type DashboardService struct {
	store *repositories.Store
	now   func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store *repositories.Store) *DashboardService {
	return &DashboardService{
		store: store,
		now:   utcNow,
	}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// User Statistics
	TotalUsers  int64                    `json:"totalUsers"`
	UsersByRole []repositories.RoleCount `json:"usersByRole"`

	// Subscription Statistics
	Subscriptions SubscriptionStats `json:"subscriptions"`

	// Payment Statistics
	Payments       []repositories.PaymentStatusTotal `json:"payments"`
	RecentPayments []*models.PaymentRequestResponse  `json:"recentPayments"`

	// Subscriptions ending within the next week
	ExpiringSoon []repositories.ExpiringSubscription `json:"expiringSoon"`
}

// SubscriptionStats splits the plan/status breakdown per profile type
type SubscriptionStats struct {
	Pharmacists    []repositories.PlanStatusCount `json:"pharmacists"`
	PharmacyOwners []repositories.PlanStatusCount `json:"pharmacyOwners"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}
	stats := s.store.Stats

	// User counts by role
	roles, err := stats.CountUsersByRole(ctx)
	if err != nil {
		return nil, domain.Internal(err, "failed to count users")
	}
	data.UsersByRole = roles
	for _, r := range roles {
		data.TotalUsers += r.Count
	}

	// Subscriptions per profile type
	if data.Subscriptions.Pharmacists, err = stats.SubscriptionBreakdown(ctx, domain.RolePharmacist); err != nil {
		return nil, domain.Internal(err, "failed to load pharmacist subscriptions")
	}
	if data.Subscriptions.PharmacyOwners, err = stats.SubscriptionBreakdown(ctx, domain.RolePharmacyOwner); err != nil {
		return nil, domain.Internal(err, "failed to load pharmacy owner subscriptions")
	}

	// Payments
	if data.Payments, err = stats.PaymentsByStatus(ctx); err != nil {
		return nil, domain.Internal(err, "failed to aggregate payments")
	}
	recent, err := s.store.Payments.Recent(ctx, recentPaymentsLimit)
	if err != nil {
		return nil, domain.Internal(err, "failed to load recent payments")
	}
	data.RecentPayments = make([]*models.PaymentRequestResponse, 0, len(recent))
	for _, p := range recent {
		data.RecentPayments = append(data.RecentPayments, p.ToResponse())
	}

	now := s.now()
	if data.ExpiringSoon, err = stats.ExpiringBetween(ctx, now, now.Add(expiringWindow)); err != nil {
		return nil, domain.Internal(err, "failed to load expiring subscriptions")
	}

	return data, nil
}
