package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/adapters/persistence/repositories"
	"pharmalink-api/internal/config"
	"pharmalink-api/internal/core/domain"
	"pharmalink-api/internal/pkg/logger"
	"pharmalink-api/internal/pkg/metrics"
	"pharmalink-api/internal/pkg/pagination"
	"pharmalink-api/internal/pkg/validator"

	"gorm.io/gorm"
)

// PaymentAdminService handles admin decisions on payment requests
type PaymentAdminService struct {
	store *repositories.Store
	cfg   *config.Config
	now   func() time.Time
}

// NewPaymentAdminService creates a new payment admin service
func NewPaymentAdminService(store *repositories.Store, cfg *config.Config) *PaymentAdminService {
	return &PaymentAdminService{
		store: store,
		cfg:   cfg,
		now:   utcNow,
	}
}

// ManagePaymentInput represents an admin decision
type ManagePaymentInput struct {
	PaymentID      string
	Action         string
	RejectedReason *string
}

// ManagePayment confirms or rejects a PENDING payment request. Confirmation
// activates the requester's plan in the same transaction.
func (s *PaymentAdminService) ManagePayment(ctx context.Context, admin domain.Identity, input ManagePaymentInput) (*models.PaymentRequestResponse, error) {
	// 1. Validate before touching any row
	if admin.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if validator.Var(input.PaymentID, "required,uuid") != nil {
		return nil, domain.ErrInvalidPaymentID
	}
	action, ok := domain.ParsePaymentAction(input.Action)
	if !ok {
		return nil, domain.ErrInvalidPaymentAction
	}
	var reason string
	if input.RejectedReason != nil {
		reason = strings.TrimSpace(*input.RejectedReason)
	}
	if action == domain.ActionReject && reason == "" {
		return nil, domain.ErrRejectionReasonRequired
	}

	now := s.now()
	var updated *models.PaymentRequest

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		// 2. Lock the request and re-check its status
		payment, err := tx.Payments.GetByID(ctx, input.PaymentID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPaymentRequestNotFound
			}
			return err
		}
		if domain.PaymentStatus(payment.Status).IsFinal() {
			return domain.ErrPaymentAlreadyProcessed(domain.PaymentStatus(payment.Status))
		}

		// 3. Terminal transition, conditional on PENDING
		fields := map[string]interface{}{
			"confirmed_by": admin.UserID,
			"confirmed_at": now,
		}
		switch action {
		case domain.ActionConfirm:
			fields["status"] = string(domain.PaymentConfirmed)
			fields["rejected_reason"] = nil
		case domain.ActionReject:
			fields["status"] = string(domain.PaymentRejected)
			fields["rejected_reason"] = reason
		}

		n, err := tx.Payments.UpdatePending(ctx, payment.ID, fields)
		if err != nil {
			return err
		}
		if n == 0 {
			return staleStatus(ctx, tx, payment.ID, domain.ErrPaymentAlreadyProcessed)
		}

		// 4. Activate the plan; any failure rolls back the status change
		if action == domain.ActionConfirm {
			if err := s.activate(ctx, tx, payment, now); err != nil {
				return err
			}
		}

		updated, err = tx.Payments.GetByID(ctx, payment.ID, false)
		return err
	})
	if err != nil {
		return nil, asDomain(err, "failed to manage payment request")
	}

	metrics.PaymentRequestsProcessed.WithLabelValues(string(action)).Inc()
	logger.Infof("✅ Payment request %s %s by admin %s", updated.ID, strings.ToLower(updated.Status), admin.UserID)

	return updated.ToResponse(), nil
}

func (s *PaymentAdminService) activate(ctx context.Context, tx *repositories.Store, payment *models.PaymentRequest, confirmedAt time.Time) error {
	owner, err := tx.Users.GetByID(ctx, payment.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	role := domain.Role(owner.Role)
	plan := domain.Plan(payment.SubscriptionPlan)
	if !role.HasSubscription() {
		return domain.ErrProfileNotFound
	}
	if !plan.AllowedFor(role) {
		return domain.ErrPremiumForPharmacist
	}

	expiresAt := confirmedAt.Add(s.cfg.SubscriptionPeriod())
	n, err := tx.Profiles.UpdateSubscription(ctx, owner.ID, role, models.NewSubscription(domain.Subscription{
		Plan:      plan,
		Status:    domain.SubscriptionActive,
		ExpiresAt: &expiresAt,
	}))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProfileNotFound
	}

	metrics.PlanChanges.WithLabelValues(string(plan)).Inc()
	return nil
}

// List lists payment requests for admins, optionally filtered by status
func (s *PaymentAdminService) List(ctx context.Context, status string, params *pagination.Params) (*pagination.Response, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && !domain.PaymentStatus(status).Valid() {
		return nil, domain.Validation("Invalid payment status: %s", status)
	}

	payments, total, err := s.store.Payments.List(ctx, repositories.PaymentFilter{Status: status}, params.Offset, params.Limit)
	if err != nil {
		return nil, domain.Internal(err, "failed to list payment requests")
	}

	items := make([]*models.PaymentRequestResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, p.ToResponse())
	}
	return pagination.NewResponse(items, params, total), nil
}
