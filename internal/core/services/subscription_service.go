package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/adapters/persistence/repositories"
	"pharmalink-api/internal/core/domain"
	"pharmalink-api/internal/pkg/logger"
	"pharmalink-api/internal/pkg/metrics"
	"pharmalink-api/internal/pkg/pagination"
	"pharmalink-api/internal/pkg/validator"

	"gorm.io/gorm"
)

// SubscriptionService handles the subscriber side of the payment-request lifecycle
type SubscriptionService struct {
	store *repositories.Store
	now   func() time.Time
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(store *repositories.Store) *SubscriptionService {
	return &SubscriptionService{
		store: store,
		now:   utcNow,
	}
}

// PlanChangeInput represents a plan change request
type PlanChangeInput struct {
	Plan              domain.Plan
	UserWalletAddress *string
}

// PaymentInstructions tells the user where to send the transfer
type PaymentInstructions struct {
	WalletAddress string  `json:"walletAddress"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Message       string  `json:"message"`
}

// PlanChangeResult is returned by RequestPlanChange. A FREE change carries
// the updated subscription; a paid change carries the payment request.
type PlanChangeResult struct {
	Plan           domain.Plan                    `json:"plan"`
	Subscription   *SubscriptionView              `json:"subscription,omitempty"`
	PaymentRequest *models.PaymentRequestResponse `json:"paymentRequest,omitempty"`
	Existing       bool                           `json:"existing"`
	Instructions   *PaymentInstructions           `json:"paymentInstructions,omitempty"`
}

// Created reports whether a new payment request was inserted
func (r *PlanChangeResult) Created() bool {
	return r.PaymentRequest != nil && !r.Existing
}

// SubscriptionView is the derived subscription state of a profile
type SubscriptionView struct {
	Plan          domain.Plan                 `json:"plan"`
	Status        domain.SubscriptionStatus   `json:"status"`
	ExpiresAt     *time.Time                  `json:"expiresAt"`
	IsExpired     bool                        `json:"isExpired"`
	DaysRemaining *int                        `json:"daysRemaining"`
	Pricing       *models.SubscriptionPricing `json:"pricing"`
	Limits        domain.Limits               `json:"limits"`
}

// LimitsView is the effective plan and limits of the caller
type LimitsView struct {
	Role   domain.Role               `json:"role"`
	Plan   domain.Plan               `json:"plan,omitempty"`
	Status domain.SubscriptionStatus `json:"status,omitempty"`
	Limits domain.Limits             `json:"limits"`
}

// EvidenceInput represents payment evidence attached by the requester
type EvidenceInput struct {
	PaymentID         string
	UserWalletAddress string
	TransactionHash   *string
}

// RequestPlanChange applies a FREE change immediately or opens a PENDING payment
// request for a paid plan. An existing PENDING request for the same plan is
// returned instead of creating a second one.
func (s *SubscriptionService) RequestPlanChange(ctx context.Context, id domain.Identity, input PlanChangeInput) (*PlanChangeResult, error) {
	plan := input.Plan
	if !plan.Valid() {
		return nil, domain.ErrInvalidPlan
	}
	if !id.Role.HasSubscription() {
		return nil, domain.ErrNoSubscription
	}
	if !plan.AllowedFor(id.Role) {
		return nil, domain.ErrPremiumForPharmacist
	}

	now := s.now()
	var result *PlanChangeResult

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		// 1. Lock the requester's profile; concurrent requests serialize here
		current, err := tx.Profiles.GetSubscription(ctx, id.UserID, id.Role, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProfileNotFound
			}
			return err
		}

		sub := current.ToDomain()
		if sub.Plan == plan && sub.Status == domain.SubscriptionActive && !sub.IsExpired(now) {
			return domain.ErrAlreadySubscribed(plan)
		}

		if !plan.IsPaid() {
			result, err = s.applyFree(ctx, tx, id, now)
			return err
		}

		// 2. Destination wallet
		wallet, err := tx.Wallets.GetActive(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrWalletNotConfigured
			}
			return err
		}

		// 3. Price
		pricing, err := tx.Pricing.GetByPlan(ctx, plan)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPricingNotFound(plan)
			}
			return err
		}

		// 4. Reuse a PENDING request for the same plan
		existing, err := tx.Payments.FindPending(ctx, id.UserID, plan)
		switch {
		case err == nil:
			result = paymentResult(plan, existing, true)
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		payment := &models.PaymentRequest{
			UserID:            id.UserID,
			SubscriptionPlan:  string(plan),
			Amount:            pricing.Price,
			Currency:          pricing.Currency,
			WalletAddress:     wallet.WalletAddress,
			UserWalletAddress: trimmed(input.UserWalletAddress),
			Status:            string(domain.PaymentPending),
		}
		if err := tx.Payments.Create(ctx, payment); err != nil {
			return err
		}

		result = paymentResult(plan, payment, false)
		return nil
	})
	if err != nil {
		return nil, asDomain(err, "failed to request plan change")
	}

	switch {
	case result.Created():
		metrics.PaymentRequestsCreated.WithLabelValues(string(plan)).Inc()
		logger.Infof("✅ Payment request %s created: user=%s plan=%s amount=%.2f",
			result.PaymentRequest.ID, id.UserID, plan, result.PaymentRequest.Amount)
	case result.Subscription != nil:
		metrics.PlanChanges.WithLabelValues(string(plan)).Inc()
		logger.Infof("✅ Plan changed to FREE: user=%s", id.UserID)
	}

	return result, nil
}

func (s *SubscriptionService) applyFree(ctx context.Context, tx *repositories.Store, id domain.Identity, now time.Time) (*PlanChangeResult, error) {
	free := freeSubscription()
	n, err := tx.Profiles.UpdateSubscription(ctx, id.UserID, id.Role, free)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrProfileNotFound
	}

	pricing, err := tx.Pricing.GetByPlan(ctx, domain.PlanFree)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &PlanChangeResult{
		Plan:         domain.PlanFree,
		Subscription: buildView(free.ToDomain(), id.Role, pricing, now),
	}, nil
}

func paymentResult(plan domain.Plan, payment *models.PaymentRequest, existing bool) *PlanChangeResult {
	return &PlanChangeResult{
		Plan:           plan,
		PaymentRequest: payment.ToResponse(),
		Existing:       existing,
		Instructions: &PaymentInstructions{
			WalletAddress: payment.WalletAddress,
			Amount:        payment.Amount,
			Currency:      payment.Currency,
			Message: fmt.Sprintf(
				"Please transfer %.2f %s to wallet %s, then submit your wallet address and transaction reference. Your %s plan is activated once an admin confirms the payment.",
				payment.Amount, payment.Currency, payment.WalletAddress, plan),
		},
	}
}

// SubmitPaymentEvidence attaches the payer wallet and optional transaction hash
// to the caller's own PENDING request. The status stays PENDING.
func (s *SubscriptionService) SubmitPaymentEvidence(ctx context.Context, id domain.Identity, input EvidenceInput) (*models.PaymentRequestResponse, error) {
	if validator.Var(input.PaymentID, "required,uuid") != nil {
		return nil, domain.ErrInvalidPaymentID
	}
	walletAddress := strings.TrimSpace(input.UserWalletAddress)
	if walletAddress == "" {
		return nil, domain.ErrWalletAddressRequired
	}

	var updated *models.PaymentRequest
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		payment, err := tx.Payments.GetByIDForUser(ctx, input.PaymentID, id.UserID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPaymentRequestNotOwned
			}
			return err
		}
		if payment.Status != string(domain.PaymentPending) {
			return domain.ErrPaymentNotPending(domain.PaymentStatus(payment.Status))
		}

		fields := map[string]interface{}{"user_wallet_address": walletAddress}
		if hash := trimmed(input.TransactionHash); hash != nil {
			fields["transaction_hash"] = *hash
		}

		n, err := tx.Payments.UpdatePending(ctx, payment.ID, fields)
		if err != nil {
			return err
		}
		if n == 0 {
			return staleStatus(ctx, tx, payment.ID, domain.ErrPaymentNotPending)
		}

		updated, err = tx.Payments.GetByID(ctx, payment.ID, false)
		return err
	})
	if err != nil {
		return nil, asDomain(err, "failed to submit payment evidence")
	}

	logger.Infof("✅ Payment evidence submitted: request=%s user=%s", updated.ID, id.UserID)
	return updated.ToResponse(), nil
}

// GetMySubscription returns the caller's subscription with derived fields.
// An elapsed expiry is reported as EXPIRED without changing the stored row.
func (s *SubscriptionService) GetMySubscription(ctx context.Context, id domain.Identity) (*SubscriptionView, error) {
	if !id.Role.HasSubscription() {
		return nil, domain.ErrNoSubscription
	}

	current, err := s.store.Profiles.GetSubscription(ctx, id.UserID, id.Role, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, domain.Internal(err, "failed to load subscription")
	}

	sub := current.ToDomain()
	pricing, err := s.store.Pricing.GetByPlan(ctx, sub.Plan)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Internal(err, "failed to load pricing")
	}

	return buildView(sub, id.Role, pricing, s.now()), nil
}

func buildView(sub domain.Subscription, role domain.Role, pricing *models.SubscriptionPricing, now time.Time) *SubscriptionView {
	return &SubscriptionView{
		Plan:          sub.Plan,
		Status:        sub.DisplayStatus(now),
		ExpiresAt:     sub.ExpiresAt,
		IsExpired:     sub.IsExpired(now),
		DaysRemaining: sub.DaysRemaining(now),
		Pricing:       pricing,
		Limits:        domain.LimitsFor(sub.EffectivePlan(now), role),
	}
}

// ListMyPayments lists the caller's payment requests, newest first
func (s *SubscriptionService) ListMyPayments(ctx context.Context, id domain.Identity, status string, params *pagination.Params) (*pagination.Response, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && !domain.PaymentStatus(status).Valid() {
		return nil, domain.Validation("Invalid payment status: %s", status)
	}

	payments, total, err := s.store.Payments.List(ctx, repositories.PaymentFilter{UserID: id.UserID, Status: status}, params.Offset, params.Limit)
	if err != nil {
		return nil, domain.Internal(err, "failed to list payment requests")
	}

	items := make([]*models.PaymentRequestResponse, 0, len(payments))
	for _, p := range payments {
		resp := p.ToResponse()
		resp.User = nil
		items = append(items, resp)
	}
	return pagination.NewResponse(items, params, total), nil
}

// ActiveWallet returns the wallet paying users should transfer to
func (s *SubscriptionService) ActiveWallet(ctx context.Context) (*models.PublicWallet, error) {
	wallet, err := s.store.Wallets.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotConfigured
		}
		return nil, domain.Internal(err, "failed to load wallet")
	}
	return wallet.ToPublic(), nil
}

// Limits returns the effective limits of the caller
func (s *SubscriptionService) Limits(ctx context.Context, id domain.Identity) (*LimitsView, error) {
	if id.Role == domain.RoleAdmin {
		return &LimitsView{Role: id.Role, Limits: domain.LimitsFor("", domain.RoleAdmin)}, nil
	}

	view, err := s.GetMySubscription(ctx, id)
	if err != nil {
		return nil, err
	}

	plan := view.Plan
	if view.IsExpired {
		plan = domain.PlanFree
	}
	return &LimitsView{Role: id.Role, Plan: plan, Status: view.Status, Limits: view.Limits}, nil
}

// CheckFeature returns a PaymentRequired error when the caller's plan
// does not include feature
func (s *SubscriptionService) CheckFeature(ctx context.Context, id domain.Identity, name string) error {
	feature, ok := domain.ParseFeature(name)
	if !ok {
		return domain.ErrUnknownFeature
	}

	view, err := s.Limits(ctx, id)
	if err != nil {
		return err
	}

	if allowed, reason := view.Limits.Allows(feature); !allowed {
		metrics.FeatureDenied.WithLabelValues(string(feature)).Inc()
		return domain.ErrFeatureRequiresPlan(reason)
	}
	return nil
}

// staleStatus builds the error for a conditional update that matched no row
// because another writer changed the status first.
func staleStatus(ctx context.Context, tx *repositories.Store, paymentID string, build func(domain.PaymentStatus) *domain.Error) error {
	current, err := tx.Payments.GetByID(ctx, paymentID, false)
	if err != nil {
		return err
	}
	return build(domain.PaymentStatus(current.Status))
}

// asDomain passes domain errors through and wraps everything else as internal
func asDomain(err error, message string) error {
	var appErr *domain.Error
	if errors.As(err, &appErr) {
		return err
	}
	return domain.Internal(err, message)
}
