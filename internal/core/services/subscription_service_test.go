package services

import (
	"context"
	"testing"
	"time"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/core/domain"
	"pharmalink-api/internal/pkg/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countPayments(t *testing.T, f *fixture, userID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.store.DB().Model(&models.PaymentRequest{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func TestRequestPlanChangeOpensPendingRequest(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "owner@example.com")

	result, err := f.subs.RequestPlanChange(context.Background(), owner, PlanChangeInput{
		Plan:              domain.PlanStandard,
		UserWalletAddress: strPtr(" 0100 "),
	})
	require.NoError(t, err)

	assert.True(t, result.Created())
	assert.False(t, result.Existing)
	require.NotNil(t, result.PaymentRequest)
	assert.Equal(t, "PENDING", result.PaymentRequest.Status)
	assert.Equal(t, "STANDARD", result.PaymentRequest.SubscriptionPlan)
	assert.Equal(t, 20.0, result.PaymentRequest.Amount)
	assert.Equal(t, "EGP", result.PaymentRequest.Currency)
	assert.Equal(t, seededWallet, result.PaymentRequest.WalletAddress)
	require.NotNil(t, result.PaymentRequest.UserWalletAddress)
	assert.Equal(t, "0100", *result.PaymentRequest.UserWalletAddress)
	require.NotNil(t, result.Instructions)
	assert.Contains(t, result.Instructions.Message, seededWallet)

	// The profile only changes once an admin confirms
	sub := f.subscription(t, owner)
	assert.Equal(t, domain.PlanFree, sub.Plan)
	assert.Nil(t, sub.ExpiresAt)
}

func TestRequestPlanChangeReturnsExistingPending(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "owner@example.com")
	first := f.requestStandard(t, owner)

	second, err := f.subs.RequestPlanChange(context.Background(), owner, PlanChangeInput{Plan: domain.PlanStandard})
	require.NoError(t, err)

	assert.True(t, second.Existing)
	assert.False(t, second.Created())
	assert.Equal(t, first.ID, second.PaymentRequest.ID)
	assert.EqualValues(t, 1, countPayments(t, f, owner.UserID))

	// A different plan is a different request
	premium, err := f.subs.RequestPlanChange(context.Background(), owner, PlanChangeInput{Plan: domain.PlanPremium})
	require.NoError(t, err)
	assert.True(t, premium.Created())
	assert.Equal(t, 40.0, premium.PaymentRequest.Amount)
	assert.EqualValues(t, 2, countPayments(t, f, owner.UserID))
}

func TestRequestPlanChangeRejections(t *testing.T) {
	f := newFixture(t)
	pharmacist := f.pharmacist(t, "ph@example.com")
	admin := f.admin(t)

	tests := []struct {
		name string
		id   domain.Identity
		plan domain.Plan
		want error
	}{
		{"premium for pharmacist", pharmacist, domain.PlanPremium, domain.ErrPremiumForPharmacist},
		{"admin has no subscription", admin, domain.PlanStandard, domain.ErrNoSubscription},
		{"unknown plan", pharmacist, domain.Plan("GOLD"), domain.ErrInvalidPlan},
		{"already on free", pharmacist, domain.PlanFree, domain.ErrAlreadySubscribed(domain.PlanFree)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.subs.RequestPlanChange(context.Background(), tt.id, PlanChangeInput{Plan: tt.plan})
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}

	assert.EqualValues(t, 0, countPayments(t, f, pharmacist.UserID))
}

func TestRequestPlanChangeAlreadySubscribed(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "owner@example.com")
	expires := f.now.Add(10 * 24 * time.Hour)
	f.setSubscription(t, owner, domain.Subscription{Plan: domain.PlanStandard, Status: domain.SubscriptionActive, ExpiresAt: &expires})

	_, err := f.subs.RequestPlanChange(context.Background(), owner, PlanChangeInput{Plan: domain.PlanStandard})
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed(domain.PlanStandard))
	assert.EqualError(t, err, "You are already subscribed to the STANDARD plan.")

	// An elapsed subscription can be renewed
	f.now = expires.Add(time.Hour)
	result, err := f.subs.RequestPlanChange(context.Background(), owner, PlanChangeInput{Plan: domain.PlanStandard})
	require.NoError(t, err)
	assert.True(t, result.Created())
}

func TestRequestPlanChangeToFree(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "owner@example.com")
	expires := f.now.Add(10 * 24 * time.Hour)
	f.setSubscription(t, owner, domain.Subscription{Plan: domain.PlanPremium, Status: domain.SubscriptionActive, ExpiresAt: &expires})

	result, err := f.subs.RequestPlanChange(context.Background(), owner, PlanChangeInput{Plan: domain.PlanFree})
	require.NoError(t, err)

	assert.Nil(t, result.PaymentRequest)
	require.NotNil(t, result.Subscription)
	assert.Equal(t, domain.PlanFree, result.Subscription.Plan)
	assert.Equal(t, domain.SubscriptionActive, result.Subscription.Status)
	assert.Nil(t, result.Subscription.ExpiresAt)
	require.NotNil(t, result.Subscription.Pricing)
	assert.Equal(t, 0.0, result.Subscription.Pricing.Price)

	sub := f.subscription(t, owner)
	assert.Equal(t, domain.PlanFree, sub.Plan)
	assert.Nil(t, sub.ExpiresAt)
	assert.EqualValues(t, 0, countPayments(t, f, owner.UserID))
}

func TestRequestPlanChangeWithoutWallet(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "owner@example.com")
	require.NoError(t, f.store.DB().Model(&models.WalletConfig{}).Where("1 = 1").Update("is_active", false).Error)

	_, err := f.subs.RequestPlanChange(context.Background(), owner, PlanChangeInput{Plan: domain.PlanStandard})
	assert.ErrorIs(t, err, domain.ErrWalletNotConfigured)
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
	assert.EqualValues(t, 0, countPayments(t, f, owner.UserID))

	_, err = f.subs.ActiveWallet(context.Background())
	assert.ErrorIs(t, err, domain.ErrWalletNotConfigured)
}

func TestSubmitPaymentEvidence(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "owner@example.com")
	payment := f.requestStandard(t, owner)

	updated, err := f.subs.SubmitPaymentEvidence(context.Background(), owner, EvidenceInput{
		PaymentID:         payment.ID,
		UserWalletAddress: "01112223334",
		TransactionHash:   strPtr("TX-991"),
	})
	require.NoError(t, err)

	assert.Equal(t, "PENDING", updated.Status)
	require.NotNil(t, updated.UserWalletAddress)
	assert.Equal(t, "01112223334", *updated.UserWalletAddress)
	require.NotNil(t, updated.TransactionHash)
	assert.Equal(t, "TX-991", *updated.TransactionHash)
}

func TestSubmitPaymentEvidenceRejections(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "owner@example.com")
	other := f.pharmacist(t, "other@example.com")
	payment := f.requestStandard(t, owner)

	tests := []struct {
		name  string
		id    domain.Identity
		input EvidenceInput
		want  error
	}{
		{"malformed id", owner, EvidenceInput{PaymentID: "42", UserWalletAddress: "w"}, domain.ErrInvalidPaymentID},
		{"blank wallet", owner, EvidenceInput{PaymentID: payment.ID, UserWalletAddress: "   "}, domain.ErrWalletAddressRequired},
		{"not owned", other, EvidenceInput{PaymentID: payment.ID, UserWalletAddress: "w"}, domain.ErrPaymentRequestNotOwned},
		{"unknown id", owner, EvidenceInput{PaymentID: uuid.NewString(), UserWalletAddress: "w"}, domain.ErrPaymentRequestNotOwned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.subs.SubmitPaymentEvidence(context.Background(), tt.id, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	stored, err := f.store.Payments.GetByID(context.Background(), payment.ID, false)
	require.NoError(t, err)
	assert.Nil(t, stored.UserWalletAddress)
}

func TestSubmitPaymentEvidenceAfterDecision(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "owner@example.com")
	payment := f.requestStandard(t, owner)

	_, err := f.payments.ManagePayment(context.Background(), f.admin(t), ManagePaymentInput{PaymentID: payment.ID, Action: "CONFIRM"})
	require.NoError(t, err)

	_, err = f.subs.SubmitPaymentEvidence(context.Background(), owner, EvidenceInput{PaymentID: payment.ID, UserWalletAddress: "w"})
	assert.EqualError(t, err, "Payment request is already confirmed.")
	assert.Equal(t, domain.KindStateConflict, domain.KindOf(err))
}

func TestGetMySubscription(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "owner@example.com")

	view, err := f.subs.GetMySubscription(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, view.Plan)
	assert.Equal(t, domain.SubscriptionActive, view.Status)
	assert.False(t, view.IsExpired)
	assert.Nil(t, view.DaysRemaining)
	require.NotNil(t, view.Limits.MaxProductListings)
	assert.Equal(t, 10, *view.Limits.MaxProductListings)

	expires := f.now.Add(36 * time.Hour)
	f.setSubscription(t, owner, domain.Subscription{Plan: domain.PlanStandard, Status: domain.SubscriptionActive, ExpiresAt: &expires})

	view, err = f.subs.GetMySubscription(context.Background(), owner)
	require.NoError(t, err)
	require.NotNil(t, view.DaysRemaining)
	assert.Equal(t, 2, *view.DaysRemaining)
	assert.True(t, view.Limits.HasAdvancedAnalytics)
	require.NotNil(t, view.Pricing)
	assert.Equal(t, 20.0, view.Pricing.Price)

	// Elapsed: shown as EXPIRED, stored row untouched
	f.now = expires.Add(time.Minute)
	view, err = f.subs.GetMySubscription(context.Background(), owner)
	require.NoError(t, err)
	assert.True(t, view.IsExpired)
	assert.Equal(t, domain.SubscriptionExpired, view.Status)
	assert.Equal(t, 0, *view.DaysRemaining)
	assert.False(t, view.Limits.HasAdvancedAnalytics)
	assert.Equal(t, domain.SubscriptionActive, f.subscription(t, owner).Status)

	_, err = f.subs.GetMySubscription(context.Background(), f.admin(t))
	assert.ErrorIs(t, err, domain.ErrNoSubscription)
}

func TestCheckFeature(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "owner@example.com")

	err := f.subs.CheckFeature(context.Background(), owner, "analytics")
	assert.Equal(t, domain.KindPaymentRequired, domain.KindOf(err))

	err = f.subs.CheckFeature(context.Background(), owner, "teleport")
	assert.ErrorIs(t, err, domain.ErrUnknownFeature)

	expires := f.now.Add(24 * time.Hour)
	f.setSubscription(t, owner, domain.Subscription{Plan: domain.PlanStandard, Status: domain.SubscriptionActive, ExpiresAt: &expires})
	assert.NoError(t, f.subs.CheckFeature(context.Background(), owner, "analytics"))
	assert.Equal(t, domain.KindPaymentRequired, domain.KindOf(f.subs.CheckFeature(context.Background(), owner, "api-access")))

	assert.NoError(t, f.subs.CheckFeature(context.Background(), f.admin(t), "api-access"))
}

func TestListMyPayments(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "owner@example.com")
	other := f.owner(t, "other@example.com")
	f.requestStandard(t, owner)
	f.requestStandard(t, other)

	page, err := f.subs.ListMyPayments(context.Background(), owner, "pending", pagination.New(1, 20))
	require.NoError(t, err)
	items := page.Items.([]*models.PaymentRequestResponse)
	require.Len(t, items, 1)
	assert.Equal(t, owner.UserID, items[0].UserID)
	assert.Nil(t, items[0].User)
	assert.EqualValues(t, 1, page.Meta.Total)

	_, err = f.subs.ListMyPayments(context.Background(), owner, "PAID", pagination.New(1, 20))
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
