package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlanAllowedFor(t *testing.T) {
	tests := []struct {
		plan    Plan
		role    Role
		allowed bool
	}{
		{PlanFree, RolePharmacist, true},
		{PlanStandard, RolePharmacist, true},
		{PlanPremium, RolePharmacist, false},
		{PlanPremium, RolePharmacyOwner, true},
		{PlanStandard, RoleAdmin, false},
		{Plan("GOLD"), RolePharmacyOwner, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.plan)+"/"+string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.plan.AllowedFor(tt.role))
		})
	}
}

func TestSubscriptionDerivedFields(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	soon := now.Add(36 * time.Hour)
	exact := now.Add(48 * time.Hour)

	t.Run("No Expiry", func(t *testing.T) {
		s := Subscription{Plan: PlanFree, Status: SubscriptionActive}
		assert.False(t, s.IsExpired(now))
		assert.Nil(t, s.DaysRemaining(now))
		assert.Equal(t, SubscriptionActive, s.DisplayStatus(now))
	})

	t.Run("Expired But Stored Active", func(t *testing.T) {
		s := Subscription{Plan: PlanStandard, Status: SubscriptionActive, ExpiresAt: &past}
		assert.True(t, s.IsExpired(now))
		assert.Equal(t, SubscriptionExpired, s.DisplayStatus(now))
		assert.Equal(t, SubscriptionActive, s.Status)
		assert.Equal(t, 0, *s.DaysRemaining(now))
		assert.Equal(t, PlanFree, s.EffectivePlan(now))
	})

	t.Run("Expiry Equal To Now Is Not Expired", func(t *testing.T) {
		at := now
		s := Subscription{Plan: PlanStandard, Status: SubscriptionActive, ExpiresAt: &at}
		assert.False(t, s.IsExpired(now))
		assert.Equal(t, 0, *s.DaysRemaining(now))
	})

	t.Run("Partial Day Rounds Up", func(t *testing.T) {
		s := Subscription{Plan: PlanStandard, Status: SubscriptionActive, ExpiresAt: &soon}
		assert.Equal(t, 2, *s.DaysRemaining(now))
	})

	t.Run("Whole Days", func(t *testing.T) {
		s := Subscription{Plan: PlanStandard, Status: SubscriptionActive, ExpiresAt: &exact}
		assert.Equal(t, 2, *s.DaysRemaining(now))
	})
}

func TestParsePaymentAction(t *testing.T) {
	a, ok := ParsePaymentAction("confirm")
	assert.True(t, ok)
	assert.Equal(t, ActionConfirm, a)

	a, ok = ParsePaymentAction(" REJECT ")
	assert.True(t, ok)
	assert.Equal(t, ActionReject, a)

	_, ok = ParsePaymentAction("refund")
	assert.False(t, ok)
}

func TestErrorKinds(t *testing.T) {
	wrapped := fmt.Errorf("manage payment: %w", ErrPaymentAlreadyProcessed(PaymentConfirmed))

	assert.Equal(t, KindStateConflict, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, ErrPaymentAlreadyProcessed(PaymentConfirmed)))
	assert.False(t, errors.Is(wrapped, ErrPaymentAlreadyProcessed(PaymentRejected)))
	assert.Equal(t, "Payment request has already been confirmed.", ErrPaymentAlreadyProcessed(PaymentConfirmed).Error())
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestLimitsFor(t *testing.T) {
	free := LimitsFor(PlanFree, RolePharmacyOwner)
	assert.Equal(t, 10, *free.MaxProductListings)
	ok, reason := free.Allows(FeatureAnalytics)
	assert.False(t, ok)
	assert.NotEmpty(t, reason)

	std := LimitsFor(PlanStandard, RolePharmacist)
	ok, _ = std.Allows(FeatureAnalytics)
	assert.True(t, ok)
	ok, _ = std.Allows(FeaturePrioritySupport)
	assert.False(t, ok)

	premium := LimitsFor(PlanPremium, RolePharmacyOwner)
	ok, _ = premium.Allows(FeatureCustomBranding)
	assert.True(t, ok)

	assert.Equal(t, Limits{}, LimitsFor(PlanPremium, RolePharmacist))

	admin := LimitsFor(PlanFree, RoleAdmin)
	ok, _ = admin.Allows(FeatureAPIAccess)
	assert.True(t, ok)
}
