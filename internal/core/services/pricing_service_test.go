package services

import (
	"context"
	"encoding/json"
	"testing"

	"pharmalink-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingList(t *testing.T) {
	f := newFixture(t)

	pricing, err := f.pricing.List(context.Background())
	require.NoError(t, err)
	require.Len(t, pricing, 3)
	assert.Equal(t, "FREE", pricing[0].Plan)
	assert.Equal(t, "STANDARD", pricing[1].Plan)
	assert.Equal(t, "PREMIUM", pricing[2].Plan)
	assert.True(t, json.Valid(pricing[1].Features))
}

func TestPricingUpdate(t *testing.T) {
	f := newFixture(t)
	price := 25.5

	updated, err := f.pricing.Update(context.Background(), &UpdatePricingInput{
		Plan:     "STANDARD",
		Price:    &price,
		Features: json.RawMessage(`{"pharmacist":["Unlimited applications"]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 25.5, updated.Price)
	assert.Equal(t, "EGP", updated.Currency)

	// New requests pick up the new price
	owner := f.owner(t, "owner@example.com")
	payment := f.requestStandard(t, owner)
	assert.Equal(t, 25.5, payment.Amount)

	_, err = f.pricing.Update(context.Background(), &UpdatePricingInput{
		Plan:     "STANDARD",
		Price:    &price,
		Features: json.RawMessage(`{broken`),
	})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestPricingUpdateMissingPlan(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.DB().Exec("DELETE FROM subscription_pricings WHERE plan = ?", "PREMIUM").Error)
	price := 50.0

	_, err := f.pricing.Update(context.Background(), &UpdatePricingInput{Plan: "PREMIUM", Price: &price})
	assert.ErrorIs(t, err, domain.ErrPricingNotFound(domain.PlanPremium))

	owner := f.owner(t, "owner@example.com")
	_, err = f.subs.RequestPlanChange(context.Background(), owner, PlanChangeInput{Plan: domain.PlanPremium})
	assert.ErrorIs(t, err, domain.ErrPricingNotFound(domain.PlanPremium))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
