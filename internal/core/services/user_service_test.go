package services

import (
	"context"
	"testing"
	"time"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/core/domain"
	"pharmalink-api/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserList(t *testing.T) {
	f := newFixture(t)
	f.pharmacist(t, "ph@example.com")
	f.owner(t, "owner@example.com")

	page, err := f.users.List(context.Background(), ListUsersInput{}, pagination.New(1, 20))
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Meta.Total)

	page, err = f.users.List(context.Background(), ListUsersInput{Role: "pharmacy_owner"}, pagination.New(1, 20))
	require.NoError(t, err)
	items := page.Items.([]*models.UserResponse)
	require.Len(t, items, 1)
	assert.Equal(t, "owner@example.com", items[0].Email)

	page, err = f.users.List(context.Background(), ListUsersInput{Search: "ezaby"}, pagination.New(1, 20))
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Meta.Total)

	_, err = f.users.List(context.Background(), ListUsersInput{Role: "ROOT"}, pagination.New(1, 20))
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestUserSetActive(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t)
	id := f.pharmacist(t, "ph@example.com")

	resp, err := f.users.SetActive(context.Background(), admin, id.UserID, false)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	n, err := f.store.RefreshTokens.CountActiveByUserID(context.Background(), id.UserID, f.now)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.users.SetActive(context.Background(), admin, admin.UserID, false)
	assert.ErrorIs(t, err, ErrCannotDeactivateSelf)

	_, err = f.users.SetActive(context.Background(), admin, "missing", true)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t)
	owner := f.owner(t, "owner@example.com")
	pharmacist := f.pharmacist(t, "ph@example.com")

	confirmed := f.requestStandard(t, owner)
	f.requestStandard(t, pharmacist)
	_, err := f.payments.ManagePayment(context.Background(), admin, ManagePaymentInput{PaymentID: confirmed.ID, Action: "CONFIRM"})
	require.NoError(t, err)

	// Subscription ends inside the expiring window once the clock moves
	f.now = f.now.Add(25 * 24 * time.Hour)

	data, err := f.dashboard.GetAdminDashboard(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 3, data.TotalUsers)
	assert.Len(t, data.UsersByRole, 3)
	assert.Len(t, data.RecentPayments, 2)

	totals := map[string]float64{}
	for _, p := range data.Payments {
		totals[p.Status] = p.Total
	}
	assert.Equal(t, 20.0, totals["CONFIRMED"])
	assert.Equal(t, 20.0, totals["PENDING"])

	plans := map[string]int64{}
	for _, row := range data.Subscriptions.PharmacyOwners {
		plans[row.SubscriptionPlan] += row.Count
	}
	assert.EqualValues(t, 1, plans["STANDARD"])

	require.Len(t, data.ExpiringSoon, 1)
	assert.Equal(t, owner.UserID, data.ExpiringSoon[0].UserID)
	assert.Equal(t, "owner@example.com", data.ExpiringSoon[0].Email)
}
