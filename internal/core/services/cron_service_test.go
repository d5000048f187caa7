package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupTokens(t *testing.T) {
	f := newFixture(t)
	id := f.pharmacist(t, "ph@example.com")

	login, err := f.auth.Login(context.Background(), &LoginInput{Email: "ph@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(context.Background(), login.RefreshToken))

	// One revoked, one live from registration
	n, err := f.cron.CleanupTokens(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	active, err := f.store.RefreshTokens.CountActiveByUserID(context.Background(), id.UserID, f.now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, active)

	// Past the refresh lifetime everything is stale
	f.now = f.now.Add(f.cfg.RefreshTokenTTL() + time.Hour)
	n, err = f.cron.CleanupTokens(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCronRejectsInvalidSchedule(t *testing.T) {
	f := newFixture(t)
	f.cfg.Cron.TokenCleanup = "every day"

	assert.Error(t, f.cron.Start())
}

func TestCronStartStop(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.cron.Start())
	f.cron.Stop()
}
