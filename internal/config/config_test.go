package config

import (
	"context"
	"testing"
	"time"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/adapters/persistence/testdb"
	"pharmalink-api/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DB_DRIVER", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL())
	assert.Equal(t, 30*24*time.Hour, cfg.SubscriptionPeriod())
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestFromEnvPrefixes(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("PROD_DB_HOST", "db.internal")
	t.Setenv("DEV_DB_HOST", "ignored")
	t.Setenv("PROD_JWT_SECRET", "s1")
	t.Setenv("PROD_JWT_REFRESH_SECRET", "s2")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "s1", cfg.JWT.Secret)
}

func TestFromEnvRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad mode", map[string]string{"APP_MODE": "staging"}},
		{"bad driver", map[string]string{"APP_MODE": "dev", "DB_DRIVER": "oracle"}},
		{"prod default secrets", map[string]string{"APP_MODE": "prod", "DB_DRIVER": "mysql"}},
		{"zero period", map[string]string{"APP_MODE": "dev", "SUBSCRIPTION_PERIOD_DAYS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestBuildDialector(t *testing.T) {
	for _, driver := range []string{DriverMySQL, DriverPostgres, DriverSQLite} {
		d, err := buildDialector(DatabaseConfig{Driver: driver, Path: ":memory:"})
		require.NoError(t, err)
		assert.Equal(t, driver, d.Name())
	}

	_, err := buildDialector(DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestSeederIsIdempotent(t *testing.T) {
	password.DefaultCost = bcrypt.MinCost
	db := testdb.New(t)
	cfg := &Config{Seed: SeedConfig{AdminEmail: "admin@pharmaproject.com", AdminPassword: "admin123"}}

	seeder := NewSeeder(db, cfg)
	require.NoError(t, seeder.Run(context.Background()))
	require.NoError(t, seeder.Run(context.Background()))

	var pricing []models.SubscriptionPricing
	require.NoError(t, db.Order("price ASC").Find(&pricing).Error)
	require.Len(t, pricing, 3)
	assert.Equal(t, "FREE", pricing[0].Plan)
	assert.InDelta(t, 20, pricing[1].Price, 0.001)
	assert.Contains(t, string(pricing[2].Features), "API access")

	var wallets []models.WalletConfig
	require.NoError(t, db.Find(&wallets).Error)
	require.Len(t, wallets, 1)
	assert.True(t, wallets[0].IsActive)
	assert.Equal(t, defaultWalletAddress, wallets[0].WalletAddress)

	var admins int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&admins).Error)
	assert.EqualValues(t, 1, admins)

	var profiles int64
	require.NoError(t, db.Model(&models.AdminProfile{}).Count(&profiles).Error)
	assert.EqualValues(t, 1, profiles)

	var cities int64
	require.NoError(t, db.Model(&models.City{}).Count(&cities).Error)
	assert.EqualValues(t, len(defaultCities), cities)
}
