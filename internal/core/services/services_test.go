package services

import (
	"context"
	"os"
	"testing"
	"time"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/adapters/persistence/repositories"
	"pharmalink-api/internal/adapters/persistence/testdb"
	"pharmalink-api/internal/config"
	"pharmalink-api/internal/core/domain"
	"pharmalink-api/internal/pkg/password"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const seededWallet = "01026454497"

func TestMain(m *testing.M) {
	password.DefaultCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Subscription: config.SubscriptionConfig{PeriodDays: 30},
		Cron:         config.CronConfig{TokenCleanup: "0 3 * * *"},
		Seed: config.SeedConfig{
			AdminEmail:    "admin@pharmaproject.com",
			AdminPassword: "admin123",
		},
	}
}

// fixture wires every service over one seeded in-memory database and a
// shared clock that tests can move.
type fixture struct {
	store     *repositories.Store
	cfg       *config.Config
	auth      *AuthService
	subs      *SubscriptionService
	payments  *PaymentAdminService
	wallets   *WalletService
	pricing   *PricingService
	users     *UserService
	dashboard *DashboardService
	cron      *CronService
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.New(t)
	cfg := testConfig()
	require.NoError(t, config.NewSeeder(db, cfg).Run(context.Background()))

	store := repositories.NewStore(db)
	f := &fixture{
		store:     store,
		cfg:       cfg,
		auth:      NewAuthService(store, cfg),
		subs:      NewSubscriptionService(store),
		payments:  NewPaymentAdminService(store, cfg),
		wallets:   NewWalletService(store),
		pricing:   NewPricingService(store),
		users:     NewUserService(store),
		dashboard: NewDashboardService(store),
		cron:      NewCronService(store, cfg),
		now:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	clock := func() time.Time { return f.now }
	f.auth.now = clock
	f.subs.now = clock
	f.payments.now = clock
	f.users.now = clock
	f.dashboard.now = clock
	f.cron.now = clock
	return f
}

func (f *fixture) pharmacist(t *testing.T, email string) domain.Identity {
	t.Helper()
	resp, err := f.auth.RegisterPharmacist(context.Background(), &RegisterPharmacistInput{
		Email:     email,
		Password:  "secret123",
		FirstName: "Mona",
		LastName:  "Hassan",
		City:      "Cairo",
	})
	require.NoError(t, err)
	return domain.Identity{UserID: resp.User.ID, Email: resp.User.Email, Role: domain.RolePharmacist}
}

func (f *fixture) owner(t *testing.T, email string) domain.Identity {
	t.Helper()
	resp, err := f.auth.RegisterPharmacyOwner(context.Background(), &RegisterPharmacyOwnerInput{
		Email:         email,
		Password:      "secret123",
		PharmacyName:  "El Ezaby",
		ContactPerson: "Karim",
		City:          "Giza",
	})
	require.NoError(t, err)
	return domain.Identity{UserID: resp.User.ID, Email: resp.User.Email, Role: domain.RolePharmacyOwner}
}

func (f *fixture) admin(t *testing.T) domain.Identity {
	t.Helper()
	user, err := f.store.Users.GetByEmail(context.Background(), f.cfg.Seed.AdminEmail)
	require.NoError(t, err)
	return domain.Identity{UserID: user.ID, Email: user.Email, Role: domain.RoleAdmin}
}

func (f *fixture) subscription(t *testing.T, id domain.Identity) domain.Subscription {
	t.Helper()
	sub, err := f.store.Profiles.GetSubscription(context.Background(), id.UserID, id.Role, false)
	require.NoError(t, err)
	return sub.ToDomain()
}

func (f *fixture) setSubscription(t *testing.T, id domain.Identity, sub domain.Subscription) {
	t.Helper()
	n, err := f.store.Profiles.UpdateSubscription(context.Background(), id.UserID, id.Role, models.NewSubscription(sub))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

// requestStandard opens a STANDARD payment request for id
func (f *fixture) requestStandard(t *testing.T, id domain.Identity) *models.PaymentRequestResponse {
	t.Helper()
	result, err := f.subs.RequestPlanChange(context.Background(), id, PlanChangeInput{Plan: domain.PlanStandard})
	require.NoError(t, err)
	require.NotNil(t, result.PaymentRequest)
	return result.PaymentRequest
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
