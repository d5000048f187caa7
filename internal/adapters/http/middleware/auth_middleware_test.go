package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pharmalink-api/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth map[string]*domain.Identity

func (f fakeAuth) Authenticate(_ context.Context, token string) (*domain.Identity, error) {
	if token == "inactive" {
		return nil, domain.ErrUserInactive
	}
	id, ok := f[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return id, nil
}

type fakeFeatures map[domain.Role]bool

func (f fakeFeatures) CheckFeature(_ context.Context, id domain.Identity, feature string) error {
	if _, ok := domain.ParseFeature(feature); !ok {
		return domain.ErrUnknownFeature
	}
	if !f[id.Role] {
		return domain.ErrFeatureRequiresPlan("Advanced analytics requires Standard or Premium subscription")
	}
	return nil
}

func newTestApp() *fiber.App {
	auth := fakeAuth{
		"pharmacist": {UserID: "u1", Email: "p@example.com", Role: domain.RolePharmacist},
		"owner":      {UserID: "u2", Email: "o@example.com", Role: domain.RolePharmacyOwner},
		"admin":      {UserID: "u3", Email: "a@example.com", Role: domain.RoleAdmin},
	}
	features := fakeFeatures{domain.RolePharmacyOwner: true}

	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	app := fiber.New()
	app.Get("/me", AuthMiddleware(auth), func(c *fiber.Ctx) error {
		id, _ := CurrentUser(c)
		return c.SendString(id.UserID)
	})
	app.Get("/admin", AuthMiddleware(auth), AdminOnly(), ok)
	app.Get("/subscriber", AuthMiddleware(auth), SubscriberOnly(), ok)
	app.Get("/features/:feature", AuthMiddleware(auth), RequireFeature(features, "", "feature"), ok)
	return app
}

func TestAuthAndRoleMiddleware(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name   string
		path   string
		header string
		cookie string
		want   int
	}{
		{"missing token", "/me", "", "", http.StatusUnauthorized},
		{"malformed header", "/me", "Token pharmacist", "", http.StatusUnauthorized},
		{"unknown token", "/me", "Bearer nope", "", http.StatusUnauthorized},
		{"inactive user", "/me", "Bearer inactive", "", http.StatusForbidden},
		{"bearer header", "/me", "Bearer pharmacist", "", http.StatusOK},
		{"cookie fallback", "/me", "", "owner", http.StatusOK},
		{"admin only as admin", "/admin", "Bearer admin", "", http.StatusOK},
		{"admin only as owner", "/admin", "Bearer owner", "", http.StatusForbidden},
		{"subscriber as pharmacist", "/subscriber", "Bearer pharmacist", "", http.StatusOK},
		{"subscriber as admin", "/subscriber", "Bearer admin", "", http.StatusForbidden},
		{"feature allowed", "/features/analytics", "Bearer owner", "", http.StatusOK},
		{"feature requires plan", "/features/analytics", "Bearer pharmacist", "", http.StatusPaymentRequired},
		{"unknown feature", "/features/teleport", "Bearer owner", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tt.cookie})
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestCacheControl(t *testing.T) {
	app := fiber.New()
	app.Get("/pricing", PricingCache(), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/private", NoStore(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/pricing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, "public, max-age=300", resp.Header.Get(fiber.HeaderCacheControl))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/private", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, "no-store", resp.Header.Get(fiber.HeaderCacheControl))
}
