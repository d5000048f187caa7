package middleware

import (
	"strings"

	"pharmalink-api/internal/core/domain"
	"pharmalink-api/internal/core/services"
	"pharmalink-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AccessTokenCookie is the cookie the access token is issued in
const AccessTokenCookie = "access_token"

// AuthMiddleware creates authentication middleware. The token is read from the
// Authorization header first and the access_token cookie second; the user
// behind it is reloaded on every request.
func AuthMiddleware(auth services.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Find the token
		accessToken := bearerToken(c)
		if accessToken == "" {
			accessToken = c.Cookies(AccessTokenCookie)
		}
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 2. Verify it and re-validate the user
		identity, err := auth.Authenticate(c.UserContext(), accessToken)
		if err != nil {
			return response.FromError(c, err)
		}

		// 3. Set user info in context
		c.Locals("userID", identity.UserID)
		c.Locals("email", identity.Email)
		c.Locals("role", string(identity.Role))
		c.Locals("identity", *identity)

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// CurrentUser returns the identity set by AuthMiddleware
func CurrentUser(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals("identity").(domain.Identity)
	return identity, ok
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := CurrentUser(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		// Check if user's role is in allowed roles
		for _, allowedRole := range allowedRoles {
			if identity.Role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// SubscriberOnly middleware allows the roles that hold a subscription
func SubscriberOnly() fiber.Handler {
	return RoleMiddleware(domain.RolePharmacist, domain.RolePharmacyOwner)
}

// RequireFeature rejects callers whose plan lacks the feature named by the
// route parameter param (or the literal feature when param is empty) with 402.
func RequireFeature(checker services.FeatureChecker, feature, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := CurrentUser(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		name := feature
		if param != "" {
			name = c.Params(param)
		}

		if err := checker.CheckFeature(c.UserContext(), identity, name); err != nil {
			return response.FromError(c, err)
		}

		c.Locals("feature", name)
		return c.Next()
	}
}
