package handlers

import (
	"pharmalink-api/internal/adapters/http/middleware"
	"pharmalink-api/internal/core/domain"
	"pharmalink-api/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

var errInvalidBody = domain.Validation("Invalid request body")

// bind parses the JSON body into req and validates its tags.
// Nothing in the handler runs before the request passes.
func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errInvalidBody
	}
	return validator.Struct(req)
}

// currentUser returns the caller set by the auth middleware
func currentUser(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := middleware.CurrentUser(c)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return identity, nil
}
