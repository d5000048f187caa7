package handlers

import (
	"pharmalink-api/internal/core/services"
	"pharmalink-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PricingHandler handles plan pricing endpoints
type PricingHandler struct {
	pricingService *services.PricingService
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricingService *services.PricingService) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
	}
}

// List returns every plan, cheapest first
// @Summary List plan pricing
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Response
// @Router /subscriptions/pricing [get]
func (h *PricingHandler) List(c *fiber.Ctx) error {
	pricing, err := h.pricingService.List(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Pricing retrieved successfully", fiber.Map{
		"pricing": pricing,
	})
}

// Update changes the price of a plan (Admin only)
// @Summary Update plan pricing
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdatePricingInput true "Pricing"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /subscriptions/pricing [put]
func (h *PricingHandler) Update(c *fiber.Ctx) error {
	var req services.UpdatePricingInput
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	pricing, err := h.pricingService.Update(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Pricing updated successfully", fiber.Map{
		"pricing": pricing,
	})
}
