package handlers

import (
	"pharmalink-api/internal/core/services"
	"pharmalink-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LocationHandler serves the city and area dropdowns
type LocationHandler struct {
	locationService *services.LocationService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locationService *services.LocationService) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
	}
}

// ListCities returns every city with its areas
// @Summary List cities
// @Tags Locations
// @Produce json
// @Success 200 {object} response.Response
// @Router /locations/cities [get]
func (h *LocationHandler) ListCities(c *fiber.Ctx) error {
	result, err := h.locationService.ListCities(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Cities retrieved successfully", result)
}

// ListAreas returns the areas of one city
// @Summary List areas of a city
// @Tags Locations
// @Produce json
// @Param cityId path string true "City ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /locations/cities/{cityId}/areas [get]
func (h *LocationHandler) ListAreas(c *fiber.Ctx) error {
	result, err := h.locationService.ListAreas(c.UserContext(), c.Params("cityId"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Areas retrieved successfully", result)
}
