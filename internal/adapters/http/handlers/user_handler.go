package handlers

import (
	"pharmalink-api/internal/core/services"
	"pharmalink-api/internal/pkg/pagination"
	"pharmalink-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// SetStatusRequest represents user status change body
type SetStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// ListUsers handles listing all users (Admin only)
// @Summary List all users
// @Description Get a paginated list of users with their profiles (Admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param role query string false "PHARMACIST, PHARMACY_OWNER or ADMIN"
// @Param search query string false "Email contains"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	input := services.ListUsersInput{
		Role:   c.Query("role"),
		Search: c.Query("search"),
	}

	result, err := h.userService.List(c.UserContext(), input, pagination.GetParams(c))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Users retrieved successfully", result)
}

// SetStatus enables or disables a user (Admin only)
// @Summary Activate or deactivate user
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body SetStatusRequest true "Status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/status [patch]
func (h *UserHandler) SetStatus(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	var req SetStatusRequest
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	user, err := h.userService.SetActive(c.UserContext(), admin, c.Params("id"), *req.IsActive)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "User status updated successfully", fiber.Map{
		"user": user,
	})
}
