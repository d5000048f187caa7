package handlers

import (
	"pharmalink-api/internal/core/domain"
	"pharmalink-api/internal/core/services"
	"pharmalink-api/internal/pkg/pagination"
	"pharmalink-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentAdminHandler handles admin review of payment requests
type PaymentAdminHandler struct {
	paymentService *services.PaymentAdminService
}

// NewPaymentAdminHandler creates a new payment admin handler
func NewPaymentAdminHandler(paymentService *services.PaymentAdminService) *PaymentAdminHandler {
	return &PaymentAdminHandler{
		paymentService: paymentService,
	}
}

// ManagePaymentRequest represents an admin decision body
type ManagePaymentRequest struct {
	Action         string  `json:"action" validate:"required"`
	RejectedReason *string `json:"rejectedReason" validate:"omitempty,max=1000"`
}

// LegacyManagePaymentRequest carries the payment id in the body
type LegacyManagePaymentRequest struct {
	PaymentID      string  `json:"paymentId" validate:"required"`
	Action         string  `json:"action" validate:"required"`
	RejectedReason *string `json:"rejectedReason" validate:"omitempty,max=1000"`
}

// List lists payment requests
// @Summary List payment requests (Admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "PENDING, CONFIRMED or REJECTED"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/payments [get]
func (h *PaymentAdminHandler) List(c *fiber.Ctx) error {
	result, err := h.paymentService.List(c.UserContext(), c.Query("status"), pagination.GetParams(c))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Payment requests retrieved successfully", result)
}

// Manage confirms or rejects a payment request
// @Summary Confirm or reject a payment request (Admin only)
// @Description CONFIRM activates the requested plan for 30 days; REJECT requires a reason.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment request ID"
// @Param body body ManagePaymentRequest true "Decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/payments/{id}/manage [patch]
func (h *PaymentAdminHandler) Manage(c *fiber.Ctx) error {
	var req ManagePaymentRequest
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	return h.manage(c, services.ManagePaymentInput{
		PaymentID:      c.Params("id"),
		Action:         req.Action,
		RejectedReason: req.RejectedReason,
	})
}

// ManageLegacy is Manage with the payment id in the body
// @Summary Confirm or reject a payment request (Admin only, legacy)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LegacyManagePaymentRequest true "Decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/payments [put]
func (h *PaymentAdminHandler) ManageLegacy(c *fiber.Ctx) error {
	var req LegacyManagePaymentRequest
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	return h.manage(c, services.ManagePaymentInput{
		PaymentID:      req.PaymentID,
		Action:         req.Action,
		RejectedReason: req.RejectedReason,
	})
}

func (h *PaymentAdminHandler) manage(c *fiber.Ctx, input services.ManagePaymentInput) error {
	admin, err := currentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	payment, err := h.paymentService.ManagePayment(c.UserContext(), admin, input)
	if err != nil {
		return response.FromError(c, err)
	}

	message := "Payment request confirmed and subscription activated."
	if payment.Status == string(domain.PaymentRejected) {
		message = "Payment request rejected."
	}

	return response.Success(c, message, fiber.Map{
		"paymentRequest": payment,
	})
}
