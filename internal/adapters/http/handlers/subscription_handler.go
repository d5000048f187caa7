package handlers

import (
	"pharmalink-api/internal/core/domain"
	"pharmalink-api/internal/core/services"
	"pharmalink-api/internal/pkg/pagination"
	"pharmalink-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SubscriptionHandler handles the subscriber side of plans and payments
type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// UpgradeRequest represents upgrade request body
type UpgradeRequest struct {
	Plan              string  `json:"plan" validate:"required,oneof=FREE STANDARD PREMIUM"`
	UserWalletAddress *string `json:"userWalletAddress" validate:"omitempty,max=255"`
}

// ChangePlanRequest represents plan change request body
type ChangePlanRequest struct {
	NewPlan string `json:"newPlan" validate:"required,oneof=FREE STANDARD PREMIUM"`
}

// SubmitPaymentRequest represents evidence submission body
type SubmitPaymentRequest struct {
	PaymentID         string  `json:"paymentId" validate:"required,uuid"`
	UserWalletAddress string  `json:"userWalletAddress" validate:"required,notblank,max=255"`
	TransactionHash   *string `json:"transactionHash" validate:"omitempty,max=255"`
}

// PaymentEvidenceRequest represents evidence submission body when the
// payment id is in the path
type PaymentEvidenceRequest struct {
	UserWalletAddress string  `json:"userWalletAddress" validate:"required,notblank,max=255"`
	TransactionHash   *string `json:"transactionHash" validate:"omitempty,max=255"`
}

// Upgrade handles plan upgrades
// @Summary Upgrade subscription
// @Description Apply FREE immediately or open a PENDING payment request for a paid plan.
// @Description An existing PENDING request for the same plan is returned instead of a new one.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpgradeRequest true "Requested plan"
// @Success 200 {object} response.Response
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /subscriptions/upgrade [post]
func (h *SubscriptionHandler) Upgrade(c *fiber.Ctx) error {
	var req UpgradeRequest
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	return h.changePlan(c, services.PlanChangeInput{
		Plan:              domain.Plan(req.Plan),
		UserWalletAddress: req.UserWalletAddress,
	})
}

// RequestChange handles plan change requests
// @Summary Request plan change
// @Description Same operation as upgrade, keyed by newPlan
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePlanRequest true "Requested plan"
// @Success 200 {object} response.Response
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /subscriptions/request-change [post]
func (h *SubscriptionHandler) RequestChange(c *fiber.Ctx) error {
	var req ChangePlanRequest
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	return h.changePlan(c, services.PlanChangeInput{Plan: domain.Plan(req.NewPlan)})
}

func (h *SubscriptionHandler) changePlan(c *fiber.Ctx, input services.PlanChangeInput) error {
	identity, err := currentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	result, err := h.subscriptionService.RequestPlanChange(c.UserContext(), identity, input)
	if err != nil {
		return response.FromError(c, err)
	}

	switch {
	case result.Created():
		return response.Created(c, "Payment request created. Complete the transfer to activate your plan.", result)
	case result.Existing:
		return response.Success(c, "A pending payment request already exists for this plan.", result)
	default:
		return response.Success(c, "Subscription changed to FREE plan successfully.", result)
	}
}

// SubmitPayment attaches payment evidence
// @Summary Submit payment evidence
// @Description Attach the sender wallet and optional transaction hash to an own PENDING request
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitPaymentRequest true "Evidence"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /subscriptions/payments [put]
func (h *SubscriptionHandler) SubmitPayment(c *fiber.Ctx) error {
	var req SubmitPaymentRequest
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	return h.submitEvidence(c, services.EvidenceInput{
		PaymentID:         req.PaymentID,
		UserWalletAddress: req.UserWalletAddress,
		TransactionHash:   req.TransactionHash,
	})
}

// SubmitPaymentByID attaches payment evidence to the request in the path
// @Summary Submit payment evidence by id
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment request ID"
// @Param body body PaymentEvidenceRequest true "Evidence"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /subscriptions/payments/{id}/submit [patch]
func (h *SubscriptionHandler) SubmitPaymentByID(c *fiber.Ctx) error {
	var req PaymentEvidenceRequest
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	return h.submitEvidence(c, services.EvidenceInput{
		PaymentID:         c.Params("id"),
		UserWalletAddress: req.UserWalletAddress,
		TransactionHash:   req.TransactionHash,
	})
}

func (h *SubscriptionHandler) submitEvidence(c *fiber.Ctx, input services.EvidenceInput) error {
	identity, err := currentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	payment, err := h.subscriptionService.SubmitPaymentEvidence(c.UserContext(), identity, input)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Payment details submitted. An admin will review your payment shortly.", fiber.Map{
		"paymentRequest": payment,
	})
}

// ListMyPayments lists the caller's payment requests
// @Summary List my payment requests
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param status query string false "PENDING, CONFIRMED or REJECTED"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /subscriptions/payments [get]
func (h *SubscriptionHandler) ListMyPayments(c *fiber.Ctx) error {
	identity, err := currentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	result, err := h.subscriptionService.ListMyPayments(c.UserContext(), identity, c.Query("status"), pagination.GetParams(c))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Payment requests retrieved successfully", result)
}

// GetMySubscription returns the caller's subscription
// @Summary Get my subscription
// @Description Plan, status, expiry, pricing and limits. An elapsed expiry is shown as EXPIRED.
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /subscriptions/me [get]
func (h *SubscriptionHandler) GetMySubscription(c *fiber.Ctx) error {
	identity, err := currentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	view, err := h.subscriptionService.GetMySubscription(c.UserContext(), identity)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Subscription retrieved successfully", fiber.Map{
		"subscription": view,
	})
}

// GetWallet returns the active platform wallet
// @Summary Get payment wallet
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /subscriptions/wallet [get]
func (h *SubscriptionHandler) GetWallet(c *fiber.Ctx) error {
	wallet, err := h.subscriptionService.ActiveWallet(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Wallet retrieved successfully", fiber.Map{
		"wallet": wallet,
	})
}

// GetLimits returns the caller's effective limits
// @Summary Get my limits
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /subscriptions/limits [get]
func (h *SubscriptionHandler) GetLimits(c *fiber.Ctx) error {
	identity, err := currentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	limits, err := h.subscriptionService.Limits(c.UserContext(), identity)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Limits retrieved successfully", limits)
}

// CheckFeature answers once the feature gate has let the request through
// @Summary Check feature access
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param feature path string true "analytics, priority-support, custom-branding, api-access or featured-badge"
// @Success 200 {object} response.Response
// @Failure 402 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /subscriptions/features/{feature} [get]
func (h *SubscriptionHandler) CheckFeature(c *fiber.Ctx) error {
	return response.Success(c, "Feature available", fiber.Map{
		"feature": c.Locals("feature"),
		"allowed": true,
	})
}
