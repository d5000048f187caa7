package handlers

import (
	"pharmalink-api/internal/core/services"
	"pharmalink-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// WalletHandler handles platform wallet configuration (Admin only)
type WalletHandler struct {
	walletService *services.WalletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletService *services.WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// List lists all wallets
// @Summary List wallets (Admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/wallet [get]
func (h *WalletHandler) List(c *fiber.Ctx) error {
	wallets, err := h.walletService.List(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Wallets retrieved successfully", fiber.Map{
		"wallets": wallets,
	})
}

// Create creates a wallet
// @Summary Create wallet (Admin only)
// @Description An active wallet deactivates every other wallet in the same transaction
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateWalletInput true "Wallet"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/wallet [post]
func (h *WalletHandler) Create(c *fiber.Ctx) error {
	var req services.CreateWalletInput
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	wallet, err := h.walletService.Create(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Wallet created successfully", fiber.Map{
		"wallet": wallet,
	})
}

// Update changes the wallet named by walletId in the body
// @Summary Update wallet (Admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateWalletInput true "Wallet changes"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/wallet [put]
func (h *WalletHandler) Update(c *fiber.Ctx) error {
	var req services.UpdateWalletInput
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}

	return h.update(c, &req)
}

// UpdateByID changes the wallet in the path
// @Summary Update wallet by id (Admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wallet ID"
// @Param body body services.UpdateWalletInput true "Wallet changes"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/wallet/{id} [put]
func (h *WalletHandler) UpdateByID(c *fiber.Ctx) error {
	var req services.UpdateWalletInput
	if err := bind(c, &req); err != nil {
		return response.FromError(c, err)
	}
	req.WalletID = c.Params("id")

	return h.update(c, &req)
}

func (h *WalletHandler) update(c *fiber.Ctx, req *services.UpdateWalletInput) error {
	wallet, err := h.walletService.Update(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Wallet updated successfully", fiber.Map{
		"wallet": wallet,
	})
}
