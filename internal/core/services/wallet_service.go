package services

import (
	"context"
	"errors"
	"strings"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/adapters/persistence/repositories"
	"pharmalink-api/internal/core/domain"
	"pharmalink-api/internal/pkg/logger"
	"pharmalink-api/internal/pkg/metrics"
	"pharmalink-api/internal/pkg/validator"

	"gorm.io/gorm"
)

// DefaultCurrency is used when a wallet is created without one
const DefaultCurrency = "EGP"

// WalletService manages platform wallets. At most one wallet is active.
type WalletService struct {
	store *repositories.Store
}

// NewWalletService creates a new wallet service
func NewWalletService(store *repositories.Store) *WalletService {
	return &WalletService{store: store}
}

// CreateWalletInput represents wallet creation input
type CreateWalletInput struct {
	WalletAddress string  `json:"walletAddress" validate:"required,notblank,max=255"`
	Currency      *string `json:"currency" validate:"omitempty,min=3,max=10"`
	Description   *string `json:"description" validate:"omitempty,max=500"`
	IsActive      *bool   `json:"isActive"`
}

// UpdateWalletInput represents wallet update input. Nil fields are left unchanged.
type UpdateWalletInput struct {
	WalletID      string  `json:"walletId"`
	WalletAddress *string `json:"walletAddress" validate:"omitempty,notblank,max=255"`
	Currency      *string `json:"currency" validate:"omitempty,min=3,max=10"`
	Description   *string `json:"description" validate:"omitempty,max=500"`
	IsActive      *bool   `json:"isActive"`
}

// List lists wallets, newest first
func (s *WalletService) List(ctx context.Context) ([]*models.WalletConfig, error) {
	wallets, err := s.store.Wallets.List(ctx)
	if err != nil {
		return nil, domain.Internal(err, "failed to list wallets")
	}
	return wallets, nil
}

// Create creates a wallet. An active wallet deactivates every other one.
func (s *WalletService) Create(ctx context.Context, input *CreateWalletInput) (*models.WalletConfig, error) {
	currency := DefaultCurrency
	if c := trimmed(input.Currency); c != nil {
		currency = strings.ToUpper(*c)
	}
	wallet := &models.WalletConfig{
		WalletAddress: strings.TrimSpace(input.WalletAddress),
		Currency:      currency,
		Description:   trimmed(input.Description),
		IsActive:      input.IsActive != nil && *input.IsActive,
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if wallet.IsActive {
			if err := tx.Wallets.LockAll(ctx); err != nil {
				return err
			}
		}

		exists, err := tx.Wallets.ExistsByAddress(ctx, wallet.WalletAddress, "")
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrWalletAlreadyExists
		}

		if wallet.IsActive {
			if err := tx.Wallets.DeactivateAllExcept(ctx, ""); err != nil {
				return err
			}
		}
		if err := tx.Wallets.Create(ctx, wallet); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrWalletAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, asDomain(err, "failed to create wallet")
	}

	if wallet.IsActive {
		metrics.WalletActivations.Inc()
	}
	logger.Infof("✅ Wallet created: %s (active=%t)", wallet.WalletAddress, wallet.IsActive)
	return wallet, nil
}

// Update changes a wallet. Activating it deactivates every other one.
func (s *WalletService) Update(ctx context.Context, input *UpdateWalletInput) (*models.WalletConfig, error) {
	if validator.Var(input.WalletID, "required,uuid") != nil {
		return nil, domain.ErrInvalidWalletID
	}

	activating := input.IsActive != nil && *input.IsActive
	var wallet *models.WalletConfig

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if activating {
			if err := tx.Wallets.LockAll(ctx); err != nil {
				return err
			}
		}

		var err error
		wallet, err = tx.Wallets.GetByID(ctx, input.WalletID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrWalletNotFound
			}
			return err
		}

		if addr := trimmed(input.WalletAddress); addr != nil && *addr != wallet.WalletAddress {
			exists, err := tx.Wallets.ExistsByAddress(ctx, *addr, wallet.ID)
			if err != nil {
				return err
			}
			if exists {
				return domain.ErrWalletAlreadyExists
			}
			wallet.WalletAddress = *addr
		}
		if c := trimmed(input.Currency); c != nil {
			wallet.Currency = strings.ToUpper(*c)
		}
		if input.Description != nil {
			wallet.Description = trimmed(input.Description)
		}
		if input.IsActive != nil {
			wallet.IsActive = *input.IsActive
		}

		if activating {
			if err := tx.Wallets.DeactivateAllExcept(ctx, wallet.ID); err != nil {
				return err
			}
		}
		if err := tx.Wallets.Update(ctx, wallet); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrWalletAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, asDomain(err, "failed to update wallet")
	}

	if activating {
		metrics.WalletActivations.Inc()
	}
	logger.Infof("✅ Wallet updated: %s (active=%t)", wallet.WalletAddress, wallet.IsActive)
	return wallet, nil
}
