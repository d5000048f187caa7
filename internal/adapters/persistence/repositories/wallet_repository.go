package repositories

import (
	"context"

	"pharmalink-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// walletRepository implements WalletRepository interface
type walletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

// List lists wallets, newest first
func (r *walletRepository) List(ctx context.Context) ([]*models.WalletConfig, error) {
	var wallets []*models.WalletConfig
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&wallets).Error
	return wallets, err
}

// GetByID gets a wallet by ID
func (r *walletRepository) GetByID(ctx context.Context, id string) (*models.WalletConfig, error) {
	var wallet models.WalletConfig
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetActive gets the active wallet
func (r *walletRepository) GetActive(ctx context.Context) (*models.WalletConfig, error) {
	var wallet models.WalletConfig
	err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// ExistsByAddress checks if another wallet already uses address
func (r *walletRepository) ExistsByAddress(ctx context.Context, address, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.WalletConfig{}).Where("wallet_address = ?", address)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Create creates a new wallet
func (r *walletRepository) Create(ctx context.Context, wallet *models.WalletConfig) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

// Update saves a wallet, including a false active flag
func (r *walletRepository) Update(ctx context.Context, wallet *models.WalletConfig) error {
	return r.db.WithContext(ctx).
		Model(wallet).
		Select("wallet_address", "currency", "description", "is_active").
		Updates(wallet).Error
}

// LockAll locks every wallet row
func (r *walletRepository) LockAll(ctx context.Context) error {
	var ids []string
	return r.db.WithContext(ctx).
		Model(&models.WalletConfig{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Pluck("id", &ids).Error
}

// DeactivateAllExcept clears the active flag on every wallet but id
func (r *walletRepository) DeactivateAllExcept(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.WalletConfig{}).
		Where("is_active = ?", true).
		Where("id <> ?", id).
		Update("is_active", false).Error
}

// CountActive counts active wallets
func (r *walletRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WalletConfig{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
