package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle.
// Inside Transaction every repository runs on the same tx.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Profiles      ProfileRepository
	RefreshTokens RefreshTokenRepository
	Pricing       PricingRepository
	Wallets       WalletRepository
	Payments      PaymentRepository
	Locations     LocationRepository
	Stats         StatsRepository
}

// NewStore creates a store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Profiles:      NewProfileRepository(db),
		RefreshTokens: NewRefreshTokenRepository(db),
		Pricing:       NewPricingRepository(db),
		Wallets:       NewWalletRepository(db),
		Payments:      NewPaymentRepository(db),
		Locations:     NewLocationRepository(db),
		Stats:         NewStatsRepository(db),
	}
}

// DB returns the underlying handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn inside a database transaction. The tx store passed to
// fn must be used for every read and write that belongs to the unit.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
