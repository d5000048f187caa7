package config

import (
	"context"
	"encoding/json"
	"errors"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/adapters/persistence/repositories"
	"pharmalink-api/internal/core/domain"
	"pharmalink-api/internal/pkg/logger"
	"pharmalink-api/internal/pkg/password"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders. Every seeder is idempotent.
func (s *Seeder) Run(ctx context.Context) error {
	logger.Infof("🌱 Running database seeders...")

	if err := s.seedPricing(ctx); err != nil {
		return err
	}
	if err := s.seedWallet(ctx); err != nil {
		return err
	}
	if err := s.seedAdminUser(ctx); err != nil {
		return err
	}
	if err := s.seedCities(ctx); err != nil {
		return err
	}

	logger.Infof("✅ Database seeding completed")
	return nil
}

type planFeatures struct {
	Pharmacist    []string `json:"pharmacist,omitempty"`
	PharmacyOwner []string `json:"pharmacyOwner,omitempty"`
}

type seedPlan struct {
	Plan     domain.Plan
	Price    float64
	Features planFeatures
}

var defaultPricing = []seedPlan{
	{
		Plan:  domain.PlanFree,
		Price: 0,
		Features: planFeatures{
			Pharmacist: []string{
				"Basic profile creation",
				"CV upload",
				"Basic search visibility",
				"Limited job applications",
			},
			PharmacyOwner: []string{
				"Basic pharmacy profile",
				"Limited product listings (up to 10)",
				"Basic search visibility",
				"Standard support",
			},
		},
	},
	{
		Plan:  domain.PlanStandard,
		Price: 20,
		Features: planFeatures{
			Pharmacist: []string{
				"Enhanced profile features",
				"Priority in search results",
				"Unlimited job applications",
				"Advanced analytics",
				"Email notifications",
			},
			PharmacyOwner: []string{
				"Enhanced pharmacy profile",
				"Unlimited product listings",
				"Priority in search results",
				"Advanced analytics",
				"Email notifications",
				"Priority support",
			},
		},
	},
	{
		Plan:  domain.PlanPremium,
		Price: 40,
		Features: planFeatures{
			PharmacyOwner: []string{
				"Premium pharmacy profile",
				"Unlimited product listings",
				"Top priority in search results",
				"Advanced analytics & insights",
				"Real-time notifications",
				"Premium support",
				"Featured pharmacy badge",
				"Custom branding options",
				"API access",
			},
		},
	},
}

// seedPricing upserts the three plans
func (s *Seeder) seedPricing(ctx context.Context) error {
	for _, p := range defaultPricing {
		features, err := json.Marshal(p.Features)
		if err != nil {
			return err
		}

		var existing models.SubscriptionPricing
		err = s.db.WithContext(ctx).Where("plan = ?", string(p.Plan)).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := &models.SubscriptionPricing{
				Plan:     string(p.Plan),
				Price:    p.Price,
				Currency: "EGP",
				Features: datatypes.JSON(features),
			}
			if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			existing.Price = p.Price
			existing.Currency = "EGP"
			existing.Features = datatypes.JSON(features)
			if err := repositories.NewPricingRepository(s.db).Update(ctx, &existing); err != nil {
				return err
			}
		}
		logger.Infof("   Created/Updated %s plan - %.2f EGP", p.Plan, p.Price)
	}
	return nil
}

const (
	defaultWalletAddress     = "01026454497"
	defaultWalletDescription = "Main payment wallet for subscription upgrades"
)

// seedWallet creates the default wallet when no wallet exists yet
func (s *Seeder) seedWallet(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.WalletConfig{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	description := defaultWalletDescription
	wallet := &models.WalletConfig{
		WalletAddress: defaultWalletAddress,
		Currency:      "EGP",
		Description:   &description,
		IsActive:      true,
	}
	if err := s.db.WithContext(ctx).Create(wallet).Error; err != nil {
		return err
	}

	logger.Infof("✅ Wallet configuration created: %s", wallet.WalletAddress)
	return nil
}

// seedAdminUser seeds the default admin user.
// In production, create admins with the create-admin command instead.
func (s *Seeder) seedAdminUser(ctx context.Context) error {
	store := repositories.NewStore(s.db)

	exists, err := store.Users.ExistsByEmail(ctx, s.cfg.Seed.AdminEmail)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hashedPassword, err := password.Hash(s.cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	err = store.Transaction(ctx, func(tx *repositories.Store) error {
		admin := &models.User{
			Email:    s.cfg.Seed.AdminEmail,
			Password: hashedPassword,
			Role:     string(domain.RoleAdmin),
			IsActive: true,
		}
		if err := tx.Users.Create(ctx, admin); err != nil {
			return err
		}
		return tx.Profiles.CreateAdmin(ctx, &models.AdminProfile{
			UserID:    admin.ID,
			FirstName: "System",
			LastName:  "Administrator",
		})
	})
	if err != nil {
		return err
	}

	logger.Infof("✅ Admin user created: %s", s.cfg.Seed.AdminEmail)
	return nil
}

type seedCity struct {
	Name   string
	NameAr string
	Areas  []string
}

var defaultCities = []seedCity{
	{Name: "Cairo", NameAr: "القاهرة", Areas: []string{"Nasr City", "Heliopolis", "Maadi", "Zamalek", "Downtown", "New Cairo", "Shubra"}},
	{Name: "Giza", NameAr: "الجيزة", Areas: []string{"Dokki", "Mohandessin", "Haram", "6th of October", "Sheikh Zayed", "Imbaba"}},
	{Name: "Alexandria", NameAr: "الإسكندرية", Areas: []string{"Smouha", "Sidi Gaber", "Miami", "Stanley", "Montaza", "Agami"}},
	{Name: "Qalyubia", NameAr: "القليوبية", Areas: []string{"Banha", "Shubra El Kheima", "Qalyub"}},
	{Name: "Dakahlia", NameAr: "الدقهلية", Areas: []string{"Mansoura", "Talkha", "Mit Ghamr"}},
	{Name: "Sharqia", NameAr: "الشرقية", Areas: []string{"Zagazig", "10th of Ramadan", "Belbeis"}},
}

// seedCities creates cities and their areas, skipping existing rows
func (s *Seeder) seedCities(ctx context.Context) error {
	for _, c := range defaultCities {
		city := models.City{Name: c.Name, NameAr: c.NameAr}
		if err := s.db.WithContext(ctx).Where("name = ?", c.Name).FirstOrCreate(&city).Error; err != nil {
			return err
		}

		for _, name := range c.Areas {
			area := models.Area{Name: name, CityID: city.ID}
			if err := s.db.WithContext(ctx).Where("name = ? AND city_id = ?", name, city.ID).FirstOrCreate(&area).Error; err != nil {
				return err
			}
		}
		logger.Infof("   ✓ City %s with %d areas", c.Name, len(c.Areas))
	}
	return nil
}
