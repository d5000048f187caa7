package models

import (
	"time"

	"pharmalink-api/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Users & Auth Tables
// ============================================================

// User represents users table
type User struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;not null;index" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	PharmacistProfile    *PharmacistProfile    `gorm:"foreignKey:UserID" json:"pharmacistProfile,omitempty"`
	PharmacyOwnerProfile *PharmacyOwnerProfile `gorm:"foreignKey:UserID" json:"pharmacyOwnerProfile,omitempty"`
	AdminProfile         *AdminProfile         `gorm:"foreignKey:UserID" json:"adminProfile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// UserResponse DTO
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      string      `json:"role"`
	IsActive  bool        `json:"isActive"`
	Profile   interface{} `json:"profile,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}

	switch {
	case u.PharmacistProfile != nil:
		resp.Profile = u.PharmacistProfile
	case u.PharmacyOwnerProfile != nil:
		resp.Profile = u.PharmacyOwnerProfile
	case u.AdminProfile != nil:
		resp.Profile = u.AdminProfile
	}

	return resp
}

// Subscription holds the subscription columns shared by both subscriber profiles
type Subscription struct {
	SubscriptionPlan      string     `gorm:"size:20;not null;default:'FREE'" json:"subscriptionPlan"`
	SubscriptionStatus    string     `gorm:"size:20;not null;default:'ACTIVE'" json:"subscriptionStatus"`
	SubscriptionExpiresAt *time.Time `json:"subscriptionExpiresAt"`
}

// ToDomain converts the stored columns to the domain value
func (s Subscription) ToDomain() domain.Subscription {
	return domain.Subscription{
		Plan:      domain.Plan(s.SubscriptionPlan),
		Status:    domain.SubscriptionStatus(s.SubscriptionStatus),
		ExpiresAt: s.SubscriptionExpiresAt,
	}
}

// NewSubscription builds the columns from a domain value
func NewSubscription(s domain.Subscription) Subscription {
	return Subscription{
		SubscriptionPlan:      string(s.Plan),
		SubscriptionStatus:    string(s.Status),
		SubscriptionExpiresAt: s.ExpiresAt,
	}
}

// PharmacistProfile represents pharmacist_profiles table
type PharmacistProfile struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"userId"`
	FirstName    string    `gorm:"size:100;not null" json:"firstName"`
	LastName     string    `gorm:"size:100;not null" json:"lastName"`
	PhoneNumber  *string   `gorm:"size:30" json:"phoneNumber"`
	Bio          *string   `gorm:"type:text" json:"bio"`
	Experience   *string   `gorm:"type:text" json:"experience"`
	Education    *string   `gorm:"type:text" json:"education"`
	City         string    `gorm:"size:100;not null" json:"city"`
	Area         *string   `gorm:"size:100" json:"area"`
	Subscription `gorm:"embedded"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (PharmacistProfile) TableName() string {
	return "pharmacist_profiles"
}

func (p *PharmacistProfile) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// PharmacyOwnerProfile represents pharmacy_owner_profiles table
type PharmacyOwnerProfile struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID        string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"userId"`
	PharmacyName  string    `gorm:"size:150;not null" json:"pharmacyName"`
	ContactPerson string    `gorm:"size:100;not null" json:"contactPerson"`
	PhoneNumber   *string   `gorm:"size:30" json:"phoneNumber"`
	Address       *string   `gorm:"type:text" json:"address"`
	City          string    `gorm:"size:100;not null" json:"city"`
	Area          *string   `gorm:"size:100" json:"area"`
	Subscription  `gorm:"embedded"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (PharmacyOwnerProfile) TableName() string {
	return "pharmacy_owner_profiles"
}

func (p *PharmacyOwnerProfile) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// AdminProfile represents admin_profiles table
type AdminProfile struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"userId"`
	FirstName string    `gorm:"size:100;not null" json:"firstName"`
	LastName  string    `gorm:"size:100;not null" json:"lastName"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (AdminProfile) TableName() string {
	return "admin_profiles"
}

func (p *AdminProfile) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// RefreshToken represents refresh_tokens table.
// ID doubles as the jti of the issued refresh JWT.
type RefreshToken struct {
	ID        string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string     `gorm:"type:varchar(36);index;not null" json:"userId"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expiresAt"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	RevokedAt *time.Time `gorm:"index" json:"revokedAt"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	assignID(&rt.ID)
	return nil
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(rt.ExpiresAt)
}

// ============================================================
// Location Reference Tables
// ============================================================

// City represents cities table
type City struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	NameAr    string    `gorm:"size:100" json:"nameAr"`
	Areas     []Area    `gorm:"foreignKey:CityID" json:"areas,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (City) TableName() string {
	return "cities"
}

func (c *City) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// Area represents areas table
type Area struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_area_name_city" json:"name"`
	CityID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_area_name_city" json:"cityId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Area) TableName() string {
	return "areas"
}

func (a *Area) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for every table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Users & Auth
		&User{},
		&PharmacistProfile{},
		&PharmacyOwnerProfile{},
		&AdminProfile{},
		&RefreshToken{},
		// Subscriptions
		&SubscriptionPricing{},
		&WalletConfig{},
		&PaymentRequest{},
		// Locations
		&City{},
		&Area{},
	)
}
