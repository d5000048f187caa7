package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Subscription & Payment Tables
// ============================================================

// SubscriptionPricing represents subscription_pricings table
type SubscriptionPricing struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Plan      string         `gorm:"size:20;uniqueIndex;not null" json:"plan"`
	Price     float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	Currency  string         `gorm:"size:10;not null;default:'EGP'" json:"currency"`
	Features  datatypes.JSON `json:"features"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (SubscriptionPricing) TableName() string {
	return "subscription_pricings"
}

func (p *SubscriptionPricing) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// WalletConfig represents wallet_configs table.
// At most one row has IsActive set.
type WalletConfig struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	WalletAddress string    `gorm:"size:255;uniqueIndex;not null" json:"walletAddress"`
	Currency      string    `gorm:"size:10;not null;default:'EGP'" json:"currency"`
	Description   *string   `gorm:"type:text" json:"description"`
	IsActive      bool      `gorm:"default:false;index" json:"isActive"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (WalletConfig) TableName() string {
	return "wallet_configs"
}

func (w *WalletConfig) BeforeCreate(tx *gorm.DB) error {
	assignID(&w.ID)
	return nil
}

// PublicWallet is the active wallet as shown to paying users
type PublicWallet struct {
	WalletAddress string  `json:"walletAddress"`
	Currency      string  `json:"currency"`
	Description   *string `json:"description"`
}

func (w *WalletConfig) ToPublic() *PublicWallet {
	return &PublicWallet{
		WalletAddress: w.WalletAddress,
		Currency:      w.Currency,
		Description:   w.Description,
	}
}

// PaymentRequest represents payment_requests table
type PaymentRequest struct {
	ID                string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID            string     `gorm:"type:varchar(36);not null;index:idx_payment_user_plan_status,priority:1" json:"userId"`
	SubscriptionPlan  string     `gorm:"size:20;not null;index:idx_payment_user_plan_status,priority:2" json:"subscriptionPlan"`
	Amount            float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency          string     `gorm:"size:10;not null" json:"currency"`
	WalletAddress     string     `gorm:"size:255;not null" json:"walletAddress"`
	UserWalletAddress *string    `gorm:"size:255" json:"userWalletAddress"`
	TransactionHash   *string    `gorm:"size:255" json:"transactionHash"`
	Status            string     `gorm:"size:20;not null;default:'PENDING';index:idx_payment_user_plan_status,priority:3" json:"status"`
	ConfirmedBy       *string    `gorm:"type:varchar(36)" json:"confirmedBy"`
	ConfirmedAt       *time.Time `json:"confirmedAt"`
	RejectedReason    *string    `gorm:"type:text" json:"rejectedReason"`
	CreatedAt         time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (PaymentRequest) TableName() string {
	return "payment_requests"
}

func (p *PaymentRequest) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// PaymentRequestResponse DTO
type PaymentRequestResponse struct {
	ID                string            `json:"id"`
	UserID            string            `json:"userId"`
	SubscriptionPlan  string            `json:"subscriptionPlan"`
	Amount            float64           `json:"amount"`
	Currency          string            `json:"currency"`
	WalletAddress     string            `json:"walletAddress"`
	UserWalletAddress *string           `json:"userWalletAddress"`
	TransactionHash   *string           `json:"transactionHash"`
	Status            string            `json:"status"`
	ConfirmedBy       *string           `json:"confirmedBy"`
	ConfirmedAt       *time.Time        `json:"confirmedAt"`
	RejectedReason    *string           `json:"rejectedReason,omitempty"`
	User              *PaymentRequester `json:"user,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// PaymentRequester is the requester summary shown to admins
type PaymentRequester struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (p *PaymentRequest) ToResponse() *PaymentRequestResponse {
	resp := &PaymentRequestResponse{
		ID:                p.ID,
		UserID:            p.UserID,
		SubscriptionPlan:  p.SubscriptionPlan,
		Amount:            p.Amount,
		Currency:          p.Currency,
		WalletAddress:     p.WalletAddress,
		UserWalletAddress: p.UserWalletAddress,
		TransactionHash:   p.TransactionHash,
		Status:            p.Status,
		ConfirmedBy:       p.ConfirmedBy,
		ConfirmedAt:       p.ConfirmedAt,
		RejectedReason:    p.RejectedReason,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}

	if p.User != nil {
		resp.User = &PaymentRequester{ID: p.User.ID, Email: p.User.Email, Role: p.User.Role}
	}

	return resp
}
