package repositories

import (
	"context"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment request repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment request
func (r *paymentRepository) Create(ctx context.Context, payment *models.PaymentRequest) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID gets a payment request by ID
func (r *paymentRepository) GetByID(ctx context.Context, id string, forUpdate bool) (*models.PaymentRequest, error) {
	var payment models.PaymentRequest
	err := r.locking(ctx, forUpdate).Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByIDForUser gets a payment request by ID only if userID owns it
func (r *paymentRepository) GetByIDForUser(ctx context.Context, id, userID string, forUpdate bool) (*models.PaymentRequest, error) {
	var payment models.PaymentRequest
	err := r.locking(ctx, forUpdate).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindPending gets the latest PENDING request of userID for plan
func (r *paymentRepository) FindPending(ctx context.Context, userID string, plan domain.Plan) (*models.PaymentRequest, error) {
	var payment models.PaymentRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND subscription_plan = ? AND status = ?", userID, string(plan), string(domain.PaymentPending)).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdatePending updates fields while the request is still PENDING
func (r *paymentRepository) UpdatePending(ctx context.Context, id string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentRequest{}).
		Where("id = ?", id).
		Where("status = ?", string(domain.PaymentPending)).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// List lists payment requests with filters and pagination, newest first
func (r *paymentRepository) List(ctx context.Context, filter PaymentFilter, offset, limit int) ([]*models.PaymentRequest, int64, error) {
	var payments []*models.PaymentRequest
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		if filter.UserID != "" {
			db = db.Where("user_id = ?", filter.UserID)
		}
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		return db
	}

	if err := r.db.WithContext(ctx).Model(&models.PaymentRequest{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// Recent lists the latest payment requests with their requesters
func (r *paymentRepository) Recent(ctx context.Context, limit int) ([]*models.PaymentRequest, error) {
	var payments []*models.PaymentRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) locking(ctx context.Context, forUpdate bool) *gorm.DB {
	db := r.db.WithContext(ctx)
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
