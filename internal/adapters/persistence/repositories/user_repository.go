package repositories

import (
	"context"
	"strings"

	"pharmalink-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetWithProfile gets a user with its role-specific profile loaded
func (r *userRepository) GetWithProfile(ctx context.Context, id string) (*models.User, error) {
	return r.firstWithProfile(ctx, "id = ?", id)
}

// GetWithProfileByEmail gets a user by email with its profile loaded
func (r *userRepository) GetWithProfileByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.firstWithProfile(ctx, "email = ?", strings.ToLower(email))
}

func (r *userRepository) firstWithProfile(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("PharmacistProfile").
		Preload("PharmacyOwnerProfile").
		Preload("AdminProfile").
		Where(query, arg).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error
	return count > 0, err
}

// SetActive toggles the active flag
func (r *userRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

// List lists users with filters and pagination
func (r *userRepository) List(ctx context.Context, filter UserFilter, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	// Count total
	if err := r.db.WithContext(ctx).Model(&models.User{}).Scopes(r.filtered(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Scopes(r.filtered(filter)).
		Preload("PharmacistProfile").
		Preload("PharmacyOwnerProfile").
		Preload("AdminProfile").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) filtered(filter UserFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Role != "" {
			db = db.Where("role = ?", filter.Role)
		}
		if s := strings.TrimSpace(filter.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			pharmacists := r.db.Model(&models.PharmacistProfile{}).Select("user_id").
				Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like)
			owners := r.db.Model(&models.PharmacyOwnerProfile{}).Select("user_id").
				Where("LOWER(pharmacy_name) LIKE ? OR LOWER(contact_person) LIKE ?", like, like)
			db = db.Where("LOWER(email) LIKE ? OR id IN (?) OR id IN (?)", like, pharmacists, owners)
		}
		return db
	}
}
