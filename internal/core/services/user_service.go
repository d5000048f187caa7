package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/adapters/persistence/repositories"
	"pharmalink-api/internal/core/domain"
	"pharmalink-api/internal/pkg/logger"
	"pharmalink-api/internal/pkg/pagination"

	"gorm.io/gorm"
)

// ErrCannotDeactivateSelf is returned when an admin disables their own account
var ErrCannotDeactivateSelf = domain.Validation("Cannot deactivate your own account")

// UserService handles user management for admins
type UserService struct {
	store *repositories.Store
	now   func() time.Time
}

// NewUserService creates a new user service
func NewUserService(store *repositories.Store) *UserService {
	return &UserService{
		store: store,
		now:   utcNow,
	}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Role   string
	Search string
}

// List lists users with their profiles
func (s *UserService) List(ctx context.Context, input ListUsersInput, params *pagination.Params) (*pagination.Response, error) {
	role := strings.ToUpper(strings.TrimSpace(input.Role))
	if role != "" && !domain.Role(role).Valid() {
		return nil, domain.ErrInvalidRole
	}

	users, total, err := s.store.Users.List(ctx, repositories.UserFilter{Role: role, Search: input.Search}, params.Offset, params.Limit)
	if err != nil {
		return nil, domain.Internal(err, "failed to list users")
	}

	items := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, u.ToResponse())
	}
	return pagination.NewResponse(items, params, total), nil
}

// SetActive enables or disables a user. Disabling revokes every refresh token.
func (s *UserService) SetActive(ctx context.Context, admin domain.Identity, userID string, active bool) (*models.UserResponse, error) {
	if !active && admin.UserID == userID {
		return nil, ErrCannotDeactivateSelf
	}

	var user *models.User
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		if _, err = tx.Users.GetByID(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		if err = tx.Users.SetActive(ctx, userID, active); err != nil {
			return err
		}
		if !active {
			if err = tx.RefreshTokens.RevokeAllByUserID(ctx, userID, s.now()); err != nil {
				return err
			}
		}
		user, err = tx.Users.GetWithProfile(ctx, userID)
		return err
	})
	if err != nil {
		return nil, asDomain(err, "failed to update user")
	}

	logger.Infof("✅ User %s active=%t (by %s)", user.Email, active, admin.UserID)
	return user.ToResponse(), nil
}
