package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/adapters/persistence/repositories"
	"pharmalink-api/internal/config"
	"pharmalink-api/internal/core/domain"
	"pharmalink-api/internal/pkg/jwt"
	"pharmalink-api/internal/pkg/logger"
	"pharmalink-api/internal/pkg/password"
	"pharmalink-api/internal/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	store *repositories.Store
	cfg   *config.Config
	now   func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(store *repositories.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		store: store,
		cfg:   cfg,
		now:   utcNow,
	}
}

// RegisterPharmacistInput represents pharmacist registration input
type RegisterPharmacistInput struct {
	Email       string  `json:"email" validate:"required,email,max=100"`
	Password    string  `json:"password" validate:"required,min=6,max=72"`
	FirstName   string  `json:"firstName" validate:"required,notblank,max=100"`
	LastName    string  `json:"lastName" validate:"required,notblank,max=100"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,max=30"`
	Bio         *string `json:"bio" validate:"omitempty,max=2000"`
	Experience  *string `json:"experience" validate:"omitempty,max=2000"`
	Education   *string `json:"education" validate:"omitempty,max=2000"`
	City        string  `json:"city" validate:"required,min=2,max=100"`
	Area        *string `json:"area" validate:"omitempty,max=100"`
}

// RegisterPharmacyOwnerInput represents pharmacy owner registration input
type RegisterPharmacyOwnerInput struct {
	Email         string  `json:"email" validate:"required,email,max=100"`
	Password      string  `json:"password" validate:"required,min=6,max=72"`
	PharmacyName  string  `json:"pharmacyName" validate:"required,notblank,max=150"`
	ContactPerson string  `json:"contactPerson" validate:"required,notblank,max=100"`
	PhoneNumber   *string `json:"phoneNumber" validate:"omitempty,max=30"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	City          string  `json:"city" validate:"required,min=2,max=100"`
	Area          *string `json:"area" validate:"omitempty,max=100"`
}

// CreateAdminInput represents admin account creation input
type CreateAdminInput struct {
	Email     string `json:"email" validate:"required,email,max=100"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"required,notblank,max=100"`
	LastName  string `json:"lastName" validate:"required,notblank,max=100"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User *models.UserResponse `json:"user"`
	TokenPair
}

// RegisterPharmacist creates a pharmacist with a FREE subscription and signs them in
func (s *AuthService) RegisterPharmacist(ctx context.Context, input *RegisterPharmacistInput) (*AuthResponse, error) {
	profile := &models.PharmacistProfile{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PhoneNumber:  trimmed(input.PhoneNumber),
		Bio:          trimmed(input.Bio),
		Experience:   trimmed(input.Experience),
		Education:    trimmed(input.Education),
		City:         strings.TrimSpace(input.City),
		Area:         trimmed(input.Area),
		Subscription: freeSubscription(),
	}

	user, err := s.register(ctx, input.Email, input.Password, domain.RolePharmacist, func(tx *repositories.Store, userID string) error {
		profile.UserID = userID
		return tx.Profiles.CreatePharmacist(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	user.PharmacistProfile = profile

	return s.signIn(ctx, user)
}

// RegisterPharmacyOwner creates a pharmacy owner with a FREE subscription and signs them in
func (s *AuthService) RegisterPharmacyOwner(ctx context.Context, input *RegisterPharmacyOwnerInput) (*AuthResponse, error) {
	profile := &models.PharmacyOwnerProfile{
		PharmacyName:  strings.TrimSpace(input.PharmacyName),
		ContactPerson: strings.TrimSpace(input.ContactPerson),
		PhoneNumber:   trimmed(input.PhoneNumber),
		Address:       trimmed(input.Address),
		City:          strings.TrimSpace(input.City),
		Area:          trimmed(input.Area),
		Subscription:  freeSubscription(),
	}

	user, err := s.register(ctx, input.Email, input.Password, domain.RolePharmacyOwner, func(tx *repositories.Store, userID string) error {
		profile.UserID = userID
		return tx.Profiles.CreatePharmacyOwner(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	user.PharmacyOwnerProfile = profile

	return s.signIn(ctx, user)
}

// CreateAdmin creates an ADMIN user with its profile
func (s *AuthService) CreateAdmin(ctx context.Context, input *CreateAdminInput) (*models.User, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	profile := &models.AdminProfile{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	}

	user, err := s.register(ctx, input.Email, input.Password, domain.RoleAdmin, func(tx *repositories.Store, userID string) error {
		profile.UserID = userID
		return tx.Profiles.CreateAdmin(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	user.AdminProfile = profile

	return user, nil
}

// register creates the user row and its profile in one transaction
func (s *AuthService) register(ctx context.Context, email, plain string, role domain.Role, createProfile func(tx *repositories.Store, userID string) error) (*models.User, error) {
	email = normalizeEmail(email)

	// 1. Check if email already exists
	exists, err := s.store.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, domain.Internal(err, "failed to check email")
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	// 2. Hash password
	hashedPassword, err := password.Hash(plain)
	if err != nil {
		return nil, domain.Internal(err, "failed to hash password")
	}

	// 3. Create user + profile
	user := &models.User{
		Email:    email,
		Password: hashedPassword,
		Role:     string(role),
		IsActive: true,
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrUserAlreadyExists
			}
			return err
		}
		return createProfile(tx, user.ID)
	})
	if err != nil {
		if domain.KindOf(err) != domain.KindInternal {
			return nil, err
		}
		return nil, domain.Internal(err, "failed to create user")
	}

	logger.Infof("✅ User registered: %s (%s)", user.Email, user.Role)
	return user, nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by email
	user, err := s.store.Users.GetWithProfileByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.Internal(err, "failed to load user")
	}

	// 2. Verify password
	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Check if user is active
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	logger.Infof("✅ User logged in: %s", user.Email)
	return s.signIn(ctx, user)
}

// Refresh rotates a refresh token and issues a new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	// 1. Validate refresh token JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	// 2. Find the stored token by hash
	tokenHash := password.HashToken(refreshToken)
	stored, err := s.store.RefreshTokens.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenRevoked
		}
		return nil, domain.Internal(err, "failed to load refresh token")
	}
	if stored.UserID != claims.UserID {
		return nil, domain.ErrTokenInvalid
	}
	if stored.IsExpired(s.now()) {
		return nil, domain.ErrTokenExpired
	}

	// 3. Get user
	user, err := s.store.Users.GetWithProfile(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, domain.Internal(err, "failed to load user")
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// 4. Revoke old refresh token (Token Rotation); a concurrent refresh wins once
	n, err := s.store.RefreshTokens.RevokeByTokenHash(ctx, tokenHash, s.now())
	if err != nil {
		return nil, domain.Internal(err, "failed to revoke refresh token")
	}
	if n == 0 {
		return nil, domain.ErrTokenRevoked
	}

	return s.signIn(ctx, user)
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	if _, err := s.store.RefreshTokens.RevokeByTokenHash(ctx, password.HashToken(refreshToken), s.now()); err != nil {
		return domain.Internal(err, "failed to revoke refresh token")
	}

	logger.Infof("✅ User logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.store.RefreshTokens.RevokeAllByUserID(ctx, userID, s.now()); err != nil {
		return domain.Internal(err, "failed to revoke sessions")
	}

	logger.Infof("✅ All sessions revoked for user ID: %s", userID)
	return nil
}

// Me returns the caller with its role-specific profile
func (s *AuthService) Me(ctx context.Context, userID string) (*models.UserResponse, error) {
	user, err := s.store.Users.GetWithProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal(err, "failed to load user")
	}
	return user.ToResponse(), nil
}

// Authenticate verifies an access token and re-validates the user behind it.
// The user must still exist, be active and hold the role the token claims.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.Identity, error) {
	claims, err := jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.store.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, domain.Internal(err, "failed to load user")
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	if user.Role != claims.Role {
		return nil, domain.ErrRoleMismatch
	}

	return &domain.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   domain.Role(user.Role),
	}, nil
}

// signIn issues a token pair and stores the hashed refresh token
func (s *AuthService) signIn(ctx context.Context, user *models.User) (*AuthResponse, error) {
	// Generate access token
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.AccessTokenTTL(),
	)
	if err != nil {
		return nil, domain.Internal(err, "failed to sign access token")
	}

	// Generate unique token ID
	tokenID := uuid.NewString()

	// Generate refresh token
	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.RefreshTokenTTL(),
	)
	if err != nil {
		return nil, domain.Internal(err, "failed to sign refresh token")
	}

	// Store refresh token
	token := &models.RefreshToken{
		ID:        tokenID,
		UserID:    user.ID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: s.now().Add(s.cfg.RefreshTokenTTL()),
	}
	if err := s.store.RefreshTokens.Create(ctx, token); err != nil {
		return nil, domain.Internal(err, "failed to store refresh token")
	}

	return &AuthResponse{
		User: user.ToResponse(),
		TokenPair: TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.cfg.AccessTokenTTL().Seconds()),
		},
	}, nil
}

func freeSubscription() models.Subscription {
	return models.Subscription{
		SubscriptionPlan:   string(domain.PlanFree),
		SubscriptionStatus: string(domain.SubscriptionActive),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func utcNow() time.Time {
	return time.Now().UTC()
}
