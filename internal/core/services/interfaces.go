package services

import (
	"context"

	"pharmalink-api/internal/core/domain"
)

// Authenticator verifies an access token and returns the caller it belongs to
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.Identity, error)
}

// FeatureChecker decides whether the caller's plan includes a feature
type FeatureChecker interface {
	CheckFeature(ctx context.Context, id domain.Identity, feature string) error
}

var (
	_ Authenticator  = (*AuthService)(nil)
	_ FeatureChecker = (*SubscriptionService)(nil)
)
