package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestAccessToken(t *testing.T) {
	valid, err := GenerateAccessToken("u-1", "a@b.c", "PHARMACIST", secret, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateAccessToken("u-1", "a@b.c", "PHARMACIST", secret, -time.Hour)
	require.NoError(t, err)
	foreign, err := GenerateAccessToken("u-1", "a@b.c", "PHARMACIST", "other-secret", time.Hour)
	require.NoError(t, err)

	none := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{UserID: "u-1", Role: "ADMIN"})
	unsigned, err := none.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "Valid Token", token: valid},
		{name: "Expired Token", token: expired, wantErr: ErrTokenExpired},
		{name: "Wrong Secret", token: foreign, wantErr: ErrTokenInvalid},
		{name: "Unsigned Token", token: unsigned, wantErr: ErrTokenInvalid},
		{name: "Garbage", token: "invalid.token.string", wantErr: ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateAccessToken(tt.token, secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u-1", claims.UserID)
			assert.Equal(t, "a@b.c", claims.Email)
			assert.Equal(t, "PHARMACIST", claims.Role)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	token, err := GenerateRefreshToken("u-1", "tok-1", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "tok-1", claims.TokenID)

	// an access token is not a refresh token
	access, err := GenerateAccessToken("u-1", "a@b.c", "ADMIN", secret, time.Hour)
	require.NoError(t, err)
	_, err = ValidateRefreshToken(access, secret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
