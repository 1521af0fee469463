package auth

import (
	"testing"
	"time"

	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-characters",
		Issuer: "bizledger-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	t.Run("round trip preserves claims", func(t *testing.T) {
		svc := newTestService()
		tenantID := uuid.New()
		userID := uuid.New()

		token, err := svc.Generate(tenantID, userID, "cashier", time.Hour)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, tenantID.String(), claims.TenantID)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "cashier", claims.Username)
		assert.Equal(t, "bizledger-test", claims.Issuer)
	})

	t.Run("claim UUID accessors parse back", func(t *testing.T) {
		svc := newTestService()
		tenantID := uuid.New()
		userID := uuid.New()

		token, err := svc.Generate(tenantID, userID, "", time.Hour)
		require.NoError(t, err)

		claims, err := svc.Validate(token)
		require.NoError(t, err)

		gotTenant, err := claims.GetTenantUUID()
		require.NoError(t, err)
		assert.Equal(t, tenantID, gotTenant)

		gotUser, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, userID, gotUser)
	})

	t.Run("remaining TTL is positive for a fresh token", func(t *testing.T) {
		svc := newTestService()

		token, err := svc.Generate(uuid.New(), uuid.New(), "", time.Hour)
		require.NoError(t, err)

		claims, err := svc.Validate(token)
		require.NoError(t, err)
		assert.Greater(t, claims.GetRemainingTTL(), 59*time.Minute)
	})
}

func TestJWTService_Validate_Errors(t *testing.T) {
	t.Run("rejects garbage token", func(t *testing.T) {
		svc := newTestService()

		claims, err := svc.Validate("not-a-token")

		assert.Nil(t, claims)
		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		svc := newTestService()

		token, err := svc.Generate(uuid.New(), uuid.New(), "", -time.Minute)
		require.NoError(t, err)

		claims, err := svc.Validate(token)

		assert.Nil(t, claims)
		assert.Equal(t, ErrExpiredToken, err)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret: "another-secret-key-with-32-characters!!",
			Issuer: "bizledger-test",
		})

		token, err := other.Generate(uuid.New(), uuid.New(), "", time.Hour)
		require.NoError(t, err)

		claims, err := newTestService().Validate(token)

		assert.Nil(t, claims)
		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("rejects token with wrong signing method", func(t *testing.T) {
		svc := newTestService()

		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
			TenantID: uuid.New().String(),
			UserID:   uuid.New().String(),
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		claims, err := svc.Validate(signed)

		assert.Nil(t, claims)
		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("rejects token missing tenant", func(t *testing.T) {
		svc := newTestService()

		now := time.Now()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			UserID: uuid.New().String(),
		})
		signed, err := token.SignedString([]byte("test-secret-key-at-least-32-characters"))
		require.NoError(t, err)

		claims, err := svc.Validate(signed)

		assert.Nil(t, claims)
		assert.Equal(t, ErrMissingTenantID, err)
	})

	t.Run("rejects token missing user", func(t *testing.T) {
		svc := newTestService()

		now := time.Now()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			TenantID: uuid.New().String(),
		})
		signed, err := token.SignedString([]byte("test-secret-key-at-least-32-characters"))
		require.NoError(t, err)

		claims, err := svc.Validate(signed)

		assert.Nil(t, claims)
		assert.Equal(t, ErrMissingUserID, err)
	})
}
