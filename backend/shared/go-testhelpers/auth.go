package testhelpers

import (
	"time"

	"github.com/campusforma/mono-repo/backend/shared/go-middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// CreateSessionJWT signs a session token the way the auth backend does for a logged-in trainee.
func (h *TestHelper) CreateSessionJWT(userID uuid.UUID) string {
	return h.signSession(userID, 15*time.Minute)
}

// CreateExpiredJWT signs a session token that expired a minute ago.
func (h *TestHelper) CreateExpiredJWT(userID uuid.UUID) string {
	return h.signSession(userID, -time.Minute)
}

func (h *TestHelper) signSession(userID uuid.UUID, ttl time.Duration) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"aud":  middleware.DefaultAudience,
		"role": "authenticated",
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.JWTSecret)
	require.NoError(h.T, err, "Failed to sign test session JWT")
	return signed
}
