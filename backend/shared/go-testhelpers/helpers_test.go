package testhelpers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/campusforma/mono-repo/backend/shared/go-middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalHelper(t *testing.T) *TestHelper {
	return &TestHelper{
		T:         t,
		Ctx:       context.Background(),
		BaseURL:   "http://localhost:8080",
		JWTSecret: []byte("integration-secret"),
		AppName:   "attendance-service",
	}
}

func TestSessionJWTIsAcceptedByMiddleware(t *testing.T) {
	h := newLocalHelper(t)
	userID := uuid.New()

	claims, err := middleware.ValidateToken(h.CreateSessionJWT(userID), h.JWTSecret, middleware.DefaultAudience)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "authenticated", claims.Role)
}

func TestExpiredJWTIsRejected(t *testing.T) {
	h := newLocalHelper(t)

	_, err := middleware.ValidateToken(h.CreateExpiredJWT(uuid.New()), h.JWTSecret, middleware.DefaultAudience)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestBuildAuthRequest(t *testing.T) {
	h := newLocalHelper(t)

	req := h.BuildAuthRequest(http.MethodPost, h.URL("/api/v1/attendance/submit"), "tok", []byte(`{}`), false)
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "http://localhost:8080/api/v1/attendance/submit", req.URL.String())

	req = h.BuildAuthRequest(http.MethodGet, h.URL("/api/v1/attendance/rate-limit"), "tok", nil, true)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Empty(t, req.Header.Get("Content-Type"))
	cookie, err := req.Cookie(middleware.AccessTokenCookieName)
	require.NoError(t, err)
	assert.Equal(t, "tok", cookie.Value)
}
