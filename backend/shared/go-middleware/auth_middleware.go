package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	ContextKeyUserID = contextKey("userID")
	ContextKeyRole   = contextKey("role")

	// AccessTokenCookieName is set by the web app next to the session it keeps in storage.
	AccessTokenCookieName = "sb-access-token"
)

// AuthMiddleware – for protected endpoints. If the token is missing or invalid, returns 401.
// The JWT is read from Authorization: Bearer ..., falling back to AccessTokenCookieName.
func AuthMiddleware(secret []byte, audience string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractAccessToken(r)
			if err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil,
				)
				return
			}

			claims, vErr := ValidateToken(tokenStr, secret, audience)
			if vErr != nil {
				if errors.Is(vErr, jwt.ErrTokenExpired) {
					utils.RespondErrorWithCode(
						w, http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token expired", nil, vErr,
					)
					return
				}
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil, vErr,
				)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// UserIDFromContext returns the authenticated subject, or "" outside AuthMiddleware.
func UserIDFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(ContextKeyUserID).(string)
	return sub
}

func withClaims(ctx context.Context, claims *SessionClaims) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, claims.Subject)
	return context.WithValue(ctx, ContextKeyRole, claims.Role)
}

// helper: Bearer header first, then the cookie
func extractAccessToken(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		if !strings.HasPrefix(h, "Bearer ") {
			return "", errors.New("malformed Authorization header")
		}
		return strings.TrimPrefix(h, "Bearer "), nil
	}

	c, err := r.Cookie(AccessTokenCookieName)
	if err != nil || c.Value == "" {
		return "", errors.New("missing access token")
	}
	return c.Value, nil
}
