package middleware

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAudience is the aud claim the auth server puts on user sessions.
const DefaultAudience = "authenticated"

// SessionClaims is what the services read from a validated access token.
type SessionClaims struct {
	Subject string
	Role    string
	Email   string
}

// ValidateToken checks the HS256 signature against secret, the expiry and, when
// audience is non-empty, the aud claim. The subject is mandatory.
func ValidateToken(tokenString string, secret []byte, audience string) (*SessionClaims, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("missing subject claim")
	}

	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)
	return &SessionClaims{Subject: sub, Role: role, Email: email}, nil
}
