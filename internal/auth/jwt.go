// Package auth issues and validates the bearer tokens that gate the waitlist API.
//
// The token is a long-lived HS256 JWT with a role claim, the same shape as a hosted
// "anon key". It is a shared credential: anyone holding it can call every endpoint.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
	ErrUnknownRole  = errors.New("unknown token role")
)

// Roles accepted in the role claim.
const (
	RoleAnon    = "anon"
	RoleService = "service_role"
)

// Issuer is stamped on every token this package generates.
const Issuer = "waitlist"

// JWTManager handles JWT token generation and validation.
type JWTManager struct {
	secretKey []byte
}

// Claims represents the custom JWT claims carried by an API key.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a new JWT manager with the given secret.
// secretKey should be a strong random string (e.g., 32 bytes).
func NewJWTManager(secretKey string) *JWTManager {
	return &JWTManager{secretKey: []byte(secretKey)}
}

// Generate creates a token for role that stays valid for ttl.
func (m *JWTManager) Generate(role string, ttl time.Duration) (string, error) {
	if !validRole(role) {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate parses and validates a token, returning the claims if valid.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !validRole(claims.Role) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrUnknownRole)
	}

	return claims, nil
}

func validRole(role string) bool {
	return role == RoleAnon || role == RoleService
}
