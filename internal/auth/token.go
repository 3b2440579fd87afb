// Package auth issues and verifies operator tokens for the moderation dashboard.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNotOperator  = errors.New("caller is not an authorized operator")
)

// Claims are carried in operator tokens
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier signs and checks HS256 operator tokens
type Verifier struct {
	secret       []byte
	operatorRole string
	ttl          time.Duration
}

// NewVerifier creates a Verifier for the given secret and operator role
func NewVerifier(secret, operatorRole string, ttl time.Duration) *Verifier {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Verifier{
		secret:       []byte(secret),
		operatorRole: operatorRole,
		ttl:          ttl,
	}
}

// Issue creates a signed operator token for subject
func (v *Verifier) Issue(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	now := time.Now()
	claims := &Claims{
		Role: v.operatorRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Parse validates a token and returns its claims
func (v *Verifier) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IsOperator reports whether the token belongs to an authorized operator
func (v *Verifier) IsOperator(tokenString string) (*Claims, error) {
	claims, err := v.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Role != v.operatorRole {
		return nil, ErrNotOperator
	}
	return claims, nil
}
